package bootstrap

import (
	"fmt"
	"net/http"
	"time"

	"hr-helpdesk-be/internal/config"
	"hr-helpdesk-be/internal/pkg/logger"
	"hr-helpdesk-be/pkg/embedding"
	"hr-helpdesk-be/pkg/ingestion"
	"hr-helpdesk-be/pkg/vectorindex"

	"gorm.io/gorm"
)

const fetchTimeout = 30 * time.Second

// NewEmbeddingGateway builds the configured embedding backend behind the
// batching gateway.
func NewEmbeddingGateway(cfg *config.Config, log logger.ILogger) (*embedding.Gateway, error) {
	var provider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	case "openai", "":
		p, err := embedding.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.OpenAIBaseURL, cfg.Ai.EmbeddingModel)
		if err != nil {
			return nil, fmt.Errorf("embedding provider: %w", err)
		}
		provider = p
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Ai.EmbeddingProvider)
	}

	log.Info("bootstrap", "Embedding provider selected", map[string]interface{}{
		"provider": cfg.Ai.EmbeddingProvider,
		"model":    cfg.Ai.EmbeddingModel,
	})
	return embedding.NewGateway(provider, cfg.Rag.EmbeddingBatchSize, cfg.Rag.EmbeddingDelay, log), nil
}

// NewIngestionPipeline wires the fetcher and chunker. Callers must Release it.
func NewIngestionPipeline(cfg *config.Config, log logger.ILogger) (*ingestion.Pipeline, error) {
	fetcher := ingestion.NewFetcher(
		&http.Client{Timeout: fetchTimeout},
		cfg.Rag.FetchAttempts,
		cfg.Rag.FetchBackoff,
		log,
	)
	return ingestion.NewPipeline(fetcher,
		ingestion.WithChunking(cfg.Rag.MaxChunkChars, cfg.Rag.OverlapChars, cfg.Rag.MinChunkChars),
		ingestion.WithLogger(log),
	)
}

// NewVectorIndex returns the configured backend. The pgvector backend needs db.
func NewVectorIndex(cfg *config.Config, db *gorm.DB) (vectorindex.Index, error) {
	switch cfg.Rag.IndexBackend {
	case "flat", "":
		return vectorindex.NewFlatIndex(cfg.Rag.IndexDir), nil
	case "pgvector":
		if db == nil {
			return nil, fmt.Errorf("pgvector index requires a database")
		}
		return vectorindex.NewPgVectorIndex(db, cfg.Rag.EmbeddingDim), nil
	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.Rag.IndexBackend)
	}
}

// NewIndexManager guards build-or-load of index. forceRebuild overrides the
// config flag when set.
func NewIndexManager(
	cfg *config.Config,
	index vectorindex.Index,
	pipeline *ingestion.Pipeline,
	gateway *embedding.Gateway,
	forceRebuild bool,
	log logger.ILogger,
) *vectorindex.Manager {
	build := vectorindex.CorpusBuilder(pipeline, gateway, cfg.Rag.SourceURLs)
	return vectorindex.NewManager(index, build, forceRebuild || cfg.Rag.ForceRebuild, log)
}
