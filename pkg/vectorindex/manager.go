package vectorindex

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hr-helpdesk-be/internal/pkg/logger"
	"hr-helpdesk-be/pkg/store"

	"golang.org/x/sync/singleflight"
)

// BuildFunc produces the corpus for a fresh build: row-aligned vectors and chunks.
type BuildFunc func(ctx context.Context) ([][]float32, []store.Chunk, error)

// ChunkSource produces chunks for a set of source URLs.
type ChunkSource interface {
	Run(ctx context.Context, urls []string) ([]store.Chunk, error)
}

// Embedder embeds texts in order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// CorpusBuilder chains ingestion and embedding into a BuildFunc.
func CorpusBuilder(source ChunkSource, embedder Embedder, urls []string) BuildFunc {
	return func(ctx context.Context) ([][]float32, []store.Chunk, error) {
		chunks, err := source.Run(ctx, urls)
		if err != nil {
			return nil, nil, err
		}
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Text
		}
		vectors, err := embedder.Embed(ctx, texts)
		if err != nil {
			return nil, nil, err
		}
		return vectors, chunks, nil
	}
}

// Manager owns the index lifecycle. The first Get builds or loads the index;
// concurrent first callers share that single run.
type Manager struct {
	index        Index
	build        BuildFunc
	forceRebuild bool
	logger       logger.ILogger

	group singleflight.Group
	mu    sync.RWMutex
	ready bool
}

func NewManager(index Index, build BuildFunc, forceRebuild bool, log logger.ILogger) *Manager {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Manager{
		index:        index,
		build:        build,
		forceRebuild: forceRebuild,
		logger:       log,
	}
}

// Get returns the initialized index. A failed initialization is not cached,
// so a later call tries again.
func (m *Manager) Get(ctx context.Context) (Index, error) {
	if m.Ready() {
		return m.index, nil
	}

	_, err, _ := m.group.Do("index", func() (interface{}, error) {
		if m.Ready() {
			return nil, nil
		}
		if err := m.initialize(ctx); err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.ready = true
		m.mu.Unlock()
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return m.index, nil
}

// Ready reports whether the index has been built or loaded.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ready
}

func (m *Manager) initialize(ctx context.Context) error {
	start := time.Now()

	if !m.forceRebuild && m.index.Exists(ctx) {
		if err := m.index.Load(ctx); err != nil {
			m.logger.Error("vectorindex", "Failed to load index", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}
		m.logger.Info("vectorindex", "Index loaded", map[string]interface{}{
			"rows":     m.index.Len(),
			"duration": time.Since(start).String(),
		})
		return nil
	}

	if m.build == nil {
		return fmt.Errorf("vectorindex: no persisted index and no builder configured")
	}

	m.logger.Info("vectorindex", "Building index", map[string]interface{}{
		"forced": m.forceRebuild,
	})

	vectors, chunks, err := m.build(ctx)
	if err != nil {
		return fmt.Errorf("build corpus: %w", err)
	}
	if err := m.index.Build(ctx, vectors, chunks); err != nil {
		return err
	}
	if err := m.index.Save(ctx); err != nil {
		return err
	}

	m.logger.Info("vectorindex", "Index built", map[string]interface{}{
		"rows":     m.index.Len(),
		"duration": time.Since(start).String(),
	})
	return nil
}
