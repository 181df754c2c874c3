package ingestion

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"hr-helpdesk-be/internal/pkg/logger"
	"hr-helpdesk-be/pkg/store"

	"github.com/panjf2000/ants/v2"
)

// PageFetcher downloads one source page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Pipeline turns source URLs into overlapping, deterministic chunks.
type Pipeline struct {
	fetcher       PageFetcher
	pool          *ants.Pool
	maxChunkChars int
	overlapChars  int
	minChunkChars int
	logger        logger.ILogger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets how many pages are fetched concurrently. Default is 4.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithChunking overrides the window, overlap and minimum chunk length.
func WithChunking(maxChars, overlap, minChars int) Option {
	return func(p *Pipeline) error {
		if maxChars <= 0 || overlap < 0 || overlap >= maxChars {
			return ErrInvalidChunking
		}
		p.maxChunkChars = maxChars
		p.overlapChars = overlap
		p.minChunkChars = minChars
		return nil
	}
}

func WithLogger(log logger.ILogger) Option {
	return func(p *Pipeline) error {
		if log != nil {
			p.logger = log
		}
		return nil
	}
}

func NewPipeline(fetcher PageFetcher, opts ...Option) (*Pipeline, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("ingestion: fetcher is required")
	}

	pool, err := ants.NewPool(4)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		fetcher:       fetcher,
		pool:          pool,
		maxChunkChars: 350,
		overlapChars:  60,
		minChunkChars: 30,
		logger:        logger.NewNopLogger(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Release stops the worker pool.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

type pageResult struct {
	body string
	err  error
}

// Run fetches every url and returns their chunks in url order. A single failed
// fetch fails the whole run, so an index is never built from a partial corpus.
func (p *Pipeline) Run(ctx context.Context, urls []string) ([]store.Chunk, error) {
	results := make([]pageResult, len(urls))

	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		i, url := i, url
		err := p.pool.Submit(func() {
			defer wg.Done()
			body, err := p.fetcher.Fetch(ctx, url)
			results[i] = pageResult{body: body, err: err}
		})
		if err != nil {
			wg.Done()
			results[i] = pageResult{err: fmt.Errorf("submit fetch for %s: %w", url, err)}
		}
	}
	wg.Wait()

	var chunks []store.Chunk
	for i, url := range urls {
		if results[i].err != nil {
			return nil, results[i].err
		}

		text, err := CleanHTML(results[i].body)
		if err != nil {
			return nil, fmt.Errorf("clean %s: %w", url, err)
		}

		pageChunks := p.MakeChunks(url, text)
		p.logger.Info("ingestion", "Page chunked", map[string]interface{}{
			"url":    url,
			"chunks": len(pageChunks),
		})
		chunks = append(chunks, pageChunks...)
	}

	if len(chunks) == 0 {
		return nil, ErrNoDocuments
	}
	return chunks, nil
}

// MakeChunks cuts cleaned text into section-scoped chunks. Section indexes
// count every section, including ones whose chunks were all too short, so ids
// stay stable when a small section changes.
func (p *Pipeline) MakeChunks(url, text string) []store.Chunk {
	var chunks []store.Chunk
	for si, section := range SplitSections(text) {
		for ci, piece := range SplitText(section.Body, p.maxChunkChars, p.overlapChars) {
			if utf8.RuneCountInString(strings.TrimSpace(piece)) < p.minChunkChars {
				continue
			}
			chunks = append(chunks, store.Chunk{
				ID:         ChunkID(url, si, ci),
				SourceURL:  url,
				Section:    section.Title,
				ChunkIndex: ci,
				Text:       piece,
			})
		}
	}
	return chunks
}

// ChunkID builds the deterministic chunk identifier url::sec<i>::chunk<j>.
func ChunkID(url string, section, chunk int) string {
	return fmt.Sprintf("%s::sec%d::chunk%d", url, section, chunk)
}
