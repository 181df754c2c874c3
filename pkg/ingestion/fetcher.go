package ingestion

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"hr-helpdesk-be/internal/pkg/logger"

	"github.com/sethvargo/go-retry"
)

const userAgent = "HRHelpdesk-RAG/1.0"

// maxPageBytes caps how much of a response body is read.
const maxPageBytes = 8 << 20

// Fetcher downloads source pages with a fixed number of attempts and a
// constant delay between them.
type Fetcher struct {
	client   *http.Client
	attempts int
	backoff  time.Duration
	logger   logger.ILogger
}

func NewFetcher(client *http.Client, attempts int, backoff time.Duration, log logger.ILogger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if attempts < 1 {
		attempts = 1
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Fetcher{
		client:   client,
		attempts: attempts,
		backoff:  backoff,
		logger:   log,
	}
}

// Fetch returns the body of url. Once every attempt failed it returns an
// error wrapping ErrFetchExhausted.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var body string
	attempt := 0

	b := retry.WithMaxRetries(uint64(f.attempts-1), retry.NewConstant(f.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		text, err := f.get(ctx, url)
		if err != nil {
			f.logger.Warn("ingestion", "Fetch failed", map[string]interface{}{
				"url":     url,
				"attempt": attempt,
				"of":      f.attempts,
				"error":   err.Error(),
			})
			return retry.RetryableError(err)
		}
		body = text
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrFetchExhausted, url, err)
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(data), nil
}
