package httpclient

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"PropSync/internal/config"

	"github.com/sirupsen/logrus"
)

// Client wraps http.Client with bounded-retry exponential backoff. A request
// that fails after all retries is a provider fetch failure for its task only,
// never for the whole ingestion run.
type Client struct {
	http      *http.Client
	retries   int
	authToken string
	logger    *logrus.Logger
}

// New builds the shared provider HTTP client (proxy, per-request timeout,
// transparent gzip). The timeout comes from provider config so no fetch can
// block an ingestion worker indefinitely.
func New(cfg *config.ProviderConfig, logger *logrus.Logger) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			logger.WithError(err).WithField("proxy", cfg.Proxy).Warn("bad proxy address, continuing without proxy")
		} else {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retries := cfg.RetryCount
	if retries < 0 {
		retries = 0
	}

	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: &compressedTransport{transport: transport, logger: logger},
		},
		retries:   retries,
		authToken: cfg.AuthToken,
		logger:    logger,
	}
}

// GetJSON fetches rawURL and decodes the body into out, retrying transient
// failures (network errors, timeouts, 5xx, 429) with exponential backoff.
// Non-retriable statuses fail immediately.
func (c *Client) GetJSON(ctx context.Context, rawURL string, out interface{}) error {
	backoff := 500 * time.Millisecond
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		err := c.getOnce(ctx, rawURL, out)
		if err == nil {
			return nil
		}
		lastErr = err
		var te *transientError
		if !errors.As(err, &te) {
			return err
		}
		c.logger.WithError(err).WithFields(logrus.Fields{
			"url":     rawURL,
			"attempt": attempt + 1,
		}).Warn("fetch failed, will retry")
	}
	return fmt.Errorf("exhausted %d retries: %w", c.retries, lastErr)
}

func (c *Client) getOnce(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	if c.authToken != "" {
		req.Header.Set("X-Api-Key", c.authToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &transientError{err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return &transientError{fmt.Errorf("http %d from %s", resp.StatusCode, rawURL)}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http %d from %s", resp.StatusCode, rawURL)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", rawURL, err)
	}
	return nil
}

type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// compressedTransport advertises and transparently decodes gzip bodies.
type compressedTransport struct {
	transport http.RoundTripper
	logger    *logrus.Logger
}

func (c *compressedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Add("Accept-Encoding", "gzip")
	resp, err := c.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			c.logger.WithError(err).Warn("gzip decode failed, returning raw body")
			return resp, nil
		}
		resp.Body = &gzipReadCloser{Reader: gzReader, closer: resp.Body}
		resp.Header.Del("Content-Encoding")
	}
	return resp, nil
}

type gzipReadCloser struct {
	*gzip.Reader
	closer io.ReadCloser
}

func (g *gzipReadCloser) Close() error {
	if err := g.Reader.Close(); err != nil {
		return err
	}
	return g.closer.Close()
}
