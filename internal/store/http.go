package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// HTTP reads documents from a REST document API:
//
//	GET {base}/v1/collections/{collection}/documents/{id} -> document JSON
//	GET {base}/v1/collections/{collection}               -> {"ids": [...]}
type HTTP struct {
	docReader
	BaseURL string
	APIKey  string
	Client  *http.Client

	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

// NewHTTP creates an HTTP store with optional proxy support. Requests are
// rate limited to ratePerSec and guarded by a circuit breaker.
func NewHTTP(baseURL, apiKey, proxyURL string, timeout time.Duration, ratePerSec float64) *HTTP {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if ratePerSec <= 0 {
		ratePerSec = 5
	}

	h := &HTTP{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), 1),
	}
	h.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "document-store",
		Interval: 60 * time.Second,
		Timeout:  60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		// A missing document is an answer, not a failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})
	h.docReader = docReader{raw: h}
	return h
}

func (h *HTTP) Name() string { return "http" }

func (h *HTTP) base() string { return strings.TrimRight(h.BaseURL, "/") }

func (h *HTTP) get(ctx context.Context, collection, id string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/v1/collections/%s/documents/%s",
		h.base(), url.PathEscape(collection), url.PathEscape(id))
	return h.fetch(ctx, endpoint)
}

func (h *HTTP) ids(ctx context.Context, collection string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/v1/collections/%s", h.base(), url.PathEscape(collection))
	body, err := h.fetch(ctx, endpoint)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result struct {
		IDs []string `json:"ids"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode %s listing: %w", collection, err)
	}
	return result.IDs, nil
}

func (h *HTTP) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	out, err := h.breaker.Execute(func() (interface{}, error) {
		return h.do(ctx, endpoint)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("document store unavailable: %w", err)
		}
		return nil, err
	}
	return out.([]byte), nil
}

func (h *HTTP) do(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if h.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.APIKey)
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch document: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
