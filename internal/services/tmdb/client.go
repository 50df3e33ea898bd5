// Package tmdb wraps the TMDB HTTP API behind the shapes the pipeline
// needs: title search with year disambiguation, full detail retrieval
// normalized across movies and shows, per-episode overlays and image
// downloads. All lookups fail soft: a network or API problem is logged
// and surfaces to the caller as an absent result, never an abort.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
	defaultLanguage     = "zh-CN"

	requestTimeout      = 10 * time.Second
	connectivityTimeout = 5 * time.Second
	imageTimeout        = 20 * time.Second
	maxRetries          = 2
)

// Client wraps direct TMDB API HTTP calls.
// Metadata lookups are cached for the client's lifetime keyed by
// (title, year, api key, media type); the cache is shared safely by
// concurrent workers and duplicate in-flight fetch races are tolerated.
type Client struct {
	baseURL      string
	imageBaseURL string
	language     string
	httpClient   *http.Client
	cache        *cache.Cache
	logger       *logrus.Logger
}

// Option adjusts client construction
type Option func(*Client)

// WithBaseURL overrides the API base URL (used by tests)
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithImageBaseURL overrides the image base URL
func WithImageBaseURL(u string) Option {
	return func(c *Client) { c.imageBaseURL = u }
}

// WithLanguage overrides the preferred metadata language
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = lang }
}

// NewClient creates a new TMDB client
func NewClient(logger *logrus.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:      defaultBaseURL,
		imageBaseURL: defaultImageBaseURL,
		language:     defaultLanguage,
		httpClient:   &http.Client{Timeout: requestTimeout},
		cache:        cache.New(cache.NoExpiration, 0),
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// doGet performs a GET against the API and decodes the JSON response.
// Transient failures (network errors, 5xx) are retried with exponential
// backoff; client errors such as a bad API key are permanent.
func (c *Client) doGet(ctx context.Context, path string, params url.Values, result interface{}) error {
	fullURL := c.baseURL + path + "?" + params.Encode()

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("API returned status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return backoff.Permanent(fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body)))
		}

		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	return backoff.Retry(operation, policy)
}

// CheckConnectivity verifies the API is reachable and the key valid.
// It is a fast pre-flight gate, short timeout, no retries, non-throwing.
func (c *Client) CheckConnectivity(ctx context.Context, apiKey string) bool {
	if apiKey == "" {
		c.logger.Warn("No TMDB API key provided, cannot check connectivity")
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, connectivityTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("api_key", apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/configuration?"+params.Encode(), nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("TMDB connectivity check failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status", resp.StatusCode).Error("TMDB rejected the API key")
		return false
	}

	c.logger.Debug("TMDB connection OK, API key valid")
	return true
}

// DownloadImage resolves a catalog-relative image path against the
// image base URL and streams it to destPath. The request is skipped
// entirely when the destination file already exists.
func (c *Client) DownloadImage(ctx context.Context, relPath, destPath string) error {
	if relPath == "" {
		return nil
	}
	if _, err := os.Stat(destPath); err == nil {
		c.logger.WithField("path", destPath).Debug("Image already exists, skipping download")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, imageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.imageBaseURL+relPath, nil)
	if err != nil {
		return fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("image download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image download returned status %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(destPath)
		return fmt.Errorf("failed to write image file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(destPath)
		return err
	}

	c.logger.WithField("path", destPath).Info("Downloaded image")
	return nil
}
