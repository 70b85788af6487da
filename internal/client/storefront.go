package client

import (
	"context"
	"fmt"
	"time"

	"gorodskoybaton/bot/internal/config"
	"gorodskoybaton/bot/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// StorefrontClient fetches the live catalog from the bakery storefront.
type StorefrontClient interface {
	FetchCatalog(ctx context.Context) (*domain.Catalog, error)
}

type storefrontClient struct {
	rl         ratelimit.Limiter
	config     config.SiteConfig
	baseURL    string
	httpClient *resty.Client
	parser     *catalogParser
}

// NewStorefrontClient builds a throttled HTTP client for the storefront.
func NewStorefrontClient(cfg config.SiteConfig) StorefrontClient {
	httpClient := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(2*time.Second).
		SetRetryMaxWaitTime(10*time.Second).
		SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36").
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "ru-RU,ru;q=0.9,en;q=0.5")

	rps := cfg.MaxRequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	return &storefrontClient{
		rl:         ratelimit.New(rps),
		config:     cfg,
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		parser:     newCatalogParser(cfg.Categories),
	}
}

// FetchCatalog downloads the storefront page and parses every configured
// category out of it. This is the slow path: it may take tens of seconds
// and must never run on the chat-handling path.
func (c *storefrontClient) FetchCatalog(ctx context.Context) (*domain.Catalog, error) {
	html, err := c.fetchHTML(ctx, c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch storefront page: %w", err)
	}

	catalog, err := c.parser.ParseCatalog(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse storefront page: %w", err)
	}

	log.Infof("Fetched catalog: %d categories", len(catalog.Categories))
	return catalog, nil
}

func (c *storefrontClient) fetchHTML(ctx context.Context, url string) (string, error) {
	c.rl.Take()

	reqCtx, cancel := context.WithTimeout(ctx, 90*time.Second)
	defer cancel()

	resp, err := c.httpClient.R().
		SetContext(reqCtx).
		Get(url)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	return resp.String(), nil
}
