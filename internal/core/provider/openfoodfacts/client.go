package openfoodfacts

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"recipe-finder/internal/core/domain"
	"recipe-finder/internal/core/provider"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultBaseURL Open Food Facts 公開 API
	DefaultBaseURL = "https://world.openfoodfacts.org"
	// DefaultUserAgent Open Food Facts 要求帶有識別用的 User-Agent
	DefaultUserAgent = "FoodApp/1.0"

	providerName = string(domain.ProviderOpenFoodFacts)
	searchPath   = "/cgi/search.pl"
	searchFields = "code,product_name,product_name_fr,generic_name_fr,categories,categories_tags,image_front_url,image_front_small_url,image_url"
)

// Config Open Food Facts 客戶端設定
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client Open Food Facts 產品搜尋
type Client struct {
	http *resty.Client
}

// NewClient 創建 Open Food Facts 客戶端
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return &Client{
		http: provider.NewRESTClient(provider.Options{
			BaseURL:   cfg.BaseURL,
			Timeout:   cfg.Timeout,
			UserAgent: cfg.UserAgent,
		}),
	}
}

// Name 供應商名稱
func (c *Client) Name() domain.ProviderName {
	return domain.ProviderOpenFoodFacts
}

// LanguageSensitive Open Food Facts 接受原文查詢
func (c *Client) LanguageSensitive() bool {
	return false
}

// Search 依關鍵字搜尋產品
func (c *Client) Search(ctx context.Context, query string, page, pageSize int) (*domain.SearchResult, error) {
	resp, err := provider.Execute(providerName, "search", func() (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"search_terms":  query,
				"search_simple": "1",
				"action":        "process",
				"json":          "1",
				"page_size":     strconv.Itoa(pageSize),
				"page":          strconv.Itoa(page),
				"fields":        searchFields,
			}).
			Get(searchPath)
	})
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	var body searchResponse
	if err := provider.Decode(providerName, resp, &body); err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	return toSearchResult(body, page, pageSize), nil
}
