package spoonacular

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"recipe-finder/internal/core/domain"
	"recipe-finder/internal/core/provider"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL Spoonacular API
	DefaultBaseURL = "https://api.spoonacular.com"

	providerName = string(domain.ProviderSpoonacular)
)

// Config Spoonacular 客戶端設定
type Config struct {
	APIKey    string
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// RequestsPerSecond <= 0 表示不限速
	RequestsPerSecond float64
	Burst             int
}

// Client Spoonacular 食材搜尋與食譜查詢
type Client struct {
	http    *resty.Client
	apiKey  string
	limiter *rate.Limiter
}

// NewClient 創建 Spoonacular 客戶端
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		http: provider.NewRESTClient(provider.Options{
			BaseURL:   cfg.BaseURL,
			Timeout:   cfg.Timeout,
			UserAgent: cfg.UserAgent,
		}),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Name 供應商名稱
func (c *Client) Name() domain.ProviderName {
	return domain.ProviderSpoonacular
}

// LanguageSensitive Spoonacular 只接受英文查詢
func (c *Client) LanguageSensitive() bool {
	return true
}

// Configured 是否已設定 API 金鑰
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// get 送出 GET 請求，金鑰缺失時不發出任何網路請求
func (c *Client) get(ctx context.Context, operation, path string, params map[string]string) (*resty.Response, error) {
	if !c.Configured() {
		return nil, domain.ErrMissingCredential
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, domain.NewProviderError(providerName, domain.KindNetwork, 0, fmt.Errorf("rate limiter: %w", err))
	}

	return provider.Execute(providerName, operation, func() (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetQueryParam("apiKey", c.apiKey).
			Get(path)
	})
}

// Search 搜尋食材
func (c *Client) Search(ctx context.Context, query string, page, pageSize int) (*domain.SearchResult, error) {
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}

	resp, err := c.get(ctx, "ingredient_search", "/food/ingredients/search", map[string]string{
		"query":           query,
		"number":          strconv.Itoa(pageSize),
		"offset":          strconv.Itoa(offset),
		"metaInformation": "true",
	})
	if err != nil {
		return nil, fmt.Errorf("search ingredients: %w", err)
	}

	var body ingredientSearchResponse
	if err := provider.Decode(providerName, resp, &body); err != nil {
		return nil, fmt.Errorf("search ingredients: %w", err)
	}

	return toSearchResult(body, page, pageSize), nil
}

// FindByIngredients 依食材搜尋食譜，分數由呼叫端計算
func (c *Client) FindByIngredients(ctx context.Context, names []string, limit int, mode domain.RankingMode) ([]domain.RecipeSummary, error) {
	resp, err := c.get(ctx, "find_by_ingredients", "/recipes/findByIngredients", map[string]string{
		"ingredients":  strings.Join(names, ","),
		"number":       strconv.Itoa(limit),
		"ranking":      strconv.Itoa(int(mode)),
		"ignorePantry": "true",
	})
	if err != nil {
		return nil, fmt.Errorf("find recipes by ingredients: %w", err)
	}

	return toRecipeSummaries(resp.Body())
}

// GetRecipeDetail 取得食譜詳情
func (c *Client) GetRecipeDetail(ctx context.Context, id string) (*domain.RecipeDetail, error) {
	path := fmt.Sprintf("/recipes/%s/information", url.PathEscape(id))
	resp, err := c.get(ctx, "recipe_information", path, map[string]string{
		"includeNutrition": "false",
	})
	if err != nil {
		return nil, fmt.Errorf("get recipe %s: %w", id, err)
	}

	var body recipeInformation
	if err := provider.Decode(providerName, resp, &body); err != nil {
		return nil, fmt.Errorf("get recipe %s: %w", id, err)
	}

	return toRecipeDetail(body), nil
}
