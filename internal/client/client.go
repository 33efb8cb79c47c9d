package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"recipe-finder/internal/core/domain"
	"recipe-finder/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL 本機 API 位址
const DefaultBaseURL = "http://localhost:8080/api/v1"

// APIError API 回傳的錯誤
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// RecipesResponse GET /recipes 的響應
type RecipesResponse struct {
	Recipes     []domain.RecipeSummary `json:"recipes"`
	Total       int                    `json:"total"`
	Ingredients []string               `json:"ingredients"`
	Source      domain.ProviderName    `json:"source"`
}

// ShoppingListResponse POST /recipes/:id/shopping-list 的響應
type ShoppingListResponse struct {
	Owned        []domain.DetailedIngredient `json:"owned"`
	Missing      []domain.DetailedIngredient `json:"missing"`
	ShoppingList domain.ShoppingList         `json:"shoppingList"`
	Source       domain.ProviderName         `json:"source"`
}

type recipeResponse struct {
	Recipe *domain.RecipeDetail `json:"recipe"`
	Source domain.ProviderName  `json:"source"`
}

type translateResponse struct {
	Success bool                      `json:"success"`
	Result  *domain.TranslationResult `json:"result"`
	Error   string                    `json:"error"`
}

// Client recipe-finder API 客戶端
type Client struct {
	http *resty.Client
}

// New 創建 API 客戶端
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

// SearchFoods 搜尋 Open Food Facts 產品
func (c *Client) SearchFoods(ctx context.Context, query string, page, limit int) (*domain.SearchResult, error) {
	return c.search(ctx, "/search", query, page, limit)
}

// SearchIngredients 搜尋食材（查詢會先翻譯）
func (c *Client) SearchIngredients(ctx context.Context, query string, page, limit int) (*domain.SearchResult, error) {
	return c.search(ctx, "/ingredients/search", query, page, limit)
}

func (c *Client) search(ctx context.Context, path, query string, page, limit int) (*domain.SearchResult, error) {
	params := map[string]string{"query": query}
	if page > 0 {
		params["page"] = strconv.Itoa(page)
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}

	var out domain.SearchResult
	if err := c.do(c.http.R().SetContext(ctx).SetQueryParams(params).SetResult(&out), "GET", path); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindRecipes 依擁有的食材搜尋食譜
func (c *Client) FindRecipes(ctx context.Context, ingredients []string, limit int, mode domain.RankingMode) (*RecipesResponse, error) {
	params := map[string]string{"ingredients": strings.Join(ingredients, ",")}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	if mode != 0 {
		params["ranking"] = strconv.Itoa(int(mode))
	}

	var out RecipesResponse
	if err := c.do(c.http.R().SetContext(ctx).SetQueryParams(params).SetResult(&out), "GET", "/recipes"); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRecipe 取得食譜詳情
func (c *Client) GetRecipe(ctx context.Context, id string) (*domain.RecipeDetail, error) {
	var out recipeResponse
	req := c.http.R().SetContext(ctx).SetPathParam("id", id).SetResult(&out)
	if err := c.do(req, "GET", "/recipes/{id}"); err != nil {
		return nil, err
	}
	return out.Recipe, nil
}

// ShoppingList 比對擁有的食材並產生購物清單
func (c *Client) ShoppingList(ctx context.Context, id string, owned []string, listID string) (*ShoppingListResponse, error) {
	var out ShoppingListResponse
	req := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetBody(map[string]interface{}{"owned": owned, "listId": listID}).
		SetResult(&out)
	if err := c.do(req, "POST", "/recipes/{id}/shopping-list"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Translate 翻譯文字
func (c *Client) Translate(ctx context.Context, text, from, to string) (*domain.TranslationResult, error) {
	var out translateResponse
	req := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"text": text, "fromLang": from, "toLang": to}).
		SetResult(&out).
		SetError(&out)
	resp, err := req.Post("/translate")
	if err != nil {
		return nil, err
	}
	if !out.Success || out.Result == nil {
		return nil, &APIError{Status: resp.StatusCode(), Message: out.Error}
	}
	return out.Result, nil
}

func (c *Client) do(req *resty.Request, method, path string) error {
	var apiErr common.ErrorResponse
	resp, err := req.SetError(&apiErr).Execute(method, path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		msg := apiErr.Error
		if msg == "" {
			msg = strings.TrimSpace(resp.Status())
		}
		return &APIError{Status: resp.StatusCode(), Code: apiErr.Code, Message: msg}
	}
	return nil
}
