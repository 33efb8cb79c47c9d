package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"recipe-finder/internal/core/cache"
	"recipe-finder/internal/core/domain"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/core/search"
	"recipe-finder/internal/core/translation"
	"recipe-finder/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeSearchProvider struct {
	name      domain.ProviderName
	sensitive bool
	result    *domain.SearchResult
	err       error
	queries   []string
	sizes     []int
}

func (f *fakeSearchProvider) Name() domain.ProviderName { return f.name }
func (f *fakeSearchProvider) LanguageSensitive() bool    { return f.sensitive }

func (f *fakeSearchProvider) Search(_ context.Context, query string, page, pageSize int) (*domain.SearchResult, error) {
	f.queries = append(f.queries, query)
	f.sizes = append(f.sizes, pageSize)
	if f.err != nil {
		return nil, f.err
	}
	r := *f.result
	r.Page, r.PageSize = page, pageSize
	return &r, nil
}

type fakeRecipeProvider struct {
	summaries []domain.RecipeSummary
	detail    *domain.RecipeDetail
	err       error
	names     []string
}

func (f *fakeRecipeProvider) FindByIngredients(_ context.Context, names []string, _ int, _ domain.RankingMode) ([]domain.RecipeSummary, error) {
	f.names = names
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.RecipeSummary(nil), f.summaries...), nil
}

func (f *fakeRecipeProvider) GetRecipeDetail(_ context.Context, _ string) (*domain.RecipeDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	d := *f.detail
	return &d, nil
}

type fakeTranslationProvider struct {
	text string
	err  error
}

func (f *fakeTranslationProvider) Name() domain.TranslationSource { return domain.TranslationMyMemory }

func (f *fakeTranslationProvider) Translate(_ context.Context, _, _, _ string) (domain.TranslationResult, error) {
	if f.err != nil {
		return domain.TranslationResult{}, f.err
	}
	return domain.TranslationResult{TranslatedText: f.text, Confidence: 0.9, Provenance: domain.TranslationMyMemory}, nil
}

type testEnv struct {
	router      *gin.Engine
	products    *fakeSearchProvider
	ingredients *fakeSearchProvider
	recipes     *fakeRecipeProvider
}

func testConfig() *config.Config {
	return &config.Config{
		App:         config.AppConfig{Env: "production", Version: "test"},
		Server:      config.ServerConfig{RequestTimeout: 5 * time.Second, MaxBodyBytes: 1 << 20},
		CORS:        config.CORSConfig{AllowedOrigins: []string{"*"}},
		Translation: config.TranslationConfig{SourceLang: "fr", TargetLang: "en", MinConfidence: 0.3},
		DedupWindow: time.Second,
	}
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()

	env := &testEnv{
		products: &fakeSearchProvider{
			name: domain.ProviderOpenFoodFacts,
			result: &domain.SearchResult{
				Items:      []domain.FoodItem{{Name: "Pomme", Source: domain.FoodSource{Provider: domain.ProviderOpenFoodFacts, ExternalID: "1"}}},
				TotalCount: 1,
				Provider:   domain.ProviderOpenFoodFacts,
			},
		},
		ingredients: &fakeSearchProvider{
			name:      domain.ProviderSpoonacular,
			sensitive: true,
			result: &domain.SearchResult{
				Items:      []domain.FoodItem{{Name: "apple", Source: domain.FoodSource{Provider: domain.ProviderSpoonacular, ExternalID: "9003"}}},
				TotalCount: 1,
				Provider:   domain.ProviderSpoonacular,
			},
		},
		recipes: &fakeRecipeProvider{
			summaries: []domain.RecipeSummary{
				{ID: "1", Title: "Salad", UsedCount: 1, MissedCount: 3},
				{ID: "2", Title: "Pizza", UsedCount: 2, MissedCount: 1},
			},
			detail: &domain.RecipeDetail{
				ID:    "42",
				Title: "Tomato Tart",
				Ingredients: []domain.DetailedIngredient{
					{RawName: "tomatoes", CleanedName: "tomato", Amount: 3},
					{RawName: "cheddar cheese", Amount: 100, Unit: "g"},
				},
				Instructions: []string{"Bake."},
			},
		},
	}

	mem := cache.NewMemory()
	translator := translation.NewService(mem, &fakeTranslationProvider{text: "apple"})
	searchCfg := search.Config{SourceLang: "fr", TargetLang: "en", MinConfidence: 0.3}

	productCfg := searchCfg
	productCfg.DefaultPageSize = 20
	ingredientCfg := searchCfg
	ingredientCfg.DefaultPageSize = 10

	deps := &Dependencies{
		Products:    search.NewService(env.products, nil, productCfg),
		Ingredients: search.NewService(env.ingredients, translator, ingredientCfg),
		Recipes:     recipe.NewService(env.recipes),
		Translator:  translator,
		CacheStats:  mem,
		Providers:   map[string]bool{"openfoodfacts": true, "spoonacular": true},
		cache:       mem,
	}

	router, err := SetupRouter(cfg, deps)
	require.NoError(t, err)
	env.router = router
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func TestSetupRouter_RequiresDependencies(t *testing.T) {
	_, err := SetupRouter(testConfig(), &Dependencies{})
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t, testConfig())

	w, body := env.do(t, http.MethodGet, "/api/v1/search?query=%20pomme%20", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "openfoodfacts", body["source"])
	assert.EqualValues(t, 20, body["limit"])
	assert.EqualValues(t, 1, body["page"])
	assert.Len(t, body["foods"], 1)
	assert.NotContains(t, body, "searchInfo")
	assert.Equal(t, []string{"pomme"}, env.products.queries)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSearch_Validation(t *testing.T) {
	env := newTestEnv(t, testConfig())

	tests := []struct {
		name string
		path string
	}{
		{"empty query", "/api/v1/search?query=%20%20"},
		{"missing query", "/api/v1/search"},
		{"limit too large", "/api/v1/search?query=pomme&limit=101"},
		{"non numeric page", "/api/v1/search?query=pomme&page=abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := env.do(t, http.MethodGet, tt.path, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "INVALID_REQUEST", body["code"])
		})
	}
	assert.Empty(t, env.products.queries, "validation failures must not reach the provider")
}

func TestSearch_LimitHundredIsAllowed(t *testing.T) {
	env := newTestEnv(t, testConfig())

	w, _ := env.do(t, http.MethodGet, "/api/v1/search?query=pomme&limit=100", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{100}, env.products.sizes)
}

func TestIngredientSearch_Translates(t *testing.T) {
	env := newTestEnv(t, testConfig())

	w, body := env.do(t, http.MethodGet, "/api/v1/ingredients/search?query=pomme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"apple"}, env.ingredients.queries)
	assert.EqualValues(t, 10, body["limit"])

	info, ok := body["searchInfo"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "pomme", info["originalTerm"])
	assert.Equal(t, "apple", info["searchedTerm"])
	assert.Equal(t, true, info["translationApplied"])
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"quota", domain.NewProviderError("spoonacular", domain.KindQuotaExceeded, 402, nil), http.StatusPaymentRequired, "QUOTA_EXCEEDED"},
		{"missing credential", domain.ErrMissingCredential, http.StatusInternalServerError, "MISSING_CREDENTIAL"},
		{"upstream passthrough", domain.NewProviderError("spoonacular", domain.KindUpstream, 503, errors.New("busy")), http.StatusServiceUnavailable, "UPSTREAM_ERROR"},
		{"network", domain.NewProviderError("spoonacular", domain.KindNetwork, 0, errors.New("dial tcp: refused")), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, testConfig())
			env.ingredients.err = tt.err

			w, body := env.do(t, http.MethodGet, "/api/v1/ingredients/search?query=apple", nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, body["code"])
			assert.NotContains(t, body, "details")
		})
	}
}

func TestErrorDetails_DevelopmentOnly(t *testing.T) {
	cfg := testConfig()
	cfg.App.Env = "development"
	env := newTestEnv(t, cfg)
	env.products.err = domain.NewProviderError("openfoodfacts", domain.KindNetwork, 0, errors.New("dial tcp: refused"))

	w, body := env.do(t, http.MethodGet, "/api/v1/search?query=pomme", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, body["details"], "dial tcp: refused")
}

func TestFindRecipes(t *testing.T) {
	env := newTestEnv(t, testConfig())

	w, body := env.do(t, http.MethodGet, "/api/v1/recipes?ingredients=Tomato,%20tomato%20,,cheese", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"tomato", "cheese"}, env.recipes.names)
	assert.Equal(t, []interface{}{"tomato", "cheese"}, body["ingredients"])
	assert.EqualValues(t, 2, body["total"])
	assert.Equal(t, "spoonacular", body["source"])

	recipes := body["recipes"].([]interface{})
	first := recipes[0].(map[string]interface{})
	assert.Equal(t, "Pizza", first["title"])
	assert.EqualValues(t, 190, first["score"])
}

func TestFindRecipes_Validation(t *testing.T) {
	env := newTestEnv(t, testConfig())

	for _, path := range []string{
		"/api/v1/recipes",
		"/api/v1/recipes?ingredients=%20,%20",
		"/api/v1/recipes?ingredients=tomato&ranking=3",
		"/api/v1/recipes?ingredients=tomato&limit=500",
	} {
		w, body := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, "INVALID_REQUEST", body["code"], path)
	}
	assert.Nil(t, env.recipes.names)
}

func TestGetRecipe(t *testing.T) {
	env := newTestEnv(t, testConfig())

	w, body := env.do(t, http.MethodGet, "/api/v1/recipes/42", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "spoonacular", body["source"])
	assert.Equal(t, "Tomato Tart", body["recipe"].(map[string]interface{})["title"])

	env.recipes.err = domain.NewProviderError("spoonacular", domain.KindNotFound, 404, nil)
	w, body = env.do(t, http.MethodGet, "/api/v1/recipes/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestShoppingList(t *testing.T) {
	env := newTestEnv(t, testConfig())

	w, body := env.do(t, http.MethodPost, "/api/v1/recipes/42/shopping-list", gin.H{
		"owned":  []string{"Tomato"},
		"listId": "list-1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Len(t, body["owned"], 1)
	assert.Len(t, body["missing"], 1)

	list := body["shoppingList"].(map[string]interface{})
	assert.Equal(t, "list-1", list["_id"])
	assert.Equal(t, "42", list["recipeId"])
	items := list["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "cheddar cheese", items[0].(map[string]interface{})["name"])
}

func TestShoppingList_DuplicateRejected(t *testing.T) {
	env := newTestEnv(t, testConfig())
	payload := gin.H{"owned": []string{"cheese"}}

	w, _ := env.do(t, http.MethodPost, "/api/v1/recipes/42/shopping-list", payload)
	require.Equal(t, http.StatusOK, w.Code)

	w, body := env.do(t, http.MethodPost, "/api/v1/recipes/42/shopping-list", payload)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", body["code"])
}

func TestTranslate(t *testing.T) {
	env := newTestEnv(t, testConfig())

	w, body := env.do(t, http.MethodPost, "/api/v1/translate", gin.H{"text": "pomme"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	result := body["result"].(map[string]interface{})
	assert.Equal(t, "apple", result["translatedText"])
	assert.Equal(t, "mymemory", result["source"])

	w, body = env.do(t, http.MethodGet, "/api/v1/translate/cache", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["size"])

	w, _ = env.do(t, http.MethodDelete, "/api/v1/translate/cache", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, body = env.do(t, http.MethodGet, "/api/v1/translate/cache", nil)
	assert.EqualValues(t, 0, body["size"])
}

func TestTranslate_RepeatedRequestServedFromCache(t *testing.T) {
	env := newTestEnv(t, testConfig())
	payload := gin.H{"text": "pomme"}

	for i := 0; i < 2; i++ {
		w, body := env.do(t, http.MethodPost, "/api/v1/translate", payload)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, body["success"])
	}

	_, body := env.do(t, http.MethodGet, "/api/v1/translate/cache", nil)
	assert.EqualValues(t, 1, body["size"])
}

func TestTranslate_EmptyText(t *testing.T) {
	env := newTestEnv(t, testConfig())

	w, body := env.do(t, http.MethodPost, "/api/v1/translate", gin.H{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t, testConfig())

	w, body := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
	assert.Equal(t, "memory", body["cache"].(map[string]interface{})["type"])

	w, body = env.do(t, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", body["status"])

	w, body = env.do(t, http.MethodGet, "/live", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alive", body["status"])
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 2, Window: time.Hour}
	env := newTestEnv(t, cfg)

	for i := 0; i < 2; i++ {
		w, _ := env.do(t, http.MethodGet, "/live", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w, _ := env.do(t, http.MethodGet, "/live", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
