package api

import (
	"context"
	"fmt"

	"recipe-finder/internal/api/handlers/health"
	translationHandler "recipe-finder/internal/api/handlers/translation"
	"recipe-finder/internal/core/cache"
	"recipe-finder/internal/core/domain"
	"recipe-finder/internal/core/provider/openfoodfacts"
	"recipe-finder/internal/core/provider/spoonacular"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/core/search"
	"recipe-finder/internal/core/translation"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// TranslationCache 翻譯快取後端
type TranslationCache interface {
	translation.Cache
	health.StatsProvider
	Close() error
}

// Dependencies 路由使用的服務
type Dependencies struct {
	Products    *search.Service
	Ingredients *search.Service
	Recipes     *recipe.Service
	Translator  translationHandler.Translator
	CacheStats  health.StatsProvider
	Providers   map[string]bool

	cache TranslationCache
}

// Close 釋放快取連線
func (d *Dependencies) Close() error {
	if d.cache == nil {
		return nil
	}
	return d.cache.Close()
}

// NewTranslationCache 依設定建立記憶體或 Redis 快取
func NewTranslationCache(ctx context.Context, cfg config.CacheConfig) (TranslationCache, error) {
	switch cfg.Type {
	case "redis":
		rc, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return rc, nil
	default:
		return cache.NewMemory(), nil
	}
}

// NewDependencies 依設定初始化外部服務與核心服務
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	tc, err := NewTranslationCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Providers.Timeout
	translators := []domain.TranslationProvider{
		translation.NewMyMemory(cfg.Translation.MyMemoryURL, cfg.Providers.UserAgent, timeout),
		translation.NewLibreTranslate(cfg.Translation.LibreTranslateURL, cfg.Translation.LibreTranslateAPIKey, timeout),
	}
	// 設定 DeepL 金鑰時放在最前面
	if cfg.Translation.DeepLAPIKey != "" {
		deepl := translation.NewDeepL(cfg.Translation.DeepLURL, cfg.Translation.DeepLAPIKey, timeout)
		translators = append([]domain.TranslationProvider{deepl}, translators...)
	}
	translator := translation.NewService(tc, translators...)

	off := openfoodfacts.NewClient(openfoodfacts.Config{
		BaseURL:   cfg.OpenFoodFacts.BaseURL,
		UserAgent: cfg.Providers.UserAgent,
		Timeout:   timeout,
	})
	spoon := spoonacular.NewClient(spoonacular.Config{
		APIKey:            cfg.Spoonacular.APIKey,
		BaseURL:           cfg.Spoonacular.BaseURL,
		UserAgent:         cfg.Providers.UserAgent,
		Timeout:           timeout,
		RequestsPerSecond: cfg.Spoonacular.RequestsPerSecond,
		Burst:             cfg.Spoonacular.Burst,
	})
	if !spoon.Configured() {
		common.LogWarn("SPOONACULAR_API_KEY 未設定，食材與食譜端點將回傳錯誤")
	}

	searchCfg := search.Config{
		SourceLang:    cfg.Translation.SourceLang,
		TargetLang:    cfg.Translation.TargetLang,
		MinConfidence: cfg.Translation.MinConfidence,
	}

	productCfg := searchCfg
	productCfg.DefaultPageSize = cfg.OpenFoodFacts.PageSize

	ingredientCfg := searchCfg
	ingredientCfg.DefaultPageSize = cfg.Spoonacular.PageSize

	var ingredientTranslator domain.Translator
	if cfg.Translation.Enabled {
		ingredientTranslator = translator
	}

	deps := &Dependencies{
		Products:    search.NewService(off, nil, productCfg),
		Ingredients: search.NewService(spoon, ingredientTranslator, ingredientCfg),
		Recipes:     recipe.NewService(spoon),
		Translator:  translator,
		CacheStats:  tc,
		Providers: map[string]bool{
			string(domain.ProviderOpenFoodFacts): true,
			string(domain.ProviderSpoonacular):   spoon.Configured(),
			"deepl":                              cfg.Translation.DeepLAPIKey != "",
		},
		cache: tc,
	}

	common.LogInfo("Services initialized",
		zap.String("cache_type", cfg.Cache.Type),
		zap.Int("translation_providers", len(translators)),
		zap.Bool("translation_enabled", cfg.Translation.Enabled),
		zap.String("spoonacular_key", config.MaskAPIKey(cfg.Spoonacular.APIKey)),
	)
	return deps, nil
}
