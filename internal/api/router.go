package api

import (
	"fmt"
	"net/http"
	"time"

	"recipe-finder/internal/api/handlers/food"
	"recipe-finder/internal/api/handlers/health"
	recipeHandler "recipe-finder/internal/api/handlers/recipe"
	translationHandler "recipe-finder/internal/api/handlers/translation"
	"recipe-finder/internal/api/middleware"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps *Dependencies) (*gin.Engine, error) {
	if deps == nil || deps.Products == nil || deps.Ingredients == nil || deps.Recipes == nil || deps.Translator == nil {
		return nil, fmt.Errorf("router dependencies are incomplete")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	debug := cfg.IsDevelopment()
	healthHandler := health.NewHandler(cfg.App.Version, deps.CacheStats, deps.Providers)
	foodHandler := food.NewHandler(deps.Products, deps.Ingredients, debug)
	recipes := recipeHandler.NewHandler(deps.Recipes, debug)
	translations := translationHandler.NewHandler(deps.Translator, cfg.Translation.SourceLang, cfg.Translation.TargetLang)
	dedup := middleware.NewDeduplicator(cfg.DedupWindow).Middleware()

	// 健康檢查路由
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		api.GET("/search", foodHandler.HandleSearch)
		api.GET("/ingredients/search", foodHandler.HandleIngredientSearch)

		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.GET("", recipes.HandleFindByIngredients)
			recipeGroup.GET("/:id", recipes.HandleGetRecipe)
			recipeGroup.POST("/:id/shopping-list", dedup, recipes.HandleShoppingList)
		}

		translateGroup := api.Group("/translate")
		{
			translateGroup.POST("", translations.HandleTranslate)
			translateGroup.GET("/cache", translations.HandleCacheStats)
			translateGroup.DELETE("/cache", translations.HandleClearCache)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.String("environment", cfg.App.Env),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}
