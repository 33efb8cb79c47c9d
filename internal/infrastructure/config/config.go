package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	CORS          CORSConfig          `mapstructure:"cors"`
	Providers     ProvidersConfig     `mapstructure:"providers"`
	OpenFoodFacts OpenFoodFactsConfig `mapstructure:"openfoodfacts"`
	Spoonacular   SpoonacularConfig   `mapstructure:"spoonacular"`
	Translation   TranslationConfig   `mapstructure:"translation"`
	Cache         CacheConfig         `mapstructure:"cache"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	DedupWindow   time.Duration       `mapstructure:"dedup_window"`
	LogLevel      string              `mapstructure:"log_level"`
	LogMode       string              `mapstructure:"log_mode"`
	LogFile       string              `mapstructure:"log_file"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// CORSConfig 跨域設定
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ProvidersConfig 外部服務共用設定
type ProvidersConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// OpenFoodFactsConfig Open Food Facts 設定
type OpenFoodFactsConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	PageSize int    `mapstructure:"page_size"`
}

// SpoonacularConfig Spoonacular 設定；APIKey 可為空，相關端點會回傳 500
type SpoonacularConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	BaseURL           string  `mapstructure:"base_url"`
	PageSize          int     `mapstructure:"page_size"`
	RecipeLimit       int     `mapstructure:"recipe_limit"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// TranslationConfig 翻譯設定
type TranslationConfig struct {
	Enabled              bool    `mapstructure:"enabled"`
	SourceLang           string  `mapstructure:"source_lang"`
	TargetLang           string  `mapstructure:"target_lang"`
	MinConfidence        float64 `mapstructure:"min_confidence"`
	MyMemoryURL          string  `mapstructure:"mymemory_url"`
	LibreTranslateURL    string  `mapstructure:"libretranslate_url"`
	LibreTranslateAPIKey string  `mapstructure:"libretranslate_api_key"`
	DeepLURL             string  `mapstructure:"deepl_url"`
	DeepLAPIKey          string  `mapstructure:"deepl_api_key"`
}

// CacheConfig 翻譯快取設定
type CacheConfig struct {
	Type     string `mapstructure:"type"` // "memory" 或 "redis"
	RedisURL string `mapstructure:"redis_url"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// IsDevelopment 開發模式下錯誤回應會附帶原始錯誤
func (c *Config) IsDevelopment() bool {
	return c.App.Debug || strings.EqualFold(c.App.Env, "development")
}

// LoadConfig 載入設定：預設值 → config.yaml → .env → 環境變數
func LoadConfig() (*Config, error) {
	// 加載 .env 文件，不存在時忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	bindings := map[string]string{
		"app.env":                            "APP_ENV",
		"spoonacular.api_key":                "SPOONACULAR_API_KEY",
		"translation.deepl_api_key":          "DEEPL_API_KEY",
		"translation.libretranslate_api_key": "LIBRETRANSLATE_API_KEY",
		"cache.type":                         "CACHE_TYPE",
		"cache.redis_url":                    "REDIS_URL",
		"rate_limit.enabled":                 "RATE_LIMIT_ENABLED",
		"rate_limit.requests":                "RATE_LIMIT_REQUESTS",
		"rate_limit.window":                  "RATE_LIMIT_WINDOW",
		"dedup_window":                       "DEDUP_WINDOW",
		"log_level":                          "LOG_LEVEL",
		"log_mode":                           "LOG_MODE",
		"server.port":                        "PORT",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	// 設定檔為選用
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func MaskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-finder")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	// 外部服務
	v.SetDefault("providers.timeout", "10s")
	v.SetDefault("providers.user_agent", "FoodApp/1.0")

	v.SetDefault("openfoodfacts.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("openfoodfacts.page_size", 20)

	v.SetDefault("spoonacular.api_key", "")
	v.SetDefault("spoonacular.base_url", "https://api.spoonacular.com")
	v.SetDefault("spoonacular.page_size", 10)
	v.SetDefault("spoonacular.recipe_limit", 12)
	v.SetDefault("spoonacular.requests_per_second", 1)
	v.SetDefault("spoonacular.burst", 5)

	// 翻譯設定
	v.SetDefault("translation.enabled", true)
	v.SetDefault("translation.source_lang", "fr")
	v.SetDefault("translation.target_lang", "en")
	v.SetDefault("translation.min_confidence", 0.3)
	v.SetDefault("translation.mymemory_url", "https://api.mymemory.translated.net")
	v.SetDefault("translation.libretranslate_url", "https://libretranslate.com")
	v.SetDefault("translation.libretranslate_api_key", "")
	v.SetDefault("translation.deepl_url", "https://api-free.deepl.com")
	v.SetDefault("translation.deepl_api_key", "")

	// 快取設定
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_mode", "")
	v.SetDefault("log_file", "logs/app.log")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}

	switch config.Cache.Type {
	case "memory":
	case "redis":
		if config.Cache.RedisURL == "" {
			return fmt.Errorf("redis url is required when cache type is 'redis'")
		}
	default:
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Translation.MinConfidence < 0 || config.Translation.MinConfidence > 1 {
		return fmt.Errorf("translation min confidence must be between 0 and 1")
	}

	for name, size := range map[string]int{
		"openfoodfacts page size":  config.OpenFoodFacts.PageSize,
		"spoonacular page size":    config.Spoonacular.PageSize,
		"spoonacular recipe limit": config.Spoonacular.RecipeLimit,
	} {
		if size < 1 || size > 100 {
			return fmt.Errorf("%s must be between 1 and 100", name)
		}
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 {
			return fmt.Errorf("invalid rate limit requests")
		}
		if config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit window")
		}
	}

	return nil
}
