package domain

import "context"

// SearchProvider 食材搜尋供應商
//
// 呼叫端負責確保 query 去除空白後非空，且 1 <= pageSize <= MaxPageSize。
type SearchProvider interface {
	Name() ProviderName
	// LanguageSensitive 為 true 時，查詢需先翻譯成供應商的語言
	LanguageSensitive() bool
	Search(ctx context.Context, query string, page, pageSize int) (*SearchResult, error)
}

// RecipeProvider 食譜供應商
type RecipeProvider interface {
	FindByIngredients(ctx context.Context, names []string, limit int, mode RankingMode) ([]RecipeSummary, error)
	GetRecipeDetail(ctx context.Context, id string) (*RecipeDetail, error)
}

// TranslationProvider 單一翻譯服務，失敗時回傳 error
type TranslationProvider interface {
	Name() TranslationSource
	Translate(ctx context.Context, text, from, to string) (TranslationResult, error)
}

// Translator 不會失敗的翻譯介面
type Translator interface {
	Translate(ctx context.Context, text, from, to string) TranslationResult
}
