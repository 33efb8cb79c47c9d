package domain

import (
	"strings"
	"time"
)

// ProviderName 外部資料來源名稱
type ProviderName string

const (
	ProviderOpenFoodFacts ProviderName = "openfoodfacts"
	ProviderSpoonacular   ProviderName = "spoonacular"
)

// MaxPageSize 單次查詢的最大筆數
const MaxPageSize = 100

// FoodSource 食材來源
type FoodSource struct {
	Provider   ProviderName `json:"provider"`
	ExternalID string       `json:"id"`
}

// FoodItem 正規化後的食材，Name 保證非空
type FoodItem struct {
	Name     string     `json:"name"`
	Category string     `json:"category,omitempty"`
	ImageURL string     `json:"image,omitempty"`
	Source   FoodSource `json:"source"`
}

// SearchResult 單頁搜尋結果
type SearchResult struct {
	Items      []FoodItem   `json:"foods"`
	TotalCount int          `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"limit"`
	HasMore    bool         `json:"hasMore"`
	Provider   ProviderName `json:"source"`
	Info       *SearchInfo  `json:"searchInfo,omitempty"`
}

// SearchInfo 搜尋時的翻譯診斷資訊
type SearchInfo struct {
	OriginalTerm       string             `json:"originalTerm"`
	SearchedTerm       string             `json:"searchedTerm"`
	Translation        *TranslationResult `json:"translation,omitempty"`
	TranslationApplied bool               `json:"translationApplied"`
	Reason             string             `json:"reason,omitempty"`
}

// TranslationSource 翻譯結果來源
type TranslationSource string

const (
	TranslationMyMemory       TranslationSource = "mymemory"
	TranslationLibreTranslate TranslationSource = "libretranslate"
	TranslationDeepL          TranslationSource = "deepl-free"
	TranslationFallback       TranslationSource = "fallback"
)

// TranslationResult 翻譯結果，Confidence 介於 0 與 1
type TranslationResult struct {
	TranslatedText string            `json:"translatedText"`
	Confidence     float64           `json:"confidence"`
	Provenance     TranslationSource `json:"source"`
	Error          string            `json:"error,omitempty"`
}

// IngredientRef 食譜摘要中的食材參照
type IngredientRef struct {
	ExternalID int64   `json:"id"`
	Name       string  `json:"name"`
	ImageURL   string  `json:"image,omitempty"`
	Amount     float64 `json:"amount,omitempty"`
	Unit       string  `json:"unit,omitempty"`
}

// RecipeSummary 依食材搜尋的食譜摘要
type RecipeSummary struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	ImageURL          string          `json:"image,omitempty"`
	UsedCount         int             `json:"usedCount"`
	MissedCount       int             `json:"missedCount"`
	Score             int             `json:"score"`
	UsedIngredients   []IngredientRef `json:"usedIngredients"`
	MissedIngredients []IngredientRef `json:"missedIngredients"`
}

// RankingMode 食譜供應商排序提示
type RankingMode int

const (
	MaximizeUsed    RankingMode = 1
	MinimizeMissing RankingMode = 2
)

// ParseRankingMode 解析 "1"、"2"，空字串預設為 MaximizeUsed
func ParseRankingMode(s string) (RankingMode, bool) {
	switch strings.TrimSpace(s) {
	case "", "1":
		return MaximizeUsed, true
	case "2":
		return MinimizeMissing, true
	default:
		return 0, false
	}
}

// Measure 單一度量單位的份量
type Measure struct {
	Amount    float64 `json:"amount"`
	UnitLong  string  `json:"unitLong"`
	UnitShort string  `json:"unitShort"`
}

// Measures 公制與美制份量
type Measures struct {
	Metric *Measure `json:"metric,omitempty"`
	US     *Measure `json:"us,omitempty"`
}

// DetailedIngredient 食譜詳情中的食材
type DetailedIngredient struct {
	ExternalID     int64    `json:"id"`
	RawName        string   `json:"name"`
	CleanedName    string   `json:"nameClean,omitempty"`
	OriginalPhrase string   `json:"original"`
	OriginalString string   `json:"originalString,omitempty"`
	Amount         float64  `json:"amount"`
	Unit           string   `json:"unit"`
	Measures       Measures `json:"measures"`
	ImageURL       string   `json:"image,omitempty"`
}

// DisplayName 優先使用清理後名稱
func (d DetailedIngredient) DisplayName() string {
	if d.CleanedName != "" {
		return d.CleanedName
	}
	return d.RawName
}

// ComparisonName 比對用名稱（大小寫摺疊）
func (d DetailedIngredient) ComparisonName() string {
	return Fold(d.DisplayName())
}

// DietaryFlags 飲食標記
type DietaryFlags struct {
	Vegetarian  bool `json:"vegetarian"`
	Vegan       bool `json:"vegan"`
	GlutenFree  bool `json:"glutenFree"`
	DairyFree   bool `json:"dairyFree"`
	VeryHealthy bool `json:"veryHealthy"`
	Cheap       bool `json:"cheap"`
	VeryPopular bool `json:"veryPopular"`
	Sustainable bool `json:"sustainable"`
}

// ProductMatch 酒款推薦商品
type ProductMatch struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       string  `json:"price,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	AverageRate float64 `json:"averageRating,omitempty"`
	Link        string  `json:"link,omitempty"`
}

// WinePairing 酒款搭配
type WinePairing struct {
	PairedWines    []string       `json:"pairedWines"`
	PairingText    string         `json:"pairingText"`
	ProductMatches []ProductMatch `json:"productMatches"`
}

// RecipeDetail 食譜詳情，Instructions 保證非空
type RecipeDetail struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	ImageURL        string  `json:"image,omitempty"`
	Servings        int     `json:"yields"`
	TotalTime       int     `json:"totalTime,omitempty"`
	CookingTime     int     `json:"cookingTime,omitempty"`
	PreparationTime int     `json:"preparationTime,omitempty"`
	Summary         string  `json:"summary,omitempty"`
	SourceURL       string  `json:"sourceUrl,omitempty"`
	SpoonacularURL  string  `json:"spoonacularUrl,omitempty"`
	HealthScore     float64 `json:"healthScore,omitempty"`
	PricePerServing float64 `json:"pricePerServing,omitempty"`
	DietaryFlags
	Ingredients  []DetailedIngredient `json:"ingredients"`
	Instructions []string             `json:"instructions"`
	DishTypes    []string             `json:"dishTypes"`
	Diets        []string             `json:"diets"`
	Occasions    []string             `json:"occasions"`
	Cuisines     []string             `json:"cuisines"`
	WinePairing  *WinePairing         `json:"winePairing,omitempty"`
}

// ShoppingListItem 購物清單項目
type ShoppingListItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Original string  `json:"original,omitempty"`
	Checked  bool    `json:"checked"`
}

// ShoppingList 由缺少的食材產生的購物清單
type ShoppingList struct {
	ID          string             `json:"_id"`
	RecipeID    string             `json:"recipeId"`
	RecipeTitle string             `json:"recipeTitle,omitempty"`
	Items       []ShoppingListItem `json:"items"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// ReconcileResult 食材比對結果，Owned 與 Missing 互斥且涵蓋全部輸入
type ReconcileResult struct {
	Owned   []DetailedIngredient `json:"owned"`
	Missing []DetailedIngredient `json:"missing"`
}
