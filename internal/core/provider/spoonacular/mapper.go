package spoonacular

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"recipe-finder/internal/core/domain"
	"recipe-finder/internal/pkg/common"
)

const (
	ingredientImageBase = "https://spoonacular.com/cdn/ingredients_100x100/"

	// NoInstructions 無法取得步驟時的佔位文字
	NoInstructions = "Instructions not available"
)

var (
	htmlTag       = regexp.MustCompile(`<[^>]*>`)
	stepSeparator = regexp.MustCompile(`\d+\.|\n`)
)

type ingredientSearchResponse struct {
	Results []struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Image string `json:"image"`
		Aisle string `json:"aisle"`
	} `json:"results"`
	Offset       int `json:"offset"`
	Number       int `json:"number"`
	TotalResults int `json:"totalResults"`
}

type ingredientRef struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Image  string  `json:"image"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

type recipeMatch struct {
	ID                    int64           `json:"id"`
	Title                 string          `json:"title"`
	Image                 string          `json:"image"`
	UsedIngredientCount   int             `json:"usedIngredientCount"`
	MissedIngredientCount int             `json:"missedIngredientCount"`
	UsedIngredients       []ingredientRef `json:"usedIngredients"`
	MissedIngredients     []ingredientRef `json:"missedIngredients"`
}

type measure struct {
	Amount    float64 `json:"amount"`
	UnitLong  string  `json:"unitLong"`
	UnitShort string  `json:"unitShort"`
}

type extendedIngredient struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	NameClean      string  `json:"nameClean"`
	Original       string  `json:"original"`
	OriginalString string  `json:"originalString"`
	Amount         float64 `json:"amount"`
	Unit           string  `json:"unit"`
	Image          string  `json:"image"`
	Measures       struct {
		Metric *measure `json:"metric"`
		US     *measure `json:"us"`
	} `json:"measures"`
}

type analyzedInstruction struct {
	Steps []struct {
		Number int    `json:"number"`
		Step   string `json:"step"`
	} `json:"steps"`
}

type recipeInformation struct {
	ID                   int64                 `json:"id"`
	Title                string                `json:"title"`
	Image                string                `json:"image"`
	Servings             int                   `json:"servings"`
	ReadyInMinutes       int                   `json:"readyInMinutes"`
	CookingMinutes       int                   `json:"cookingMinutes"`
	PreparationMinutes   int                   `json:"preparationMinutes"`
	Summary              string                `json:"summary"`
	SourceURL            string                `json:"sourceUrl"`
	SpoonacularSourceURL string                `json:"spoonacularSourceUrl"`
	HealthScore          float64               `json:"healthScore"`
	PricePerServing      float64               `json:"pricePerServing"`
	Vegetarian           bool                  `json:"vegetarian"`
	Vegan                bool                  `json:"vegan"`
	GlutenFree           bool                  `json:"glutenFree"`
	DairyFree            bool                  `json:"dairyFree"`
	VeryHealthy          bool                  `json:"veryHealthy"`
	Cheap                bool                  `json:"cheap"`
	VeryPopular          bool                  `json:"veryPopular"`
	Sustainable          bool                  `json:"sustainable"`
	ExtendedIngredients  []extendedIngredient  `json:"extendedIngredients"`
	Instructions         string                `json:"instructions"`
	AnalyzedInstructions []analyzedInstruction `json:"analyzedInstructions"`
	DishTypes            []string              `json:"dishTypes"`
	Diets                []string              `json:"diets"`
	Occasions            []string              `json:"occasions"`
	Cuisines             []string              `json:"cuisines"`
	WinePairing          *struct {
		PairedWines    []string `json:"pairedWines"`
		PairingText    string   `json:"pairingText"`
		ProductMatches []struct {
			ID            int64   `json:"id"`
			Title         string  `json:"title"`
			Description   string  `json:"description"`
			Price         string  `json:"price"`
			ImageURL      string  `json:"imageUrl"`
			AverageRating float64 `json:"averageRating"`
			Link          string  `json:"link"`
		} `json:"productMatches"`
	} `json:"winePairing"`
}

func toSearchResult(body ingredientSearchResponse, page, pageSize int) *domain.SearchResult {
	items := make([]domain.FoodItem, 0, len(body.Results))
	for _, r := range body.Results {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		items = append(items, domain.FoodItem{
			Name:     name,
			Category: strings.TrimSpace(r.Aisle),
			ImageURL: ingredientImage(r.Image),
			Source: domain.FoodSource{
				Provider:   domain.ProviderSpoonacular,
				ExternalID: strconv.FormatInt(r.ID, 10),
			},
		})
	}

	return &domain.SearchResult{
		Items:      items,
		TotalCount: body.TotalResults,
		Page:       page,
		PageSize:   pageSize,
		HasMore:    len(items) == pageSize,
		Provider:   domain.ProviderSpoonacular,
	}
}

// toRecipeSummaries 非陣列回應視為沒有結果
func toRecipeSummaries(raw []byte) ([]domain.RecipeSummary, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []domain.RecipeSummary{}, nil
	}

	var matches []recipeMatch
	if err := common.ParseJSONBytes(trimmed, &matches); err != nil {
		return nil, domain.NewProviderError(providerName, domain.KindNetwork, 0, fmt.Errorf("decode recipes: %w", err))
	}

	recipes := make([]domain.RecipeSummary, 0, len(matches))
	for _, m := range matches {
		recipes = append(recipes, domain.RecipeSummary{
			ID:                strconv.FormatInt(m.ID, 10),
			Title:             m.Title,
			ImageURL:          m.Image,
			UsedCount:         m.UsedIngredientCount,
			MissedCount:       m.MissedIngredientCount,
			UsedIngredients:   toIngredientRefs(m.UsedIngredients),
			MissedIngredients: toIngredientRefs(m.MissedIngredients),
		})
	}
	return recipes, nil
}

func toIngredientRefs(refs []ingredientRef) []domain.IngredientRef {
	out := make([]domain.IngredientRef, 0, len(refs))
	for _, r := range refs {
		out = append(out, domain.IngredientRef{
			ExternalID: r.ID,
			Name:       r.Name,
			ImageURL:   r.Image,
			Amount:     r.Amount,
			Unit:       r.Unit,
		})
	}
	return out
}

func toRecipeDetail(r recipeInformation) *domain.RecipeDetail {
	servings := r.Servings
	if servings < 1 {
		servings = 1
	}

	detail := &domain.RecipeDetail{
		ID:              strconv.FormatInt(r.ID, 10),
		Title:           r.Title,
		ImageURL:        r.Image,
		Servings:        servings,
		TotalTime:       nonNegative(r.ReadyInMinutes),
		CookingTime:     nonNegative(r.CookingMinutes),
		PreparationTime: nonNegative(r.PreparationMinutes),
		Summary:         StripHTML(r.Summary),
		SourceURL:       r.SourceURL,
		SpoonacularURL:  r.SpoonacularSourceURL,
		HealthScore:     r.HealthScore,
		PricePerServing: r.PricePerServing,
		DietaryFlags: domain.DietaryFlags{
			Vegetarian:  r.Vegetarian,
			Vegan:       r.Vegan,
			GlutenFree:  r.GlutenFree,
			DairyFree:   r.DairyFree,
			VeryHealthy: r.VeryHealthy,
			Cheap:       r.Cheap,
			VeryPopular: r.VeryPopular,
			Sustainable: r.Sustainable,
		},
		Ingredients:  make([]domain.DetailedIngredient, 0, len(r.ExtendedIngredients)),
		Instructions: extractInstructions(r.Instructions, r.AnalyzedInstructions),
		DishTypes:    orEmpty(r.DishTypes),
		Diets:        orEmpty(r.Diets),
		Occasions:    orEmpty(r.Occasions),
		Cuisines:     orEmpty(r.Cuisines),
	}

	for _, ing := range r.ExtendedIngredients {
		detail.Ingredients = append(detail.Ingredients, domain.DetailedIngredient{
			ExternalID:     ing.ID,
			RawName:        ing.Name,
			CleanedName:    ing.NameClean,
			OriginalPhrase: ing.Original,
			OriginalString: ing.OriginalString,
			Amount:         ing.Amount,
			Unit:           ing.Unit,
			Measures: domain.Measures{
				Metric: toMeasure(ing.Measures.Metric),
				US:     toMeasure(ing.Measures.US),
			},
			ImageURL: ingredientImage(ing.Image),
		})
	}

	if wp := r.WinePairing; wp != nil && (len(wp.PairedWines) > 0 || wp.PairingText != "") {
		pairing := &domain.WinePairing{
			PairedWines:    orEmpty(wp.PairedWines),
			PairingText:    wp.PairingText,
			ProductMatches: make([]domain.ProductMatch, 0, len(wp.ProductMatches)),
		}
		for _, pm := range wp.ProductMatches {
			pairing.ProductMatches = append(pairing.ProductMatches, domain.ProductMatch{
				ID:          pm.ID,
				Title:       pm.Title,
				Description: pm.Description,
				Price:       pm.Price,
				ImageURL:    pm.ImageURL,
				AverageRate: pm.AverageRating,
				Link:        pm.Link,
			})
		}
		detail.WinePairing = pairing
	}

	return detail
}

// extractInstructions 依序嘗試結構化步驟、純文字步驟，最後使用佔位文字
func extractInstructions(text string, analyzed []analyzedInstruction) []string {
	var steps []string
	for _, block := range analyzed {
		for _, s := range block.Steps {
			if step := strings.TrimSpace(s.Step); step != "" {
				steps = append(steps, step)
			}
		}
	}
	if len(steps) > 0 {
		return steps
	}

	if clean := StripHTML(text); clean != "" {
		for _, part := range stepSeparator.Split(clean, -1) {
			if part = strings.TrimSpace(part); part != "" {
				steps = append(steps, part)
			}
		}
		if len(steps) > 0 {
			return steps
		}
	}

	return []string{NoInstructions}
}

// StripHTML 移除 HTML 標籤
func StripHTML(s string) string {
	return strings.TrimSpace(htmlTag.ReplaceAllString(s, ""))
}

func ingredientImage(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return name
	}
	return ingredientImageBase + name
}

func toMeasure(m *measure) *domain.Measure {
	if m == nil {
		return nil
	}
	return &domain.Measure{Amount: m.Amount, UnitLong: m.UnitLong, UnitShort: m.UnitShort}
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
