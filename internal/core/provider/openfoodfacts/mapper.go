package openfoodfacts

import (
	"regexp"
	"strings"

	"recipe-finder/internal/core/domain"
	"recipe-finder/internal/core/provider"
)

var langPrefix = regexp.MustCompile(`(?i)^[a-z]{2}:`)

type searchResponse struct {
	Count    provider.FlexInt `json:"count"`
	Page     provider.FlexInt `json:"page"`
	Products []product        `json:"products"`
}

type product struct {
	Code               string   `json:"code"`
	ProductName        string   `json:"product_name"`
	ProductNameFR      string   `json:"product_name_fr"`
	GenericNameFR      string   `json:"generic_name_fr"`
	Categories         string   `json:"categories"`
	CategoriesTags     []string `json:"categories_tags"`
	ImageFrontURL      string   `json:"image_front_url"`
	ImageFrontSmallURL string   `json:"image_front_small_url"`
	ImageURL           string   `json:"image_url"`
}

func toSearchResult(body searchResponse, page, pageSize int) *domain.SearchResult {
	items := make([]domain.FoodItem, 0, len(body.Products))
	for _, p := range body.Products {
		if item, ok := toFoodItem(p); ok {
			items = append(items, item)
		}
	}

	return &domain.SearchResult{
		Items:      items,
		TotalCount: int(body.Count),
		Page:       page,
		PageSize:   pageSize,
		HasMore:    len(items) == pageSize,
		Provider:   domain.ProviderOpenFoodFacts,
	}
}

// toFoodItem 沒有可顯示名稱的產品會被丟棄
func toFoodItem(p product) (domain.FoodItem, bool) {
	name := firstNonEmpty(p.ProductNameFR, p.GenericNameFR, p.ProductName)
	if name == "" {
		return domain.FoodItem{}, false
	}

	return domain.FoodItem{
		Name:     name,
		Category: cleanCategory(p.CategoriesTags, p.Categories),
		ImageURL: firstNonEmpty(p.ImageFrontSmallURL, p.ImageFrontURL, p.ImageURL),
		Source: domain.FoodSource{
			Provider:   domain.ProviderOpenFoodFacts,
			ExternalID: p.Code,
		},
	}, true
}

// cleanCategory 取第一個分類標籤並去除語言前綴
func cleanCategory(tags []string, categories string) string {
	for _, tag := range tags {
		tag = langPrefix.ReplaceAllString(strings.TrimSpace(tag), "")
		tag = strings.TrimSpace(strings.ReplaceAll(tag, "-", " "))
		if tag != "" {
			return tag
		}
	}
	if categories != "" {
		return strings.TrimSpace(strings.Split(categories, ",")[0])
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
