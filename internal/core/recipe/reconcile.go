package recipe

import (
	"strings"

	"recipe-finder/internal/core/domain"
)

// NormalizeOwned 擁有的食材：去空白、去重複、統一小寫
func NormalizeOwned(owned []string) []string {
	names := domain.NormalizeNames(owned)
	for i, name := range names {
		names[i] = domain.Fold(name)
	}
	return names
}

// Matches 雙向子字串比對
//
// 比對刻意寬鬆："tomato" 與 "cherry tomato" 互相符合，但 "pea" 也會符合 "peanut"。
func Matches(owned, name string) bool {
	o, n := domain.Fold(owned), domain.Fold(name)
	if o == "" {
		return false
	}
	return strings.Contains(o, n) || strings.Contains(n, o)
}

// Reconcile 將食譜食材分為已擁有與缺少，兩者互斥且保留原始順序
func Reconcile(ingredients []domain.DetailedIngredient, owned []string) domain.ReconcileResult {
	folded := make([]string, 0, len(owned))
	for _, o := range owned {
		if f := domain.Fold(o); f != "" {
			folded = append(folded, f)
		}
	}

	result := domain.ReconcileResult{
		Owned:   []domain.DetailedIngredient{},
		Missing: []domain.DetailedIngredient{},
	}
	for _, ing := range ingredients {
		if ownsAny(folded, ing.ComparisonName()) {
			result.Owned = append(result.Owned, ing)
		} else {
			result.Missing = append(result.Missing, ing)
		}
	}
	return result
}

func ownsAny(owned []string, name string) bool {
	for _, o := range owned {
		if strings.Contains(o, name) || strings.Contains(name, o) {
			return true
		}
	}
	return false
}
