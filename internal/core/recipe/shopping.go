package recipe

import (
	"time"

	"recipe-finder/internal/core/domain"
)

// BuildShoppingList 由缺少的食材產生購物清單，id 由呼叫端指定
func BuildShoppingList(id, recipeID, recipeTitle string, missing []domain.DetailedIngredient, now time.Time) domain.ShoppingList {
	items := make([]domain.ShoppingListItem, 0, len(missing))
	for _, ing := range missing {
		items = append(items, domain.ShoppingListItem{
			Name:     ing.DisplayName(),
			Quantity: ing.Amount,
			Unit:     ing.Unit,
			Original: ing.OriginalPhrase,
			Checked:  false,
		})
	}

	return domain.ShoppingList{
		ID:          id,
		RecipeID:    recipeID,
		RecipeTitle: recipeTitle,
		Items:       items,
		CreatedAt:   now.UTC(),
	}
}
