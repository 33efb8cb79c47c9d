package recipe

import (
	"context"
	"errors"
	"testing"
	"time"

	"recipe-finder/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ing(id int64, raw, cleaned string) domain.DetailedIngredient {
	return domain.DetailedIngredient{ExternalID: id, RawName: raw, CleanedName: cleaned, Amount: float64(id), Unit: "g", OriginalPhrase: raw}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name  string
		owned string
		ing   string
		want  bool
	}{
		{"owned contained in ingredient", "tomato", "cherry tomato", true},
		{"ingredient contained in owned", "cherry tomato", "tomato", true},
		{"case insensitive", "Tomato", "CHERRY TOMATO", true},
		{"unrelated", "onion", "garlic", false},
		{"known false positive pea/peanut", "pea", "peanut", true},
		{"empty owned never matches", "", "salt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.owned, tt.ing))
		})
	}
}

func TestReconcile(t *testing.T) {
	ingredients := []domain.DetailedIngredient{
		ing(1, "cherry tomatoes", "cherry tomato"),
		ing(2, "Onion", ""),
		ing(3, "olive oil", "olive oil"),
		ing(4, "peanuts", "peanut"),
		ing(5, "garlic", ""),
	}

	t.Run("partitions by bidirectional containment", func(t *testing.T) {
		result := Reconcile(ingredients, []string{"tomato", "pea", "onion"})

		ownedIDs := ids(result.Owned)
		missingIDs := ids(result.Missing)
		assert.Equal(t, []int64{1, 2, 4}, ownedIDs)
		assert.Equal(t, []int64{3, 5}, missingIDs)
	})

	t.Run("owned name longer than ingredient name", func(t *testing.T) {
		result := Reconcile([]domain.DetailedIngredient{ing(1, "tomato", "")}, []string{"cherry tomato"})
		assert.Len(t, result.Owned, 1)
		assert.Empty(t, result.Missing)
	})

	t.Run("cleaned name is used when present", func(t *testing.T) {
		result := Reconcile([]domain.DetailedIngredient{ing(1, "fresh basil leaves", "basil")}, []string{"thai basil"})
		assert.Len(t, result.Owned, 1)
	})

	t.Run("exhaustive and disjoint", func(t *testing.T) {
		for _, owned := range [][]string{nil, {}, {"tomato"}, {"olive oil", "garlic", "x"}, {"  "}} {
			result := Reconcile(ingredients, owned)
			assert.Equal(t, len(ingredients), len(result.Owned)+len(result.Missing))

			seen := map[int64]bool{}
			for _, i := range append(append([]domain.DetailedIngredient{}, result.Owned...), result.Missing...) {
				assert.False(t, seen[i.ExternalID], "ingredient %d in both partitions", i.ExternalID)
				seen[i.ExternalID] = true
			}
		}
	})

	t.Run("nothing owned means everything missing", func(t *testing.T) {
		result := Reconcile(ingredients, nil)
		assert.Empty(t, result.Owned)
		assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(result.Missing))
	})
}

func TestBuildShoppingList(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	missing := []domain.DetailedIngredient{
		{ExternalID: 1, RawName: "Olive Oil", CleanedName: "olive oil", Amount: 2, Unit: "tbsp", OriginalPhrase: "2 tbsp olive oil"},
		{ExternalID: 2, RawName: "garlic", Amount: 3, Unit: "cloves"},
	}

	list := BuildShoppingList("1740830400000", "42", "Tomato soup", missing, now)

	assert.Equal(t, "1740830400000", list.ID)
	assert.Equal(t, "42", list.RecipeID)
	assert.Equal(t, "Tomato soup", list.RecipeTitle)
	assert.Equal(t, now, list.CreatedAt)
	require.Len(t, list.Items, 2)
	assert.Equal(t, domain.ShoppingListItem{Name: "olive oil", Quantity: 2, Unit: "tbsp", Original: "2 tbsp olive oil"}, list.Items[0])
	assert.Equal(t, "garlic", list.Items[1].Name)
	assert.False(t, list.Items[1].Checked)
}

func TestPlanShopping(t *testing.T) {
	p := &fakeRecipeProvider{detail: &domain.RecipeDetail{
		ID:    "42",
		Title: "Tomato soup",
		Ingredients: []domain.DetailedIngredient{
			ing(1, "tomatoes", "tomato"),
			ing(2, "cream", ""),
		},
	}}
	svc := NewService(p)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	t.Run("generates time based id", func(t *testing.T) {
		plan, err := svc.PlanShopping(context.Background(), " 42 ", []string{"tomato"}, "")

		require.NoError(t, err)
		assert.Equal(t, "42", p.id)
		assert.Equal(t, []int64{1}, ids(plan.Owned))
		assert.Equal(t, []int64{2}, ids(plan.Missing))
		assert.Equal(t, "1772366400000", plan.ShoppingList.ID)
		assert.Equal(t, "Tomato soup", plan.ShoppingList.RecipeTitle)
		assert.Len(t, plan.ShoppingList.Items, 1)
	})

	t.Run("keeps caller id", func(t *testing.T) {
		plan, err := svc.PlanShopping(context.Background(), "42", nil, "my-list")

		require.NoError(t, err)
		assert.Equal(t, "my-list", plan.ShoppingList.ID)
		assert.Len(t, plan.ShoppingList.Items, 2)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := svc.PlanShopping(context.Background(), "  ", nil, "")
		assert.True(t, errors.Is(err, domain.ErrMissingID))
	})

	t.Run("not found propagates", func(t *testing.T) {
		failing := NewService(&fakeRecipeProvider{err: domain.NewProviderError("spoonacular", domain.KindNotFound, 404, nil)})
		_, err := failing.GetRecipeDetail(context.Background(), "999")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func ids(list []domain.DetailedIngredient) []int64 {
	out := []int64{}
	for _, i := range list {
		out = append(out, i.ExternalID)
	}
	return out
}
