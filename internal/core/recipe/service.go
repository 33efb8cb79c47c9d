package recipe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-finder/internal/core/domain"
	"recipe-finder/internal/pkg/common"
)

// Service 食譜搜尋、詳情與購物清單
type Service struct {
	provider domain.RecipeProvider
	now      func() time.Time
}

// NewService 創建食譜服務
func NewService(provider domain.RecipeProvider) *Service {
	return &Service{
		provider: provider,
		now:      time.Now,
	}
}

// ShoppingPlan 食譜詳情與擁有食材的比對結果
type ShoppingPlan struct {
	Recipe       *domain.RecipeDetail        `json:"recipe"`
	Owned        []domain.DetailedIngredient `json:"owned"`
	Missing      []domain.DetailedIngredient `json:"missing"`
	ShoppingList domain.ShoppingList         `json:"shoppingList"`
}

// GetRecipeDetail 取得食譜詳情
func (s *Service) GetRecipeDetail(ctx context.Context, id string) (*domain.RecipeDetail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrMissingID
	}

	detail, err := s.provider.GetRecipeDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("recipe detail: %w", err)
	}
	return detail, nil
}

// PlanShopping 比對食譜食材並為缺少的食材產生購物清單；listID 為空時以時間產生
func (s *Service) PlanShopping(ctx context.Context, id string, owned []string, listID string) (*ShoppingPlan, error) {
	detail, err := s.GetRecipeDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if strings.TrimSpace(listID) == "" {
		listID = common.TimeBasedID(now)
	}

	split := Reconcile(detail.Ingredients, owned)
	return &ShoppingPlan{
		Recipe:       detail,
		Owned:        split.Owned,
		Missing:      split.Missing,
		ShoppingList: BuildShoppingList(listID, detail.ID, detail.Title, split.Missing, now),
	}, nil
}
