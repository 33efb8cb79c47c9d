package recipe

import (
	"context"
	"fmt"
	"sort"

	"recipe-finder/internal/core/domain"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultLimit 未指定時回傳的食譜數量
const DefaultLimit = 12

// MatchResult 依食材搜尋食譜的結果
type MatchResult struct {
	Recipes     []domain.RecipeSummary
	Ingredients []string // 正規化後實際送出的食材
}

// ComputeScore 使用食材越多分數越高，缺少食材扣分；完全沒用到擁有的食材時為 0
func ComputeScore(used, missed int) int {
	if used == 0 {
		return 0
	}
	return used*100 - missed*10
}

// SortByScore 依分數由高到低穩定排序，同分保留供應商順序
func SortByScore(recipes []domain.RecipeSummary) {
	sort.SliceStable(recipes, func(i, j int) bool {
		return recipes[i].Score > recipes[j].Score
	})
}

// FindRecipesByIngredients 依擁有的食材搜尋並排序食譜
//
// mode 只是給供應商的排序提示，本地分數與排序不受影響。
func (s *Service) FindRecipesByIngredients(ctx context.Context, owned []string, limit int, mode domain.RankingMode) (*MatchResult, error) {
	names := NormalizeOwned(owned)
	if len(names) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > domain.MaxPageSize {
		return nil, domain.ErrLimitExceeded
	}
	if mode != domain.MinimizeMissing {
		mode = domain.MaximizeUsed
	}

	recipes, err := s.provider.FindByIngredients(ctx, names, limit, mode)
	if err != nil {
		return nil, fmt.Errorf("find recipes: %w", err)
	}
	if recipes == nil {
		recipes = []domain.RecipeSummary{}
	}

	for i := range recipes {
		recipes[i].Score = ComputeScore(recipes[i].UsedCount, recipes[i].MissedCount)
	}
	SortByScore(recipes)

	common.LogDebug("食譜搜尋完成",
		zap.Strings("ingredients", names),
		zap.Int("limit", limit),
		zap.Int("count", len(recipes)),
	)

	return &MatchResult{Recipes: recipes, Ingredients: names}, nil
}
