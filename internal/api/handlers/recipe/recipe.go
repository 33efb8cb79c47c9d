package recipe

import (
	"net/http"

	"recipe-finder/internal/api/handlers"
	"recipe-finder/internal/core/domain"
	recipeService "recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FindRequest 依食材搜尋食譜的查詢參數
type FindRequest struct {
	Ingredients string `form:"ingredients"` // 逗號分隔
	Limit       int    `form:"limit"`
	Ranking     string `form:"ranking"` // "1" 使用最多擁有的食材，"2" 缺少最少
}

// FindResponse 依食材搜尋食譜的響應
type FindResponse struct {
	Recipes     []domain.RecipeSummary `json:"recipes"`
	Total       int                    `json:"total"`
	Ingredients []string               `json:"ingredients"`
	Source      domain.ProviderName    `json:"source"`
}

// DetailResponse 食譜詳情響應
type DetailResponse struct {
	Recipe *domain.RecipeDetail `json:"recipe"`
	Source domain.ProviderName  `json:"source"`
}

// ShoppingListRequest 產生購物清單的請求
type ShoppingListRequest struct {
	Owned  []string `json:"owned"`
	ListID string   `json:"listId,omitempty"`
}

// ShoppingListResponse 產生購物清單的響應
type ShoppingListResponse struct {
	Owned        []domain.DetailedIngredient `json:"owned"`
	Missing      []domain.DetailedIngredient `json:"missing"`
	ShoppingList domain.ShoppingList         `json:"shoppingList"`
	Source       domain.ProviderName         `json:"source"`
}

// Handler 食譜處理程序
type Handler struct {
	recipeService *recipeService.Service
	debug         bool
}

// NewHandler 創建新的食譜處理程序
func NewHandler(recipeService *recipeService.Service, debug bool) *Handler {
	return &Handler{
		recipeService: recipeService,
		debug:         debug,
	}
}

// HandleFindByIngredients GET /recipes
func (h *Handler) HandleFindByIngredients(c *gin.Context) {
	var req FindRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		handlers.RespondError(c, common.NewValidationError("limit must be an integer"), h.debug)
		return
	}

	mode, ok := domain.ParseRankingMode(req.Ranking)
	if !ok {
		handlers.RespondError(c, common.NewValidationError("ranking must be 1 or 2"), h.debug)
		return
	}

	result, err := h.recipeService.FindRecipesByIngredients(c.Request.Context(), common.SplitCSV(req.Ingredients), req.Limit, mode)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}

	common.LogInfo("食譜搜尋完成",
		zap.Strings("ingredients", result.Ingredients),
		zap.Int("count", len(result.Recipes)),
		zap.String("request_id", handlers.RequestID(c)),
	)

	c.JSON(http.StatusOK, FindResponse{
		Recipes:     result.Recipes,
		Total:       len(result.Recipes),
		Ingredients: result.Ingredients,
		Source:      domain.ProviderSpoonacular,
	})
}

// HandleGetRecipe GET /recipes/:id
func (h *Handler) HandleGetRecipe(c *gin.Context) {
	detail, err := h.recipeService.GetRecipeDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}

	c.JSON(http.StatusOK, DetailResponse{
		Recipe: detail,
		Source: domain.ProviderSpoonacular,
	})
}

// HandleShoppingList POST /recipes/:id/shopping-list
func (h *Handler) HandleShoppingList(c *gin.Context) {
	var req ShoppingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", handlers.RequestID(c)),
		)
		handlers.RespondError(c, common.NewValidationError("invalid request format"), h.debug)
		return
	}

	plan, err := h.recipeService.PlanShopping(c.Request.Context(), c.Param("id"), req.Owned, req.ListID)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}

	common.LogInfo("購物清單已產生",
		zap.String("recipe_id", plan.Recipe.ID),
		zap.String("list_id", plan.ShoppingList.ID),
		zap.Int("owned", len(plan.Owned)),
		zap.Int("missing", len(plan.Missing)),
		zap.String("request_id", handlers.RequestID(c)),
	)

	c.JSON(http.StatusOK, ShoppingListResponse{
		Owned:        plan.Owned,
		Missing:      plan.Missing,
		ShoppingList: plan.ShoppingList,
		Source:       domain.ProviderSpoonacular,
	})
}
