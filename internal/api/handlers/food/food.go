package food

import (
	"net/http"

	"recipe-finder/internal/api/handlers"
	"recipe-finder/internal/core/search"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// SearchRequest 搜尋查詢參數
type SearchRequest struct {
	Query string `form:"query"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

// Handler 食品與食材搜尋處理程序
type Handler struct {
	products    *search.Service
	ingredients *search.Service
	debug       bool
}

// NewHandler products 用於產品搜尋，ingredients 用於需要翻譯的食材搜尋
func NewHandler(products, ingredients *search.Service, debug bool) *Handler {
	return &Handler{
		products:    products,
		ingredients: ingredients,
		debug:       debug,
	}
}

// HandleSearch GET /search
func (h *Handler) HandleSearch(c *gin.Context) {
	h.handle(c, h.products)
}

// HandleIngredientSearch GET /ingredients/search
func (h *Handler) HandleIngredientSearch(c *gin.Context) {
	h.handle(c, h.ingredients)
}

func (h *Handler) handle(c *gin.Context, svc *search.Service) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		handlers.RespondError(c, common.NewValidationError("page and limit must be integers"), h.debug)
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.Limit == 0 {
		req.Limit = svc.DefaultPageSize()
	}

	result, err := svc.SearchFoods(c.Request.Context(), req.Query, req.Page, req.Limit)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}

	c.JSON(http.StatusOK, result)
}
