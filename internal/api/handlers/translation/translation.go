package translation

import (
	"context"
	"net/http"
	"strings"

	"recipe-finder/internal/api/handlers"
	"recipe-finder/internal/core/domain"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Translator 翻譯服務與其快取
type Translator interface {
	domain.Translator
	ClearCache(ctx context.Context)
	CacheSize(ctx context.Context) int
}

// TranslateRequest 翻譯請求
type TranslateRequest struct {
	Text     string `json:"text"`
	FromLang string `json:"fromLang,omitempty"`
	ToLang   string `json:"toLang,omitempty"`
}

// TranslateResponse 翻譯響應
type TranslateResponse struct {
	Success bool                      `json:"success"`
	Result  *domain.TranslationResult `json:"result,omitempty"`
	Error   string                    `json:"error,omitempty"`
}

// Handler 翻譯處理程序
type Handler struct {
	translator Translator
	sourceLang string
	targetLang string
}

// NewHandler sourceLang 與 targetLang 為請求未指定語言時的預設值
func NewHandler(translator Translator, sourceLang, targetLang string) *Handler {
	return &Handler{
		translator: translator,
		sourceLang: sourceLang,
		targetLang: targetLang,
	}
}

// HandleTranslate POST /translate
func (h *Handler) HandleTranslate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, TranslateResponse{Error: "invalid request format"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, TranslateResponse{Error: "text is required"})
		return
	}
	if req.FromLang == "" {
		req.FromLang = h.sourceLang
	}
	if req.ToLang == "" {
		req.ToLang = h.targetLang
	}

	result := h.translator.Translate(c.Request.Context(), req.Text, req.FromLang, req.ToLang)

	common.LogInfo("翻譯完成",
		zap.String("from", req.FromLang),
		zap.String("to", req.ToLang),
		zap.String("source", string(result.Provenance)),
		zap.Float64("confidence", result.Confidence),
		zap.String("request_id", handlers.RequestID(c)),
	)

	c.JSON(http.StatusOK, TranslateResponse{Success: true, Result: &result})
}

// HandleCacheStats GET /translate/cache
func (h *Handler) HandleCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"size": h.translator.CacheSize(c.Request.Context()),
	})
}

// HandleClearCache DELETE /translate/cache
func (h *Handler) HandleClearCache(c *gin.Context) {
	h.translator.ClearCache(c.Request.Context())
	common.LogInfo("翻譯快取已清除", zap.String("request_id", handlers.RequestID(c)))
	c.JSON(http.StatusOK, gin.H{"success": true})
}
