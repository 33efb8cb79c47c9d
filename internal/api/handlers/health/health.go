package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// StatsProvider 提供快取統計
type StatsProvider interface {
	GetStats(ctx context.Context) map[string]interface{}
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
	Providers map[string]bool        `json:"providers"`
}

// Handler 健康檢查處理程序
type Handler struct {
	version   string
	cache     StatsProvider
	providers map[string]bool
}

// NewHandler providers 為各外部服務是否已設定；cache 可為 nil
func NewHandler(version string, cache StatsProvider, providers map[string]bool) *Handler {
	return &Handler{
		version:   version,
		cache:     cache,
		providers: providers,
	}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Providers: h.providers,
	}
	if h.cache != nil {
		response.Cache = h.cache.GetStats(c.Request.Context())
	}

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器；食材搜尋不需金鑰，因此只要服務啟動即就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"providers": h.providers,
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
