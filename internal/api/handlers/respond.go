package handlers

import (
	"recipe-finder/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError 將錯誤轉為 JSON 錯誤響應，debug 時附帶原始錯誤
func RespondError(c *gin.Context, err error, debug bool) {
	ce := common.FromError(err)

	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", ce.Status),
		zap.String("code", ce.Code),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", RequestID(c)),
	}
	if ce.Status >= 500 {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogWarn("請求處理失敗", fields...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(ce.Status, ce.Response(debug))
}

// RequestID 取得 requestid 中間件設置的請求 ID
func RequestID(c *gin.Context) string {
	if id := requestid.Get(c); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}
