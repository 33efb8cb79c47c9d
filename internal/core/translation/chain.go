package translation

import (
	"context"
	"fmt"
	"strings"

	"recipe-finder/internal/core/domain"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultMinConfidence 搜尋時採用翻譯結果的最低信心值
const DefaultMinConfidence = 0.3

// Cache 翻譯結果快取，實作需支援併發存取
type Cache interface {
	Get(ctx context.Context, key string) (domain.TranslationResult, bool)
	Set(ctx context.Context, key string, result domain.TranslationResult)
	Len(ctx context.Context) int
	Clear(ctx context.Context)
}

// Service 依序嘗試翻譯服務，全部失敗時回傳原文
type Service struct {
	providers []domain.TranslationProvider
	cache     Cache
}

// NewService 創建翻譯服務，providers 順序即優先順序
func NewService(cache Cache, providers ...domain.TranslationProvider) *Service {
	return &Service{
		providers: providers,
		cache:     cache,
	}
}

// CacheKey 快取鍵，文字部分不分大小寫
func CacheKey(text, from, to string) string {
	return fmt.Sprintf("%s-%s-%s", from, to, domain.Fold(text))
}

// Translate 翻譯文字，永遠回傳結果
func (s *Service) Translate(ctx context.Context, text, from, to string) domain.TranslationResult {
	if strings.TrimSpace(text) == "" {
		return fallback(text, "empty text")
	}

	key := CacheKey(text, from, to)
	if cached, ok := s.cache.Get(ctx, key); ok {
		common.LogCacheHit("translation", key)
		return cached
	}
	common.LogCacheMiss("translation", key)

	var lastErr error
	for _, p := range s.providers {
		result, err := p.Translate(ctx, text, from, to)
		if err == nil && strings.TrimSpace(result.TranslatedText) == "" {
			err = fmt.Errorf("empty translation")
		}
		if err != nil {
			common.LogWarn("翻譯服務失敗",
				zap.String("provider", string(p.Name())),
				zap.String("text", text),
				zap.Error(err),
			)
			lastErr = err
			if ctx.Err() != nil {
				// 請求已取消，不快取這次的結果
				return fallback(text, ctx.Err().Error())
			}
			continue
		}

		result.Confidence = clamp(result.Confidence)
		s.cache.Set(ctx, key, result)
		return result
	}

	reason := "all translation providers failed"
	if lastErr != nil {
		reason = fmt.Sprintf("%s: %v", reason, lastErr)
	}
	result := fallback(text, reason)
	s.cache.Set(ctx, key, result)
	return result
}

// ClearCache 清空翻譯快取
func (s *Service) ClearCache(ctx context.Context) {
	s.cache.Clear(ctx)
}

// CacheSize 快取筆數
func (s *Service) CacheSize(ctx context.Context) int {
	return s.cache.Len(ctx)
}

// Accept 判斷搜尋時是否採用翻譯結果，並回傳原因
func Accept(original string, result domain.TranslationResult, minConfidence float64) (bool, string) {
	switch {
	case result.Provenance == domain.TranslationFallback:
		return false, "translation unavailable, using original query"
	case domain.EqualFold(result.TranslatedText, original):
		return false, "translation identical to original query"
	case result.Confidence <= minConfidence:
		return false, fmt.Sprintf("translation confidence %.2f not above %.2f", result.Confidence, minConfidence)
	default:
		return true, "translated query used"
	}
}

func fallback(text, reason string) domain.TranslationResult {
	return domain.TranslationResult{
		TranslatedText: text,
		Confidence:     0,
		Provenance:     domain.TranslationFallback,
		Error:          reason,
	}
}

func clamp(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
