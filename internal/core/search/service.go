package search

import (
	"context"
	"fmt"
	"strings"

	"recipe-finder/internal/core/domain"
	"recipe-finder/internal/core/translation"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// Config 搜尋服務設定
type Config struct {
	DefaultPageSize int
	SourceLang      string
	TargetLang      string
	MinConfidence   float64
}

// Service 單一供應商的食材搜尋，供應商於建構時決定
type Service struct {
	provider   domain.SearchProvider
	translator domain.Translator
	cfg        Config
}

// NewService 創建搜尋服務，translator 可為 nil
func NewService(provider domain.SearchProvider, translator domain.Translator, cfg Config) *Service {
	if cfg.DefaultPageSize < 1 {
		cfg.DefaultPageSize = 20
	}
	if cfg.SourceLang == "" {
		cfg.SourceLang = "fr"
	}
	if cfg.TargetLang == "" {
		cfg.TargetLang = "en"
	}
	// 0 為合法門檻，只有負值才換成預設
	if cfg.MinConfidence < 0 {
		cfg.MinConfidence = translation.DefaultMinConfidence
	}
	return &Service{
		provider:   provider,
		translator: translator,
		cfg:        cfg,
	}
}

// Provider 目前使用的供應商
func (s *Service) Provider() domain.ProviderName {
	return s.provider.Name()
}

// DefaultPageSize 未指定時的分頁大小
func (s *Service) DefaultPageSize() int {
	return s.cfg.DefaultPageSize
}

// SearchFoods 搜尋食材；空查詢與超過上限的分頁大小在發出請求前即拒絕
func (s *Service) SearchFoods(ctx context.Context, query string, page, pageSize int) (*domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidQuery
	}
	if pageSize > domain.MaxPageSize {
		return nil, domain.ErrLimitExceeded
	}
	if pageSize < 1 {
		pageSize = s.cfg.DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	searched := query
	var info *domain.SearchInfo
	if s.provider.LanguageSensitive() && s.translator != nil {
		info = s.translate(ctx, query)
		searched = info.SearchedTerm
	}

	result, err := s.provider.Search(ctx, searched, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.provider.Name(), err)
	}

	// 供應商轉換時已過濾，這裡再次確保名稱非空
	items := make([]domain.FoodItem, 0, len(result.Items))
	for _, item := range result.Items {
		if strings.TrimSpace(item.Name) != "" {
			items = append(items, item)
		}
	}
	result.Items = items
	result.Info = info

	common.LogDebug("食材搜尋完成",
		zap.String("provider", string(s.provider.Name())),
		zap.String("query", query),
		zap.String("searched", searched),
		zap.Int("count", len(result.Items)),
	)
	return result, nil
}

func (s *Service) translate(ctx context.Context, query string) *domain.SearchInfo {
	tr := s.translator.Translate(ctx, query, s.cfg.SourceLang, s.cfg.TargetLang)
	applied, reason := translation.Accept(query, tr, s.cfg.MinConfidence)

	info := &domain.SearchInfo{
		OriginalTerm:       query,
		SearchedTerm:       query,
		Translation:        &tr,
		TranslationApplied: applied,
		Reason:             reason,
	}
	if applied {
		info.SearchedTerm = strings.TrimSpace(tr.TranslatedText)
	}
	return info
}
