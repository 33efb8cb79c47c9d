package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"recipe-finder/internal/core/domain"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// MemoryCache 行程內翻譯快取，條目寫入後不過期也不淘汰
type MemoryCache struct {
	mu    sync.RWMutex
	store map[string]domain.TranslationResult
	stats stats
}

type stats struct {
	hits   atomic.Int64
	misses atomic.Int64
	errors atomic.Int64
}

func (s *stats) snapshot() map[string]interface{} {
	hits, misses := s.hits.Load(), s.misses.Load()
	ratio := 0.0
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return map[string]interface{}{
		"hits":      hits,
		"misses":    misses,
		"errors":    s.errors.Load(),
		"hit_ratio": ratio,
	}
}

// NewMemory 創建記憶體快取
func NewMemory() *MemoryCache {
	return &MemoryCache{
		store: make(map[string]domain.TranslationResult),
	}
}

// Get 讀取快取
func (m *MemoryCache) Get(_ context.Context, key string) (domain.TranslationResult, bool) {
	m.mu.RLock()
	result, ok := m.store[key]
	m.mu.RUnlock()

	if ok {
		m.stats.hits.Add(1)
	} else {
		m.stats.misses.Add(1)
	}
	return result, ok
}

// Set 寫入快取，相同鍵重複寫入結果相同
func (m *MemoryCache) Set(_ context.Context, key string, result domain.TranslationResult) {
	m.mu.Lock()
	m.store[key] = result
	m.mu.Unlock()
}

// Len 快取筆數
func (m *MemoryCache) Len(_ context.Context) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}

// Clear 清空快取
func (m *MemoryCache) Clear(_ context.Context) {
	m.mu.Lock()
	m.store = make(map[string]domain.TranslationResult)
	m.mu.Unlock()
}

// GetStats 獲取快取統計信息
func (m *MemoryCache) GetStats(ctx context.Context) map[string]interface{} {
	s := m.stats.snapshot()
	s["type"] = "memory"
	s["size"] = m.Len(ctx)
	return s
}

// Close 關閉快取
func (m *MemoryCache) Close() error {
	m.mu.Lock()
	size := len(m.store)
	m.store = make(map[string]domain.TranslationResult)
	m.mu.Unlock()

	common.LogInfo("快取管理員已關閉",
		zap.Int("筆數", size),
		zap.Int64("命中次數", m.stats.hits.Load()),
		zap.Int64("未命中次數", m.stats.misses.Load()),
	)
	return nil
}
