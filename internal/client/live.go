package client

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"recipe-finder/internal/core/domain"
)

// DefaultDebounce 輸入停止後多久才送出搜尋
const DefaultDebounce = 300 * time.Millisecond

// MinQueryLength 送出搜尋所需的最少字元數
const MinQueryLength = 2

// Sequencer 產生遞增的請求編號，只有最新的請求結果會被採用
type Sequencer struct {
	latest atomic.Uint64
}

// Next 發出新請求
func (s *Sequencer) Next() uint64 {
	return s.latest.Add(1)
}

// IsLatest tag 是否為最後發出的請求
func (s *Sequencer) IsLatest(tag uint64) bool {
	return s.latest.Load() == tag
}

// Debouncer 在連續觸發停止 delay 後才執行最後一次的函式
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer 創建 Debouncer
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger 重新計時，取代尚未執行的函式
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop 取消尚未執行的函式
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// SearchFunc 實際執行搜尋
type SearchFunc func(ctx context.Context, query string) (*domain.SearchResult, error)

// Update 搜尋結果；Cleared 表示查詢太短，畫面應清空
type Update struct {
	Query   string
	Result  *domain.SearchResult
	Err     error
	Cleared bool
}

// LiveSearch 邊打字邊搜尋：防抖、最短長度與丟棄過期結果
type LiveSearch struct {
	ctx      context.Context
	search   SearchFunc
	onUpdate func(Update)
	seq      Sequencer
	debounce *Debouncer
}

// NewLiveSearch onUpdate 只會收到最新一次輸入的結果
func NewLiveSearch(ctx context.Context, search SearchFunc, delay time.Duration, onUpdate func(Update)) *LiveSearch {
	return &LiveSearch{
		ctx:      ctx,
		search:   search,
		onUpdate: onUpdate,
		debounce: NewDebouncer(delay),
	}
}

// Input 使用者輸入改變
func (l *LiveSearch) Input(query string) {
	tag := l.seq.Next()
	q := strings.TrimSpace(query)

	if utf8.RuneCountInString(q) < MinQueryLength {
		l.debounce.Stop()
		l.onUpdate(Update{Query: q, Cleared: true})
		return
	}

	l.debounce.Trigger(func() {
		result, err := l.search(l.ctx, q)
		if !l.seq.IsLatest(tag) {
			return
		}
		l.onUpdate(Update{Query: q, Result: result, Err: err})
	})
}

// Close 取消尚未送出的搜尋，之後到達的結果一律丟棄
func (l *LiveSearch) Close() {
	l.debounce.Stop()
	l.seq.Next()
}
