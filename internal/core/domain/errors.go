package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery 查詢字串為空
	ErrInvalidQuery = errors.New("search query is required")

	// ErrLimitExceeded 分頁大小超過上限
	ErrLimitExceeded = fmt.Errorf("limit cannot exceed %d", MaxPageSize)

	// ErrInvalidInput 食材清單為空
	ErrInvalidInput = errors.New("at least one ingredient is required")

	// ErrMissingID 缺少食譜 ID
	ErrMissingID = errors.New("recipe id is required")

	// ErrNotFound 外部資源不存在
	ErrNotFound = errors.New("resource not found")

	// ErrQuotaExceeded 外部服務額度用盡
	ErrQuotaExceeded = errors.New("provider quota exceeded")

	// ErrMissingCredential 缺少外部服務 API 金鑰
	ErrMissingCredential = errors.New("provider credential is not configured")

	// ErrUpstream 外部服務回傳非 2xx
	ErrUpstream = errors.New("provider returned an error")

	// ErrNetwork 網路錯誤或無法解析的回應
	ErrNetwork = errors.New("provider request failed")
)

// ProviderErrorKind 外部服務錯誤分類
type ProviderErrorKind int

const (
	KindUpstream ProviderErrorKind = iota
	KindNotFound
	KindQuotaExceeded
	KindNetwork
)

func (k ProviderErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindQuotaExceeded:
		return "quota_exceeded"
	case KindNetwork:
		return "network"
	default:
		return "upstream"
	}
}

// ProviderError 外部服務錯誤，Status 為上游 HTTP 狀態碼（網路錯誤時為 0）
type ProviderError struct {
	Provider string
	Kind     ProviderErrorKind
	Status   int
	Err      error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is 讓 errors.Is 可以用哨兵錯誤判斷分類
func (e *ProviderError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrQuotaExceeded:
		return e.Kind == KindQuotaExceeded
	case ErrUpstream:
		return e.Kind == KindUpstream
	case ErrNetwork:
		return e.Kind == KindNetwork
	}
	return false
}

// NewProviderError 創建外部服務錯誤
func NewProviderError(provider string, kind ProviderErrorKind, status int, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Status: status, Err: err}
}

// UpstreamStatus 取出上游狀態碼
func UpstreamStatus(err error) (int, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Status != 0 {
		return pe.Status, true
	}
	return 0, false
}
