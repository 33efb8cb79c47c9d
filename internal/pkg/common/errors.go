package common

import (
	"errors"
	"net/http"

	"recipe-finder/internal/core/domain"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Error   string `json:"error"`             // 錯誤信息
	Code    string `json:"code"`              // 錯誤代碼
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Wrap 以預定義錯誤為模板附加原始錯誤
func (e *CustomError) Wrap(err error) *CustomError {
	return NewError(e.Code, e.Message, e.Status, err)
}

// WithMessage 以預定義錯誤為模板替換訊息
func (e *CustomError) WithMessage(message string) *CustomError {
	return NewError(e.Code, message, e.Status, e.Err)
}

// Response 轉為響應結構，debug 時附帶原始錯誤
func (e *CustomError) Response(debug bool) ErrorResponse {
	resp := ErrorResponse{Error: e.Message, Code: e.Code}
	if debug && e.Err != nil {
		resp.Details = e.Err.Error()
	}
	return resp
}

// ValidationError 表示驗證錯誤
type ValidationError struct {
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeQuotaExceeded   = "QUOTA_EXCEEDED"    // 402
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeRequestTimeout  = "REQUEST_TIMEOUT"   // 408
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeMissingCredential  = "MISSING_CREDENTIAL"  // 500
	ErrCodeUpstreamError      = "UPSTREAM_ERROR"      // 502 或上游狀態碼
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "invalid request", http.StatusBadRequest, nil)
	ErrQuotaExceeded   = NewError(ErrCodeQuotaExceeded, "service limit reached, please try again later", http.StatusPaymentRequired, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "resource not found", http.StatusNotFound, nil)
	ErrRequestTimeout  = NewError(ErrCodeRequestTimeout, "request timed out", http.StatusRequestTimeout, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "too many requests", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "internal server error", http.StatusInternalServerError, nil)
	ErrMissingCredential  = NewError(ErrCodeMissingCredential, "recipe provider is not configured", http.StatusInternalServerError, nil)
	ErrUpstream           = NewError(ErrCodeUpstreamError, "upstream provider error", http.StatusBadGateway, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "service temporarily unavailable", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "upstream provider timed out", http.StatusGatewayTimeout, nil)
)

// FromError 將核心層錯誤轉為帶 HTTP 狀態碼的 CustomError
func FromError(err error) *CustomError {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce
	}

	switch {
	case IsValidationError(err),
		errors.Is(err, domain.ErrInvalidQuery),
		errors.Is(err, domain.ErrLimitExceeded),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrMissingID):
		return ErrInvalidRequest.WithMessage(validationMessage(err)).Wrap(err)
	case errors.Is(err, domain.ErrQuotaExceeded):
		return ErrQuotaExceeded.Wrap(err)
	case errors.Is(err, domain.ErrNotFound):
		return ErrNotFound.Wrap(err)
	case errors.Is(err, domain.ErrMissingCredential):
		return ErrMissingCredential.Wrap(err)
	case errors.Is(err, domain.ErrUpstream):
		upstream := ErrUpstream.Wrap(err)
		if status, ok := domain.UpstreamStatus(err); ok && status >= 400 && status < 600 {
			upstream.Status = status
		}
		return upstream
	default:
		return ErrInternalError.Wrap(err)
	}
}

// validationMessage 取出最內層的驗證訊息，避免把包裝前綴回給用戶
func validationMessage(err error) string {
	for _, sentinel := range []error{
		domain.ErrInvalidQuery,
		domain.ErrLimitExceeded,
		domain.ErrInvalidInput,
		domain.ErrMissingID,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.message
	}
	return err.Error()
}
