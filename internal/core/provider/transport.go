package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"recipe-finder/internal/core/domain"
	"recipe-finder/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout 外部請求預設逾時
const DefaultTimeout = 10 * time.Second

// Options 外部服務 HTTP 客戶端設定
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// NewRESTClient 創建外部服務用的 resty 客戶端（不重試）
func NewRESTClient(opts Options) *resty.Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	return client
}

// Execute 執行請求、記錄耗時並把狀態碼轉為 ProviderError
func Execute(provider, operation string, do func() (*resty.Response, error)) (*resty.Response, error) {
	start := time.Now()
	resp, err := do()
	err = CheckResponse(provider, resp, err)
	common.LogProviderCall(provider, operation, time.Since(start), err)
	return resp, err
}

// CheckResponse 將傳輸錯誤與非 2xx 狀態碼轉為 ProviderError
func CheckResponse(provider string, resp *resty.Response, err error) error {
	if err != nil {
		return domain.NewProviderError(provider, domain.KindNetwork, 0, err)
	}
	if resp == nil {
		return domain.NewProviderError(provider, domain.KindNetwork, 0, fmt.Errorf("empty response"))
	}

	code := resp.StatusCode()
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return domain.NewProviderError(provider, domain.KindNotFound, code, nil)
	case code == http.StatusPaymentRequired:
		return domain.NewProviderError(provider, domain.KindQuotaExceeded, code, nil)
	default:
		return domain.NewProviderError(provider, domain.KindUpstream, code,
			fmt.Errorf("%s", common.Truncate(strings.TrimSpace(resp.String()), 200)))
	}
}

// Decode 解析回應內容，失敗視為網路錯誤
func Decode(provider string, resp *resty.Response, v interface{}) error {
	if err := common.ParseJSONBytes(resp.Body(), v); err != nil {
		return domain.NewProviderError(provider, domain.KindNetwork, 0, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// FlexInt 接受數字或數字字串的整數欄位
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
		if len(data) == 0 {
			*f = 0
			return nil
		}
	}
	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", data, err)
	}
	*f = FlexInt(n)
	return nil
}
