package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"recipe-finder/internal/core/domain"
	"recipe-finder/internal/core/provider"

	"github.com/go-resty/resty/v2"
)

// DefaultMyMemoryURL MyMemory 公開 API
const DefaultMyMemoryURL = "https://api.mymemory.translated.net"

// 未提供 match 時的信心值
const defaultConfidence = 0.8

// MyMemory 免費翻譯服務，無需金鑰
type MyMemory struct {
	http *resty.Client
}

// NewMyMemory 創建 MyMemory 客戶端
func NewMyMemory(baseURL, userAgent string, timeout time.Duration) *MyMemory {
	if baseURL == "" {
		baseURL = DefaultMyMemoryURL
	}
	return &MyMemory{
		http: provider.NewRESTClient(provider.Options{BaseURL: baseURL, Timeout: timeout, UserAgent: userAgent}),
	}
}

// Name 翻譯來源
func (m *MyMemory) Name() domain.TranslationSource {
	return domain.TranslationMyMemory
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string          `json:"translatedText"`
		Match          json.RawMessage `json:"match"`
	} `json:"responseData"`
	ResponseStatus  provider.FlexInt `json:"responseStatus"`
	ResponseDetails string           `json:"responseDetails"`
}

// Translate 呼叫 MyMemory，responseStatus 必須為 200
func (m *MyMemory) Translate(ctx context.Context, text, from, to string) (domain.TranslationResult, error) {
	name := string(domain.TranslationMyMemory)
	resp, err := provider.Execute(name, "translate", func() (*resty.Response, error) {
		return m.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"q":        text,
				"langpair": from + "|" + to,
			}).
			Get("/get")
	})
	if err != nil {
		return domain.TranslationResult{}, err
	}

	var body myMemoryResponse
	if err := provider.Decode(name, resp, &body); err != nil {
		return domain.TranslationResult{}, err
	}
	if body.ResponseStatus != 200 {
		details := body.ResponseDetails
		if details == "" {
			details = "translation failed"
		}
		return domain.TranslationResult{}, fmt.Errorf("mymemory: status %d: %s", body.ResponseStatus, details)
	}

	return domain.TranslationResult{
		TranslatedText: strings.TrimSpace(body.ResponseData.TranslatedText),
		Confidence:     parseMatch(body.ResponseData.Match),
		Provenance:     domain.TranslationMyMemory,
	}, nil
}

// parseMatch match 可能是數字或字串，缺少或為 0 時使用預設值
func parseMatch(raw json.RawMessage) float64 {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v == 0 {
		return defaultConfidence
	}
	return v
}
