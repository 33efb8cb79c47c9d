package translation

import (
	"context"
	"strings"
	"time"

	"recipe-finder/internal/core/domain"
	"recipe-finder/internal/core/provider"

	"github.com/go-resty/resty/v2"
)

// DefaultLibreTranslateURL LibreTranslate 公開實例
const DefaultLibreTranslateURL = "https://libretranslate.com"

// LibreTranslate 開源翻譯服務
type LibreTranslate struct {
	http   *resty.Client
	apiKey string
}

// NewLibreTranslate 創建 LibreTranslate 客戶端，apiKey 可為空
func NewLibreTranslate(baseURL, apiKey string, timeout time.Duration) *LibreTranslate {
	if baseURL == "" {
		baseURL = DefaultLibreTranslateURL
	}
	return &LibreTranslate{
		http:   provider.NewRESTClient(provider.Options{BaseURL: baseURL, Timeout: timeout}),
		apiKey: apiKey,
	}
}

// Name 翻譯來源
func (l *LibreTranslate) Name() domain.TranslationSource {
	return domain.TranslationLibreTranslate
}

type libreTranslateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

// Translate 呼叫 LibreTranslate，不提供信心值故固定為 0.8
func (l *LibreTranslate) Translate(ctx context.Context, text, from, to string) (domain.TranslationResult, error) {
	name := string(domain.TranslationLibreTranslate)
	resp, err := provider.Execute(name, "translate", func() (*resty.Response, error) {
		return l.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(libreTranslateRequest{
				Q:      text,
				Source: from,
				Target: to,
				Format: "text",
				APIKey: l.apiKey,
			}).
			Post("/translate")
	})
	if err != nil {
		return domain.TranslationResult{}, err
	}

	var body struct {
		TranslatedText string `json:"translatedText"`
	}
	if err := provider.Decode(name, resp, &body); err != nil {
		return domain.TranslationResult{}, err
	}

	return domain.TranslationResult{
		TranslatedText: strings.TrimSpace(body.TranslatedText),
		Confidence:     defaultConfidence,
		Provenance:     domain.TranslationLibreTranslate,
	}, nil
}
