package translation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-finder/internal/core/domain"
	"recipe-finder/internal/core/provider"

	"github.com/go-resty/resty/v2"
)

// DefaultDeepLURL DeepL 免費方案
const DefaultDeepLURL = "https://api-free.deepl.com"

// DeepL 需要金鑰，設定後優先使用
type DeepL struct {
	http *resty.Client
}

// NewDeepL 創建 DeepL 客戶端
func NewDeepL(baseURL, apiKey string, timeout time.Duration) *DeepL {
	if baseURL == "" {
		baseURL = DefaultDeepLURL
	}
	client := provider.NewRESTClient(provider.Options{BaseURL: baseURL, Timeout: timeout})
	client.SetHeader("Authorization", "DeepL-Auth-Key "+apiKey)
	return &DeepL{http: client}
}

// Name 翻譯來源
func (d *DeepL) Name() domain.TranslationSource {
	return domain.TranslationDeepL
}

// Translate 呼叫 DeepL，語言代碼需大寫
func (d *DeepL) Translate(ctx context.Context, text, from, to string) (domain.TranslationResult, error) {
	name := string(domain.TranslationDeepL)
	resp, err := provider.Execute(name, "translate", func() (*resty.Response, error) {
		return d.http.R().
			SetContext(ctx).
			SetFormData(map[string]string{
				"text":        text,
				"source_lang": strings.ToUpper(from),
				"target_lang": strings.ToUpper(to),
			}).
			Post("/v2/translate")
	})
	if err != nil {
		return domain.TranslationResult{}, err
	}

	var body struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := provider.Decode(name, resp, &body); err != nil {
		return domain.TranslationResult{}, err
	}
	if len(body.Translations) == 0 {
		return domain.TranslationResult{}, fmt.Errorf("deepl: no translation returned")
	}

	return domain.TranslationResult{
		TranslatedText: strings.TrimSpace(body.Translations[0].Text),
		Confidence:     0.95,
		Provenance:     domain.TranslationDeepL,
	}, nil
}
