package provider

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-finder/internal/core/domain"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteMapsStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		target error
	}{
		{"not found", http.StatusNotFound, domain.ErrNotFound},
		{"payment required is quota", http.StatusPaymentRequired, domain.ErrQuotaExceeded},
		{"server error is upstream", http.StatusServiceUnavailable, domain.ErrUpstream},
		{"unauthorized is upstream", http.StatusUnauthorized, domain.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"message":"nope"}`))
			}))
			defer server.Close()

			client := NewRESTClient(Options{BaseURL: server.URL})
			_, err := Execute("test", "get", func() (*resty.Response, error) {
				return client.R().Get("/thing")
			})

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target))
			status, ok := domain.UpstreamStatus(err)
			assert.True(t, ok)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestExecuteSuccessAndDecode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "FoodApp/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"count": "42"})
	}))
	defer server.Close()

	client := NewRESTClient(Options{BaseURL: server.URL + "/", UserAgent: "FoodApp/1.0"})
	resp, err := Execute("test", "get", func() (*resty.Response, error) {
		return client.R().Get("/search")
	})
	require.NoError(t, err)

	var body struct {
		Count FlexInt `json:"count"`
	}
	require.NoError(t, Decode("test", resp, &body))
	assert.Equal(t, FlexInt(42), body.Count)
}

func TestExecuteNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewRESTClient(Options{BaseURL: server.URL, Timeout: 20 * time.Millisecond})
	_, err := Execute("test", "get", func() (*resty.Response, error) {
		return client.R().Get("/slow")
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNetwork))
	_, ok := domain.UpstreamStatus(err)
	assert.False(t, ok)
}

func TestDecodeInvalidBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	client := NewRESTClient(Options{BaseURL: server.URL})
	resp, err := Execute("test", "get", func() (*resty.Response, error) {
		return client.R().Get("/")
	})
	require.NoError(t, err)

	var v map[string]interface{}
	err = Decode("test", resp, &v)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNetwork))
}

func TestFlexInt(t *testing.T) {
	tests := []struct {
		in   string
		want FlexInt
	}{
		{`12`, 12},
		{`"34"`, 34},
		{`null`, 0},
		{`""`, 0},
		{`5.0`, 5},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var f FlexInt
			require.NoError(t, json.Unmarshal([]byte(tt.in), &f))
			assert.Equal(t, tt.want, f)
		})
	}

	var f FlexInt
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &f))
}
