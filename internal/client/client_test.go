package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"recipe-finder/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SearchIngredients(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/ingredients/search", r.URL.Path)
		assert.Equal(t, "pomme", r.URL.Query().Get("query"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"foods":[{"name":"apple","source":{"provider":"spoonacular","id":"9003"}}],"total":1,"page":1,"limit":5,"hasMore":false,"source":"spoonacular","searchInfo":{"originalTerm":"pomme","searchedTerm":"apple","translationApplied":true}}`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/v1", time.Second)
	res, err := c.SearchIngredients(context.Background(), "pomme", 0, 5)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "apple", res.Items[0].Name)
	require.NotNil(t, res.Info)
	assert.Equal(t, "apple", res.Info.SearchedTerm)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = io.WriteString(w, `{"error":"service limit reached, please try again later","code":"QUOTA_EXCEEDED"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).FindRecipes(context.Background(), []string{"tomato"}, 0, domain.MaximizeUsed)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusPaymentRequired, apiErr.Status)
	assert.Equal(t, "QUOTA_EXCEEDED", apiErr.Code)
}

func TestClient_ShoppingList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/recipes/42/shopping-list", r.URL.Path)

		var body struct {
			Owned  []string `json:"owned"`
			ListID string   `json:"listId"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"tomato"}, body.Owned)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"owned":[],"missing":[{"id":1,"name":"cheese","original":"100 g cheese","amount":100,"unit":"g","measures":{}}],"shoppingList":{"_id":"l1","recipeId":"42","items":[{"name":"cheese","quantity":100,"unit":"g","checked":false}],"createdAt":"2026-03-01T12:00:00Z"},"source":"spoonacular"}`)
	}))
	defer srv.Close()

	res, err := New(srv.URL, time.Second).ShoppingList(context.Background(), "42", []string{"tomato"}, "")
	require.NoError(t, err)
	assert.Equal(t, "l1", res.ShoppingList.ID)
	require.Len(t, res.Missing, 1)
	assert.Equal(t, "cheese", res.Missing[0].RawName)
}

func TestClient_Translate(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			_, _ = io.WriteString(w, `{"success":true,"result":{"translatedText":"apple","confidence":0.9,"source":"mymemory"}}`)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"success":false,"error":"text is required"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	res, err := c.Translate(context.Background(), "pomme", "fr", "en")
	require.NoError(t, err)
	assert.Equal(t, "apple", res.TranslatedText)
	assert.Equal(t, domain.TranslationMyMemory, res.Provenance)

	_, err = c.Translate(context.Background(), "", "fr", "en")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "text is required", apiErr.Message)
}
