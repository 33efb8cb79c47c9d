package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipe-finder/internal/client"
	"recipe-finder/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, handler http.HandlerFunc) (*app, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	out := &bytes.Buffer{}
	return &app{
		api:    client.New(srv.URL, time.Second),
		pantry: storage.NewPantry(storage.NewMemoryStore()),
		out:    out,
		in:     strings.NewReader(""),
	}, out
}

func TestPantryCommands(t *testing.T) {
	a, out := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL)
	})
	ctx := context.Background()

	require.NoError(t, a.run(ctx, "pantry", []string{"add", "Tomato,", "onion", "tomato"}))
	assert.Equal(t, "tomato\nonion\n", out.String())

	out.Reset()
	require.NoError(t, a.run(ctx, "pantry", []string{"remove", "TOMATO"}))
	assert.Equal(t, "onion\n", out.String())

	out.Reset()
	require.NoError(t, a.run(ctx, "pantry", []string{"clear"}))
	require.NoError(t, a.run(ctx, "pantry", []string{"list"}))
	assert.Contains(t, out.String(), "pantry is empty")

	assert.Error(t, a.run(ctx, "pantry", []string{"bogus"}))
	assert.Error(t, a.run(ctx, "nope", nil))
}

func TestRecipesRequiresIngredients(t *testing.T) {
	a, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL)
	})

	err := a.run(context.Background(), "recipes", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pantry is empty")
}

func TestShopSavesList(t *testing.T) {
	a, out := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Owned  []string `json:"owned"`
			ListID string   `json:"listId"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"tomato"}, body.Owned)
		assert.NotEmpty(t, body.ListID)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"owned":[{"id":1,"name":"tomato","original":"2 tomatoes","amount":2,"unit":"","measures":{}}],"missing":[{"id":2,"name":"cheese","original":"100 g cheese","amount":100,"unit":"g","measures":{}}],"shoppingList":{"_id":"`+body.ListID+`","recipeId":"42","recipeTitle":"Tart","items":[{"name":"cheese","quantity":100,"unit":"g","checked":false}],"createdAt":"2026-03-01T12:00:00Z"},"source":"spoonacular"}`)
	})
	ctx := context.Background()

	_, err := a.pantry.Add("tomato")
	require.NoError(t, err)

	require.NoError(t, a.run(ctx, "shop", []string{"42"}))
	assert.Contains(t, out.String(), "you have 1 of 2 ingredients")
	assert.Contains(t, out.String(), "[ ] 100 g cheese")

	lists, err := a.pantry.Lists()
	require.NoError(t, err)
	require.Len(t, lists, 1)

	out.Reset()
	require.NoError(t, a.run(ctx, "lists", []string{"toggle", lists[0].ID, "1"}))
	assert.Contains(t, out.String(), "[x] 100 g cheese")

	require.NoError(t, a.run(ctx, "lists", []string{"delete", lists[0].ID}))
	out.Reset()
	require.NoError(t, a.run(ctx, "lists", nil))
	assert.Contains(t, out.String(), "no shopping lists")
}

func TestLiveCommand(t *testing.T) {
	a, out := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ingredients/search", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"foods":[{"name":"`+r.URL.Query().Get("query")+`","source":{"provider":"spoonacular","id":"1"}}],"total":1,"page":1,"limit":10,"source":"spoonacular"}`)
	})
	a.in = strings.NewReader("t\nto\ntom\n")

	require.NoError(t, a.run(context.Background(), "live", []string{"--debounce", "20ms"}))
	assert.Contains(t, out.String(), `> "t" (type at least 2 characters)`)
	assert.Contains(t, out.String(), `> "tom"`)
}

func TestLiveCommand_ManyShortLines(t *testing.T) {
	a, out := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL)
	})
	a.in = strings.NewReader(strings.Repeat("x\n", 100))

	errc := make(chan error, 1)
	go func() {
		errc <- a.run(context.Background(), "live", []string{"--debounce", "20ms"})
	}()

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("live command did not finish")
	}
	assert.Equal(t, 100, strings.Count(out.String(), `> "x" (type at least 2 characters)`))
}
