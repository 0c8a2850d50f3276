package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *WooClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewWooClient(Config{
		BaseURL:        srv.URL + "/",
		ConsumerKey:    "ck",
		ConsumerSecret: "cs",
		TimeoutSeconds: 5,
		MaxRetries:     2,
		RetryWaitMs:    1,
		RetryMaxWaitMs: 5,
		PageSize:       2,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewWooClient_MissingCredentials(t *testing.T) {
	_, err := NewWooClient(Config{BaseURL: "https://shop.example"}, nil)
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = NewWooClient(Config{ConsumerKey: "ck", ConsumerSecret: "cs"}, nil)
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestConfig_Credentials(t *testing.T) {
	user, pass, ok := Config{Username: "u", AppPassword: "p"}.Credentials()
	assert.True(t, ok)
	assert.Equal(t, "u", user)
	assert.Equal(t, "p", pass)

	user, _, ok = Config{ConsumerKey: "ck", ConsumerSecret: "cs", Username: "u", AppPassword: "p"}.Credentials()
	assert.True(t, ok)
	assert.Equal(t, "ck", user)

	assert.False(t, Config{BaseURL: "x", ConsumerKey: "ck"}.IsConfigured())
}

func TestWooClient_FetchAllPaginates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "ck" || pass != "cs" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "/wp-json/wc/v3/products/categories", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("per_page"))

		switch r.URL.Query().Get("page") {
		case "1":
			writeJSON(w, http.StatusOK, []Category{{ID: 1, Name: "Furniture"}, {ID: 2, Name: "Sofas", Parent: 1}})
		case "2":
			writeJSON(w, http.StatusOK, []Category{{ID: 3, Name: "Garden"}})
		default:
			t.Errorf("unexpected page %s", r.URL.Query().Get("page"))
		}
	})

	cats, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Category{
		{ID: 1, Name: "Furniture"},
		{ID: 2, Name: "Sofas", Parent: 1},
		{ID: 3, Name: "Garden"},
	}, cats)
}

func TestWooClient_FetchAllStopsOnInvalidPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			writeJSON(w, http.StatusOK, []Category{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": "rest_post_invalid_page_number"})
	})

	cats, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 2)
}

func TestWooClient_RetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, []Category{{ID: 7, Name: "Tools"}})
	})

	cats, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestWooClient_CreateIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Create(context.Background(), "Tools", 0)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWooClient_Create(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if body["name"] == "Existing" {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"code": "term_exists",
				"data": map[string]any{"status": 400, "resource_id": 55},
			})
			return
		}
		assert.Equal(t, "Õuemööbel", body["name"])
		assert.Equal(t, "ouemoobel", body["slug"])
		assert.Equal(t, float64(9), body["parent"])
		writeJSON(w, http.StatusCreated, map[string]any{"id": 42, "name": body["name"]})
	})

	id, err := client.Create(context.Background(), "Õuemööbel", 9)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	id, err = client.Create(context.Background(), "Existing", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(55), id)
}

func TestWooClient_Mutations(t *testing.T) {
	type call struct {
		method string
		path   string
		query  string
		body   map[string]any
	}
	var calls []call
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		c := call{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery}
		if r.ContentLength > 0 {
			_ = json.NewDecoder(r.Body).Decode(&c.body)
		}
		calls = append(calls, c)
		writeJSON(w, http.StatusOK, map[string]any{"id": 1})
	})
	ctx := context.Background()

	require.NoError(t, client.SetParent(ctx, 5, 2))
	require.NoError(t, client.Rename(ctx, 5, "Couches"))
	require.NoError(t, client.Relocate(ctx, 5, "Couches", 3))
	require.NoError(t, client.Delete(ctx, 6))
	require.NoError(t, client.SetProductCategories(ctx, 100, []int64{3, 4}))

	require.Len(t, calls, 5)
	assert.Equal(t, call{http.MethodPut, "/wp-json/wc/v3/products/categories/5", "", map[string]any{"parent": float64(2)}}, calls[0])
	assert.Equal(t, map[string]any{"name": "Couches"}, calls[1].body)
	assert.Equal(t, map[string]any{"name": "Couches", "parent": float64(3)}, calls[2].body)
	assert.Equal(t, http.MethodDelete, calls[3].method)
	assert.Equal(t, "force=true", calls[3].query)
	assert.Equal(t, "/wp-json/wc/v3/products/100", calls[4].path)
	assert.Equal(t, []any{map[string]any{"id": float64(3)}, map[string]any{"id": float64(4)}}, calls[4].body["categories"])
}

func TestWooClient_ListProductsByCategory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/wc/v3/products", r.URL.Path)
		assert.Equal(t, "12", r.URL.Query().Get("category"))
		if r.URL.Query().Get("page") != "1" {
			writeJSON(w, http.StatusOK, []any{})
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 100, "name": "Sofa", "categories": []map[string]any{{"id": 12}, {"id": 1}}},
			{"id": 0, "name": "broken"},
		})
	})

	refs, err := client.ListProductsByCategory(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, []ProductRef{{ID: 100, Name: "Sofa", CategoryIDs: []int64{12, 1}}}, refs)
}
