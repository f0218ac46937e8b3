package search

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

type recorded struct {
	method string
	path   string
	body   string
}

func newTestIndex(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*AccountIndex, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{method: r.Method, path: r.URL.Path, body: string(b)})
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewAccountIndex(es, "accounts"), &calls
}

func TestAccountIndex_IndexOmitsCredentials(t *testing.T) {
	idx, calls := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	name := "Jane Doe"
	token := "secret-token"
	a := &entity.Account{
		ID: "acc-1", FullName: &name, Email: "jane@x.com", PasswordHash: "$2a$10$hash",
		Mobile: "555-0100", Role: "user", Token: &token, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, idx.Index(t.Context(), a))

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodPut, call.method)
	assert.Equal(t, "/accounts/_doc/acc-1", call.path)
	assert.Contains(t, call.body, `"email":"jane@x.com"`)
	assert.NotContains(t, call.body, "$2a$10$hash")
	assert.NotContains(t, call.body, "secret-token")
}

func TestAccountIndex_RemoveIgnoresMissing(t *testing.T) {
	idx, _ := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})
	assert.NoError(t, idx.Remove(t.Context(), "acc-1"))
}

func TestAccountIndex_Search(t *testing.T) {
	idx, calls := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"hits": map[string]any{
				"hits": []map[string]any{
					{"_id": "acc-1", "_source": map[string]any{"id": "acc-1", "email": "jane@x.com"}},
				},
			},
		})
	})

	hits, err := idx.Search(t.Context(), "jane", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "jane@x.com", hits[0]["email"])

	require.Len(t, *calls, 1)
	assert.True(t, strings.HasSuffix((*calls)[0].path, "/accounts/_search"))
	assert.Contains(t, (*calls)[0].body, `"multi_match"`)
	assert.Contains(t, (*calls)[0].body, `"size":5`)
}

func TestAccountIndex_SearchErrorStatus(t *testing.T) {
	idx, _ := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})
	_, err := idx.Search(t.Context(), "jane", 5)
	assert.Error(t, err)
}
