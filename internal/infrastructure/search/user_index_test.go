package search

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
)

type recorded struct {
	method, path, body string
}

func newTestIndex(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*UserIndex, *[]recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{r.Method, r.URL.Path, string(b)})
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewUserIndex(es, "users"), &reqs
}

func TestUserIndex_IndexPutsSanitizedDocument(t *testing.T) {
	idx, reqs := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	err := idx.Index(t.Context(), entity.SafeUser{ID: "u-1", Email: "ann@x.com", FirstName: "Ann"})
	require.NoError(t, err)

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/users/_doc/u-1", got.path)
	assert.Contains(t, got.body, `"firstName":"Ann"`)
	assert.NotContains(t, got.body, "password")
}

func TestUserIndex_DeleteToleratesMissing(t *testing.T) {
	idx, _ := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})
	assert.NoError(t, idx.Delete(t.Context(), "u-1"))
}

func TestUserIndex_Search(t *testing.T) {
	idx, reqs := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"u-1","_source":{"email":"ann@x.com","firstName":"Ann"}}]}}`))
	})

	got, err := idx.Search(t.Context(), "ann", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "u-1", got[0].ID)
	assert.Equal(t, "ann@x.com", got[0].Email)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte((*reqs)[0].body), &body))
	assert.EqualValues(t, 5, body["size"])
	assert.True(t, strings.HasSuffix((*reqs)[0].path, "/_search"))
}

func TestUserIndex_SearchErrorStatus(t *testing.T) {
	idx, _ := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad query"}`))
	})
	_, err := idx.Search(t.Context(), "ann", 5)
	assert.ErrorContains(t, err, "bad query")
}
