package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyorilab/indra-cogex/pkg/analysis"
	"github.com/gyorilab/indra-cogex/pkg/graph"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := graph.DefaultConfig(t.TempDir())
	cfg.InMemory = true
	s, err := graph.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	for i := 1; i <= 20; i++ {
		require.NoError(t, s.PutEntity(graph.Entity{
			CURIE: fmt.Sprintf("hgnc:%d", i),
			Name:  fmt.Sprintf("GENE%d", i),
		}))
	}
	require.NoError(t, s.PutEntity(graph.Entity{CURIE: "go:GO:0006915", Name: "apoptotic process"}))
	for i := 1; i <= 3; i++ {
		require.NoError(t, s.PutEdge(graph.Edge{
			Subject:   fmt.Sprintf("hgnc:%d", i),
			Predicate: graph.RelAssociatedWith,
			Object:    "go:GO:0006915",
		}))
	}

	return NewServer(analysis.NewService(s), DefaultStyles())
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv := testServer(t)
	w := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestListMethodsAndSources(t *testing.T) {
	srv := testServer(t)

	w := doJSON(t, srv, http.MethodGet, "/v1/methods", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fdr_bh")
	assert.Contains(t, w.Body.String(), "bonferroni")

	w = doJSON(t, srv, http.MethodGet, "/v1/sources", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "indra-upstream")
}

func TestStylesEndpoint(t *testing.T) {
	srv := testServer(t)
	w := doJSON(t, srv, http.MethodGet, "/v1/styles", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var table StyleTable
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &table))
	assert.Equal(t, "badge-success", table.Class("go"))
	assert.Equal(t, table.Default, table.Class("unknown-namespace"))
}

func TestDiscreteEndpoint(t *testing.T) {
	srv := testServer(t)

	w := doJSON(t, srv, http.MethodPost, "/v1/analysis/discrete", gin.H{
		"genes":   "GENE1, GENE2",
		"sources": []string{analysis.SourceGO},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res analysis.DiscreteResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Results[analysis.SourceGO], 1)
	assert.Equal(t, "go:GO:0006915", res.Results[analysis.SourceGO][0].CURIE)
}

func TestDiscreteEndpointTSV(t *testing.T) {
	srv := testServer(t)

	w := doJSON(t, srv, http.MethodPost, "/v1/analysis/discrete?format=tsv", gin.H{
		"genes":   "GENE1, GENE2",
		"sources": []string{analysis.SourceGO},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "tab-separated-values")
	assert.True(t, strings.HasPrefix(w.Body.String(), "curie\tname\t"))
}

func TestDiscreteEndpointBadRequests(t *testing.T) {
	srv := testServer(t)

	// Missing required field.
	w := doJSON(t, srv, http.MethodPost, "/v1/analysis/discrete", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Nothing resolvable in the gene list.
	w = doJSON(t, srv, http.MethodPost, "/v1/analysis/discrete", gin.H{"genes": "zzz-unknown"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown correction method.
	w = doJSON(t, srv, http.MethodPost, "/v1/analysis/discrete", gin.H{
		"genes":  "GENE1",
		"method": "fdr_nope",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResolveEndpoint(t *testing.T) {
	srv := testServer(t)

	w := doJSON(t, srv, http.MethodPost, "/v1/resolve/genes", gin.H{
		"tokens": "GENE1, not-a-gene",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hgnc:1")
	assert.Contains(t, w.Body.String(), "not-a-gene")
}

func TestSymbolsEndpoint(t *testing.T) {
	srv := testServer(t)

	w := doJSON(t, srv, http.MethodGet, "/v1/symbols?namespace=hgnc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "GENE1")
}
