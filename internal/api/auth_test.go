package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/glossa/internal/auth"
	"github.com/mattjoyce/glossa/internal/cache"
	"github.com/mattjoyce/glossa/internal/history"

	"github.com/golang/mock/gomock"
)

func (ts *testServer) get(t *testing.T, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestOpenModeServesUnauthenticated(t *testing.T) {
	ts := newTestServer(t)
	ts.engine.EXPECT().Actions().Return([]string{"add"})

	rec := ts.get(t, "/v1/actions", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKeyGate(t *testing.T) {
	ts := newTestServer(t, func(cfg *Config) { cfg.APIKey = "secret" })

	rec := ts.get(t, "/v1/actions", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.get(t, "/v1/actions", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	ts.engine.EXPECT().Actions().Return([]string{"add"})
	rec = ts.get(t, "/v1/actions", "secret")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestScopedTokenLimits(t *testing.T) {
	ts := newTestServer(t, func(cfg *Config) {
		cfg.Tokens = []auth.TokenConfig{
			{Token: "reader", Scopes: []string{auth.ScopeHistoryRO}},
		}
	})

	rec := ts.get(t, "/v1/actions", "reader")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	ts.history.EXPECT().Recent(gomock.Any(), 0).Return([]history.Entry{}, nil)
	rec = ts.get(t, "/v1/history", "reader")
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodDelete, "/v1/cache", nil)
	req.Header.Set("Authorization", "Bearer reader")
	del := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(del, req)
	assert.Equal(t, http.StatusForbidden, del.Code)
}

func TestWriteScopeImpliesRead(t *testing.T) {
	ts := newTestServer(t, func(cfg *Config) {
		cfg.Tokens = []auth.TokenConfig{
			{Token: "ops", Scopes: []string{auth.ScopeCacheRW}},
		}
	})
	ts.engine.EXPECT().CacheStats().Return(cache.Stats{Size: 1})

	rec := ts.get(t, "/v1/cache", "ops")

	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody[cache.Stats](t, rec)
	assert.Equal(t, 1, stats.Size)
}

func TestHealthzAndOpenAPISkipAuth(t *testing.T) {
	ts := newTestServer(t, func(cfg *Config) { cfg.APIKey = "secret" })
	ts.engine.EXPECT().Name().Return("hypermedia")
	ts.engine.EXPECT().SupportedLanguages().Return([]string{"en"})
	ts.engine.EXPECT().Actions().Return([]string{"add"})
	ts.engine.EXPECT().CacheStats().Return(cache.Stats{})

	rec := ts.get(t, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.get(t, "/openapi.json", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
