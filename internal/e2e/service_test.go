package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/glossa/domains/hypermedia"
	"github.com/mattjoyce/glossa/internal/api"
	"github.com/mattjoyce/glossa/internal/auth"
	"github.com/mattjoyce/glossa/internal/compiler"
	"github.com/mattjoyce/glossa/internal/dsl"
	"github.com/mattjoyce/glossa/internal/events"
	"github.com/mattjoyce/glossa/internal/history"
	"github.com/mattjoyce/glossa/internal/log"
	"github.com/mattjoyce/glossa/internal/storage"
)

const e2eToken = "e2e-secret"

// frPack adds a language the baseline domain does not ship, proving the
// profile-pack path end to end.
const frPack = `language: fr
name: French
word_order: svo
actions:
  toggle:
    term: basculer
  add:
    term: ajouter
    aliases: [ajoute]
markers:
  target: à
`

type stack struct {
	handle *dsl.Handle
	store  *history.Store
	hub    *events.Hub
	ts     *httptest.Server
}

func newStack(t *testing.T) *stack {
	t.Helper()

	tmp := t.TempDir()
	profileDir := filepath.Join(tmp, "profiles")
	require.NoError(t, os.MkdirAll(profileDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(profileDir, "fr.yaml"), []byte(frPack), 0o644))

	log.Setup("error", "text")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	t.Cleanup(cancel)

	packs, err := dsl.LoadPacks(profileDir)
	require.NoError(t, err)

	domain := hypermedia.Domain()
	domain.Profiles = dsl.MergeProfiles(domain.Profiles, packs)

	handle, err := dsl.New(domain, dsl.Options{DefaultLanguage: "en", CacheCapacity: 64})
	require.NoError(t, err)

	db, err := storage.OpenSQLite(ctx, filepath.Join(tmp, "glossa.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := history.NewStore(db)
	hub := events.NewHub(64)
	handle.SetRecorder(compiler.FanOut(history.NewRecorder(store), events.NewRecorder(hub)))

	srv := api.New(api.Config{
		Listen:        "127.0.0.1:0",
		Version:       "e2e",
		Tokens:        []auth.TokenConfig{{Token: e2eToken, Scopes: []string{"*"}}},
		MinConfidence: 0.6,
	}, handle, store, hub, log.Get())

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &stack{handle: handle, store: store, hub: hub, ts: ts}
}

func (s *stack) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+e2eToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func TestServiceEndToEnd(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	// Natural-language compile through the full HTTP path.
	resp, body := s.do(t, http.MethodPost, "/v1/compile", map[string]any{
		"input":    "toggle #menu on click",
		"language": "en",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var first compiler.Result
	require.NoError(t, json.Unmarshal(body, &first))
	assert.True(t, first.OK)
	assert.False(t, first.Cached)
	assert.NotEmpty(t, first.Code)
	assert.InDelta(t, 1.0, first.Confidence, 1e-9)
	assert.Contains(t, first.Fingerprint, "blake3:")
	require.NotNil(t, first.Semantic)
	assert.Equal(t, "toggle", first.Semantic.Action)

	// The identical request is served from the cache with the same code.
	resp, body = s.do(t, http.MethodPost, "/v1/compile", map[string]any{
		"input":    "toggle #menu on click",
		"language": "en",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var second compiler.Result
	require.NoError(t, json.Unmarshal(body, &second))
	assert.True(t, second.OK)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)

	// A language that exists only as a YAML pack compiles the same way.
	resp, body = s.do(t, http.MethodPost, "/v1/compile", map[string]any{
		"input":    "basculer #menu",
		"language": "fr",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var fr compiler.Result
	require.NoError(t, json.Unmarshal(body, &fr))
	assert.True(t, fr.OK, "diagnostics: %v", fr.Diagnostics)
	assert.Equal(t, "toggle", fr.Semantic.Action)

	// Cross-language translation.
	resp, body = s.do(t, http.MethodPost, "/v1/translate", map[string]any{
		"input": "toggle #menu",
		"from":  "en",
		"to":    "ja",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var tr struct {
		OK     bool   `json:"ok"`
		Output string `json:"output"`
		Action string `json:"action"`
	}
	require.NoError(t, json.Unmarshal(body, &tr))
	assert.True(t, tr.OK)
	assert.Equal(t, "toggle", tr.Action)
	assert.Contains(t, tr.Output, "#menu")

	// Every compile above landed in history, newest first.
	entries, err := s.store.Recent(ctx, 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(entries), 3)
	assert.Equal(t, "fr", entries[0].Language)
	assert.True(t, entries[0].OK)

	resp, body = s.do(t, http.MethodGet, "/v1/history?limit=5", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Entries []history.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	require.GreaterOrEqual(t, len(list.Entries), 3)

	resp, body = s.do(t, http.MethodGet, "/v1/history/"+list.Entries[0].ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got history.Entry
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, list.Entries[0].ID, got.ID)
	assert.Equal(t, "basculer #menu", got.Input)

	// Cache stats over HTTP reflect the hit.
	resp, body = s.do(t, http.MethodGet, "/v1/cache", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats struct {
		Size int    `json:"size"`
		Hits uint64 `json:"hits"`
	}
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.GreaterOrEqual(t, stats.Hits, uint64(1))
	assert.GreaterOrEqual(t, stats.Size, 2)

	// The hub saw the whole session.
	types := make(map[string]int)
	for _, ev := range s.hub.SnapshotSince(0) {
		types[ev.Type]++
	}
	assert.GreaterOrEqual(t, types[events.TypeCompileCompleted], 3)
	assert.GreaterOrEqual(t, types[events.TypeTranslateCompleted], 1)
}

func TestServiceRejectsDefectiveInputWithDiagnostics(t *testing.T) {
	s := newStack(t)

	resp, body := s.do(t, http.MethodPost, "/v1/compile", map[string]any{
		"input":    "purple monkey dishwasher",
		"language": "en",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res compiler.Result
	require.NoError(t, json.Unmarshal(body, &res))
	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Diagnostics)

	// Validation over HTTP accumulates defects instead of stopping at one.
	resp, body = s.do(t, http.MethodPost, "/v1/validate", map[string]any{
		"input": `{"action":"","roles":{"duration":{"type":"bogus","value":null}}}`,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var vr struct {
		OK          bool              `json:"ok"`
		Diagnostics []json.RawMessage `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(body, &vr))
	assert.False(t, vr.OK)
	assert.GreaterOrEqual(t, len(vr.Diagnostics), 2)
}

func TestServiceScopedTokenEndToEnd(t *testing.T) {
	s := newStack(t)

	req, err := http.NewRequest(http.MethodDelete, s.ts.URL+"/v1/cache", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer wrong-token")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
