package api

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/glossa/internal/events"
)

func TestEventsReplayAfterLastEventID(t *testing.T) {
	ts := newTestServer(t)
	ts.hub.Publish(events.TypeServiceStarted, events.ServiceStarted{Name: "glossa"})
	ts.hub.Publish(events.TypeCacheCleared, events.CacheCleared{})
	ts.hub.Publish(events.TypeCacheCleared, events.CacheCleared{})

	// A cancelled context makes the handler return right after the
	// replay, which is all this test wants to see.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	req.Header.Set("Last-Event-ID", "1")
	rec := httptest.NewRecorder()

	ts.srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.NotContains(t, body, "id: 1\n")
	assert.Contains(t, body, "id: 2\n")
	assert.Contains(t, body, "id: 3\n")
	assert.Contains(t, body, "event: cache.cleared\n")
}

func TestEventsStreamLive(t *testing.T) {
	ts := newTestServer(t)
	server := httptest.NewServer(ts.srv.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ts.hub.Publish(events.TypeTranslateCompleted, events.TranslateCompleted{From: "en", To: "es"})

	found := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "event: ") {
				found <- strings.TrimPrefix(line, "event: ")
				return
			}
		}
	}()

	select {
	case eventType := <-found:
		assert.Equal(t, events.TypeTranslateCompleted, eventType)
	case <-time.After(2 * time.Second):
		t.Fatal("no event arrived on the stream")
	}
}

func TestParseLastEventID(t *testing.T) {
	tests := []struct {
		name   string
		header string
		query  string
		want   int64
	}{
		{"header", "42", "", 42},
		{"query fallback", "", "7", 7},
		{"header wins", "42", "7", 42},
		{"absent", "", "", 0},
		{"garbage", "abc", "", 0},
		{"negative", "-3", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/events"
			if tt.query != "" {
				target += "?last_event_id=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Last-Event-ID", tt.header)
			}
			assert.Equal(t, tt.want, parseLastEventID(req))
		})
	}
}
