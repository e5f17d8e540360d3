package watch

import (
	"bufio"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattjoyce/glossa/internal/events"
)

// --- Message types ---

type eventMsg events.Event

type healthMsg struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Domain        string `json:"domain"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Languages     int    `json:"languages"`
	Actions       int    `json:"actions"`
	Cache         struct {
		Size      int    `json:"size"`
		Hits      uint64 `json:"hits"`
		Misses    uint64 `json:"misses"`
		Evictions uint64 `json:"evictions"`
	} `json:"cache"`
	History bool `json:"history"`
}

type tickMsg time.Time

type errMsg error

type sseDisconnectedMsg struct{}
type reconnectMsg struct{}

// --- Commands ---

// subscribeToEvents connects to the SSE /events endpoint and feeds events
// into the provided channel. lastID rides along as Last-Event-ID so a
// reconnect replays what the drop missed. Returns sseDisconnectedMsg when
// the connection closes.
func subscribeToEvents(apiURL, apiKey string, lastID int64, ch chan<- events.Event) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{}
		req, err := http.NewRequest("GET", apiURL+"/events", nil)
		if err != nil {
			return errMsg(err)
		}
		if apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+apiKey)
		}
		if lastID > 0 {
			req.Header.Set("Last-Event-ID", strconv.FormatInt(lastID, 10))
		}

		resp, err := client.Do(req)
		if err != nil {
			return sseDisconnectedMsg{}
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return sseDisconnectedMsg{}
		}

		scanner := bufio.NewScanner(resp.Body)
		var frame sseFrame

		for scanner.Scan() {
			line := scanner.Text()

			if line == "" {
				if ev, ok := frame.event(); ok {
					ch <- ev
				}
				frame = sseFrame{}
				continue
			}
			frame.feed(line)
		}

		return sseDisconnectedMsg{}
	}
}

// sseFrame accumulates one server-sent event across its field lines.
type sseFrame struct {
	id   int64
	typ  string
	data string
}

func (f *sseFrame) feed(line string) {
	switch {
	case strings.HasPrefix(line, ":"):
		// keep-alive comment
	case strings.HasPrefix(line, "id: "):
		if id, err := strconv.ParseInt(line[4:], 10, 64); err == nil {
			f.id = id
		}
	case strings.HasPrefix(line, "event: "):
		f.typ = line[7:]
	case strings.HasPrefix(line, "data: "):
		f.data = line[6:]
	}
}

func (f sseFrame) event() (events.Event, bool) {
	if f.data == "" {
		return events.Event{}, false
	}
	return events.Event{
		ID:   f.id,
		Type: f.typ,
		At:   time.Now(),
		Data: json.RawMessage(f.data),
	}, true
}

// receiveNextEvent waits for the next event from the channel.
func receiveNextEvent(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		return eventMsg(<-ch)
	}
}

// fetchHealth queries the /healthz endpoint.
func fetchHealth(apiURL, apiKey string) tea.Msg {
	client := &http.Client{Timeout: 2 * time.Second}
	req, err := http.NewRequest("GET", apiURL+"/healthz", nil)
	if err != nil {
		return errMsg(err)
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return errMsg(err)
	}
	defer resp.Body.Close()

	var h healthMsg
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return errMsg(err)
	}
	return h
}
