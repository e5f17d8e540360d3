package events

import "github.com/mattjoyce/glossa/internal/compiler"

// Event types published by the service.
const (
	TypeServiceStarted     = "service.started"
	TypeCompileCompleted   = "compile.completed"
	TypeTranslateCompleted = "translate.completed"
	TypeCacheCleared       = "cache.cleared"
)

// ServiceStarted announces the hub itself is live.
type ServiceStarted struct {
	Name      string   `json:"name"`
	Version   string   `json:"version,omitempty"`
	Languages []string `json:"languages,omitempty"`
}

// CompileCompleted mirrors the outcome of one compilation, successful
// or not. Inputs and generated code stay out of the stream; the
// history store carries those.
type CompileCompleted struct {
	Language   string  `json:"language"`
	Format     string  `json:"format"`
	Action     string  `json:"action,omitempty"`
	OK         bool    `json:"ok"`
	Cached     bool    `json:"cached"`
	Confidence float64 `json:"confidence"`
	DurationMS int64   `json:"duration_ms"`
}

// TranslateCompleted reports an accepted cross-language rendering.
type TranslateCompleted struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Action     string  `json:"action,omitempty"`
	Confidence float64 `json:"confidence"`
}

// CacheCleared reports a cache flush and who asked for it.
type CacheCleared struct {
	By string `json:"by,omitempty"`
}

// Recorder publishes compile.completed for every compilation.
type Recorder struct {
	hub *Hub
}

func NewRecorder(hub *Hub) *Recorder {
	return &Recorder{hub: hub}
}

// RecordCompile implements compiler.Recorder.
func (r *Recorder) RecordCompile(rec compiler.Record) {
	r.hub.Publish(TypeCompileCompleted, CompileCompleted{
		Language:   rec.Language,
		Format:     string(rec.Format),
		Action:     rec.Action,
		OK:         rec.OK,
		Cached:     rec.Cached,
		Confidence: rec.Confidence,
		DurationMS: rec.Elapsed.Milliseconds(),
	})
}
