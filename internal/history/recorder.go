package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/mattjoyce/glossa/internal/compiler"
	"github.com/mattjoyce/glossa/internal/log"
)

const recordTimeout = 5 * time.Second

// Recorder persists compile outcomes. Persistence failures are logged
// rather than surfaced; history must never fail a compilation.
type Recorder struct {
	store *Store
	log   *slog.Logger
}

func NewRecorder(store *Store) *Recorder {
	return &Recorder{
		store: store,
		log:   log.WithComponent("history"),
	}
}

// RecordCompile implements compiler.Recorder.
func (r *Recorder) RecordCompile(rec compiler.Record) {
	entry := Entry{
		Language:    rec.Language,
		Format:      string(rec.Format),
		Input:       rec.Input,
		Action:      rec.Action,
		OK:          rec.OK,
		Confidence:  rec.Confidence,
		CacheHit:    rec.Cached,
		DurationMS:  rec.Elapsed.Milliseconds(),
		Code:        rec.Code,
		Diagnostics: rec.Diagnostics,
		Fingerprint: rec.Fingerprint,
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if _, err := r.store.Insert(ctx, entry); err != nil {
		r.log.Error("failed to record compile", "error", err, "action", rec.Action)
	}
}
