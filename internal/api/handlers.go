package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mattjoyce/glossa/internal/compiler"
	"github.com/mattjoyce/glossa/internal/diag"
	"github.com/mattjoyce/glossa/internal/events"
	"github.com/mattjoyce/glossa/internal/history"
	"github.com/mattjoyce/glossa/internal/parser"
)

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthzResponse{
		Status:        "ok",
		Version:       s.config.Version,
		Domain:        s.engine.Name(),
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		Languages:     len(s.engine.SupportedLanguages()),
		Actions:       len(s.engine.Actions()),
		Cache:         s.engine.CacheStats(),
		History:       s.history != nil,
	})
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req CompileRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	format, ok := compiler.ParseFormat(req.Format)
	if !ok {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown format %q", req.Format))
		return
	}

	res, err := s.engine.Compile(compiler.Request{
		Input:    req.Input,
		Format:   format,
		Language: req.Language,
		Options:  req.Options,
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// Malformed input is OK=false with diagnostics, still a 200: the
	// request itself was well-formed.
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	language := req.Language
	if language == "" {
		language = s.engine.DefaultLanguage()
	}

	node, err := s.engine.Parse(req.Input, language)
	if err != nil {
		if f, ok := parser.AsFailure(err); ok {
			resp := ParseResponse{
				Language:    language,
				Diagnostics: []diag.Diagnostic{diag.Errorf(f.Code, "%s", f.Message)},
			}
			if f.Partial != nil {
				resp.Action = f.Partial.Action
				resp.Confidence = f.Partial.Confidence
				resp.Semantic = f.Partial.Object()
			}
			s.respondJSON(w, http.StatusOK, resp)
			return
		}
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, ParseResponse{
		OK:         true,
		Language:   language,
		Action:     node.Action,
		Confidence: node.Confidence,
		Semantic:   node.Object(),
	})
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.To == "" {
		s.writeError(w, http.StatusBadRequest, "to language is required")
		return
	}
	from := req.From
	if from == "" {
		from = s.engine.DefaultLanguage()
	}
	threshold := s.config.MinConfidence
	if req.MinConfidence != nil {
		threshold = *req.MinConfidence
	}
	if threshold < 0 || threshold > 1 {
		s.writeError(w, http.StatusBadRequest, "min_confidence must be between 0 and 1")
		return
	}

	node, err := s.engine.Parse(req.Input, from)
	if err != nil {
		if f, ok := parser.AsFailure(err); ok {
			s.respondJSON(w, http.StatusUnprocessableEntity, TranslateResponse{
				Threshold:   threshold,
				Diagnostics: []diag.Diagnostic{diag.Errorf(f.Code, "%s", f.Message)},
			})
			return
		}
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if node.Confidence < threshold {
		s.respondJSON(w, http.StatusUnprocessableEntity, TranslateResponse{
			Action:     node.Action,
			Confidence: node.Confidence,
			Threshold:  threshold,
			Diagnostics: []diag.Diagnostic{diag.Errorf(diag.CodeLowConfidence,
				"parse confidence %.2f below threshold %.2f", node.Confidence, threshold)},
		})
		return
	}

	output, err := s.engine.Render(node, req.To)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if s.hub != nil {
		s.hub.Publish(events.TypeTranslateCompleted, events.TranslateCompleted{
			From:       from,
			To:         req.To,
			Action:     node.Action,
			Confidence: node.Confidence,
		})
	}
	s.respondJSON(w, http.StatusOK, TranslateResponse{
		OK:         true,
		Output:     output,
		Action:     node.Action,
		Confidence: node.Confidence,
		Threshold:  threshold,
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	ds, err := s.engine.Validate(req.Input)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if ds == nil {
		ds = []diag.Diagnostic{}
	}
	s.respondJSON(w, http.StatusOK, ValidateResponse{
		OK:          !diag.HasErrors(ds),
		Diagnostics: ds,
	})
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, LanguagesResponse{
		Default:   s.engine.DefaultLanguage(),
		Languages: s.engine.SupportedLanguages(),
	})
}

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, ActionsResponse{Actions: s.engine.Actions()})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.engine.CacheStats())
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	s.engine.ClearCache()
	if s.hub != nil {
		s.hub.Publish(events.TypeCacheCleared, events.CacheCleared{
			By: middleware.GetReqID(r.Context()),
		})
	}
	s.respondJSON(w, http.StatusOK, CacheClearedResponse{Status: "cleared"})
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusNotFound, "history is disabled")
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	entries, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("list history", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	s.respondJSON(w, http.StatusOK, HistoryListResponse{Entries: entries})
}

func (s *Server) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusNotFound, "history is disabled")
		return
	}
	id := chi.URLParam(r, "id")

	entry, err := s.history.Get(r.Context(), id)
	switch {
	case errors.Is(err, history.ErrNotFound):
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("no record matches %q", id))
	case errors.Is(err, history.ErrAmbiguousID):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		s.logger.Error("get history record", "id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to read history")
	default:
		s.respondJSON(w, http.StatusOK, entry)
	}
}
