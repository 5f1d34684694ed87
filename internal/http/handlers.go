package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"advisor/internal/core"
	applog "advisor/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

type pinger interface {
	Ping(ctx context.Context) error
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	// Only persistent stores have something to ping
	if p, ok := s.store.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			checks["session_store"] = "failed: " + err.Error()
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["session_store"] = "ok"
		}
	} else {
		checks["session_store"] = "ok"
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.limiter.ActiveClients(),
		"status":         "ok",
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NotFoundError("Page not found").Write(w)
		return
	}
	if b := RequireMethod(r, http.MethodGet, http.MethodHead); b != nil {
		b.Write(w)
		return
	}
	_, l, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	view := newIndexView(core.DateOf(s.now()), newLedgerView(printerFor(r), s.engine, l.Snapshot()))
	s.render(w, r, "index.html", view)
}

// handleLedgerPartial renders the table, charts and insights.
func (s *Server) handleLedgerPartial(w http.ResponseWriter, r *http.Request) {
	if b := RequireMethod(r, http.MethodGet); b != nil {
		b.Write(w)
		return
	}
	_, l, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	s.render(w, r, "ledger", newLedgerView(printerFor(r), s.engine, l.Snapshot()))
}

func (s *Server) handleInsightsPartial(w http.ResponseWriter, r *http.Request) {
	if b := RequireMethod(r, http.MethodGet); b != nil {
		b.Write(w)
		return
	}
	_, l, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	s.render(w, r, "insights", s.engine.Generate(l.Snapshot()))
}

// handleSummary returns the raw chart and insight inputs as JSON.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if b := RequireMethod(r, http.MethodGet); b != nil {
		b.Write(w)
		return
	}
	_, l, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newSummary(s.engine, l.Snapshot()))
}

// requireSession writes a 500 and reports false when no session can be
// loaded or started.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) (string, *core.Ledger, bool) {
	id, l, err := s.sessionLedger(w, r)
	if err != nil {
		applog.FromContext(r.Context()).Error("Session unavailable",
			applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorTypeDatabase,
			applog.FieldPath, r.URL.Path)
		InternalServerError("Your session could not be loaded. Please try again.").Write(w)
		return "", nil, false
	}
	return id, l, true
}

// render executes the template into a buffer so a failure never leaves a
// half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		applog.FromContext(r.Context()).Error("Template execution failed",
			applog.FieldError, err,
			applog.FieldTemplate, name,
			applog.FieldOperation, applog.OpRender)
		InternalServerError("Failed to render page").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
