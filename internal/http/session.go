package http

import (
	"errors"
	"fmt"
	"net/http"

	"advisor/internal/core"
	applog "advisor/internal/log"
	"advisor/internal/session"
)

// SessionCookie carries the session id.
const SessionCookie = "advisor_session"

// sessionLedger returns the caller's session, starting a new one when the
// cookie is missing, malformed or names an ended session.
func (s *Server) sessionLedger(w http.ResponseWriter, r *http.Request) (string, *core.Ledger, error) {
	if c, err := r.Cookie(SessionCookie); err == nil && session.ValidID(c.Value) {
		l, err := s.store.Get(r.Context(), c.Value)
		if err == nil {
			return c.Value, l, nil
		}
		if !errors.Is(err, session.ErrNotFound) {
			return "", nil, fmt.Errorf("load session: %w", err)
		}
	}
	return s.startSession(w, r)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) (string, *core.Ledger, error) {
	id, l, err := s.store.Create(r.Context())
	if err != nil {
		return "", nil, fmt.Errorf("start session: %w", err)
	}
	s.setSessionCookie(w, id)
	applog.FromContext(r.Context()).Info("Session started",
		applog.FieldSessionID, id,
		applog.FieldOperation, applog.OpCreate)
	return id, l, nil
}

// setSessionCookie issues a browser-session cookie; the server decides
// idle expiry.
func (s *Server) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
