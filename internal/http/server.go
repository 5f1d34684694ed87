// Package http serves the expense page, its htmx partials, the JSON
// summary and the CSV/XLSX downloads. Every request is bound to one
// session ledger through a cookie.
package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"advisor/internal/insight"
	applog "advisor/internal/log"
	"advisor/internal/middleware/ratelimit"
	"advisor/internal/middleware/security"
	"advisor/internal/middleware/trace"
	"advisor/internal/session"
	appweb "advisor/web"
)

// Options configure a Server. Store and Logger are required.
type Options struct {
	Addr         string
	Store        session.Store
	Engine       *insight.Engine
	Logger       *applog.Logger
	Limiter      *ratelimit.Limiter
	CookieSecure bool
}

type Server struct {
	http.Server
	templates *template.Template
	store     session.Store
	engine    *insight.Engine
	logger    *applog.Logger
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	tracer    *trace.Middleware

	cookieSecure bool
	now          func() time.Time
	started      time.Time

	shutdownOnce sync.Once
}

// NewServer parses the embedded templates and wires routes and middleware.
func NewServer(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("new server: session store is required")
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	if opts.Engine == nil {
		opts.Engine = insight.DefaultEngine()
	}
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.NewLimiter(ratelimit.DefaultConfig())
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	logger := opts.Logger.WithComponent(applog.ComponentHTTP)
	s := &Server{
		templates:    t,
		store:        opts.Store,
		engine:       opts.Engine,
		logger:       logger,
		limiter:      opts.Limiter,
		detector:     security.NewDetector(),
		cookieSecure: opts.CookieSecure,
		now:          time.Now,
		started:      time.Now(),
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ClientIP)

	mux := http.NewServeMux()

	// Static assets (served from embedded FS)
	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	private := http.NewServeMux()
	private.HandleFunc("/", s.handleIndex)
	private.HandleFunc("/expenses", s.handleCreateExpense)
	private.HandleFunc("/ui/ledger", s.handleLedgerPartial)
	private.HandleFunc("/ui/insights", s.handleInsightsPartial)
	private.HandleFunc("/api/summary", s.handleSummary)
	private.HandleFunc("/export.csv", s.handleExportCSV)
	private.HandleFunc("/export.xlsx", s.handleExportXLSX)
	private.HandleFunc("/session/reset", s.handleResetSession)
	mux.Handle("/", security.NoStore(private))

	s.Addr = opts.Addr
	s.Handler = s.chain(mux)
	s.ReadHeaderTimeout = 10 * time.Second
	s.ReadTimeout = 15 * time.Second
	s.WriteTimeout = 30 * time.Second
	s.IdleTimeout = 60 * time.Second
	return s, nil
}

// chain wraps h so that tracing runs first and rate limiting last.
func (s *Server) chain(h http.Handler) http.Handler {
	h = s.limiter.Middleware(s.detector.ClientIP, s.handleRateLimited, http.MethodPost)(h)
	h = s.detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = applog.RequestIDMiddleware(trace.RequestID)(h)
	h = applog.Middleware(s.logger)(h)
	return s.tracer.Middleware(h)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).Warn("Rate limit exceeded",
		applog.FieldClientIP, s.detector.ClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Too many requests. Please wait a minute and try again.").Write(w)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.logger.Info("HTTP server shutting down", applog.FieldOperation, applog.OpShutdown)
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// Run serves until ctx is done, then shuts down within timeout.
func (s *Server) Run(ctx context.Context, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
