// Package http wires the REST surface and the embedded single-page app.
package http

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	"dailyspend/internal/middleware/ratelimit"
	"dailyspend/internal/middleware/security"
	"dailyspend/internal/middleware/trace"
	"dailyspend/internal/services"
	appweb "dailyspend/web"
)

type Server struct {
	http.Server
	svc          *services.LedgerService
	limiter      *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, svc *services.LedgerService, corsOrigin string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		svc:     svc,
		limiter: ratelimit.New(),
	}

	mux.HandleFunc("GET /{$}", s.handleHealth)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("PUT /api/categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/summary", s.handleMonthSummary)

	// The frontend is served from the embedded FS under /app/.
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/app/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /app/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	traceMW := trace.NewMiddleware()
	handler := traceMW.Middleware(
		security.Headers(
			security.CORS(corsOrigin)(
				s.limiter.Middleware(trace.ClientIP)(mux))))

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}
	return s
}

// handleHealth pings the store so load balancers see database trouble.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Ping(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Health check failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("DB connection error: " + err.Error()))
		return
	}
	_, _ = w.Write([]byte("DailySpend API OK"))
}

// Shutdown stops the rate limiter before draining in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
	})
	return s.Server.Shutdown(ctx)
}
