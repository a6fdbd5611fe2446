// Package http exposes the panel API and the embedded dashboard.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"log/slog"

	"kolipanel/internal/cache"
	"kolipanel/internal/core"
	"kolipanel/internal/expense"
	"kolipanel/internal/ledger"
	"kolipanel/internal/store"
	"kolipanel/internal/updater"
	appweb "kolipanel/web"
)

type Server struct {
	http.Server
	store    store.Client
	expenses *expense.Service
	ledger   *ledger.Service
	upd      *updater.Service

	rateLimiter *rateLimiter

	// Ledger reads dominate; one short-lived cache keyed by sort order
	// keeps repeated dashboard refreshes off the remote store.
	salesCache *cache.LRU[[]core.Sale]

	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, st store.Client, exp *expense.Service, led *ledger.Service, upd *updater.Service) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:       st,
		expenses:    exp,
		ledger:      led,
		upd:         upd,
		rateLimiter: newRateLimiter(),
		salesCache:  cache.NewLRU[[]core.Sale](8, 30*time.Second),
	}

	// Static dashboard assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.FileServer(http.FS(sub))
		mux.Handle("GET /{$}", s.withSecurityHeaders(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
		mux.Handle("GET /static/", s.withSecurityHeaders(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			http.StripPrefix("/static/", static).ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.Handle("POST /api/sales", s.withSecurityHeaders(s.handleCreateSale))
	mux.Handle("GET /api/sales", s.withSecurityHeaders(s.handleListSales))
	mux.Handle("DELETE /api/sales/{id}", s.withSecurityHeaders(s.handleDeleteSale))

	mux.Handle("GET /api/stats", s.withSecurityHeaders(s.handleGlobalStats))
	mux.Handle("GET /api/stats/yearly", s.withSecurityHeaders(s.handleYearlyStats))

	mux.Handle("GET /api/companies", s.withSecurityHeaders(s.handleCompanies))
	mux.Handle("GET /api/companies/search", s.withSecurityHeaders(s.handleCompanySearch))
	mux.Handle("GET /api/companies/{name}", s.withSecurityHeaders(s.handleCompanyDetail))
	mux.Handle("GET /api/companies/{name}/monthly", s.withSecurityHeaders(s.handleCompanyMonthly))

	mux.Handle("GET /api/countries", s.withSecurityHeaders(s.handleCountries))

	mux.Handle("GET /api/expenses", s.withSecurityHeaders(s.handleGetExpenses))
	mux.Handle("PUT /api/expenses", s.withSecurityHeaders(s.handlePutExpenses))

	mux.Handle("POST /api/update/check", s.withSecurityHeaders(s.handleUpdateCheck))
	mux.Handle("GET /api/update/status", s.withSecurityHeaders(s.handleUpdateStatus))

	return s
}

// Shutdown stops the server and its background cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting on writes,
// and request logging.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodDelete {
			if !s.rateLimiter.allow(clientIP) {
				slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline' https://unpkg.com; img-src 'self' data: https://*.tile.openstreetmap.org; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.store.Probe(r.Context()) {
		http.Error(w, "remote store unreachable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
