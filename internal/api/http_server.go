package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"galli2globe/internal/catalog"
	"galli2globe/internal/config"
	"galli2globe/internal/domain"
	"galli2globe/internal/export"
	"galli2globe/internal/models"
	"galli2globe/internal/session"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// HTTPServer exposes the booking and account API over HTTP.
type HTTPServer struct {
	cfg      config.APIConfig
	accounts domain.AccountService
	bookings domain.BookingService
	currency domain.CurrencyService
	catalog  *catalog.Catalog
	sessions *session.Manager
	exporter *export.ExcelExporter
	server   *http.Server
	limiter  *rateLimiter
	logger   *zerolog.Logger
}

func NewHTTPServer(
	cfg config.APIConfig,
	accounts domain.AccountService,
	bookings domain.BookingService,
	currency domain.CurrencyService,
	catalog *catalog.Catalog,
	sessions *session.Manager,
	exporter *export.ExcelExporter,
	logger *zerolog.Logger,
) *HTTPServer {
	mux := http.NewServeMux()
	srv := &HTTPServer{
		cfg:      cfg,
		accounts: accounts,
		bookings: bookings,
		currency: currency,
		catalog:  catalog,
		sessions: sessions,
		exporter: exporter,
		limiter:  newRateLimiter(cfg.RateLimit),
		logger:   logger,
	}

	mux.HandleFunc("/api/v1/auth/signup", srv.handleSignUp)
	mux.HandleFunc("/api/v1/auth/login", srv.handleLogIn)
	mux.HandleFunc("/api/v1/auth/logout", srv.withSession(srv.handleLogOut))
	mux.HandleFunc("/api/v1/profile", srv.withSession(srv.handleProfile))
	mux.HandleFunc("/api/v1/bookings/export", srv.withSession(srv.handleExport))
	mux.HandleFunc("/api/v1/bookings/", srv.withSession(srv.handleBookingByID))
	mux.HandleFunc("/api/v1/bookings", srv.withSession(srv.handleBookings))
	mux.HandleFunc("/api/v1/destinations", srv.handleDestinations)
	mux.HandleFunc("/api/v1/currency", srv.handleCurrency)

	handler := srv.loggingMiddleware(srv.rateLimitMiddleware(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

const sessionTokenHeader = "X-Session-Token"

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *models.Session)

// withSession resolves the session token before the handler runs.
func (s *HTTPServer) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get(sessionTokenHeader))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing session token")
			return
		}

		sess, err := s.sessions.Resolve(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid session token")
			return
		}

		next(w, r, sess)
	}
}

func (s *HTTPServer) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.RateLimit.RPS > 0 {
			if !s.limiter.getLimiter(clientKey(r)).Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func clientKey(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(sessionTokenHeader)); token != "" {
		return token
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

type rateLimiter struct {
	limiters sync.Map
	cfg      config.APIRateLimitConfig
}

func newRateLimiter(cfg config.APIRateLimitConfig) *rateLimiter {
	return &rateLimiter{cfg: cfg}
}

func (l *rateLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim
		}
	}

	burst := l.cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(l.cfg.RPS), burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		if actualLim, ok := actual.(*rate.Limiter); ok {
			return actualLim
		}
	}
	return lim
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
