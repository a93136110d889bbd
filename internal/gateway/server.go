package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const headerUserID = "X-Sharer-User-Id"

// Server is the public entry point. It validates what it can cheaply,
// rate-limits callers and proxies everything else to the core server.
type Server struct {
	cfg     config.GatewayConfig
	proxy   *httputil.ReverseProxy
	limiter domain.RateLimitRepository
	global  *rate.Limiter
	logger  *zerolog.Logger
	server  *http.Server
}

func NewServer(cfg config.GatewayConfig, limiter domain.RateLimitRepository, logger *zerolog.Logger) (*Server, error) {
	target, err := url.Parse(cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse server url: %w", err)
	}

	srv := &Server{
		cfg:     cfg,
		proxy:   httputil.NewSingleHostReverseProxy(target),
		limiter: limiter,
		global:  rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
		logger:  logger,
	}

	srv.proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("proxy error")
		writeError(w, http.StatusBadGateway, "upstream is unavailable")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /bookings", srv.handleCreateBooking)
	mux.HandleFunc("POST /items", srv.handleCreateItem)
	mux.HandleFunc("POST /items/{id}/comment", srv.handleAddComment)
	mux.Handle("/", srv.proxy)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.requestIDMiddleware(srv.rateLimitMiddleware(mux)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return srv, nil
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Str("upstream", s.cfg.ServerURL).Msg("gateway listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// handleCreateBooking validates the booking period before forwarding. The
// body is restored so the proxy can replay it upstream.
func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	r.ContentLength = int64(len(raw))

	var body struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := ValidateBookingPeriod(body.Start, body.End, time.Now()); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.proxy.ServeHTTP(w, r)
}

// handleCreateItem rejects blank item names before forwarding.
func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	r.ContentLength = int64(len(raw))

	var body struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "item name must not be blank")
		return
	}

	s.proxy.ServeHTTP(w, r)
}

// handleAddComment rejects blank comment text and bad item ids before
// forwarding.
func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || itemID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	r.ContentLength = int64(len(raw))

	var body struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		writeError(w, http.StatusBadRequest, "comment text must not be blank")
		return
	}

	s.proxy.ServeHTTP(w, r)
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-Id") == "" {
			r.Header.Set("X-Request-Id", uuid.NewString())
		}

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		s.logger.Info().
			Str("request_id", r.Header.Get("X-Request-Id")).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("gateway request")
	})
}

// rateLimitMiddleware applies a global token bucket and a per-caller window
// counter keyed by the sharer header.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.global.Allow() {
			metrics.IncRateLimited()
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		if raw := r.Header.Get(headerUserID); raw != "" && s.limiter != nil {
			callerID, err := strconv.ParseInt(raw, 10, 64)
			if err == nil {
				allowed, limitErr := s.limiter.Allow(r.Context(), callerID, s.cfg.RateLimit.Requests, s.cfg.RateLimit.Window)
				if limitErr != nil {
					s.logger.Error().Err(limitErr).Msg("rate limit check error")
				} else if !allowed {
					metrics.IncRateLimited()
					writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
					return
				}
			}
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
