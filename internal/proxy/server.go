// Package proxy implements the token-authenticated HTTP surface in front
// of the evaluation client: readiness gating, token authorization, context
// construction, and response shaping for the four client operations.
package proxy

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/guscost-opensea/unleash-proxy/internal/auth"
	"github.com/guscost-opensea/unleash-proxy/internal/config"
	"github.com/guscost-opensea/unleash-proxy/internal/telemetry"
	"github.com/guscost-opensea/unleash-proxy/internal/unleash"
	"github.com/guscost-opensea/unleash-proxy/internal/validation"
)

const (
	// cacheControlShort lets CDNs absorb toggle-read bursts without
	// serving stale results for more than two seconds.
	cacheControlShort = "public, max-age=2"

	maxRequestBodySize = 1 << 20 // 1 MB
)

// Server owns the proxy endpoints and their shared state: the readiness
// gate and the two token sets.
type Server struct {
	client       unleash.Client
	gate         *ReadinessGate
	clientKeys   *auth.TokenSet
	serverTokens *auth.TokenSet
	tokenHeader  string
	basePath     string
	rateLimit    int
	logger       zerolog.Logger
}

// NewServer creates a proxy server fronting the given client. The gate
// opens eagerly if the client is already ready, otherwise on its ready
// notification.
func NewServer(client unleash.Client, cfg *config.Config, logger zerolog.Logger) *Server {
	s := &Server{
		client:       client,
		gate:         NewReadinessGate(logger),
		clientKeys:   auth.NewTokenSet(cfg.ClientKeys...),
		serverTokens: auth.NewTokenSet(cfg.ServerSideTokens...),
		tokenHeader:  cfg.TokenHeader,
		basePath:     cfg.ProxyBasePath,
		rateLimit:    cfg.RateLimitPerIP,
		logger:       logger,
	}
	s.gate.Watch(client.Ready())
	return s
}

// SetClientKeys atomically replaces the client-key set. Intended for the
// operator reload path, never called from request handlers.
func (s *Server) SetClientKeys(keys []string) {
	s.clientKeys.Replace(keys)
}

// SetServerSideTokens atomically replaces the server-side token set.
func (s *Server) SetServerSideTokens(tokens []string) {
	s.serverTokens.Replace(tokens)
}

// Router builds the HTTP handler with the proxy surface mounted under the
// configured base path.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))
	r.Use(telemetry.Middleware)
	if s.rateLimit > 0 {
		r.Use(httprate.LimitByIP(s.rateLimit, time.Minute))
	}

	r.Route(s.basePath, func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/", s.handleEnabledToggles)
		r.Post("/", s.handleLookupToggles)
		r.Post("/client/metrics", s.handleClientMetrics)
		r.Get("/client/features", s.handleFeatureDefinitions)
	})

	return r
}

// gateDecision is the outcome of the shared readiness/authorization check.
type gateDecision int

const (
	gateProceed gateDecision = iota
	gateNotReady
	gateUnauthorized
)

// checkAccess applies the ordering shared by every gated endpoint:
// readiness first, then authorization, so an unauthenticated caller
// hitting a not-ready proxy observes 503 rather than 401.
func (s *Server) checkAccess(r *http.Request, sets ...*auth.TokenSet) gateDecision {
	if !s.gate.IsReady() {
		return gateNotReady
	}
	if !auth.Authorize(s.token(r), sets...) {
		return gateUnauthorized
	}
	return gateProceed
}

// token extracts the caller's token from the configured header. A missing
// header yields the empty token, which never authorizes.
func (s *Server) token(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(s.tokenHeader))
}

// deny translates a non-proceed decision into its response.
func (s *Server) deny(w http.ResponseWriter, r *http.Request, d gateDecision) {
	switch d {
	case gateNotReady:
		writeNotReady(w)
	case gateUnauthorized:
		UnauthorizedError(w, r, "invalid token")
	}
}

// ---- handlers ----

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if !s.gate.IsReady() {
		writeNotReady(w)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleEnabledToggles(w http.ResponseWriter, r *http.Request) {
	if d := s.checkAccess(r, s.clientKeys); d != gateProceed {
		s.deny(w, r, d)
		return
	}

	ec := BuildContext(r.URL.Query(), peerAddress(r))
	toggles, err := s.client.EnabledToggles(r.Context(), ec)
	if err != nil {
		InternalError(w, r, "toggle evaluation failed")
		return
	}
	if toggles == nil {
		toggles = []unleash.ToggleStatus{}
	}

	w.Header().Set("Cache-Control", cacheControlShort)
	writeJSON(w, http.StatusOK, togglesResponse{Toggles: toggles})
}

func (s *Server) handleLookupToggles(w http.ResponseWriter, r *http.Request) {
	if d := s.checkAccess(r, s.clientKeys); d != gateProceed {
		s.deny(w, r, d)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()

	var req lookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			// An absent body is an empty lookup: no names, empty context.
		case errors.As(err, &maxErr):
			RequestTooLargeError(w, r, "Request body exceeds 1MB limit")
			return
		default:
			BadRequestError(w, r, ErrCodeInvalidJSON, "Invalid JSON: expected fields 'context' and 'toggles'")
			return
		}
	}

	names := req.Toggles
	if names == nil {
		names = []string{}
	}

	toggles, err := s.client.DefinedToggles(r.Context(), names, req.Context)
	if err != nil {
		InternalError(w, r, "toggle lookup failed")
		return
	}
	if toggles == nil {
		toggles = []unleash.ToggleStatus{}
	}

	writeJSON(w, http.StatusOK, togglesResponse{Toggles: toggles})
}

func (s *Server) handleClientMetrics(w http.ResponseWriter, r *http.Request) {
	// Metrics ingestion is deliberately not gated on readiness: SDKs buffer
	// and may flush before the initial sync completes.
	if !auth.Authorize(s.token(r), s.clientKeys, s.serverTokens) {
		UnauthorizedError(w, r, "invalid token")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()

	var m unleash.ClientMetrics
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			RequestTooLargeError(w, r, "Request body exceeds 1MB limit")
			return
		}
		BadRequestError(w, r, ErrCodeInvalidJSON, "Invalid JSON: expected a client metrics payload")
		return
	}

	if result := validation.ValidateClientMetrics(&m); !result.Valid {
		s.logger.Warn().
			Str("appName", m.AppName).
			Interface("errors", result.Errors).
			Msg("rejected client metrics payload")
		telemetry.MetricsBatchesRejected.Inc()
		ValidationError(w, r, "Client metrics payload failed validation", result.Errors)
		return
	}

	if err := s.client.RegisterMetrics(r.Context(), m); err != nil {
		InternalError(w, r, "metrics registration failed")
		return
	}

	telemetry.MetricsBatchesAccepted.Inc()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleFeatureDefinitions(w http.ResponseWriter, r *http.Request) {
	if d := s.checkAccess(r, s.serverTokens); d != gateProceed {
		s.deny(w, r, d)
		return
	}

	features, err := s.client.FeatureDefinitions(r.Context())
	if err != nil {
		InternalError(w, r, "feature export failed")
		return
	}
	if features == nil {
		features = []unleash.FeatureDefinition{}
	}

	w.Header().Set("Cache-Control", cacheControlShort)
	writeJSON(w, http.StatusOK, featuresResponse{Version: 2, Features: features})
}
