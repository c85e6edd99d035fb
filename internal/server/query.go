package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"played-together/internal/api"
	"played-together/internal/constants"
	"played-together/internal/domain"
	"played-together/internal/metrics"
	"played-together/internal/middleware"
	"played-together/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

const PlayedTogetherPath = "/v1/played-together"

// QueryServer exposes the correlation engine over HTTP.
type QueryServer struct {
	engine  *service.Engine
	riot    *api.RiotClient
	metrics *metrics.Metrics
	logger  zerolog.Logger
	router  chi.Router
}

func NewQueryServer(engine *service.Engine, riot *api.RiotClient, m *metrics.Metrics, logger zerolog.Logger) *QueryServer {
	s := &QueryServer{
		engine:  engine,
		riot:    riot,
		metrics: m,
		logger:  logger,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *QueryServer) routes() {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})

	s.router.Use(middleware.RequestID(s.logger))
	s.router.Use(chimw.Recoverer)
	s.router.Use(c.Handler)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	s.router.Get(PlayedTogetherPath, s.handlePlayedTogether)
}

func (s *QueryServer) Handler() http.Handler {
	return s.router
}

type healthResponse struct {
	Status    string            `json:"status"`
	RateLimit api.RateLimitInfo `json:"rate_limit"`
}

// handleHealth also reports the last Riot rate limit headers seen.
func (s *QueryServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", RateLimit: s.riot.GetRateLimitInfo()})
}

func (s *QueryServer) handlePlayedTogether(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constants.RequestTimeout)
	defer cancel()

	report, err := s.engine.Run(ctx, q)
	if err != nil {
		status := statusFor(err)
		zerolog.Ctx(r.Context()).Warn().Err(err).Int("status", status).Msg("query failed")
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func parseQuery(r *http.Request) (service.Query, error) {
	values := r.URL.Query()
	var q service.Query

	p1, err := domain.ParseRiotID(values.Get("player1"))
	if err != nil {
		return q, fmt.Errorf("player1: %w", err)
	}
	p2, err := domain.ParseRiotID(values.Get("player2"))
	if err != nil {
		return q, fmt.Errorf("player2: %w", err)
	}
	q.Player1, q.Player2 = p1, p2

	if v := values.Get("region"); v != "" {
		if q.Region, err = domain.ParseRegion(v); err != nil {
			return q, err
		}
	}
	if v := values.Get("count"); v != "" {
		if q.Count, err = strconv.Atoi(v); err != nil {
			return q, fmt.Errorf("%w: count must be a number", service.ErrInvalidQuery)
		}
	}
	if v := values.Get("concurrency"); v != "" {
		if q.Concurrency, err = strconv.Atoi(v); err != nil {
			return q, fmt.Errorf("%w: concurrency must be a number", service.ErrInvalidQuery)
		}
	}
	if v := values.Get("strict"); v != "" {
		if q.StrictParticipants, err = strconv.ParseBool(v); err != nil {
			return q, fmt.Errorf("%w: strict must be a boolean", service.ErrInvalidQuery)
		}
	}
	return q, nil
}

func statusFor(err error) int {
	var notFound *service.PlayerNotFoundError
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidQuery),
		errors.Is(err, domain.ErrInvalidRiotID),
		errors.Is(err, domain.ErrUnknownRegion):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
