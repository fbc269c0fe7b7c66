// Package api declares HTTP contracts and route registration helpers.
//
// This is the boundary the messaging gateway calls: it POSTs inbound chat
// updates and renders the reply payloads it gets back. The read endpoints
// serve the staff dashboard and monitoring.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/fiesta/internal/adapters/repository"
	"github.com/okian/fiesta/internal/domain/model"
	"github.com/okian/fiesta/internal/domain/types"
	"github.com/okian/fiesta/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// SeenAndRecord/Unrecord guard against gateway redeliveries.
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)

	// Submit queues one decoded update and waits for its reply.
	Submit(ctx context.Context, update model.Update, in types.Input) (model.Reply, error)

	// Read operations expose leaderboard data.
	Board(ctx context.Context, track types.Track) types.Board
	RankOf(ctx context.Context, query string) (types.Entry, error)
}

// Server wires HTTP routes for the gateway-facing API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	updatesHandler     *UpdatesHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		updatesHandler:     NewUpdatesHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
		rankHandler:        NewRankHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/updates", MetricsMiddleware(s.updatesHandler.HandlePostUpdate, "updates"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound lets the API translate upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
