// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	service "github.com/okian/lunchroulette/internal/app"
	"github.com/okian/lunchroulette/internal/domain/locate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Picker runs picks. *service.Service satisfies it.
type Picker interface {
	Pick(ctx context.Context, clientID string, locator locate.Locator, surface service.Surface) service.Result
	Settings() service.Settings
}

// Server wires HTTP routes for the roulette API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	configHandler *ConfigHandler
	pickHandler   *PickHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(picker Picker, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		configHandler: NewConfigHandler(picker),
		pickHandler:   NewPickHandler(picker),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/config", MetricsMiddleware(s.configHandler.HandleConfig, "config"))
	mux.HandleFunc("/api/pick", MetricsMiddleware(s.pickHandler.HandlePick, "pick"))
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
