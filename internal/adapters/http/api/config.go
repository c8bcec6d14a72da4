package api

import (
	"net/http"

	service "github.com/okian/lunchroulette/internal/app"
)

// SettingsProvider exposes the effective pick settings.
type SettingsProvider interface {
	Settings() service.Settings
}

// ConfigHandler tells the browser UI how long to wait and animate.
type ConfigHandler struct {
	settings SettingsProvider
}

// NewConfigHandler creates a new config handler.
func NewConfigHandler(settings SettingsProvider) *ConfigHandler {
	return &ConfigHandler{settings: settings}
}

type configResponse struct {
	GeolocationTimeoutMS int64   `json:"geolocation_timeout_ms"`
	RouletteDurationMS   int64   `json:"roulette_duration_ms"`
	RouletteTickMS       int64   `json:"roulette_tick_ms"`
	SearchRadiusM        float64 `json:"search_radius_m"`
	MaxResultCount       int     `json:"max_result_count"`
}

// HandleConfig handles GET /api/config requests.
func (h *ConfigHandler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	s := h.settings.Settings()
	writeJSON(w, http.StatusOK, configResponse{
		GeolocationTimeoutMS: s.GeolocationTimeout.Milliseconds(),
		RouletteDurationMS:   s.RouletteDuration.Milliseconds(),
		RouletteTickMS:       s.RouletteTick.Milliseconds(),
		SearchRadiusM:        s.SearchRadiusM,
		MaxResultCount:       s.MaxResultCount,
	})
}
