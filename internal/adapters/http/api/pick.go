package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/lunchroulette/internal/domain/locate"
	"github.com/okian/lunchroulette/internal/domain/model"
)

// ClientCookie carries the per-browser id used to allow one pick at a time.
const ClientCookie = "lr_client"

const clientCookieMaxAge = 365 * 24 * time.Hour

// PickHandler streams one pick per request.
type PickHandler struct {
	picker Picker
}

// NewPickHandler creates a new pick handler.
func NewPickHandler(picker Picker) *PickHandler {
	return &PickHandler{picker: picker}
}

// HandlePick handles GET /api/pick?lat=&lng= and GET /api/pick?geo_error=code.
// The response is an event stream that ends with a "done" event.
func (h *PickHandler) HandlePick(w http.ResponseWriter, r *http.Request) {
	const op = "api.pick"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	locator, err := locatorFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", NewKind(op, ErrStreaming))
		return
	}

	clientID := clientIDFromCookie(w, r)

	header := w.Header()
	header.Set("Content-Type", "text/event-stream; charset=utf-8")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	surface := newSSESurface(w, flusher)
	res := h.picker.Pick(r.Context(), clientID, locator, surface)
	surface.done(string(res.Outcome), res.Ticks)
}

// locatorFromQuery turns what the browser reported into a Locator.
func locatorFromQuery(r *http.Request) (locate.Locator, error) {
	q := r.URL.Query()
	if code := strings.TrimSpace(q.Get("geo_error")); code != "" {
		return locate.Failed{Err: locate.FromCode(code)}, nil
	}

	latRaw, lngRaw := q.Get("lat"), q.Get("lng")
	if latRaw == "" || lngRaw == "" {
		return nil, errors.New("missing lat/lng or geo_error")
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil, errors.New("invalid lat")
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return nil, errors.New("invalid lng")
	}
	pos := model.LatLng{Latitude: lat, Longitude: lng}
	if err := pos.Validate(); err != nil {
		return nil, err
	}
	return &locate.Static{Position: pos}, nil
}

// clientIDFromCookie returns the caller's id, issuing a new one when the
// cookie is missing or malformed.
func clientIDFromCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(ClientCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(clientCookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
