package service_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	service "github.com/okian/lunchroulette/internal/app"
	"github.com/okian/lunchroulette/internal/config"
	"github.com/okian/lunchroulette/internal/domain/locate"
	"github.com/okian/lunchroulette/internal/domain/roulette"
	"github.com/okian/lunchroulette/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// fakePlacesAPI answers the three Places calls for a single restaurant.
func fakePlacesAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/places:searchNearby":
			_, _ = io.WriteString(w, `{"places":[{"id":"p1","displayName":{"text":"巷口麵店"},"location":{"latitude":25.03,"longitude":121.56}}]}`)
		case r.URL.Path == "/places/p1":
			_, _ = io.WriteString(w, `{"displayName":{"text":"巷口麵店"},"googleMapsUri":"https://maps.google.com/?cid=7","photos":[{"name":"places/p1/photos/x"}]}`)
		case strings.HasSuffix(r.URL.Path, "/media"):
			_, _ = io.WriteString(w, `{"photoUri":"https://lh3.example/x=w`+r.URL.Query().Get("maxWidthPx")+`"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":{"code":404,"message":"nope","status":"NOT_FOUND"}}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewFromConfig(t *testing.T) {
	Convey("Given a config pointing at a places API", t, func() {
		api := fakePlacesAPI(t)
		cfg := config.New()
		cfg.PlacesBaseURL = api.URL
		cfg.PlacesAPIKey = "k"
		cfg.PhotoMaxWidthPx = 640
		cfg.SearchRadiusM = 300

		Convey("When the service is built from it", func() {
			svc := service.NewFromConfig(cfg, logger.Get(),
				service.WithAnimator(roulette.New(
					roulette.WithClock(roulette.NewStepClock(time.Unix(0, 0))),
				)),
			)

			Convey("Then the settings follow the config", func() {
				So(svc.Settings().SearchRadiusM, ShouldEqual, 300.0)
				So(svc.Settings().GeolocationTimeout, ShouldEqual, cfg.GeolocationTimeout())
			})

			Convey("And a pick goes through search, roulette and enrichment", func() {
				surface := &recorder{}
				res := svc.Pick(context.Background(), "c1", locate.NewStatic(25.03, 121.56), surface)

				So(res.Outcome, ShouldEqual, service.OutcomeWinner)
				So(res.Ticks, ShouldEqual, 50)
				So(res.Card.Name, ShouldEqual, "巷口麵店")
				So(res.Card.ImageURL, ShouldEqual, "https://lh3.example/x=w640")
				So(res.Card.Link, ShouldEqual, "https://maps.google.com/?cid=7")
			})
		})
	})
}
