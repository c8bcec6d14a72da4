package places_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/okian/lunchroulette/internal/adapters/places"
	"github.com/okian/lunchroulette/internal/domain/model"
	"github.com/okian/lunchroulette/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// capture records the last request seen by the fake API.
type capture struct {
	mu     sync.Mutex
	method string
	path   string
	query  string
	header http.Header
	body   []byte
}

func (c *capture) record(r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.method = r.Method
	c.path = r.URL.Path
	c.query = r.URL.RawQuery
	c.header = r.Header.Clone()
	c.body, _ = io.ReadAll(r.Body)
}

func fakeAPI(t *testing.T, status int, payload string, seen *capture) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			seen.record(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(srv *httptest.Server, opts ...places.Option) *places.Client {
	base := []places.Option{
		places.WithBaseURL(srv.URL + "/v1/"),
		places.WithAPIKey("test-key"),
		places.WithTimeout(2 * time.Second),
	}
	return places.New(append(base, opts...)...)
}

func TestSearchNearby(t *testing.T) {
	Convey("Given a places API with two restaurants nearby", t, func() {
		seen := &capture{}
		srv := fakeAPI(t, http.StatusOK, `{"places":[
			{"id":"p1","displayName":{"text":"鼎泰豐","languageCode":"zh-TW"},"location":{"latitude":25.033,"longitude":121.53}},
			{"id":"p2","displayName":{"text":"Noodle Bar","languageCode":"en"},"location":{"latitude":25.034,"longitude":121.531}}
		]}`, seen)
		client := newClient(srv, places.WithLanguageCode("zh-TW"))

		Convey("When searching around a point", func() {
			got, err := client.SearchNearby(context.Background(), places.SearchRequest{
				Center:               model.LatLng{Latitude: 25.0330, Longitude: 121.5654},
				RadiusMeters:         500,
				IncludedPrimaryTypes: []string{"restaurant"},
				MaxResultCount:       20,
			})

			Convey("Then candidates are returned in API order", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 2)
				So(got[0].ID, ShouldEqual, "p1")
				So(got[0].Name(), ShouldEqual, "鼎泰豐")
				So(got[1].Location.Latitude, ShouldEqual, 25.034)
			})

			Convey("And the request follows the searchNearby contract", func() {
				So(seen.method, ShouldEqual, http.MethodPost)
				So(seen.path, ShouldEqual, "/v1/places:searchNearby")
				So(seen.header.Get("X-Goog-Api-Key"), ShouldEqual, "test-key")
				So(seen.header.Get("X-Goog-FieldMask"), ShouldEqual, "places.id,places.displayName,places.location")
				So(seen.header.Get("Content-Type"), ShouldEqual, "application/json")

				var body map[string]any
				So(json.Unmarshal(seen.body, &body), ShouldBeNil)
				So(body["includedPrimaryTypes"], ShouldResemble, []any{"restaurant"})
				So(body["maxResultCount"], ShouldEqual, 20.0)
				So(body["languageCode"], ShouldEqual, "zh-TW")
				circle := body["locationRestriction"].(map[string]any)["circle"].(map[string]any)
				So(circle["radius"], ShouldEqual, 500.0)
				center := circle["center"].(map[string]any)
				So(center["latitude"], ShouldEqual, 25.0330)
				So(center["longitude"], ShouldEqual, 121.5654)
			})
		})
	})

	Convey("Given a places API with nothing nearby", t, func() {
		srv := fakeAPI(t, http.StatusOK, `{}`, nil)
		client := newClient(srv)

		Convey("When searching", func() {
			got, err := client.SearchNearby(context.Background(), places.SearchRequest{RadiusMeters: 500})

			Convey("Then an empty, non-nil result is returned without error", func() {
				So(err, ShouldBeNil)
				So(got, ShouldNotBeNil)
				So(len(got), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a places API that rejects the key", t, func() {
		srv := fakeAPI(t, http.StatusForbidden,
			`{"error":{"code":403,"message":"API key not valid.","status":"PERMISSION_DENIED"}}`, nil)
		client := newClient(srv)

		Convey("When searching", func() {
			_, err := client.SearchNearby(context.Background(), places.SearchRequest{RadiusMeters: 500})

			Convey("Then an APIError with the decoded status is returned", func() {
				So(errors.Is(err, places.ErrAPI), ShouldBeTrue)
				var apiErr *places.APIError
				So(errors.As(err, &apiErr), ShouldBeTrue)
				So(apiErr.StatusCode, ShouldEqual, http.StatusForbidden)
				So(apiErr.Status, ShouldEqual, "PERMISSION_DENIED")
				So(apiErr.Message, ShouldEqual, "API key not valid.")
			})
		})
	})

	Convey("Given a places API returning a non-JSON error page", t, func() {
		srv := fakeAPI(t, http.StatusBadGateway, `upstream unavailable`, nil)
		client := newClient(srv)

		Convey("When searching", func() {
			_, err := client.SearchNearby(context.Background(), places.SearchRequest{})

			Convey("Then the raw body is kept as the message", func() {
				var apiErr *places.APIError
				So(errors.As(err, &apiErr), ShouldBeTrue)
				So(apiErr.StatusCode, ShouldEqual, http.StatusBadGateway)
				So(apiErr.Message, ShouldEqual, "upstream unavailable")
			})
		})
	})

	Convey("Given a places API returning malformed JSON", t, func() {
		srv := fakeAPI(t, http.StatusOK, `{"places":[`, nil)
		client := newClient(srv)

		Convey("When searching", func() {
			_, err := client.SearchNearby(context.Background(), places.SearchRequest{})

			Convey("Then a decode error is returned", func() {
				So(errors.Is(err, places.ErrDecode), ShouldBeTrue)
			})
		})
	})

	Convey("Given an unreachable endpoint", t, func() {
		srv := fakeAPI(t, http.StatusOK, `{}`, nil)
		url := srv.URL
		srv.Close()
		client := places.New(places.WithBaseURL(url), places.WithAPIKey("k"))

		Convey("When searching", func() {
			_, err := client.SearchNearby(context.Background(), places.SearchRequest{})

			Convey("Then a request error is returned", func() {
				So(errors.Is(err, places.ErrRequest), ShouldBeTrue)
			})
		})
	})

	Convey("Given a client without an API key", t, func() {
		client := places.New()

		Convey("When searching", func() {
			_, err := client.SearchNearby(context.Background(), places.SearchRequest{})

			Convey("Then it fails before any request", func() {
				So(errors.Is(err, places.ErrMissingAPIKey), ShouldBeTrue)
			})
		})
	})
}

func TestFetchDetails(t *testing.T) {
	Convey("Given a place with photos and a maps link", t, func() {
		seen := &capture{}
		srv := fakeAPI(t, http.StatusOK, `{
			"displayName":{"text":"Noodle Bar","languageCode":"en"},
			"googleMapsUri":"https://maps.google.com/?cid=123",
			"photos":[{"name":"places/p1/photos/AAA","widthPx":1200,"heightPx":800},{"name":"places/p1/photos/BBB"}]
		}`, seen)
		client := newClient(srv)

		Convey("When fetching details", func() {
			d, err := client.FetchDetails(context.Background(), "p1")

			Convey("Then the enriched fields are returned", func() {
				So(err, ShouldBeNil)
				So(d.DisplayName.Text, ShouldEqual, "Noodle Bar")
				So(d.GoogleMapsURI, ShouldEqual, "https://maps.google.com/?cid=123")
				So(d.PhotoNames, ShouldResemble, []string{"places/p1/photos/AAA", "places/p1/photos/BBB"})
			})

			Convey("And only the needed fields are requested", func() {
				So(seen.method, ShouldEqual, http.MethodGet)
				So(seen.path, ShouldEqual, "/v1/places/p1")
				So(seen.header.Get("X-Goog-FieldMask"), ShouldEqual, "displayName,photos,googleMapsUri")
			})
		})

		Convey("When the place id is empty", func() {
			_, err := client.FetchDetails(context.Background(), "")

			Convey("Then it fails without calling the API", func() {
				So(errors.Is(err, places.ErrRequest), ShouldBeTrue)
			})
		})
	})

	Convey("Given a place that no longer exists", t, func() {
		srv := fakeAPI(t, http.StatusNotFound,
			`{"error":{"code":404,"message":"not found","status":"NOT_FOUND"}}`, nil)
		client := newClient(srv)

		Convey("When fetching details", func() {
			_, err := client.FetchDetails(context.Background(), "gone")

			Convey("Then an API error is returned", func() {
				So(errors.Is(err, places.ErrAPI), ShouldBeTrue)
			})
		})
	})
}

func TestPhotoURI(t *testing.T) {
	Convey("Given a photo media endpoint", t, func() {
		seen := &capture{}
		srv := fakeAPI(t, http.StatusOK,
			`{"name":"places/p1/photos/AAA/media","photoUri":"https://lh3.googleusercontent.com/abc=w800"}`, seen)
		client := newClient(srv)

		Convey("When resolving a photo at 800px", func() {
			uri, err := client.PhotoURI(context.Background(), "places/p1/photos/AAA", 800)

			Convey("Then the redirect target is returned without following it", func() {
				So(err, ShouldBeNil)
				So(uri, ShouldEqual, "https://lh3.googleusercontent.com/abc=w800")
				So(seen.path, ShouldEqual, "/v1/places/p1/photos/AAA/media")
				So(seen.query, ShouldContainSubstring, "maxWidthPx=800")
				So(seen.query, ShouldContainSubstring, "skipHttpRedirect=true")
				So(strings.Contains(seen.query, "test-key"), ShouldBeFalse)
			})
		})
	})

	Convey("Given a media answer without uri", t, func() {
		srv := fakeAPI(t, http.StatusOK, `{"name":"x"}`, nil)
		client := newClient(srv)

		Convey("When resolving the photo", func() {
			_, err := client.PhotoURI(context.Background(), "places/p1/photos/AAA", 800)

			Convey("Then ErrNoPhoto is returned", func() {
				So(errors.Is(err, places.ErrNoPhoto), ShouldBeTrue)
			})
		})
	})
}
