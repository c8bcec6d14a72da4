// Package places is a client for the Places API (New) REST endpoints.
//
// Only the three calls the roulette needs are covered: nearby search,
// place details and photo media lookup.
package places

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/okian/lunchroulette/internal/domain/model"
	"github.com/okian/lunchroulette/pkg/logger"
	"github.com/okian/lunchroulette/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Defaults for the public endpoint.
const (
	DefaultBaseURL = "https://places.googleapis.com/v1"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 64 << 10

	searchFieldMask  = "places.id,places.displayName,places.location"
	detailsFieldMask = "displayName,photos,googleMapsUri"
)

// Operation labels used in logs and metrics.
const (
	opSearchNearby = "search_nearby"
	opFetchDetails = "fetch_details"
	opPhotoURI     = "photo_uri"
)

// SearchRequest describes a nearby search.
type SearchRequest struct {
	Center               model.LatLng
	RadiusMeters         float64
	IncludedPrimaryTypes []string
	MaxResultCount       int
}

// Client talks to the Places API.
type Client struct {
	baseURL      string
	apiKey       string
	languageCode string
	timeout      time.Duration
	http         *http.Client
	logger       logger.Logger
}

// New constructs a Client. The API key is required for every call.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("places")
	}
	return c
}

type searchNearbyBody struct {
	IncludedPrimaryTypes []string            `json:"includedPrimaryTypes,omitempty"`
	MaxResultCount       int                 `json:"maxResultCount,omitempty"`
	LanguageCode         string              `json:"languageCode,omitempty"`
	LocationRestriction  locationRestriction `json:"locationRestriction"`
}

type locationRestriction struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center model.LatLng `json:"center"`
	Radius float64      `json:"radius"`
}

type searchNearbyResponse struct {
	Places []model.Candidate `json:"places"`
}

// SearchNearby returns the places inside the circle, in API order.
// An empty slice with a nil error means nothing matched.
func (c *Client) SearchNearby(ctx context.Context, req SearchRequest) ([]model.Candidate, error) {
	body := searchNearbyBody{
		IncludedPrimaryTypes: req.IncludedPrimaryTypes,
		MaxResultCount:       req.MaxResultCount,
		LanguageCode:         c.languageCode,
		LocationRestriction: locationRestriction{
			Circle: circle{Center: req.Center, Radius: req.RadiusMeters},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", opSearchNearby, err)
	}

	var out searchNearbyResponse
	err = c.do(ctx, opSearchNearby, http.MethodPost, c.baseURL+"/places:searchNearby",
		searchFieldMask, bytes.NewReader(payload), &out)
	if err != nil {
		return nil, err
	}
	metrics.RecordSearchResultCount(len(out.Places))
	if out.Places == nil {
		return []model.Candidate{}, nil
	}
	return out.Places, nil
}

type detailsResponse struct {
	DisplayName   model.LocalizedText `json:"displayName"`
	GoogleMapsURI string              `json:"googleMapsUri"`
	Photos        []struct {
		Name     string `json:"name"`
		WidthPx  int    `json:"widthPx"`
		HeightPx int    `json:"heightPx"`
	} `json:"photos"`
}

// FetchDetails loads display name, photos and the Maps link of a place.
func (c *Client) FetchDetails(ctx context.Context, placeID string) (model.Details, error) {
	if placeID == "" {
		return model.Details{}, fmt.Errorf("%s: %w: empty place id", opFetchDetails, ErrRequest)
	}
	endpoint := c.baseURL + "/places/" + url.PathEscape(placeID)
	if c.languageCode != "" {
		endpoint += "?languageCode=" + url.QueryEscape(c.languageCode)
	}

	var out detailsResponse
	if err := c.do(ctx, opFetchDetails, http.MethodGet, endpoint, detailsFieldMask, nil, &out); err != nil {
		return model.Details{}, err
	}

	d := model.Details{
		DisplayName:   out.DisplayName,
		GoogleMapsURI: out.GoogleMapsURI,
	}
	for _, p := range out.Photos {
		if p.Name != "" {
			d.PhotoNames = append(d.PhotoNames, p.Name)
		}
	}
	return d, nil
}

type photoMediaResponse struct {
	Name     string `json:"name"`
	PhotoURI string `json:"photoUri"`
}

// PhotoURI resolves a photo resource name to a short-lived image URL that
// can be handed to a browser without exposing the API key.
func (c *Client) PhotoURI(ctx context.Context, photoName string, maxWidthPx int) (string, error) {
	if photoName == "" {
		return "", fmt.Errorf("%s: %w: empty photo name", opPhotoURI, ErrRequest)
	}
	q := url.Values{}
	q.Set("maxWidthPx", strconv.Itoa(maxWidthPx))
	q.Set("skipHttpRedirect", "true")
	endpoint := c.baseURL + "/" + photoName + "/media?" + q.Encode()

	var out photoMediaResponse
	if err := c.do(ctx, opPhotoURI, http.MethodGet, endpoint, "", nil, &out); err != nil {
		return "", err
	}
	if out.PhotoURI == "" {
		return "", fmt.Errorf("%s: %w", opPhotoURI, ErrNoPhoto)
	}
	return out.PhotoURI, nil
}

// do sends one request and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, op, method, endpoint, fieldMask string, body io.Reader, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("%s: %w", op, ErrMissingAPIKey)
	}

	start := time.Now()
	result := "ok"
	defer func() {
		metrics.RecordPlacesRequest(op, result, float64(time.Since(start).Milliseconds()))
	}()

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		result = "error"
		return fmt.Errorf("%s: %w: %w", op, ErrRequest, err)
	}
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	if fieldMask != "" {
		req.Header.Set("X-Goog-FieldMask", fieldMask)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		result = "transport_error"
		metrics.RecordErrorByComponent("places", "transport")
		c.logger.Warn(ctx, "places request failed", logger.String("op", op), logger.Error(err))
		return fmt.Errorf("%s: %w: %w", op, ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result = "api_error"
		apiErr := decodeAPIError(resp)
		metrics.RecordErrorByComponent("places", "http_"+strconv.Itoa(resp.StatusCode))
		c.logger.Warn(ctx, "places api returned an error",
			logger.String("op", op),
			logger.Int("status", resp.StatusCode),
			logger.String("api_status", apiErr.Status),
		)
		return fmt.Errorf("%s: %w", op, apiErr)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		result = "decode_error"
		return fmt.Errorf("%s: %w: %w", op, ErrDecode, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return apiErr
	}
	var envelope struct {
		Error *APIError `json:"error"`
	}
	if json.Unmarshal(data, &envelope) == nil && envelope.Error != nil {
		envelope.Error.StatusCode = resp.StatusCode
		return envelope.Error
	}
	apiErr.Message = string(data)
	return apiErr
}
