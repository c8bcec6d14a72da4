// Package model contains domain models passed between layers.
package model

import (
	"bytes"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrInvalidLocation reports coordinates outside the valid lat/lng range.
var ErrInvalidLocation = errors.New("invalid location")

// LocalizedText is a display string with its language tag.
// It decodes from either a plain JSON string or {"text": ..., "languageCode": ...}.
type LocalizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// UnmarshalJSON accepts both the bare and the wrapped form.
func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = LocalizedText{Text: s}
		return nil
	}
	type plain LocalizedText
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = LocalizedText(p)
	return nil
}

// String returns the display text.
func (t LocalizedText) String() string { return t.Text }

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks the coordinate ranges.
func (l LatLng) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidLocation, l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidLocation, l.Longitude)
	}
	return nil
}

// Candidate is one restaurant returned by a nearby search.
// ID is unique within a single search response.
type Candidate struct {
	ID          string        `json:"id"`
	DisplayName LocalizedText `json:"displayName"`
	Location    LatLng        `json:"location"`
}

// Name returns the text shown for the candidate.
func (c Candidate) Name() string { return c.DisplayName.Text }

// Details are the enriched fields fetched for a winning candidate.
type Details struct {
	DisplayName   LocalizedText
	PhotoNames    []string // opaque photo resource names, resolved to URIs separately
	GoogleMapsURI string
}

// Card is what the result region renders.
type Card struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Link     string `json:"link"`
	Enriched bool   `json:"enriched"`
}
