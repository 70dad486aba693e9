package mapbox

import (
	"encoding/json"

	"github.com/NERVsystems/inkmap/pkg/geo"
)

// Suggestion is an unresolved first-phase search hit from the Search Box
// suggest endpoint. It carries no coordinates; callers resolve it with
// Retrieve using the same session token.
type Suggestion struct {
	MapboxID       string   `json:"mapbox_id"`
	Name           string   `json:"name"`
	Address        string   `json:"address,omitempty"`
	PlaceFormatted string   `json:"place_formatted,omitempty"`
	FeatureType    string   `json:"feature_type,omitempty"`
	POICategory    []string `json:"poi_category,omitempty"`
}

// suggestResponse is the wire format of the suggest endpoint. A missing
// suggestions field decodes to an empty slice.
type suggestResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// FeatureProperties holds the detail fields of a retrieved feature.
type FeatureProperties struct {
	MapboxID       string   `json:"mapbox_id"`
	Name           string   `json:"name"`
	Address        string   `json:"address,omitempty"`
	PlaceFormatted string   `json:"place_formatted,omitempty"`
	Tel            string   `json:"tel,omitempty"`
	POICategory    []string `json:"poi_category,omitempty"`
}

// Feature is a fully resolved place from the retrieve endpoint.
type Feature struct {
	Geometry struct {
		Type        string         `json:"type"`
		Coordinates geo.Coordinate `json:"coordinates"`
	} `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

type retrieveResponse struct {
	Features []Feature `json:"features"`
}

// GeocodeFeature is a forward-geocoding result from the Geocoding v5 API.
type GeocodeFeature struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	PlaceName string `json:"place_name"`
	Geometry  struct {
		Coordinates geo.Coordinate `json:"coordinates"`
	} `json:"geometry"`
	Context []GeocodeContext `json:"context,omitempty"`
	Properties struct {
		Category string `json:"category,omitempty"`
	} `json:"properties"`
}

// GeocodeContext is one entry of a geocoding feature's containment
// hierarchy (place, region, country, ...).
type GeocodeContext struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type geocodeResponse struct {
	Features []GeocodeFeature `json:"features"`
}

// DirectionsRoute is a single route from the Directions v5 API. Geometry is
// kept raw because the API returns either a GeoJSON LineString or an
// encoded polyline depending on the geometries parameter; legs are opaque
// pass-through.
type DirectionsRoute struct {
	Geometry json.RawMessage `json:"geometry"`
	Distance float64         `json:"distance"`
	Duration float64         `json:"duration"`
	Legs     json.RawMessage `json:"legs,omitempty"`
}

// DirectionsResponse is the Directions v5 response envelope. Code "Ok"
// indicates success; anything else carries a provider message.
type DirectionsResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message,omitempty"`
	Routes  []DirectionsRoute `json:"routes,omitempty"`
}
