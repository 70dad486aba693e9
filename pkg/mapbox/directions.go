package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/NERVsystems/inkmap/pkg/geo"
)

// drivingProfile is the routing profile for all directions and isochrone
// requests. The app only renders driving routes.
const drivingProfile = "mapbox/driving"

// Directions requests a driving route between two points from the
// Directions v5 API and returns the raw response envelope. Interpreting the
// response code is the caller's responsibility; the client only fails on
// transport or decoding errors.
func (c *Client) Directions(ctx context.Context, origin, destination geo.Coordinate) (*DirectionsResponse, error) {
	v := url.Values{}
	v.Set("alternatives", "true")
	v.Set("annotations", "distance,speed,duration,congestion,maxspeed,congestion_numeric,closure")
	v.Set("banner_instructions", "true")
	v.Set("exclude", "ferry,cash_only_tolls")
	v.Set("geometries", "geojson")
	v.Set("language", "en")
	v.Set("overview", "full")
	v.Set("roundabout_exits", "true")
	v.Set("steps", "true")
	v.Set("voice_instructions", "true")
	v.Set("voice_units", "imperial")
	v.Set("access_token", c.token)

	reqURL := fmt.Sprintf("%s/directions/v5/%s/%s;%s?%s",
		c.baseURL, drivingProfile, origin.String(), destination.String(), v.Encode())

	var out DirectionsResponse
	if err := c.getJSON(ctx, ServiceDirections, reqURL, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Isochrone requests drive-time contour polygons around a center point.
// minutes lists the contour times; the default matches the map overlay
// (5, 10 and 15 minutes). The GeoJSON feature collection is returned raw
// for the presentation layer to draw.
func (c *Client) Isochrone(ctx context.Context, center geo.Coordinate, minutes []int) (json.RawMessage, error) {
	if len(minutes) == 0 {
		minutes = []int{5, 10, 15}
	}
	contours := make([]string, len(minutes))
	for i, m := range minutes {
		contours[i] = strconv.Itoa(m)
	}

	v := url.Values{}
	v.Set("contours_minutes", strings.Join(contours, ","))
	v.Set("polygons", "true")
	v.Set("denoise", "0.5")
	v.Set("access_token", c.token)

	reqURL := fmt.Sprintf("%s/isochrone/v1/%s/%s?%s",
		c.baseURL, drivingProfile, center.String(), v.Encode())

	var out struct {
		Message  string          `json:"message,omitempty"`
		Type     string          `json:"type,omitempty"`
		Features json.RawMessage `json:"features,omitempty"`
	}
	if err := c.getJSON(ctx, ServiceIsochrone, reqURL, true, &out); err != nil {
		return nil, err
	}

	// The isochrone API signals failure with a message field instead of a
	// non-200 status.
	if out.Message != "" {
		return nil, &APIError{Service: ServiceIsochrone, Message: out.Message}
	}

	collection := struct {
		Type     string          `json:"type"`
		Features json.RawMessage `json:"features"`
	}{Type: out.Type, Features: out.Features}
	return json.Marshal(collection)
}
