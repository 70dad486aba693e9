package mapbox

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/NERVsystems/inkmap/pkg/geo"
)

// Suggest queries the Search Box suggest endpoint for candidate places
// matching q. proximity biases ranking toward nearby results and may be
// nil; poiCategory narrows the search to one POI category and may be empty.
// A missing suggestions field is treated as an empty result, not an error,
// so search stays resilient to thin provider responses.
func (c *Client) Suggest(ctx context.Context, q string, proximity *geo.Coordinate, poiCategory, sessionToken string) ([]Suggestion, error) {
	v := url.Values{}
	v.Set("q", q)
	v.Set("limit", strconv.Itoa(suggestLimit))
	if proximity != nil {
		v.Set("proximity", proximity.String())
	}
	if poiCategory != "" {
		v.Set("poi_category", poiCategory)
	}
	v.Set("session_token", sessionToken)
	v.Set("access_token", c.token)

	reqURL := fmt.Sprintf("%s/search/searchbox/v1/suggest?%s", c.baseURL, v.Encode())

	var out suggestResponse
	if err := c.getJSON(ctx, ServiceSearchBox, reqURL, false, &out); err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

// Retrieve resolves a suggestion id to a full feature with coordinates.
// The session token must match the suggest call that produced the id.
// Returns (nil, nil) when the provider has no matching feature.
func (c *Client) Retrieve(ctx context.Context, id, sessionToken string) (*Feature, error) {
	v := url.Values{}
	v.Set("session_token", sessionToken)
	v.Set("access_token", c.token)

	reqURL := fmt.Sprintf("%s/search/searchbox/v1/retrieve/%s?%s",
		c.baseURL, url.PathEscape(id), v.Encode())

	var out retrieveResponse
	if err := c.getJSON(ctx, ServiceSearchBox, reqURL, true, &out); err != nil {
		return nil, err
	}
	if len(out.Features) == 0 {
		return nil, nil
	}
	return &out.Features[0], nil
}

// ForwardGeocode performs a one-shot POI text search against the Geocoding
// v5 API, without the suggest/retrieve split or session accounting.
func (c *Client) ForwardGeocode(ctx context.Context, q string, proximity *geo.Coordinate, limit int) ([]GeocodeFeature, error) {
	if limit <= 0 {
		limit = suggestLimit
	}

	v := url.Values{}
	v.Set("types", "poi")
	v.Set("limit", strconv.Itoa(limit))
	v.Set("language", "en")
	if proximity != nil {
		v.Set("proximity", proximity.String())
	}
	v.Set("access_token", c.token)

	reqURL := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s",
		c.baseURL, url.PathEscape(q), v.Encode())

	var out geocodeResponse
	if err := c.getJSON(ctx, ServiceGeocoding, reqURL, true, &out); err != nil {
		return nil, err
	}
	return out.Features, nil
}

// PlaceFormatted composes a human-readable locality string from a geocoding
// feature's context hierarchy, falling back to the full place name.
func (f *GeocodeFeature) PlaceFormatted() string {
	var place, region, country string
	for _, c := range f.Context {
		switch {
		case strings.HasPrefix(c.ID, "place"):
			place = c.Text
		case strings.HasPrefix(c.ID, "region"):
			region = c.Text
		case strings.HasPrefix(c.ID, "country"):
			country = c.Text
		}
	}

	out := ""
	for _, part := range []string{place, region, country} {
		if part == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += part
	}
	if out == "" {
		return f.PlaceName
	}
	return out
}
