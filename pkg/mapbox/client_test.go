package mapbox

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/NERVsystems/inkmap/pkg/geo"
	"github.com/NERVsystems/inkmap/pkg/testutil"
)

// newTestClient returns a client pointed at a fake provider.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-token",
		WithBaseURL(srv.URL),
		WithLogger(testutil.DiscardLogger()))
}

func TestSuggest(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/search/searchbox/v1/suggest") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"suggestions":[
			{"mapbox_id":"abc","name":"Black Anchor Tattoo","place_formatted":"Los Angeles, CA"},
			{"mapbox_id":"def","name":"Joe's Coffee","place_formatted":"Los Angeles, CA"}
		]}`))
	})

	proximity := &geo.Coordinate{Longitude: -118.2437, Latitude: 34.0522}
	got, err := client.Suggest(context.Background(), "tattoo shop", proximity, "tattoo_parlour", "session-1")
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(got))
	}
	if got[0].MapboxID != "abc" || got[0].Name != "Black Anchor Tattoo" {
		t.Errorf("first suggestion = %+v", got[0])
	}

	if gotQuery.Get("q") != "tattoo shop" {
		t.Errorf("q = %q", gotQuery.Get("q"))
	}
	if gotQuery.Get("proximity") != "-118.2437,34.0522" {
		t.Errorf("proximity = %q, want lng,lat ordering", gotQuery.Get("proximity"))
	}
	if gotQuery.Get("poi_category") != "tattoo_parlour" {
		t.Errorf("poi_category = %q", gotQuery.Get("poi_category"))
	}
	if gotQuery.Get("session_token") != "session-1" {
		t.Errorf("session_token = %q", gotQuery.Get("session_token"))
	}
}

func TestSuggestMissingField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	got, err := client.Suggest(context.Background(), "tattoo", nil, "", "s")
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d suggestions from empty body, want 0", len(got))
	}
}

func TestSuggestWithoutCategory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("poi_category") {
			t.Error("poi_category sent for broadened search")
		}
		w.Write([]byte(`{"suggestions":[]}`))
	})

	if _, err := client.Suggest(context.Background(), "tattoo", nil, "", "s"); err != nil {
		t.Fatalf("Suggest error: %v", err)
	}
}

func TestNoAccessToken(t *testing.T) {
	client := NewClient("", WithLogger(testutil.DiscardLogger()))

	if _, err := client.Suggest(context.Background(), "q", nil, "", "s"); !errors.Is(err, ErrNoAccessToken) {
		t.Errorf("Suggest error = %v, want ErrNoAccessToken", err)
	}
	if _, err := client.Retrieve(context.Background(), "id", "s"); !errors.Is(err, ErrNoAccessToken) {
		t.Errorf("Retrieve error = %v, want ErrNoAccessToken", err)
	}
	origin := geo.Coordinate{Longitude: 0, Latitude: 0}
	if _, err := client.Directions(context.Background(), origin, origin); !errors.Is(err, ErrNoAccessToken) {
		t.Errorf("Directions error = %v, want ErrNoAccessToken", err)
	}
}

func TestRetrieve(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/search/searchbox/v1/retrieve/abc") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"features":[{
			"geometry":{"type":"Point","coordinates":[-118.2437,34.0522]},
			"properties":{
				"mapbox_id":"abc",
				"name":"Black Anchor Tattoo",
				"address":"123 Main St",
				"place_formatted":"Los Angeles, California, United States",
				"tel":"+1 213-555-0100",
				"poi_category":["tattoo parlour"]
			}
		}]}`))
	})

	got, err := client.Retrieve(context.Background(), "abc", "session-1")
	if err != nil {
		t.Fatalf("Retrieve error: %v", err)
	}
	if got == nil {
		t.Fatal("Retrieve returned nil feature")
	}
	if got.Properties.Name != "Black Anchor Tattoo" {
		t.Errorf("name = %q", got.Properties.Name)
	}
	if got.Geometry.Coordinates.Longitude != -118.2437 || got.Geometry.Coordinates.Latitude != 34.0522 {
		t.Errorf("coordinates = %+v, longitude-first ordering lost", got.Geometry.Coordinates)
	}
	if got.Properties.Tel != "+1 213-555-0100" {
		t.Errorf("tel = %q", got.Properties.Tel)
	}
}

func TestRetrieveNoFeatures(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features":[]}`))
	})

	got, err := client.Retrieve(context.Background(), "missing", "s")
	if err != nil {
		t.Fatalf("Retrieve error: %v", err)
	}
	if got != nil {
		t.Errorf("Retrieve = %+v, want nil for empty features", got)
	}
}

func TestProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	})

	_, err := client.Suggest(context.Background(), "q", nil, "", "s")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway || apiErr.Service != ServiceSearchBox {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestForwardGeocode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/geocoding/v5/mapbox.places/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("types") != "poi" {
			t.Errorf("types = %q", r.URL.Query().Get("types"))
		}
		w.Write([]byte(`{"features":[{
			"id":"poi.1",
			"text":"Iron & Ink",
			"place_name":"Iron & Ink, 456 Sunset Blvd, Los Angeles, California, United States",
			"geometry":{"coordinates":[-118.26,34.09]},
			"context":[
				{"id":"place.2","text":"Los Angeles"},
				{"id":"region.3","text":"California"},
				{"id":"country.4","text":"United States"}
			],
			"properties":{"category":"tattoo parlour, body art"}
		}]}`))
	})

	got, err := client.ForwardGeocode(context.Background(), "tattoo", nil, 5)
	if err != nil {
		t.Fatalf("ForwardGeocode error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d features, want 1", len(got))
	}
	if got[0].Text != "Iron & Ink" {
		t.Errorf("text = %q", got[0].Text)
	}
	if pf := got[0].PlaceFormatted(); pf != "Los Angeles, California, United States" {
		t.Errorf("PlaceFormatted() = %q", pf)
	}
}

func TestPlaceFormattedFallback(t *testing.T) {
	f := &GeocodeFeature{PlaceName: "Somewhere, Earth"}
	if pf := f.PlaceFormatted(); pf != "Somewhere, Earth" {
		t.Errorf("PlaceFormatted() = %q, want place_name fallback", pf)
	}
}

func TestDirections(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/directions/v5/mapbox/driving/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		// Path carries lng,lat;lng,lat
		if !strings.Contains(r.URL.Path, "-118.2437,34.0522;-118.25,34.06") {
			t.Errorf("coordinates missing from path %s", r.URL.Path)
		}
		w.Write([]byte(`{"code":"Ok","routes":[{
			"geometry":{"type":"LineString","coordinates":[[-118.2437,34.0522],[-118.25,34.06]]},
			"distance":1234.5,
			"duration":300.0,
			"legs":[{"summary":"Sunset Blvd"}]
		}]}`))
	})

	origin := geo.Coordinate{Longitude: -118.2437, Latitude: 34.0522}
	dest := geo.Coordinate{Longitude: -118.25, Latitude: 34.06}
	got, err := client.Directions(context.Background(), origin, dest)
	if err != nil {
		t.Fatalf("Directions error: %v", err)
	}
	if got.Code != "Ok" || len(got.Routes) != 1 {
		t.Fatalf("response = %+v", got)
	}
	if got.Routes[0].Distance != 1234.5 {
		t.Errorf("distance = %f", got.Routes[0].Distance)
	}
}

func TestIsochrone(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/isochrone/v1/mapbox/driving/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("contours_minutes") != "5,10,15" {
			t.Errorf("contours_minutes = %q", r.URL.Query().Get("contours_minutes"))
		}
		w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	})

	got, err := client.Isochrone(context.Background(), geo.Coordinate{Longitude: -118.2, Latitude: 34.0}, nil)
	if err != nil {
		t.Fatalf("Isochrone error: %v", err)
	}
	if !strings.Contains(string(got), "FeatureCollection") {
		t.Errorf("Isochrone = %s", got)
	}
}

func TestIsochroneMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"Coordinate is out of range"}`))
	})

	_, err := client.Isochrone(context.Background(), geo.Coordinate{}, []int{5})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Message != "Coordinate is out of range" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestNewSessionToken(t *testing.T) {
	a := NewSessionToken()
	b := NewSessionToken()
	if a == "" || a == b {
		t.Errorf("session tokens not unique: %q, %q", a, b)
	}
}
