// Package geo provides common geographic types and calculations.
// It centralizes location-based data structures and algorithms to ensure
// consistency across the codebase.
package geo

import (
	"encoding/json"
	"fmt"
	"math"
	"unicode/utf16"
)

const (
	// EarthRadiusMiles is the mean radius of Earth in statute miles
	EarthRadiusMiles = 3959.0

	// EarthRadiusMeters is the mean radius of Earth according to WGS-84 in meters
	EarthRadiusMeters = 6371000.0
)

// Coordinate represents a geographic position as a longitude/latitude pair.
// The longitude-first ordering matches the Mapbox wire format and is
// preserved at every boundary; the JSON form is a two-element array
// [longitude, latitude].
//
// Example:
//
//	c := geo.Coordinate{Longitude: -122.4194, Latitude: 37.7749}
//	d := geo.HaversineMiles(c, other)
type Coordinate struct {
	Longitude float64
	Latitude  float64
}

// MarshalJSON encodes the coordinate as a [longitude, latitude] array.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Longitude, c.Latitude})
}

// UnmarshalJSON decodes a [longitude, latitude] array.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("coordinate must be a [longitude, latitude] array: %w", err)
	}
	c.Longitude = pair[0]
	c.Latitude = pair[1]
	return nil
}

// String returns the coordinate in the lng,lat form used in Mapbox URLs.
func (c Coordinate) String() string {
	return fmt.Sprintf("%g,%g", c.Longitude, c.Latitude)
}

// Validate checks that the coordinate is within valid ranges.
func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("invalid latitude %f (must be between -90 and 90)", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("invalid longitude %f (must be between -180 and 180)", c.Longitude)
	}
	return nil
}

// ToRadians converts degrees to radians.
func ToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// haversine computes the central angle between two coordinates.
func haversine(a, b Coordinate) float64 {
	lat1 := ToRadians(a.Latitude)
	lat2 := ToRadians(b.Latitude)
	dLat := ToRadians(b.Latitude - a.Latitude)
	dLng := ToRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// HaversineMiles calculates the great-circle distance between two
// coordinates in statute miles.
func HaversineMiles(a, b Coordinate) float64 {
	return EarthRadiusMiles * haversine(a, b)
}

// HaversineMeters calculates the great-circle distance between two
// coordinates in meters.
func HaversineMeters(a, b Coordinate) float64 {
	return EarthRadiusMeters * haversine(a, b)
}

// RoundMiles rounds a distance to one decimal place, the precision shown
// alongside results.
func RoundMiles(miles float64) float64 {
	return math.Round(miles*10) / 10
}

// NameHues derives a deterministic pair of HSL hues from a display name.
// The hash accumulates UTF-16 code units left to right with 32-bit
// wraparound, so the same name always yields the same gradient. Purely
// presentational, but snapshot tests depend on it being stable.
func NameHues(name string) (int, int) {
	var hash int32
	for _, u := range utf16.Encode([]rune(name)) {
		hash = int32(u) + ((hash << 5) - hash)
	}
	h := int64(hash)
	if h < 0 {
		h = -h
	}
	hue1 := int(h % 360)
	hue2 := (hue1 + 40) % 360
	return hue1, hue2
}

// BoundingBox represents a geographic bounding box with southwest and
// northeast corners.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// NewBoundingBox creates a new empty bounding box
func NewBoundingBox() *BoundingBox {
	return &BoundingBox{
		MinLat: 90.0, // Start with inverted min/max so any point extends correctly
		MinLng: 180.0,
		MaxLat: -90.0,
		MaxLng: -180.0,
	}
}

// Extend extends the bounding box to include the specified coordinate
func (bb *BoundingBox) Extend(c Coordinate) {
	if c.Latitude < bb.MinLat {
		bb.MinLat = c.Latitude
	}
	if c.Latitude > bb.MaxLat {
		bb.MaxLat = c.Latitude
	}
	if c.Longitude < bb.MinLng {
		bb.MinLng = c.Longitude
	}
	if c.Longitude > bb.MaxLng {
		bb.MaxLng = c.Longitude
	}
}

// Empty reports whether the box has been extended with any point.
func (bb *BoundingBox) Empty() bool {
	return bb.MinLat > bb.MaxLat
}
