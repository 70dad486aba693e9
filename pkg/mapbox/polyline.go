package mapbox

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/NERVsystems/inkmap/pkg/geo"
)

// DecodeGeometry converts a Directions route geometry into a coordinate
// path. The API returns either a GeoJSON LineString (geometries=geojson)
// or an encoded polyline string (geometries=polyline); both are handled so
// callers need not care which form a response carries.
func DecodeGeometry(raw json.RawMessage) ([]geo.Coordinate, error) {
	if len(raw) == 0 {
		return []geo.Coordinate{}, nil
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, fmt.Errorf("decode polyline geometry: %w", err)
		}
		return DecodePolyline(encoded), nil
	}

	var line struct {
		Type        string           `json:"type"`
		Coordinates []geo.Coordinate `json:"coordinates"`
	}
	if err := json.Unmarshal(raw, &line); err != nil {
		return nil, fmt.Errorf("decode geojson geometry: %w", err)
	}
	if line.Coordinates == nil {
		return []geo.Coordinate{}, nil
	}
	return line.Coordinates, nil
}

// DecodePolyline decodes an encoded polyline string to a coordinate slice.
// This implements Google's Polyline Algorithm Format (Polyline5), the
// default encoding of the Directions API, with 5 decimal places of
// precision (1e-5).
// See https://developers.google.com/maps/documentation/utilities/polylinealgorithm
func DecodePolyline(encoded string) []geo.Coordinate {
	return decodePolyline(encoded, 1e-5)
}

// DecodePolyline6 decodes a polyline with 6 decimal places of precision,
// produced when geometries=polyline6 is requested.
func DecodePolyline6(encoded string) []geo.Coordinate {
	return decodePolyline(encoded, 1e-6)
}

func decodePolyline(encoded string, precision float64) []geo.Coordinate {
	if len(encoded) == 0 {
		return []geo.Coordinate{}
	}

	// Rough size estimate keeps append from reallocating
	count := len(encoded) / 4
	if count <= 0 {
		count = 1
	}
	points := make([]geo.Coordinate, 0, count)

	index := 0
	lat := 0
	lng := 0
	strLen := len(encoded)

	for index < strLen {
		// Decode latitude
		result := 0
		shift := 0
		for {
			if index >= strLen {
				break
			}
			b := int(encoded[index]) - 63
			index++
			result |= (b & 0x1f) << shift
			shift += 5
			if b < 0x20 {
				break
			}
		}
		// Fix sign-bit inversion
		deltaLat := (result >> 1) ^ (-(result & 1))
		lat += deltaLat

		// Decode longitude
		result = 0
		shift = 0
		for {
			if index >= strLen {
				break
			}
			b := int(encoded[index]) - 63
			index++
			result |= (b & 0x1f) << shift
			shift += 5
			if b < 0x20 {
				break
			}
		}
		// Fix sign-bit inversion
		deltaLng := (result >> 1) ^ (-(result & 1))
		lng += deltaLng

		points = append(points, geo.Coordinate{
			Latitude:  float64(lat) * precision,
			Longitude: float64(lng) * precision,
		})
	}

	return points
}

// EncodePolyline encodes a coordinate slice into a Polyline5 string.
func EncodePolyline(points []geo.Coordinate) string {
	if len(points) == 0 {
		return ""
	}

	// 6 bytes per point is typical
	result := make([]byte, 0, len(points)*6)

	prevLat := 0
	prevLng := 0

	for _, point := range points {
		lat := int(math.Round(point.Latitude * 1e5))
		lng := int(math.Round(point.Longitude * 1e5))

		// Encode differences from previous values
		result = append(result, encodeSigned(lat-prevLat)...)
		result = append(result, encodeSigned(lng-prevLng)...)

		prevLat = lat
		prevLng = lng
	}

	return string(result)
}

// encodeSigned encodes a signed value using the Google Polyline Algorithm.
func encodeSigned(value int) []byte {
	// Convert to zigzag encoding
	s := value << 1
	if value < 0 {
		s = ^s
	}

	var buf []byte
	for s >= 0x20 {
		buf = append(buf, byte((0x20|(s&0x1f))+63))
		s >>= 5
	}
	buf = append(buf, byte(s+63))
	return buf
}
