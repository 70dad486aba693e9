package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/inkmap/pkg/geo"
	"github.com/NERVsystems/inkmap/pkg/mapbox"
	"github.com/NERVsystems/inkmap/pkg/search"
)

// SearchPlacesTool returns a tool definition for the one-shot text search
func SearchPlacesTool() mcp.Tool {
	return mcp.NewTool("search_places",
		mcp.WithDescription("One-shot text search for tattoo-related places"),
		mcp.WithString("query",
			mcp.Description("Free-text query; the tattoo keyword is added when missing"),
			mcp.DefaultString(""),
		),
		mcp.WithNumber("latitude",
			mcp.Description("Optional proximity latitude"),
		),
		mcp.WithNumber("longitude",
			mcp.Description("Optional proximity longitude"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return"),
			mcp.DefaultNumber(15),
		),
	)
}

// HandleSearchPlaces implements the geocoding-backed search without the
// suggest/retrieve split.
func (r *Registry) HandleSearchPlaces(ctx context.Context, rawInput mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "search_places")

	query := mcp.ParseString(rawInput, "query", "")
	latitude := mcp.ParseFloat64(rawInput, "latitude", 0)
	longitude := mcp.ParseFloat64(rawInput, "longitude", 0)
	limit := int(mcp.ParseFloat64(rawInput, "limit", 15))

	var proximity *geo.Coordinate
	if latitude != 0 || longitude != 0 {
		c := geo.Coordinate{Longitude: longitude, Latitude: latitude}
		if err := c.Validate(); err != nil {
			return ErrorResponse(err.Error()), nil
		}
		proximity = &c
	}

	results, err := r.aggregator.QuickSearch(ctx, proximity, query, limit)
	if err != nil {
		logger.Error("search failed", "error", err)
		return errorResult(err), nil
	}

	output := struct {
		Results []search.Shop `json:"results"`
	}{Results: results}

	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResponse("Failed to generate result"), nil
	}
	return mcp.NewToolResultText(string(resultBytes)), nil
}

// SuggestLocationsTool returns a tool definition for location autocomplete
func SuggestLocationsTool() mcp.Tool {
	return mcp.NewTool("suggest_locations",
		mcp.WithDescription("Autocomplete city, postcode and locality names"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Partial location name"),
		),
	)
}

// locationSuggestion is one autocomplete entry for the location picker.
type locationSuggestion struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	PlaceFormatted string `json:"place_formatted"`
	FeatureType    string `json:"feature_type"`
}

// locationFeatureTypes are the suggestion feature types surfaced by the
// location picker; POI-level hits are excluded.
var locationFeatureTypes = map[string]bool{
	"place":    true,
	"postcode": true,
	"locality": true,
}

// HandleSuggestLocations implements location autocomplete over the
// suggest endpoint.
func (r *Registry) HandleSuggestLocations(ctx context.Context, rawInput mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "suggest_locations")

	query := mcp.ParseString(rawInput, "query", "")
	if query == "" {
		return ErrorResponse("Query must not be empty"), nil
	}

	suggestions, err := r.client.Suggest(ctx, query, nil, "", mapbox.NewSessionToken())
	if err != nil {
		logger.Error("suggest failed", "error", err)
		return errorResult(err), nil
	}

	locations := make([]locationSuggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if !locationFeatureTypes[s.FeatureType] {
			continue
		}
		locations = append(locations, locationSuggestion{
			ID:             s.MapboxID,
			Name:           s.Name,
			PlaceFormatted: s.PlaceFormatted,
			FeatureType:    s.FeatureType,
		})
	}

	output := struct {
		Suggestions []locationSuggestion `json:"suggestions"`
	}{Suggestions: locations}

	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResponse("Failed to generate result"), nil
	}
	return mcp.NewToolResultText(string(resultBytes)), nil
}
