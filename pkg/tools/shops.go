package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/inkmap/pkg/geo"
	"github.com/NERVsystems/inkmap/pkg/search"
)

// FindTattooShopsTool returns a tool definition for the nearby shop search
func FindTattooShopsTool() mcp.Tool {
	return mcp.NewTool("find_tattoo_shops",
		mcp.WithDescription("Find tattoo shops near a location, sorted by distance"),
		mcp.WithNumber("latitude",
			mcp.Required(),
			mcp.Description("The latitude coordinate of the search origin"),
		),
		mcp.WithNumber("longitude",
			mcp.Required(),
			mcp.Description("The longitude coordinate of the search origin"),
		),
		mcp.WithString("query",
			mcp.Description("Optional free-text query (e.g. an artist or studio name)"),
			mcp.DefaultString(""),
		),
	)
}

// shopsOutput is the result payload of find_tattoo_shops. Bounds is the
// box enclosing all results, a viewport hint for map fitting. Hues maps
// each shop id to a stable gradient hue pair for its map marker.
type shopsOutput struct {
	Shops  []search.Shop     `json:"shops"`
	Bounds *geo.BoundingBox  `json:"bounds,omitempty"`
	Hues   map[string][2]int `json:"hues,omitempty"`
}

// HandleFindTattooShops runs the two-phase category search through the
// session store and reports the resulting state.
func (r *Registry) HandleFindTattooShops(ctx context.Context, rawInput mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "find_tattoo_shops")

	latitude := mcp.ParseFloat64(rawInput, "latitude", 0)
	longitude := mcp.ParseFloat64(rawInput, "longitude", 0)
	query := mcp.ParseString(rawInput, "query", "")

	origin := geo.Coordinate{Longitude: longitude, Latitude: latitude}
	if err := origin.Validate(); err != nil {
		return ErrorResponse(err.Error()), nil
	}

	r.store.FetchShops(ctx, latitude, longitude, query)
	snap := r.store.Snapshot()

	output := shopsOutput{Shops: snap.Shops}
	if len(snap.Shops) > 0 {
		bounds := geo.NewBoundingBox()
		hues := make(map[string][2]int, len(snap.Shops))
		for _, shop := range snap.Shops {
			bounds.Extend(shop.Coordinates)
			h1, h2 := geo.NameHues(shop.Name)
			hues[shop.ID] = [2]int{h1, h2}
		}
		output.Bounds = bounds
		output.Hues = hues
	}

	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResponse("Failed to generate result"), nil
	}

	return mcp.NewToolResultText(string(resultBytes)), nil
}

// SelectShopTool returns a tool definition for toggling the selection
func SelectShopTool() mcp.Tool {
	return mcp.NewTool("select_shop",
		mcp.WithDescription("Select or deselect a shop from the current results"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The id of a shop from the latest find_tattoo_shops results"),
		),
	)
}

// HandleSelectShop toggles the selection by shop id.
func (r *Registry) HandleSelectShop(ctx context.Context, rawInput mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(rawInput, "id", "")
	if id == "" {
		return ErrorResponse("Shop id must not be empty"), nil
	}

	if !r.store.SelectShopByID(id) {
		return ErrorResponse("No shop with that id in the current results"), nil
	}

	snap := r.store.Snapshot()
	output := struct {
		Selected *search.Shop `json:"selected"`
	}{Selected: snap.Selected}

	resultBytes, err := json.Marshal(output)
	if err != nil {
		r.logger.Error("failed to marshal result", "tool", "select_shop", "error", err)
		return ErrorResponse("Failed to generate result"), nil
	}
	return mcp.NewToolResultText(string(resultBytes)), nil
}

// ClearRouteTool returns a tool definition for clearing route state
func ClearRouteTool() mcp.Tool {
	return mcp.NewTool("clear_route",
		mcp.WithDescription("Clear the current route and selection"),
	)
}

// HandleClearRoute resets route, destination and selection together.
func (r *Registry) HandleClearRoute(ctx context.Context, rawInput mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r.store.ClearRoute()
	return mcp.NewToolResultText(`{"cleared":true}`), nil
}
