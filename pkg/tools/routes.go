package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/inkmap/pkg/geo"
)

// GetRouteDirectionsTool returns a tool definition for route calculation
func GetRouteDirectionsTool() mcp.Tool {
	return mcp.NewTool("get_route_directions",
		mcp.WithDescription("Get a driving route from the search origin to the selected shop"),
	)
}

// HandleGetRouteDirections fetches the route for the current selection.
// The operation is guarded by the store: it needs both a search origin and
// a selected shop.
func (r *Registry) HandleGetRouteDirections(ctx context.Context, rawInput mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "get_route_directions")

	snap := r.store.Snapshot()
	if snap.Origin == nil {
		return ErrorResponse("No search origin yet; run find_tattoo_shops first"), nil
	}
	if snap.Selected == nil {
		return ErrorResponse("No shop selected; run select_shop first"), nil
	}

	r.store.FetchRoute(ctx)
	snap = r.store.Snapshot()
	if snap.Route == nil {
		// Failure details are logged by the store; selection is retained.
		return ErrorResponse("Could not find a driving route to the selected shop"), nil
	}

	output := struct {
		Route       any             `json:"route"`
		Origin      *geo.Coordinate `json:"origin"`
		Destination *geo.Coordinate `json:"destination"`
	}{
		Route:       snap.Route,
		Origin:      snap.Origin,
		Destination: snap.Destination,
	}

	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResponse("Failed to generate result"), nil
	}
	return mcp.NewToolResultText(string(resultBytes)), nil
}
