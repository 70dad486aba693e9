// Package tools provides the MCP tool implementations for the tattoo shop
// finder.
package tools

import (
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/inkmap/pkg/directions"
	"github.com/NERVsystems/inkmap/pkg/mapbox"
)

// ErrorResponse returns a tool result carrying an error message. Tool
// failures are results, not protocol errors: the caller always gets a
// well-formed response it can show the user.
func ErrorResponse(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(message)
}

// errorResult maps an internal error to a user-facing tool result,
// keeping the configuration / provider / routing distinction visible
// without leaking request internals.
func errorResult(err error) *mcp.CallToolResult {
	var apiErr *mapbox.APIError
	var routeErr *directions.RouteError

	switch {
	case errors.Is(err, mapbox.ErrNoAccessToken):
		return ErrorResponse("Mapbox access token not configured. Set INKMAP_MAPBOX_ACCESS_TOKEN and restart.")
	case errors.As(err, &routeErr):
		msg := routeErr.Message
		if msg == "" {
			msg = routeErr.Code
		}
		return ErrorResponse(fmt.Sprintf("Routing failed: %s", msg))
	case errors.As(err, &apiErr):
		return ErrorResponse(fmt.Sprintf("The %s service is currently unavailable. Please try again shortly.", apiErr.Service))
	default:
		return ErrorResponse(fmt.Sprintf("Request failed: %v", err))
	}
}
