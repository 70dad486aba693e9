package tools

import (
	"context"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/inkmap/pkg/geo"
)

// GetIsochroneTool returns a tool definition for drive-time contours
func GetIsochroneTool() mcp.Tool {
	return mcp.NewTool("get_isochrone",
		mcp.WithDescription("Get drive-time contour polygons around a point"),
		mcp.WithNumber("latitude",
			mcp.Required(),
			mcp.Description("The latitude coordinate of the center point"),
		),
		mcp.WithNumber("longitude",
			mcp.Required(),
			mcp.Description("The longitude coordinate of the center point"),
		),
		mcp.WithString("minutes",
			mcp.Description("Comma-separated contour times in minutes"),
			mcp.DefaultString("5,10,15"),
		),
	)
}

// HandleGetIsochrone returns the drive-time polygons drawn around the
// user's position on the map.
func (r *Registry) HandleGetIsochrone(ctx context.Context, rawInput mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "get_isochrone")

	latitude := mcp.ParseFloat64(rawInput, "latitude", 0)
	longitude := mcp.ParseFloat64(rawInput, "longitude", 0)
	minutesRaw := mcp.ParseString(rawInput, "minutes", "5,10,15")

	center := geo.Coordinate{Longitude: longitude, Latitude: latitude}
	if err := center.Validate(); err != nil {
		return ErrorResponse(err.Error()), nil
	}

	var minutes []int
	for _, part := range strings.Split(minutesRaw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m, err := strconv.Atoi(part)
		if err != nil || m <= 0 || m > 60 {
			return ErrorResponse("Contour times must be whole minutes between 1 and 60"), nil
		}
		minutes = append(minutes, m)
	}

	collection, err := r.client.Isochrone(ctx, center, minutes)
	if err != nil {
		logger.Error("isochrone failed", "error", err)
		return errorResult(err), nil
	}

	return mcp.NewToolResultText(string(collection)), nil
}
