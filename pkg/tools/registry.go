package tools

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/NERVsystems/inkmap/pkg/directions"
	"github.com/NERVsystems/inkmap/pkg/mapbox"
	"github.com/NERVsystems/inkmap/pkg/search"
	"github.com/NERVsystems/inkmap/pkg/store"
)

// Registry holds the tool registrations and their shared dependencies:
// the session store, the search aggregator, the route fetcher and the raw
// Mapbox client.
type Registry struct {
	logger     *slog.Logger
	store      *store.Store
	aggregator *search.Aggregator
	client     *mapbox.Client
}

// NewRegistry wires the tool registry from a configured Mapbox client.
func NewRegistry(client *mapbox.Client, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	aggregator := search.NewAggregator(client, logger)
	fetcher := directions.NewFetcher(client, logger)

	return &Registry{
		logger:     logger,
		store:      store.New(aggregator, fetcher, logger),
		aggregator: aggregator,
		client:     client,
	}
}

// Store exposes the session store, mainly for tests.
func (r *Registry) Store() *store.Store {
	return r.store
}

// ToolDefinition represents one MCP tool definition.
type ToolDefinition struct {
	Name        string
	Description string
	Tool        mcp.Tool
	Handler     func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// GetToolDefinitions returns all tool definitions.
func (r *Registry) GetToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		// Search tools
		{
			Name:        "find_tattoo_shops",
			Description: "Find tattoo shops near a location, sorted by distance",
			Tool:        FindTattooShopsTool(),
			Handler:     r.HandleFindTattooShops,
		},
		{
			Name:        "search_places",
			Description: "One-shot text search for tattoo-related places",
			Tool:        SearchPlacesTool(),
			Handler:     r.HandleSearchPlaces,
		},
		{
			Name:        "suggest_locations",
			Description: "Autocomplete city, postcode and locality names",
			Tool:        SuggestLocationsTool(),
			Handler:     r.HandleSuggestLocations,
		},

		// Selection and routing tools
		{
			Name:        "select_shop",
			Description: "Select or deselect a shop from the current results",
			Tool:        SelectShopTool(),
			Handler:     r.HandleSelectShop,
		},
		{
			Name:        "get_route_directions",
			Description: "Get a driving route from the search origin to the selected shop",
			Tool:        GetRouteDirectionsTool(),
			Handler:     r.HandleGetRouteDirections,
		},
		{
			Name:        "clear_route",
			Description: "Clear the current route and selection",
			Tool:        ClearRouteTool(),
			Handler:     r.HandleClearRoute,
		},

		// Map overlay tools
		{
			Name:        "get_isochrone",
			Description: "Get drive-time contour polygons around a point",
			Tool:        GetIsochroneTool(),
			Handler:     r.HandleGetIsochrone,
		},
	}
}

// RegisterTools registers all tools with the MCP server.
func (r *Registry) RegisterTools(mcpServer *server.MCPServer) {
	for _, def := range r.GetToolDefinitions() {
		r.logger.Info("registering tool", "name", def.Name)
		mcpServer.AddTool(def.Tool, def.Handler)
	}
}
