// Package search implements the two-phase category search that turns raw
// Mapbox suggest/retrieve responses into the app's canonical shop results:
// keyword relevance filtering, id deduplication, concurrent detail
// resolution, distance computation and sorting.
package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/NERVsystems/inkmap/pkg/geo"
	"github.com/NERVsystems/inkmap/pkg/mapbox"
)

const (
	// DefaultQuery is the search term used when the user supplies none.
	DefaultQuery = "tattoo shop"

	// POICategory is the Mapbox category filter for the primary search.
	POICategory = "tattoo_parlour"

	// SentinelCategory labels results whose detail record carries no
	// category tags.
	SentinelCategory = "Tattoo Studio"

	// maxResolve caps how many filtered candidates are resolved to full
	// details, bounding the retrieve fan-out.
	maxResolve = 10

	// resolveConcurrency limits simultaneous retrieve calls.
	resolveConcurrency = 5
)

// relevanceKeywords is the fixed list of substrings used to accept or
// reject candidates as tattoo-related. The provider over-matches on free
// text, so both the suggestion and the resolved detail record must match
// at least one keyword.
var relevanceKeywords = []string{
	"tattoo",
	"tattoo studio",
	"tattoo shop",
	"tattoo parlor",
	"tattoo parlour",
	"body art",
	"piercing",
	"ink",
	"tattoo artist",
	"tattooist",
}

// Shop is the canonical, normalized search result.
type Shop struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Address        string         `json:"address"`
	PlaceFormatted string         `json:"place_formatted"`
	Coordinates    geo.Coordinate `json:"coordinates"`
	Phone          string         `json:"phone,omitempty"`
	Categories     []string       `json:"categories"`
	DistanceMiles  *float64       `json:"distance,omitempty"`
}

// Provider is the slice of the Mapbox client the aggregator needs.
type Provider interface {
	Suggest(ctx context.Context, q string, proximity *geo.Coordinate, poiCategory, sessionToken string) ([]mapbox.Suggestion, error)
	Retrieve(ctx context.Context, id, sessionToken string) (*mapbox.Feature, error)
	ForwardGeocode(ctx context.Context, q string, proximity *geo.Coordinate, limit int) ([]mapbox.GeocodeFeature, error)
}

// Aggregator orchestrates the suggest→retrieve search.
type Aggregator struct {
	provider Provider
	logger   *slog.Logger
}

// NewAggregator creates a search aggregator over the given provider.
func NewAggregator(provider Provider, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		provider: provider,
		logger:   logger.With("component", "search"),
	}
}

// ComposeQuery builds the effective search term. An empty query becomes the
// default; a query that already mentions a relevance keyword is used
// verbatim; anything else gets the domain keyword appended so free-text
// input stays scoped to tattoo results without duplicating the keyword.
func ComposeQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return DefaultQuery
	}
	if matchesKeyword(query) {
		return query
	}
	return query + " tattoo"
}

// matchesKeyword reports whether text contains any relevance keyword,
// case-insensitively.
func matchesKeyword(text string) bool {
	text = strings.ToLower(text)
	for _, kw := range relevanceKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// relevantSuggestion applies the phase-1 precision filter to a candidate's
// name and formatted address.
func relevantSuggestion(s mapbox.Suggestion) bool {
	address := s.PlaceFormatted
	if address == "" {
		address = s.Address
	}
	return matchesKeyword(s.Name + " " + address)
}

// relevantFeature re-validates a resolved detail record against its name
// and category tags. The detail record can reveal categories the
// suggestion lacked, in either direction.
func relevantFeature(f *mapbox.Feature) bool {
	return matchesKeyword(f.Properties.Name + " " + strings.Join(f.Properties.POICategory, " "))
}

// Search finds tattoo shops near origin matching an optional free-text
// query. Results are deduplicated by id and sorted by ascending distance
// from origin. Zero candidates, zero relevant matches and total provider
// failure all converge to an empty slice with a nil error; the caller
// distinguishes "no results" from "search failed" through its own state.
func (a *Aggregator) Search(ctx context.Context, origin geo.Coordinate, query string) ([]Shop, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}

	term := ComposeQuery(query)
	token := mapbox.NewSessionToken()
	logger := a.logger.With("term", term)

	// Phase 1: category-scoped suggest, broadened on empty.
	suggestions, err := a.provider.Suggest(ctx, term, &origin, POICategory, token)
	if err != nil {
		logger.Warn("suggest failed", "error", err)
		return []Shop{}, nil
	}
	if len(suggestions) == 0 {
		suggestions, err = a.provider.Suggest(ctx, term, &origin, "", token)
		if err != nil {
			logger.Warn("fallback suggest failed", "error", err)
			return []Shop{}, nil
		}
	}

	// Precision filter, then dedupe by id (first seen wins) and cap the
	// fan-out.
	candidates := make([]mapbox.Suggestion, 0, maxResolve)
	seen := make(map[string]bool)
	for _, s := range suggestions {
		if !relevantSuggestion(s) || seen[s.MapboxID] {
			continue
		}
		seen[s.MapboxID] = true
		candidates = append(candidates, s)
		if len(candidates) == maxResolve {
			break
		}
	}
	if len(candidates) == 0 {
		return []Shop{}, nil
	}

	// Phase 2: resolve details concurrently. One candidate's failure never
	// aborts the others; it simply yields no result for that slot. The
	// indexed slice preserves suggestion order for stable tie-breaks.
	resolved := make([]*Shop, len(candidates))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)
	for i, candidate := range candidates {
		g.Go(func() error {
			feature, err := a.provider.Retrieve(gctx, candidate.MapboxID, token)
			if err != nil {
				logger.Warn("retrieve failed", "id", candidate.MapboxID, "error", err)
				return nil
			}
			if feature == nil || !relevantFeature(feature) {
				return nil
			}

			shop := shopFromFeature(feature, candidate)
			miles := geo.RoundMiles(geo.HaversineMiles(origin, shop.Coordinates))
			shop.DistanceMiles = &miles

			mu.Lock()
			resolved[i] = shop
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors; Wait only observes context cancellation.
	if err := g.Wait(); err != nil {
		logger.Warn("resolution interrupted", "error", err)
	}

	shops := make([]Shop, 0, len(resolved))
	for _, s := range resolved {
		if s != nil {
			shops = append(shops, *s)
		}
	}

	sort.SliceStable(shops, func(i, j int) bool {
		return *shops[i].DistanceMiles < *shops[j].DistanceMiles
	})

	logger.Info("search complete",
		"suggestions", len(suggestions),
		"candidates", len(candidates),
		"results", len(shops))
	return shops, nil
}

// shopFromFeature normalizes a resolved feature into a Shop, falling back
// to suggestion fields where the detail record is sparse.
func shopFromFeature(f *mapbox.Feature, s mapbox.Suggestion) *Shop {
	id := f.Properties.MapboxID
	if id == "" {
		id = s.MapboxID
	}
	name := f.Properties.Name
	if name == "" {
		name = s.Name
	}
	categories := f.Properties.POICategory
	if len(categories) == 0 {
		categories = []string{SentinelCategory}
	}

	return &Shop{
		ID:             id,
		Name:           name,
		Address:        f.Properties.Address,
		PlaceFormatted: f.Properties.PlaceFormatted,
		Coordinates:    f.Geometry.Coordinates,
		Phone:          f.Properties.Tel,
		Categories:     categories,
	}
}

// QuickSearch performs a one-shot POI text search through the Geocoding
// API, without the suggest/retrieve split. Used for simple text lookups
// where session accounting and distance sorting are not needed.
func (a *Aggregator) QuickSearch(ctx context.Context, proximity *geo.Coordinate, query string, limit int) ([]Shop, error) {
	term := ComposeQuery(query)

	features, err := a.provider.ForwardGeocode(ctx, term, proximity, limit)
	if err != nil {
		a.logger.Warn("geocode search failed", "term", term, "error", err)
		return []Shop{}, nil
	}

	shops := make([]Shop, 0, len(features))
	for _, f := range features {
		var categories []string
		for _, c := range strings.Split(f.Properties.Category, ",") {
			if c = strings.TrimSpace(c); c != "" {
				categories = append(categories, c)
			}
		}
		if len(categories) == 0 {
			categories = []string{SentinelCategory}
		}

		shops = append(shops, Shop{
			ID:             f.ID,
			Name:           f.Text,
			Address:        f.PlaceName,
			PlaceFormatted: f.PlaceFormatted(),
			Coordinates:    f.Geometry.Coordinates,
			Categories:     categories,
		})
	}
	return shops, nil
}
