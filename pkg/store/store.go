// Package store holds the session-scoped application state: current
// results, selection, origin and route. All mutation goes through the
// Store's own operations, which serialize writers and notify observers;
// nothing else touches the state.
package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/NERVsystems/inkmap/pkg/directions"
	"github.com/NERVsystems/inkmap/pkg/geo"
	"github.com/NERVsystems/inkmap/pkg/search"
)

// Searcher runs the category search. Implemented by *search.Aggregator.
type Searcher interface {
	Search(ctx context.Context, origin geo.Coordinate, query string) ([]search.Shop, error)
}

// Router fetches routes. Implemented by *directions.Fetcher.
type Router interface {
	Route(ctx context.Context, origin, destination geo.Coordinate) (*directions.Route, error)
}

// Snapshot is an immutable copy of the session state handed to observers
// and readers.
type Snapshot struct {
	Shops        []search.Shop
	Selected     *search.Shop
	Origin       *geo.Coordinate
	Destination  *geo.Coordinate
	Route        *directions.Route
	Loading      bool
	LoadingRoute bool

	// Initialized turns true once the first search attempt has completed,
	// success or failure. It gates "no results" messaging so that state is
	// never shown before any search has run.
	Initialized bool
}

// Store is the session state coordinator.
type Store struct {
	mu sync.Mutex

	searcher Searcher
	router   Router
	logger   *slog.Logger

	shops        []search.Shop
	selected     *search.Shop
	origin       *geo.Coordinate
	destination  *geo.Coordinate
	route        *directions.Route
	loading      bool
	loadingRoute bool
	initialized  bool

	// generation tracks search request identity: a response is applied
	// only while its generation is still the latest issued, so an
	// in-flight search superseded by a newer one never overwrites newer
	// state.
	generation uint64

	observers map[int]func(Snapshot)
	nextSubID int
}

// New creates a Store with empty state.
func New(searcher Searcher, router Router, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		searcher:  searcher,
		router:    router,
		logger:    logger.With("component", "store"),
		observers: make(map[int]func(Snapshot)),
	}
}

// snapshotLocked builds a Snapshot. Caller holds the lock.
func (s *Store) snapshotLocked() Snapshot {
	shops := make([]search.Shop, len(s.shops))
	copy(shops, s.shops)
	return Snapshot{
		Shops:        shops,
		Selected:     s.selected,
		Origin:       s.origin,
		Destination:  s.destination,
		Route:        s.route,
		Loading:      s.loading,
		LoadingRoute: s.loadingRoute,
		Initialized:  s.initialized,
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// notify delivers snap to all observers, outside the lock.
func (s *Store) notify(snap Snapshot) {
	s.mu.Lock()
	fns := make([]func(Snapshot), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Subscribe registers an observer and returns its unsubscribe function.
// Observers are called after every state change with a fresh snapshot.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// SetOrigin sets the current origin.
func (s *Store) SetOrigin(c *geo.Coordinate) {
	s.mu.Lock()
	s.origin = c
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// SetDestination sets the current destination.
func (s *Store) SetDestination(c *geo.Coordinate) {
	s.mu.Lock()
	s.destination = c
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// FetchShops runs a search around (lat, lng) and applies the results.
// Failures degrade to an empty result list; the store never propagates a
// search error to its callers. A response that has been superseded by a
// newer FetchShops call is dropped.
func (s *Store) FetchShops(ctx context.Context, lat, lng float64, query string) {
	origin := geo.Coordinate{Longitude: lng, Latitude: lat}
	if err := origin.Validate(); err != nil {
		s.logger.Warn("rejecting search", "error", err)
		return
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.loading = true
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	shops, err := s.searcher.Search(ctx, origin, query)
	if err != nil {
		s.logger.Error("search failed", "error", err)
		shops = []search.Shop{}
	}

	s.mu.Lock()
	stale := gen != s.generation
	if !stale {
		s.shops = shops
		s.origin = &origin
		s.loading = false
	}
	s.initialized = true
	snap = s.snapshotLocked()
	s.mu.Unlock()

	if stale {
		s.logger.Debug("dropping superseded search response", "generation", gen)
		return
	}
	s.notify(snap)
}

// SelectShop toggles the selection. Selecting the currently selected shop
// clears the selection; selecting a shop not present in the current
// results is ignored. A nil shop clears the selection.
func (s *Store) SelectShop(shop *search.Shop) {
	s.mu.Lock()
	switch {
	case shop == nil:
		s.selected = nil
	case s.selected != nil && s.selected.ID == shop.ID:
		s.selected = nil
	default:
		if found := s.findShopLocked(shop.ID); found != nil {
			s.selected = found
		}
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// SelectShopByID toggles the selection by result id. Returns false when no
// shop with that id is in the current results.
func (s *Store) SelectShopByID(id string) bool {
	s.mu.Lock()
	found := s.findShopLocked(id)
	if found == nil {
		s.mu.Unlock()
		return false
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	} else {
		s.selected = found
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
	return true
}

// findShopLocked returns the stored shop with the given id, or nil.
// Caller holds the lock.
func (s *Store) findShopLocked(id string) *search.Shop {
	for i := range s.shops {
		if s.shops[i].ID == id {
			return &s.shops[i]
		}
	}
	return nil
}

// FetchRoute fetches a driving route from the current origin to the
// currently selected shop. The call is guarded: without both an origin and
// a selection it does nothing. Routing failure leaves the route nil and
// the selection intact.
func (s *Store) FetchRoute(ctx context.Context) {
	s.mu.Lock()
	if s.origin == nil || s.selected == nil {
		s.mu.Unlock()
		s.logger.Debug("route request ignored: need origin and selection")
		return
	}
	origin := *s.origin
	destination := s.selected.Coordinates
	s.loadingRoute = true
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	route, err := s.router.Route(ctx, origin, destination)

	s.mu.Lock()
	s.loadingRoute = false
	if err != nil {
		s.logger.Warn("route fetch failed", "error", err)
	} else {
		s.route = route
		s.destination = &destination
	}
	snap = s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// ClearRoute resets route, destination and selection together. Route and
// selection are coupled state: clearing one always clears the other.
func (s *Store) ClearRoute() {
	s.mu.Lock()
	s.route = nil
	s.destination = nil
	s.selected = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}
