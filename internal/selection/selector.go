// Package selection implements the pin-selection workflow: choosing a marker
// ranks the nearest other locations and resolves a road route to the closest
// one, with a straight-line fallback.
package selection

import (
	"context"
	"log/slog"
	"sync"

	"petapintar/internal/models"
	"petapintar/pkg/geo"
	"petapintar/pkg/routing"
)

// NearbyCount is how many neighbours a selection shows.
const NearbyCount = 3

// Resolver is the road-routing dependency; satisfied by *routing.Client.
type Resolver interface {
	Route(ctx context.Context, start, end geo.Point) (*routing.Route, error)
}

// State is the observable selection state. Zero value means Idle.
type State struct {
	Active *models.Location
	Nearby []geo.Ranked[models.Location]
	// Route is nil while resolution is pending or when there is no
	// neighbour to route to.
	Route *routing.Route
}

// Selector owns the selection state machine. Route resolution happens in a
// background goroutine; a generation counter makes sure a route that arrives
// after a newer selection (or a clear) is discarded instead of overwriting
// the current state.
type Selector struct {
	resolver Resolver
	log      *slog.Logger

	mu    sync.Mutex
	gen   uint64
	state State
}

// New returns an idle selector.
func New(resolver Resolver, log *slog.Logger) *Selector {
	return &Selector{resolver: resolver, log: log}
}

// Point returns the coordinate of a location.
func Point(l models.Location) geo.Point {
	return geo.Point{Lat: l.Lat, Lng: l.Lng}
}

// Select activates a location: candidates are ranked by distance (the active
// location excluded by identity) and a route to the nearest one is resolved
// asynchronously. The returned channel closes once the route has settled, or
// immediately when there is nothing to route to.
func (s *Selector) Select(ctx context.Context, loc models.Location, candidates []models.Location) <-chan struct{} {
	others := make([]models.Location, 0, len(candidates))
	for _, c := range candidates {
		if c.ID != loc.ID {
			others = append(others, c)
		}
	}
	nearby := geo.Rank(Point(loc), others, Point, NearbyCount)

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.state = State{Active: &loc, Nearby: nearby}
	s.mu.Unlock()

	done := make(chan struct{})
	if len(nearby) == 0 {
		close(done)
		return done
	}

	start, end := Point(loc), Point(nearby[0].Item)
	go func() {
		defer close(done)

		route, err := s.resolver.Route(ctx, start, end)
		if err != nil {
			s.log.Debug("road routing unavailable, using straight-line fallback", "error", err)
			route = routing.Fallback(start, end)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen {
			// A newer selection or a clear superseded this resolution.
			return
		}
		s.state.Route = route
	}()
	return done
}

// Clear returns to Idle and invalidates any in-flight route resolution.
func (s *Selector) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.state = State{}
}

// Snapshot returns a copy of the current state.
func (s *Selector) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
