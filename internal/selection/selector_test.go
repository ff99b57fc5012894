package selection

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"petapintar/internal/models"
	"petapintar/pkg/geo"
	"petapintar/pkg/routing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeResolver answers with a canned route, an error, or blocks until
// released.
type fakeResolver struct {
	route   *routing.Route
	err     error
	release chan struct{}
}

func (f *fakeResolver) Route(ctx context.Context, start, end geo.Point) (*routing.Route, error) {
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.route != nil {
		return f.route, nil
	}
	return &routing.Route{Path: []geo.Point{start, end}, DistanceKm: 1}, nil
}

func fixtures() (models.Location, []models.Location) {
	active := models.Location{ID: "a", Name: "A", Lat: 0, Lng: 0}
	candidates := []models.Location{
		active, // the active pin must be excluded by identity
		{ID: "b", Name: "B", Lat: 0, Lng: 1},
		{ID: "c", Name: "C", Lat: 0, Lng: 5},
		{ID: "d", Name: "D", Lat: 1, Lng: 0},
		{ID: "e", Name: "E", Lat: 5, Lng: 5},
	}
	return active, candidates
}

func TestSelectRanksNearest(t *testing.T) {
	s := New(&fakeResolver{}, testLogger())
	active, candidates := fixtures()

	<-s.Select(context.Background(), active, candidates)

	state := s.Snapshot()
	if state.Active == nil || state.Active.ID != "a" {
		t.Fatalf("Active = %v; want pin a", state.Active)
	}
	if len(state.Nearby) != NearbyCount {
		t.Fatalf("got %d neighbours; want %d", len(state.Nearby), NearbyCount)
	}
	wantOrder := []string{"b", "d", "c"}
	for i, want := range wantOrder {
		if state.Nearby[i].Item.ID != want {
			t.Fatalf("neighbour %d = %s; want %s", i, state.Nearby[i].Item.ID, want)
		}
	}
	if state.Route == nil {
		t.Fatal("route must be resolved after the done channel closes")
	}
}

func TestSelectFallbackOnResolverError(t *testing.T) {
	s := New(&fakeResolver{err: errors.New("routing down")}, testLogger())
	active, candidates := fixtures()

	<-s.Select(context.Background(), active, candidates)

	state := s.Snapshot()
	if state.Route == nil {
		t.Fatal("expected a fallback route")
	}
	if len(state.Route.Path) != 2 {
		t.Fatalf("fallback path has %d points; want the straight segment", len(state.Route.Path))
	}
	start, end := Point(active), Point(state.Nearby[0].Item)
	if state.Route.Path[0] != start || state.Route.Path[1] != end {
		t.Fatalf("fallback path = %v; want [%v %v]", state.Route.Path, start, end)
	}
	if want := geo.RoundKm(geo.Distance(start, end)); state.Route.DistanceKm != want {
		t.Errorf("DistanceKm = %v; want %v", state.Route.DistanceKm, want)
	}
}

func TestSelectNoCandidates(t *testing.T) {
	s := New(&fakeResolver{}, testLogger())
	active, _ := fixtures()

	<-s.Select(context.Background(), active, []models.Location{active})

	state := s.Snapshot()
	if len(state.Nearby) != 0 {
		t.Fatalf("got %d neighbours; want 0", len(state.Nearby))
	}
	if state.Route != nil {
		t.Fatal("no neighbour means no route")
	}
}

// staleResolver blocks resolutions that start at the given point until
// released and answers every other call immediately, so a test can order an
// old resolution after a new one.
type staleResolver struct {
	slowStart geo.Point
	release   chan struct{}
}

func (r *staleResolver) Route(ctx context.Context, start, end geo.Point) (*routing.Route, error) {
	if start == r.slowStart {
		<-r.release
		return &routing.Route{Path: []geo.Point{{Lat: 9, Lng: 9}}, DistanceKm: 99}, nil
	}
	return &routing.Route{Path: []geo.Point{start, end}, DistanceKm: 1}, nil
}

func TestSelectStaleRouteDiscarded(t *testing.T) {
	active, candidates := fixtures()
	resolver := &staleResolver{slowStart: Point(active), release: make(chan struct{})}
	s := New(resolver, testLogger())

	first := s.Select(context.Background(), active, candidates)

	// A newer selection supersedes the in-flight resolution.
	second := s.Select(context.Background(), candidates[1], candidates)
	<-second

	close(resolver.release)
	<-first

	state := s.Snapshot()
	if state.Route == nil || state.Route.DistanceKm != 1 {
		t.Fatalf("Route = %+v; the stale resolution must not overwrite the newer one", state.Route)
	}
}

func TestClearInvalidatesPendingRoute(t *testing.T) {
	slow := &fakeResolver{release: make(chan struct{})}
	s := New(slow, testLogger())
	active, candidates := fixtures()

	done := s.Select(context.Background(), active, candidates)
	s.Clear()
	close(slow.release)
	<-done

	state := s.Snapshot()
	if state.Active != nil || state.Route != nil || len(state.Nearby) != 0 {
		t.Fatalf("state = %+v; want idle after Clear", state)
	}
}
