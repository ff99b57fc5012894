package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"petapintar/pkg/geo"
)

func TestRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"code": "Ok",
			"routes": [{
				"distance": 1234.5,
				"geometry": {"coordinates": [[98.6722, 3.5952], [98.68, 3.6]]}
			}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	route, err := c.Route(context.Background(), geo.Point{Lat: 3.5952, Lng: 98.6722}, geo.Point{Lat: 3.6, Lng: 98.68})
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}
	if len(route.Path) != 2 {
		t.Fatalf("got %d path points; want 2", len(route.Path))
	}
	// The service emits (lng,lat) pairs; the path must come back as (lat,lng).
	if route.Path[0] != (geo.Point{Lat: 3.5952, Lng: 98.6722}) {
		t.Errorf("Path[0] = %v; want {3.5952 98.6722}", route.Path[0])
	}
	if route.DistanceKm != 1.23 {
		t.Errorf("DistanceKm = %v; want 1.23", route.DistanceKm)
	}
}

func TestRouteFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"service error status", http.StatusInternalServerError, ""},
		{"non-ok code", http.StatusOK, `{"code": "NoRoute", "routes": []}`},
		{"ok code but no routes", http.StatusOK, `{"code": "Ok", "routes": []}`},
		{"malformed body", http.StatusOK, `{"code": "Ok", "routes": [`},
		{"malformed coordinate pair", http.StatusOK, `{"code": "Ok", "routes": [{"distance": 1, "geometry": {"coordinates": [[98.6722]]}}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL)
			if _, err := c.Route(context.Background(), geo.Point{}, geo.Point{Lat: 1}); err == nil {
				t.Fatal("expected an error, got nil")
			}
		})
	}
}

func TestRouteServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.Route(context.Background(), geo.Point{}, geo.Point{Lat: 1}); err == nil {
		t.Fatal("expected an error, got nil")
	}
}

func TestFallback(t *testing.T) {
	start := geo.Point{Lat: 0, Lng: 0}
	end := geo.Point{Lat: 0, Lng: 1}

	route := Fallback(start, end)
	if len(route.Path) != 2 || route.Path[0] != start || route.Path[1] != end {
		t.Fatalf("Path = %v; want straight [%v %v]", route.Path, start, end)
	}
	if want := geo.RoundKm(geo.Distance(start, end)); route.DistanceKm != want {
		t.Errorf("DistanceKm = %v; want %v", route.DistanceKm, want)
	}
}

func TestNewClientDefaultsBaseURL(t *testing.T) {
	c := NewClient("")
	if c.baseURL != DefaultBaseURL {
		t.Fatalf("baseURL = %q; want %q", c.baseURL, DefaultBaseURL)
	}
}
