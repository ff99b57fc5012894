// Package routing fetches road-following driving routes between two
// coordinates from an OSRM-compatible service.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"petapintar/pkg/geo"
)

// DefaultBaseURL is the public OSRM demo server.
const DefaultBaseURL = "https://router.project-osrm.org"

// Route is a drivable path between two points. Path vertices are ordered
// start to end in (lat,lng) order; DistanceKm is the road distance rounded to
// two decimals.
type Route struct {
	Path       []geo.Point
	DistanceKm float64
}

// Client talks to an OSRM routing endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewClient returns a client against the given base URL, or the public OSRM
// server when empty.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userAgent:  "petapintar/1.0",
	}
}

// osrmResponse is shaped for the OSRM /route API. Geometry coordinates come
// back as [lng,lat] pairs and distances in metres.
type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// Route requests the driving route from start to end. It returns an error for
// every failure class: network error, non-Ok status code, empty route list or
// malformed geometry. Callers composing the map feature fall back to a
// straight [start,end] segment with the Haversine distance when this errors.
func (c *Client) Route(ctx context.Context, start, end geo.Point) (*Route, error) {
	params := url.Values{}
	params.Set("overview", "full")
	params.Set("geometries", "geojson")

	reqURL := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?%s",
		c.baseURL, start.Lng, start.Lat, end.Lng, end.Lat, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("routing service returned %s", resp.Status)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode routing response: %w", err)
	}
	if body.Code != "Ok" || len(body.Routes) == 0 {
		return nil, fmt.Errorf("no route available (code %q, %d routes)", body.Code, len(body.Routes))
	}

	raw := body.Routes[0]
	path := make([]geo.Point, 0, len(raw.Geometry.Coordinates))
	for _, pair := range raw.Geometry.Coordinates {
		if len(pair) < 2 {
			return nil, fmt.Errorf("malformed coordinate pair in route geometry")
		}
		// OSRM emits (lng,lat); the map renders (lat,lng).
		path = append(path, geo.Point{Lat: pair[1], Lng: pair[0]})
	}

	return &Route{
		Path:       path,
		DistanceKm: geo.RoundKm(raw.Distance / 1000),
	}, nil
}

// Fallback builds the synthetic two-point route used when road routing is
// unavailable: a straight segment with the great-circle distance.
func Fallback(start, end geo.Point) *Route {
	return &Route{
		Path:       []geo.Point{start, end},
		DistanceKm: geo.RoundKm(geo.Distance(start, end)),
	}
}
