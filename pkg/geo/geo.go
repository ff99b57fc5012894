// Package geo provides great-circle distance math and nearby ranking for
// map coordinates in decimal degrees.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by the Haversine formula.
const EarthRadiusKm = 6371.0

// Point is a coordinate pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Distance returns the Haversine great-circle distance between two points in
// kilometres. It is symmetric, zero for identical points and never fails for
// finite inputs.
func Distance(a, b Point) float64 {
	dLat := rad(b.Lat - a.Lat)
	dLng := rad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// RoundKm rounds a distance to two decimal places, the precision shown on
// route labels.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

func rad(deg float64) float64 {
	return deg * math.Pi / 180
}
