package geo

import "sort"

// Ranked pairs a candidate with its distance from the ranking origin.
type Ranked[T any] struct {
	Item       T
	DistanceKm float64
}

// Rank computes the distance from origin to every candidate, sorts ascending
// and returns the first k entries. The sort is stable, so candidates at equal
// distance keep their input order. k larger than the candidate count returns
// everything; an empty candidate slice returns an empty result. Excluding the
// origin itself from candidates is the caller's job.
func Rank[T any](origin Point, candidates []T, at func(T) Point, k int) []Ranked[T] {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}

	ranked := make([]Ranked[T], 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, Ranked[T]{Item: c, DistanceKm: Distance(origin, at(c))})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})

	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}
