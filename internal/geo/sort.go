package geo

import (
	"cmp"
	"slices"

	"placepicker.dev/internal/models"
)

// RankedPlace is a place annotated with its distance from a reference position.
type RankedPlace struct {
	Place          models.Place
	DistanceMeters float64
}

// RankByDistance computes the distance from ref to every place and returns the
// places ordered by non-decreasing distance. Places at equal distance keep
// their input order. The input slice is not modified.
func RankByDistance(places []models.Place, ref models.GeoPosition) []RankedPlace {
	ranked := make([]RankedPlace, len(places))
	for i, p := range places {
		ranked[i] = RankedPlace{
			Place:          p,
			DistanceMeters: HaversineDistance(ref.Latitude, ref.Longitude, p.Lat, p.Lng),
		}
	}

	slices.SortStableFunc(ranked, func(a, b RankedPlace) int {
		return cmp.Compare(a.DistanceMeters, b.DistanceMeters)
	})
	return ranked
}

// SortPlacesByDistance returns a new slice holding the same places ordered by
// distance from ref, nearest first. See RankByDistance.
func SortPlacesByDistance(places []models.Place, ref models.GeoPosition) []models.Place {
	ranked := RankByDistance(places, ref)
	sorted := make([]models.Place, len(ranked))
	for i, r := range ranked {
		sorted[i] = r.Place
	}
	return sorted
}
