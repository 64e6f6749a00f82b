package geo

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// earthRadiusInMeters is the Earth's volumetric mean radius.
const earthRadiusInMeters = 6371000

// IsValidLatLon returns true if the given latitude and longitude values
// fall within the valid geographic coordinate bounds.
//
// Latitude must be between -90 and 90 degrees, and longitude must be
// between -180 and 180 degrees. NaN is never valid.
func IsValidLatLon(lat, lon float64) bool {
	if lat != lat || lon != lon {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// HaversineDistance returns the great-circle distance in meters between two
// points given in degrees. It is symmetric in its arguments.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return angleToMeters(p1.Distance(p2))
}

func angleToMeters(a s1.Angle) float64 {
	return a.Radians() * earthRadiusInMeters
}
