package utils

import "math"

const earthRadiusKm = 6371.0

// HaversineDistanceKm returns the great-circle distance between two coordinates in kilometres.
func HaversineDistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// KmToRoundedMeters converts km to whole metres, rounding half away from zero.
func KmToRoundedMeters(km float64) int {
	return int(math.Round(km * 1000))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
