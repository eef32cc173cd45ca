// Package geo provides great-circle distance calculations for geofence
// checks on submitted parking spots.
package geo

import "math"

// EarthRadius is the mean Earth radius in meters.
const EarthRadius = 6371000.0

// Distance returns the haversine surface distance in meters between two
// (latitude, longitude) pairs given in degrees. The inner square-root
// argument is clamped to [0, 1] so antipodal and identical points never
// produce a NaN from floating-point drift.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dPhi := radians(lat2 - lat1)
	dLambda := radians(lng2 - lng1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)

	a = math.Min(math.Max(a, 0), 1)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadius * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
