package geo

import "math"

const earthRadiusM = 6371000

// DistanceMeters returns the haversine great-circle distance between two
// WGS84 coordinates, in meters.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

// SpeedKmh returns the travel speed implied by covering distanceM meters in
// the given number of seconds. Zero or negative time yields +Inf so callers
// treat simultaneous distant sightings as impossible travel.
func SpeedKmh(distanceM float64, seconds float64) float64 {
	if seconds <= 0 {
		return math.Inf(1)
	}
	return (distanceM / 1000) / (seconds / 3600)
}
