package models

import (
	"errors"
	"math"
)

const earthRadiusMeters = 6371000

// ValidateCoordinates rejects positions outside the WGS84 ranges.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return errors.New("latitude must be between -90 and 90")
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// DistanceMeters is the haversine distance between two positions.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// BearingDegrees is the initial compass bearing from the first position to the second.
func BearingDegrees(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad, lat2Rad := toRadians(lat1), toRadians(lat2)
	deltaLon := toRadians(lon2 - lon1)

	y := math.Sin(deltaLon) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) -
		math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(deltaLon)

	return math.Mod(toDegrees(math.Atan2(y, x))+360, 360)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
