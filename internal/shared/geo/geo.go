package geo

import (
	"math"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
)

const earthRadiusKm = 6371.0

var ErrInvalidCoords = errors.New("invalid coordinates", j.C("ERR_5b1e0c7a9d2f4e61"))

// Coords is a WGS84 latitude/longitude pair in degrees.
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coords) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || c.Lat < -90 || c.Lat > 90 {
		return errors.Wrap(ErrInvalidCoords, "latitude out of range", j.MKV{"lat": c.Lat})
	}
	if math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) || c.Lng < -180 || c.Lng > 180 {
		return errors.Wrap(ErrInvalidCoords, "longitude out of range", j.MKV{"lng": c.Lng})
	}
	return nil
}

// HaversineKm returns the great-circle distance between two points.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func DistanceKm(a, b Coords) float64 {
	return HaversineKm(a.Lat, a.Lng, b.Lat, b.Lng)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
