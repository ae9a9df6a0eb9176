package geo

import (
	"math"
	"testing"

	"github.com/luno/jettison/jtest"
)

func TestHaversineKm(t *testing.T) {
	// London (51.5, -0.1) to Paris (48.8566, 2.3522) ~ 340 km
	d := HaversineKm(51.5, -0.1, 48.8566, 2.3522)
	if d < 320 || d > 360 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestDistanceKmSamePoint(t *testing.T) {
	c := Coords{Lat: 51.5, Lng: -0.1}
	if d := DistanceKm(c, c); d != 0 {
		t.Fatalf("expected zero distance, got %v", d)
	}
}

func TestCoordsValidate(t *testing.T) {
	jtest.RequireNil(t, Coords{Lat: 51.5, Lng: -0.1}.Validate())
	jtest.RequireNil(t, Coords{Lat: -90, Lng: 180}.Validate())

	bad := []Coords{
		{Lat: 91, Lng: 0},
		{Lat: 0, Lng: -180.5},
		{Lat: math.NaN(), Lng: 0},
		{Lat: 0, Lng: math.Inf(1)},
	}
	for _, c := range bad {
		jtest.Require(t, ErrInvalidCoords, c.Validate())
	}
}
