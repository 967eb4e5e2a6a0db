package branch

import (
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/utils"
)

const (
	DefaultRadiusMeters = 500
	MinRadiusMeters     = 10
	MaxRadiusMeters     = 10000
)

type Branch struct {
	ID        string
	Name      string
	Address   string
	Location  *Location
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location is the geofence centre of a branch.
type Location struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters int
}

// EffectiveRadius falls back to DefaultRadiusMeters when unset.
func (l Location) EffectiveRadius() int {
	if l.RadiusMeters <= 0 {
		return DefaultRadiusMeters
	}
	return l.RadiusMeters
}

func (l Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 || l.Longitude < -180 || l.Longitude > 180 {
		return ErrInvalidCoordinates
	}
	if l.RadiusMeters != 0 && (l.RadiusMeters < MinRadiusMeters || l.RadiusMeters > MaxRadiusMeters) {
		return ErrInvalidRadius
	}
	return nil
}

// Geofence describes a distance check against a branch centre.
type Geofence struct {
	RadiusMeters   int
	DistanceMeters int
	Within         bool
}

// CheckGeofence measures (lat, lon) against the branch geofence. Branches
// without a configured location accept any position.
func (b Branch) CheckGeofence(lat, lon float64) Geofence {
	if b.Location == nil {
		return Geofence{Within: true}
	}
	radius := b.Location.EffectiveRadius()
	distanceKm := utils.HaversineDistanceKm(lat, lon, b.Location.Latitude, b.Location.Longitude)
	return Geofence{
		RadiusMeters:   radius,
		DistanceMeters: utils.KmToRoundedMeters(distanceKm),
		Within:         distanceKm <= float64(radius)/1000,
	}
}
