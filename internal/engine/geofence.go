package engine

import "math"

// earthRadiusMeters is the mean Earth radius used by the haversine formula.
const earthRadiusMeters = 6371000.0

// HaversineMeters computes the great-circle distance in meters between two
// latitude/longitude points.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// GeofenceResult is the outcome of a perimeter check. AccuracyMeters is the
// reported GPS uncertainty, carried through for audit only; it never
// overrides an outside verdict.
type GeofenceResult struct {
	Inside         bool
	DistanceMeters float64
	OfficeID       string
	AccuracyMeters float64
}

// GeofenceValidator checks location samples against authorized perimeters.
// It is stateless and safe for concurrent use.
type GeofenceValidator struct{}

// NewGeofenceValidator creates a geofence validator.
func NewGeofenceValidator() *GeofenceValidator { return &GeofenceValidator{} }

// IsInside checks a single office perimeter.
func (v *GeofenceValidator) IsInside(loc Geolocation, office Office) GeofenceResult {
	dist := HaversineMeters(loc.Latitude, loc.Longitude, office.Latitude, office.Longitude)
	return GeofenceResult{
		Inside:         dist <= office.RadiusMeters,
		DistanceMeters: dist,
		OfficeID:       office.ID,
		AccuracyMeters: loc.AccuracyMeters,
	}
}

// Evaluate applies the multi-office policy. When assigned is non-nil only
// that perimeter counts. Otherwise the sample is accepted if it falls inside
// any of the active offices; on failure the result reports the closest
// office evaluated so rejections are explainable.
func (v *GeofenceValidator) Evaluate(loc Geolocation, assigned *Office, active []Office) GeofenceResult {
	if assigned != nil {
		return v.IsInside(loc, *assigned)
	}

	closest := GeofenceResult{DistanceMeters: math.Inf(1), AccuracyMeters: loc.AccuracyMeters}
	for i := range active {
		res := v.IsInside(loc, active[i])
		if res.Inside {
			return res
		}
		if res.DistanceMeters < closest.DistanceMeters {
			closest = res
		}
	}
	return closest
}
