package geo

import (
	"math"
)

const earthRadiusKm = 6371

// Zone is one named city area in the gazetteer: a reference centroid plus an
// assignment radius in kilometers.
type Zone struct {
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	RadiusKm float64 `json:"radius_km"`
}

// DefaultGazetteer returns the Bengaluru zones the service ships with.
// The radii are deliberately tiny: containment only short-circuits right at
// a centroid, and nearest-centroid assignment does the real work. Larger
// radii would let an earlier zone's circle swallow a neighboring centroid
// (the closest pair sits under a kilometer apart), breaking the guarantee
// that a centroid resolves to its own zone. The slice order still decides
// ties when overlapping radii both contain a point.
func DefaultGazetteer() []Zone {
	return []Zone{
		{Name: "HSR Layout", Lat: 12.9716, Lng: 77.5946, RadiusKm: 0.02},
		{Name: "Koramangala", Lat: 12.9349, Lng: 77.6057, RadiusKm: 0.02},
		{Name: "Indiranagar", Lat: 12.9789, Lng: 77.5917, RadiusKm: 0.02},
		{Name: "Whitefield", Lat: 12.9692, Lng: 77.7499, RadiusKm: 0.03},
		{Name: "Electronic City", Lat: 12.8458, Lng: 77.6658, RadiusKm: 0.03},
		{Name: "Marathahalli", Lat: 12.9584, Lng: 77.6998, RadiusKm: 0.02},
		{Name: "Bellandur", Lat: 12.9352, Lng: 77.6784, RadiusKm: 0.02},
		{Name: "Sarjapur", Lat: 12.8677, Lng: 77.6736, RadiusKm: 0.02},
	}
}

// Resolver assigns coordinates to the gazetteer zone they belong to.
type Resolver struct {
	zones []Zone
}

// NewResolver creates a resolver over the given gazetteer. The gazetteer
// must be non-empty; Resolve is total once that holds.
func NewResolver(zones []Zone) *Resolver {
	return &Resolver{zones: zones}
}

// Zones returns the configured gazetteer.
func (r *Resolver) Zones() []Zone {
	return r.zones
}

// Resolve maps a point to a zone name. A point inside a zone's radius
// resolves to that zone (first match in gazetteer order); otherwise the zone
// with the nearest centroid wins.
func (r *Resolver) Resolve(lat, lng float64) string {
	for _, zone := range r.zones {
		if Distance(lat, lng, zone.Lat, zone.Lng) <= zone.RadiusKm {
			return zone.Name
		}
	}

	closest := ""
	minDistance := math.Inf(1)
	for _, zone := range r.zones {
		if d := Distance(lat, lng, zone.Lat, zone.Lng); d < minDistance {
			minDistance = d
			closest = zone.Name
		}
	}
	return closest
}

// Distance returns the great-circle distance in kilometers between two
// WGS84 points, via the haversine formula.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
