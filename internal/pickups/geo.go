package pickups

import (
	"github.com/golang/geo/s2"
)

// Bounds is a lat/lon bounding box in degrees.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MinLon float64 `json:"minLon"`
	MaxLat float64 `json:"maxLat"`
	MaxLon float64 `json:"maxLon"`
}

// MeanPosition returns the arithmetic mean latitude and longitude of records.
func MeanPosition(records []Record) (lat, lon float64, ok bool) {
	if len(records) == 0 {
		return 0, 0, false
	}
	var sumLat, sumLon float64
	for _, r := range records {
		sumLat += r.Lat
		sumLon += r.Lon
	}
	n := float64(len(records))
	return sumLat / n, sumLon / n, true
}

// BoundsOf returns the smallest lat/lng rectangle containing every record.
func BoundsOf(records []Record) (Bounds, bool) {
	if len(records) == 0 {
		return Bounds{}, false
	}
	rect := s2.EmptyRect()
	for _, r := range records {
		rect = rect.AddPoint(s2.LatLngFromDegrees(r.Lat, r.Lon))
	}
	lo, hi := rect.Lo(), rect.Hi()
	return Bounds{
		MinLat: lo.Lat.Degrees(),
		MinLon: lo.Lng.Degrees(),
		MaxLat: hi.Lat.Degrees(),
		MaxLon: hi.Lng.Degrees(),
	}, true
}
