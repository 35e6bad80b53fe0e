package port

import "context"

// GeocoderPort resolves a place name to coordinates. Used as the last resort
// when a location descriptor carries no coordinates and the city table has no
// match. Implementations must bound the call with a timeout.
type GeocoderPort interface {
	Locate(ctx context.Context, place string) (lat, lng float64, err error)
}
