package geocode

import "context"

// Result is a resolved place
type Result struct {
	Lat         float64
	Lng         float64
	DisplayName string
}

// Geocoder resolves a place name to coordinates. A nil result with nil
// error means the name could not be resolved; the build keeps going and
// skips the location.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (*Result, error)
}
