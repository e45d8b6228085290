package domain

import "context"

// Geocoder resolves a free-text place name to candidate locations.
type Geocoder interface {
	// Resolve returns zero or more candidates, best match first. An empty
	// slice with a nil error means the place was not found.
	Resolve(ctx context.Context, name string) ([]Location, error)
}

// WeatherFetcher retrieves current conditions for a coordinate pair.
type WeatherFetcher interface {
	Current(ctx context.Context, lat, lon float64) (Conditions, error)
}
