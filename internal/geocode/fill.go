package geocode

import (
	"context"

	"github.com/ppiankov/litmap/internal/model"
)

// FillStats summarizes a coordinate fill pass
type FillStats struct {
	Resolved   int
	Unresolved []string
	Errors     []error
}

// Fill resolves coordinates for every location that lacks them, writing
// lat/lng onto the library in place. Hand-pinned coordinates are left
// alone. Unresolvable names and per-location geocoder errors are
// collected and the pass continues; only context cancellation aborts
// it.
func Fill(ctx context.Context, g Geocoder, lib *model.Library) (*FillStats, error) {
	stats := &FillStats{}

	for _, book := range lib.Books {
		for i := range book.Locations {
			loc := &book.Locations[i]
			if loc.Lat != nil && loc.Lng != nil {
				continue
			}

			result, err := g.Geocode(ctx, loc.Name)
			if err != nil {
				if ctx.Err() != nil {
					return stats, ctx.Err()
				}
				stats.Errors = append(stats.Errors, err)
				continue
			}
			if result == nil {
				stats.Unresolved = append(stats.Unresolved, loc.Name)
				continue
			}

			lat, lng := result.Lat, result.Lng
			loc.Lat = &lat
			loc.Lng = &lng
			stats.Resolved++
		}
	}

	return stats, nil
}
