package geocode

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ppiankov/litmap/internal/fetch"
	"github.com/ppiankov/litmap/internal/model"
	"github.com/ppiankov/litmap/internal/worker"
)

// Nominatim geocodes through the OpenStreetMap Nominatim API. The usage
// policy allows at most one request per second, enforced through the
// shared host limiter; results are cached by the fetch layer so reruns
// cost nothing.
type Nominatim struct {
	fetcher  *fetch.Client
	endpoint string
	email    string
}

// NewNominatim creates a Nominatim geocoder and registers its rate
// budget on the shared limiter.
func NewNominatim(fetcher *fetch.Client, limiter *worker.HostLimiter, cfg model.GeocodeConfig) *Nominatim {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://nominatim.openstreetmap.org/search"
	}

	if limiter != nil {
		rps := cfg.RequestsPerSecond
		if rps <= 0 || rps > 1 {
			rps = 1
		}
		if parsed, err := url.Parse(endpoint); err == nil {
			limiter.SetHostRate(parsed.Host, rps, 1)
		}
	}

	return &Nominatim{
		fetcher:  fetcher,
		endpoint: endpoint,
		email:    cfg.Email,
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves a place name to coordinates
func (n *Nominatim) Geocode(ctx context.Context, name string) (*Result, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	params := url.Values{}
	// Lowercased so "Paris" and "paris" share one cache entry; the
	// search itself is case-insensitive.
	params.Set("q", strings.ToLower(name))
	params.Set("format", "json")
	params.Set("limit", "1")
	if n.email != "" {
		params.Set("email", n.email)
	}

	var results []searchResult
	if err := n.fetcher.GetJSON(ctx, "geocode", n.endpoint+"?"+params.Encode(), &results); err != nil {
		return nil, fmt.Errorf("geocode %q: %w", name, err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: parse lat: %w", name, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: parse lon: %w", name, err)
	}

	return &Result{
		Lat:         lat,
		Lng:         lng,
		DisplayName: results[0].DisplayName,
	}, nil
}
