// Package pipeline wires the configured components together: cache,
// rate limiting, robots checks, the API clients, and the enricher.
package pipeline

import (
	"fmt"
	"os"

	"github.com/ppiankov/litmap/internal/cache"
	"github.com/ppiankov/litmap/internal/enrich"
	"github.com/ppiankov/litmap/internal/fetch"
	"github.com/ppiankov/litmap/internal/geocode"
	"github.com/ppiankov/litmap/internal/googlebooks"
	"github.com/ppiankov/litmap/internal/llm"
	"github.com/ppiankov/litmap/internal/model"
	"github.com/ppiankov/litmap/internal/util"
	"github.com/ppiankov/litmap/internal/wiki"
	"github.com/ppiankov/litmap/internal/worker"
)

// Pipeline holds the shared clients built from one configuration
type Pipeline struct {
	config    *model.Config
	fetcher   *fetch.Client
	limiter   *worker.HostLimiter
	wiki      *wiki.Client
	books     *googlebooks.Client
	suggester *llm.Suggester
}

// NewPipeline builds the shared clients from the configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	var store cache.Cache = cache.Nop{}
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	// 2 req/s default; Nominatim gets clamped separately to its own
	// per-host rate when the geocoder registers.
	limiter := worker.NewHostLimiter(2, 1)
	robots := util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	fetcher := fetch.NewClient(cfg.HTTP, store, limiter, robots)

	var suggester *llm.Suggester
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSuggester(cfg.LLM)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: LLM suggester disabled: %v\n", err)
		} else {
			suggester = s
		}
	}

	return &Pipeline{
		config:    cfg,
		fetcher:   fetcher,
		limiter:   limiter,
		wiki:      wiki.NewClient(fetcher, cfg.Wiki),
		books:     googlebooks.NewClient(fetcher, cfg.GoogleBooks),
		suggester: suggester,
	}
}

// Enricher returns a book enricher using the shared clients
func (p *Pipeline) Enricher(opts enrich.Options) *enrich.Enricher {
	return enrich.New(p.wiki, p.books, p.suggester, opts)
}

// Geocoder returns a Nominatim geocoder using the shared clients
func (p *Pipeline) Geocoder() geocode.Geocoder {
	return geocode.NewNominatim(p.fetcher, p.limiter, p.config.Geocode)
}
