package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/litmap/internal/geocode"
	"github.com/ppiankov/litmap/internal/pipeline"
	"github.com/ppiankov/litmap/internal/render"
	"github.com/ppiankov/litmap/internal/store"
	"github.com/spf13/cobra"
)

var (
	buildBooksFile string
	buildOutputDir string
	buildTimeout   time.Duration
	buildNoCache   bool
	mapTitle       string
	writeCoords    bool
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Geocode locations and generate the static map",
	Long: `Build reads books.yaml, resolves coordinates for locations that
lack them through Nominatim, and writes a self-contained Leaflet map
to the output directory.

Hand-pinned coordinates in books.yaml are used as-is. Geocoding
respects the Nominatim usage policy of one request per second;
results are cached so rebuilds stay fast.

Example:
  litmap build
  litmap build --output-dir ./public
  litmap build --write-coords`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&buildBooksFile, "books", "", "books file (default: books.yaml)")
	buildCmd.Flags().StringVar(&buildOutputDir, "output-dir", "", "output directory (default: output)")
	buildCmd.Flags().StringVar(&mapTitle, "title", "Book Locations Map", "page title for the generated map")
	buildCmd.Flags().BoolVar(&writeCoords, "write-coords", false, "write resolved coordinates back to the books file")
	buildCmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "disable cache (force fresh geocoding)")
	buildCmd.Flags().DurationVar(&buildTimeout, "timeout", 15*time.Minute, "total build timeout")
	buildCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	buildCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
	defer cancel()

	cfg := loadConfig()
	if buildBooksFile != "" {
		cfg.Books = buildBooksFile
	}
	if buildOutputDir != "" {
		cfg.Output.Dir = buildOutputDir
	}
	cfg.Cache.Enabled = !buildNoCache
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy

	fmt.Fprintf(os.Stderr, "Loading %s...\n", cfg.Books)
	lib, err := store.Load(cfg.Books)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Found %d books\n", len(lib.Books))

	p := pipeline.NewPipeline(cfg)

	fmt.Fprintln(os.Stderr, "Geocoding locations...")
	stats, err := geocode.Fill(ctx, p.Geocoder(), lib)
	if err != nil {
		return fmt.Errorf("geocode: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Resolved %d locations\n", stats.Resolved)
	for _, name := range stats.Unresolved {
		fmt.Fprintf(os.Stderr, "  Warning: could not geocode %q\n", name)
	}
	for _, gerr := range stats.Errors {
		fmt.Fprintf(os.Stderr, "  Warning: %v\n", gerr)
	}

	if writeCoords && stats.Resolved > 0 {
		fmt.Fprintf(os.Stderr, "Writing coordinates back to %s...\n", cfg.Books)
		if err := store.Save(cfg.Books, lib); err != nil {
			return err
		}
	}

	views := render.BuildViews(lib)
	path, err := render.WriteMap(cfg.Output.Dir, mapTitle, views)
	if err != nil {
		return fmt.Errorf("render map: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Generated %s\n", path)
	fmt.Fprintf(os.Stderr, "✓ Map contains %d books\n", len(views))
	fmt.Fprintln(os.Stderr, "\nNext steps:")
	fmt.Fprintf(os.Stderr, "  1. Open %s in a browser to preview\n", path)
	fmt.Fprintf(os.Stderr, "  2. Upload the %s folder to your hosting\n", cfg.Output.Dir)

	return nil
}
