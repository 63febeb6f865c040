package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/litmap/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "litmap",
	Short: "Litmap - Put your bookshelf on a map",
	Long: `Litmap builds an interactive map of where your books take place.

It keeps a plain books.yaml as the source of truth, enriches sparse
entries with metadata from Google Books, extracts setting locations
from Wikipedia plot summaries, geocodes them through Nominatim, and
renders a static Leaflet map you can host anywhere.

Every change to books.yaml is proposed before it is applied.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Litmap.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("litmap v0.2.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.litmap/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.litmap")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match LITMAP_*
	viper.SetEnvPrefix("LITMAP")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig builds the effective configuration: defaults overlaid with
// whatever the config file or LITMAP_* environment set. Flag overrides
// happen per command.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if viper.IsSet("books") {
		cfg.Books = viper.GetString("books")
	}
	if viper.IsSet("output.dir") {
		cfg.Output.Dir = viper.GetString("output.dir")
	}
	if viper.IsSet("geocode.email") {
		cfg.Geocode.Email = viper.GetString("geocode.email")
	}
	if viper.IsSet("geocode.requests_per_second") {
		cfg.Geocode.RequestsPerSecond = viper.GetFloat64("geocode.requests_per_second")
	}
	if viper.IsSet("parallel.workers") {
		cfg.Parallel.Workers = viper.GetInt("parallel.workers")
	}
	cfg.Output.Verbose = verbose

	return cfg
}
