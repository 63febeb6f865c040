package model

import "time"

// Config holds the complete litmap configuration
type Config struct {
	Books       string         `yaml:"books"`
	HTTP        HTTPConfig     `yaml:"http"`
	Cache       CacheConfig    `yaml:"cache"`
	Wiki        WikiConfig     `yaml:"wikipedia"`
	GoogleBooks BooksAPIConfig `yaml:"googlebooks"`
	Geocode     GeocodeConfig  `yaml:"geocode"`
	LLM         LLMConfig      `yaml:"llm"`
	Output      OutputConfig   `yaml:"output"`
	Parallel    ParallelConfig `yaml:"parallel"`
}

// HTTPConfig controls the shared fetch client. Empty proxy values fall
// back to the HTTP_PROXY/HTTPS_PROXY/NO_PROXY environment.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty"`
	NoProxy      string        `yaml:"no_proxy,omitempty"`
}

// CacheConfig controls the layered response cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// WikiConfig controls the Wikipedia extracts client
type WikiConfig struct {
	Endpoint string `yaml:"endpoint"`
	Language string `yaml:"language"`
}

// BooksAPIConfig controls the Google Books client
type BooksAPIConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// GeocodeConfig controls the Nominatim geocoder. Nominatim's usage
// policy caps anonymous use at one request per second.
type GeocodeConfig struct {
	Endpoint          string  `yaml:"endpoint"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Email             string  `yaml:"email,omitempty"`
}

// LLMConfig controls the optional location suggester. Disabled unless a
// provider is set.
type LLMConfig struct {
	Provider  string `yaml:"provider,omitempty"`
	Model     string `yaml:"model,omitempty"`
	APIKey    string `yaml:"-"`
	BaseURL   string `yaml:"base_url,omitempty"`
	MaxTokens int    `yaml:"max_tokens,omitempty"`
}

// OutputConfig controls map rendering and verbosity
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Verbose bool   `yaml:"verbose"`
}

// ParallelConfig controls batch enrichment concurrency
type ParallelConfig struct {
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Books: "books.yaml",
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "litmap/0.2 (+https://github.com/ppiankov/litmap)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "cache",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   30 * 24 * time.Hour,
		},
		Wiki: WikiConfig{
			Endpoint: "https://en.wikipedia.org/w/api.php",
			Language: "en",
		},
		GoogleBooks: BooksAPIConfig{
			Endpoint: "https://www.googleapis.com/books/v1/volumes",
		},
		Geocode: GeocodeConfig{
			Endpoint:          "https://nominatim.openstreetmap.org/search",
			RequestsPerSecond: 0.9,
		},
		LLM: LLMConfig{
			Model:     "gpt-4o-mini",
			MaxTokens: 300,
		},
		Output: OutputConfig{
			Dir: "output",
		},
		Parallel: ParallelConfig{
			Workers: 4,
		},
	}
}
