package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (POS_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (POS_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	Print       PrintConfig
	Events      EventsConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// PrintConfig controls printer routing and dispatch.
type PrintConfig struct {
	// Stations maps station names (as referenced by device bindings) to
	// printer network addresses.
	Stations map[string]string `usage:"station name to printer address map"`
	// DefaultStation receives items whose product has no device binding.
	DefaultStation string        `default:"expo" usage:"station for unbound products" flag:"default-station"`
	DialTimeout    time.Duration `default:"3s" usage:"printer connect timeout" flag:"printer-dial-timeout"`
	WriteTimeout   time.Duration `default:"5s" usage:"printer write timeout" flag:"printer-write-timeout"`
	MaxConcurrent  int           `default:"4"  usage:"max print jobs in flight" flag:"print-concurrency"`
}

// EventsConfig controls the live event broadcaster.
type EventsConfig struct {
	Buffer int `default:"16" usage:"per-subscriber event buffer"`
}

// RateLimitConfig controls the per-client rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins []string `default:"*" usage:"Allowed CORS origins"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables and YAML config
// files, then applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "POS",
		Files:     []string{"config.yaml", "/etc/tableflow/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set POS_DATABASE_URL or DATABASE_URL")
	}
	if _, ok := cfg.Print.Stations[cfg.Print.DefaultStation]; !ok {
		return nil, errors.Errorf("default station %q has no printer address", cfg.Print.DefaultStation)
	}

	return &cfg, nil
}

// applyDefaults maps platform-provided environment variables (DATABASE_URL,
// PORT) to the POS_-prefixed configuration and fills in the two-station
// printer layout the floor runs by default.
func (c *Config) applyDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
	if len(c.Print.Stations) == 0 {
		c.Print.Stations = map[string]string{
			"kitchen": "192.168.1.91:9100",
			"expo":    "192.168.1.90:9100",
		}
	}
}
