package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in simulator.provider
const (
	ProviderRoutes     = "routes"
	ProviderDirections = "directions"
)

// Config represents the simulator configuration, unmarshalled from the
// "simulator" section of prefab's config (prefab.yaml and PF__ env vars)
type Config struct {
	Provider   string       `koanf:"provider"`
	TravelMode string       `koanf:"travel_mode"`
	Google     GoogleConfig `koanf:"google"`
}

// GoogleConfig holds Google Maps Platform settings
type GoogleConfig struct {
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:   ProviderRoutes,
		TravelMode: "DRIVE",
		Google: GoogleConfig{
			Timeout: 30 * time.Second,
		},
	}
}

// ApplyEnvFallbacks fills the API key from MAPS_API_KEY when the config leaves it empty
func (c *Config) ApplyEnvFallbacks() {
	if c.Google.APIKey == "" {
		c.Google.APIKey = os.Getenv("MAPS_API_KEY")
	}
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = ProviderRoutes
	}
	if c.Provider != ProviderRoutes && c.Provider != ProviderDirections {
		return fmt.Errorf("unknown provider %q: must be %q or %q", c.Provider, ProviderRoutes, ProviderDirections)
	}
	if c.Google.APIKey == "" {
		return fmt.Errorf("google api key is required (simulator.google.api_key or MAPS_API_KEY)")
	}
	if c.Google.Timeout < 0 {
		return fmt.Errorf("google timeout must not be negative")
	}
	c.TravelMode = strings.ToUpper(strings.TrimSpace(c.TravelMode))
	if c.TravelMode == "" {
		c.TravelMode = "DRIVE"
	}
	return nil
}
