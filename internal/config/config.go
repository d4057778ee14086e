package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Routing   RoutingConfig
	Geocoding GeocodingConfig
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// RoutingConfig holds routing provider settings. An empty BaseURL disables
// the provider; every route then resolves to a straight-line fallback.
type RoutingConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
	DebounceMs  int    `mapstructure:"debounce_ms"`
}

// GeocodingConfig holds geocoder settings.
type GeocodingConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// Timeout returns the provider timeout as a duration
func (r RoutingConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSecs) * time.Second
}

// Debounce returns the debounce interval as a duration
func (r RoutingConfig) Debounce() time.Duration {
	return time.Duration(r.DebounceMs) * time.Millisecond
}

// Load reads configuration from file and env. Env var overrides use prefix ITINERARY_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "itinerary-router", "itinerary.db"))
	v.SetDefault("routing.base_url", "https://router.project-osrm.org")
	v.SetDefault("routing.timeout_secs", 10)
	v.SetDefault("routing.debounce_ms", 300)
	v.SetDefault("geocoding.base_url", "https://nominatim.openstreetmap.org")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("ITINERARY_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "itinerary-router"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ITINERARY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
