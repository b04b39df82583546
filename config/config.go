package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// Server configuration
	Server struct {
		Port string `env:"SERVER_PORT" envDefault:"5250"`
	}

	// RentCast provider configuration
	RentCast struct {
		APIKey  string `env:"RENTCAST_API_KEY"`
		BaseURL string `env:"RENTCAST_BASE_URL" envDefault:"https://api.rentcast.io/v1"`

		// HTTP timeout for a single provider call (in seconds)
		Timeout int `env:"RENTCAST_TIMEOUT" envDefault:"25"`
	}

	// Comparable gathering configuration
	Comps struct {
		// Search radii tried in order until enough priced comps are found
		RadiiMiles []float64 `env:"COMPS_RADII_MILES" envDefault:"0.5,1,2,3,5" envSeparator:","`

		// Number of priced comps that stops the radius expansion
		Want int `env:"COMPS_WANT" envDefault:"6"`

		// Per-call record limit sent to the provider
		QueryLimit int `env:"COMPS_QUERY_LIMIT" envDefault:"25"`

		// Maximum comparables included in a report
		DisplayLimit int `env:"COMPS_DISPLAY_LIMIT" envDefault:"12"`
	}

	// Scoring configuration
	Scoring struct {
		// Weighting profile: "three_term" or "two_term"
		Profile string `env:"SCORING_PROFILE" envDefault:"three_term"`
	}

	// Query cache configuration
	Cache struct {
		Enabled bool   `env:"CACHE_ENABLED" envDefault:"true"`
		Path    string `env:"CACHE_PATH" envDefault:"database/query_cache.db"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
