package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the optional seed configuration file read from the working directory
const DefaultFile = "seed.yaml"

const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"
)

// Config holds all seed-run configuration
type Config struct {
	// Remote recipe API
	APIBaseURL       string `yaml:"api_base_url" validate:"required,url"`
	FetchMode        string `yaml:"fetch_mode" validate:"oneof=http browser"`
	FetchConcurrency int    `yaml:"fetch_concurrency" validate:"min=1,max=64"`
	RateLimitDelay   int    `yaml:"rate_limit_delay_ms" validate:"min=0"` // milliseconds between requests
	RequestTimeoutMs int    `yaml:"request_timeout_ms" validate:"min=1"`

	// Circuit breaker around the remote API; off while BreakerMinRequests is 0
	BreakerMinRequests      uint32  `yaml:"breaker_min_requests"`
	BreakerFailureThreshold float64 `yaml:"breaker_failure_threshold" validate:"gt=0,lte=1"`

	// Query strategies, run in this order
	SearchTerms []string `yaml:"search_terms" validate:"dive,required"`
	Categories  []string `yaml:"categories" validate:"dive,required"`
	Areas       []string `yaml:"areas" validate:"dive,required"`

	// Sampling
	MaxRecipes     int   `yaml:"max_recipes" validate:"min=1"`
	MaxPerCategory int   `yaml:"max_per_category" validate:"min=1"`
	Seed           int64 `yaml:"seed"` // 0 picks a time-based seed

	// Output
	OutputPath  string `yaml:"output_path" validate:"required"`
	RawCSVPath  string `yaml:"raw_csv_path"`
	MetricsPath string `yaml:"metrics_path"`
	PostgresURL string `yaml:"postgres_url"`
	DBRetries   int    `yaml:"db_retries" validate:"min=1"`

	Debug bool `yaml:"debug"`
}

// Default returns the configuration the seed script has always used
func Default() *Config {
	return &Config{
		APIBaseURL:              "https://www.themealdb.com/api/json/v1/1",
		FetchMode:               FetchModeHTTP,
		FetchConcurrency:        6,
		RateLimitDelay:          0,
		RequestTimeoutMs:        20000,
		BreakerMinRequests:      0,
		BreakerFailureThreshold: 0.9,
		SearchTerms:             []string{"pasta", "beef", "fish", "rice", "soup", "salad", "cake"},
		Categories:              []string{"Seafood", "Beef", "Pork", "Lamb", "Vegetarian", "Dessert", "Pasta"},
		Areas:                   []string{"Spanish", "Mexican", "Italian", "Indian", "Chinese", "Japanese", "Greek", "Moroccan"},
		MaxRecipes:              20,
		MaxPerCategory:          2,
		OutputPath:              "db.json",
		DBRetries:               3,
	}
}

// Load starts from Default, overlays the YAML file at path when it exists, and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks every field against its constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ServerConfig holds the recipe backend configuration
type ServerConfig struct {
	DBPath         string
	Addr           string
	AllowedOrigins []string
	Debug          bool
}

// LoadServer reads backend configuration from environment variables or falls back to defaults
func LoadServer() *ServerConfig {
	return &ServerConfig{
		DBPath:         getEnv("RECIPES_DB", "db.json"),
		Addr:           getEnv("RECIPES_ADDR", ":3000"),
		AllowedOrigins: strings.Split(getEnv("RECIPES_ALLOWED_ORIGINS", "http://localhost:4200"), ","),
		Debug:          getEnvBool("RECIPES_DEBUG", false),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
