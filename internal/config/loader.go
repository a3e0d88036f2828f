package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jusunglee/railmap-go/internal/models"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "RAILMAP_"

// DefaultPaths are tried in order when no config file is named
var DefaultPaths = []string{"config.yml", "./config/config.yml"}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			CORSOrigin:      "*",
		},
		Data: DataConfig{
			Stations:    "assets/stations.json",
			Lines:       "assets/lines.json",
			HTTPTimeout: 30 * time.Second,
		},
		Routing: RoutingConfig{
			MaxResults: 3,
			Priority:   "transfers",
			Types:      models.AllTypes.String(),
		},
		Cache: CacheConfig{
			Size: 256,
			TTL:  10 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the config file over the defaults, applies environment
// overrides and validates the result. An empty path tries DefaultPaths and
// falls back to the defaults when none exists.
func Load(path string) (AppConfig, error) {
	cfg := DefaultConfig()

	data, err := readConfigFile(path)
	if err != nil {
		return cfg, err
	}
	if data != nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		return data, nil
	}
	for _, p := range DefaultPaths {
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return nil, nil
}

// ApplyEnv overrides fields from RAILMAP_* variables
func ApplyEnv(cfg *AppConfig, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = n
		}
		return nil
	}
	dur := func(name string, dst *time.Duration) error {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = d
		}
		return nil
	}

	str("STATIONS", &cfg.Data.Stations)
	str("LINES", &cfg.Data.Lines)
	str("CORS_ORIGIN", &cfg.Server.CORSOrigin)
	str("PRIORITY", &cfg.Routing.Priority)
	str("TYPES", &cfg.Routing.Types)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)

	return errors.Join(
		num("PORT", &cfg.Server.Port),
		num("MAX_RESULTS", &cfg.Routing.MaxResults),
		num("CACHE_SIZE", &cfg.Cache.Size),
		dur("RELOAD_INTERVAL", &cfg.Data.ReloadInterval),
		dur("CACHE_TTL", &cfg.Cache.TTL),
	)
}

// Validate checks every section of the configuration
func Validate(cfg AppConfig) error {
	v := validator.New()
	if err := v.RegisterValidation("priority", validatePriority); err != nil {
		return err
	}
	if err := v.RegisterValidation("typeset", validateTypeSet); err != nil {
		return err
	}
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func validatePriority(fl validator.FieldLevel) bool {
	_, err := models.ParsePriority(fl.Field().String())
	return err == nil
}

// An empty type filter would make every search fail
func validateTypeSet(fl validator.FieldLevel) bool {
	set, err := models.ParseTypeSet(fl.Field().String())
	return err == nil && !set.Empty()
}

// DefaultTypes returns the parsed routing type filter
func (c RoutingConfig) DefaultTypes() models.TypeSet {
	set, err := models.ParseTypeSet(c.Types)
	if err != nil || set.Empty() {
		return models.AllTypes
	}
	return set
}

// DefaultPriority returns the parsed routing priority
func (c RoutingConfig) DefaultPriority() models.Priority {
	p, _ := models.ParsePriority(c.Priority)
	return p
}
