package config

import "time"

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"readTimeout" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" validate:"gte=0"`
	IdleTimeout     time.Duration `yaml:"idleTimeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" validate:"gte=0"`
	CORSOrigin      string        `yaml:"corsOrigin" validate:"required"`
}

// DataConfig points at the station and line dictionaries
type DataConfig struct {
	Stations       string        `yaml:"stations" validate:"required"`
	Lines          string        `yaml:"lines" validate:"required"`
	ReloadInterval time.Duration `yaml:"reloadInterval" validate:"gte=0"` // 0 loads once
	HTTPTimeout    time.Duration `yaml:"httpTimeout" validate:"gt=0"`
}

// RoutingConfig holds search defaults for requests that leave them out
type RoutingConfig struct {
	MaxResults int    `yaml:"maxResults" validate:"gte=1,lte=10"`
	Priority   string `yaml:"priority" validate:"priority"`
	Types      string `yaml:"types" validate:"typeset"`
}

// CacheConfig sizes the route result cache. Size 0 disables it.
type CacheConfig struct {
	Size int           `yaml:"size" validate:"gte=0"`
	TTL  time.Duration `yaml:"ttl" validate:"gte=0"`
}

// LogConfig selects the log level and output format
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server  ServerConfig  `yaml:"server" validate:"required"`
	Data    DataConfig    `yaml:"data" validate:"required"`
	Routing RoutingConfig `yaml:"routing"`
	Cache   CacheConfig   `yaml:"cache"`
	Log     LogConfig     `yaml:"log"`
}
