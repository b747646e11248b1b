package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all server configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	JWT     JWTConfig     `yaml:"jwt"`
	Redis   RedisConfig   `yaml:"redis"`
	Session SessionConfig `yaml:"session"`
	Grid    GridConfig    `yaml:"grid"`
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Host string `yaml:"host" env:"HEXGRID_SERVER_HOST"`
	Port int    `yaml:"port" env:"HEXGRID_SERVER_PORT"`
}

// JWTConfig holds JWT authentication settings
type JWTConfig struct {
	Issuer              string `yaml:"issuer" env:"HEXGRID_JWT_ISSUER"`
	PublicKeyURL        string `yaml:"public_key_url" env:"HEXGRID_JWT_PUBLIC_KEY_URL"`
	PublicKeyRefreshHrs int    `yaml:"public_key_refresh_hours" env:"HEXGRID_JWT_REFRESH_HOURS"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Address         string `yaml:"address" env:"HEXGRID_REDIS_ADDRESS"`
	Password        string `yaml:"password" env:"HEXGRID_REDIS_PASSWORD"`
	DB              int    `yaml:"db" env:"HEXGRID_REDIS_DB"`
	BlacklistPrefix string `yaml:"blacklist_prefix" env:"HEXGRID_REDIS_BLACKLIST_PREFIX"`
}

// SessionConfig holds grid session settings
type SessionConfig struct {
	ID         string `yaml:"id" env:"HEXGRID_SESSION_ID"`
	MaxPlayers int    `yaml:"max_players" env:"HEXGRID_SESSION_MAX_PLAYERS"`
}

// GridConfig selects the grid description loaded at startup. When
// DescriptionPath is empty a hexagon of GenerateRadius is generated.
type GridConfig struct {
	DescriptionPath string  `yaml:"description_path" env:"HEXGRID_GRID_PATH"`
	GenerateRadius  int     `yaml:"generate_radius" env:"HEXGRID_GRID_RADIUS"`
	Seed            int64   `yaml:"seed" env:"HEXGRID_GRID_SEED"`
	HexSize         float64 `yaml:"hex_size" env:"HEXGRID_GRID_HEX_SIZE"`
	CenterX         float64 `yaml:"center_x" env:"HEXGRID_GRID_CENTER_X"`
	CenterY         float64 `yaml:"center_y" env:"HEXGRID_GRID_CENTER_Y"`
	Template        string  `yaml:"template" env:"HEXGRID_GRID_TEMPLATE"`

	// Limits on client range and line queries
	MaxQueryRadius int `yaml:"max_query_radius" env:"HEXGRID_GRID_MAX_QUERY_RADIUS"`
	MaxLineLength  int `yaml:"max_line_length" env:"HEXGRID_GRID_MAX_LINE_LENGTH"`
}

// Grid defaults applied by Parse
const (
	DefaultGenerateRadius = 5
	DefaultQueryRadius    = 64
	DefaultLineLength     = 256
)

// Load reads configuration from a YAML file, then applies HEXGRID_*
// environment overrides and defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and applies environment overrides and
// defaults. generate_radius defaults to 5 only when it is absent, so 0
// selects a single-cell grid.
func Parse(data []byte) (*Config, error) {
	cfg := Config{Grid: GridConfig{GenerateRadius: DefaultGenerateRadius}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	// Set defaults if not provided
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.JWT.PublicKeyRefreshHrs == 0 {
		cfg.JWT.PublicKeyRefreshHrs = 24
	}
	if cfg.Session.ID == "" {
		cfg.Session.ID = "main"
	}
	if cfg.Session.MaxPlayers == 0 {
		cfg.Session.MaxPlayers = 100
	}
	if cfg.Grid.GenerateRadius < 0 {
		return nil, fmt.Errorf("generate_radius must not be negative, got %d", cfg.Grid.GenerateRadius)
	}
	if cfg.Grid.MaxQueryRadius <= 0 {
		cfg.Grid.MaxQueryRadius = DefaultQueryRadius
	}
	if cfg.Grid.MaxLineLength <= 0 {
		cfg.Grid.MaxLineLength = DefaultLineLength
	}
	if cfg.Grid.HexSize == 0 {
		cfg.Grid.HexSize = 1
	}

	return &cfg, nil
}
