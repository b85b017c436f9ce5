package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gravitas-games/antcolony/internal/colony"
)

// Config holds all server configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	JWT        JWTConfig        `yaml:"jwt"`
	Redis      RedisConfig      `yaml:"redis"`
	Session    SessionConfig    `yaml:"session"`
	Database   DatabaseConfig   `yaml:"database"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Host     string  `yaml:"host"`
	Port     int     `yaml:"port"`
	TickRate int     `yaml:"tick_rate"` // Hz
	MaxDelta float64 `yaml:"max_delta"` // seconds, upper bound on a tick's delta time
}

// JWTConfig holds JWT authentication settings
type JWTConfig struct {
	Issuer              string `yaml:"issuer"`
	PublicKeyURL        string `yaml:"public_key_url"`
	PublicKeyRefreshHrs int    `yaml:"public_key_refresh_hours"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Address         string `yaml:"address"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	BlacklistPrefix string `yaml:"blacklist_prefix"`
}

// SessionConfig holds game session settings
type SessionConfig struct {
	MaxPlayers int `yaml:"max_players"`
}

// DatabaseConfig holds the colony store settings.
// An empty Path disables persistence.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SimulationConfig holds the colony simulation constants
type SimulationConfig struct {
	HexScale         float64 `yaml:"hex_scale"`
	ClickThreshold   float64 `yaml:"click_threshold"`
	HitRadius        float64 `yaml:"hit_radius"`
	ArrivalTolerance float64 `yaml:"arrival_tolerance"`
	UnitSpeed        float64 `yaml:"unit_speed"`
	SpiralCap        int     `yaml:"spiral_cap"`   // rings searched for destinations
	WorkerCount      int     `yaml:"worker_count"` // workers spawned per colony
	GridRadius       int     `yaml:"grid_radius"`  // rings of background grid
}

// Tuning converts the simulation section to colony tuning.
func (s SimulationConfig) Tuning() colony.Tuning {
	return colony.Tuning{
		HexScale:         s.HexScale,
		ClickThreshold:   s.ClickThreshold,
		HitRadius:        s.HitRadius,
		ArrivalTolerance: s.ArrivalTolerance,
		UnitSpeed:        s.UnitSpeed,
		SpiralCap:        s.SpiralCap,
		WorkerCount:      s.WorkerCount,
	}
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and fills in defaults
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (cfg *Config) setDefaults() {
	if cfg.Server.TickRate == 0 {
		cfg.Server.TickRate = 20
	}
	if cfg.Server.MaxDelta == 0 {
		cfg.Server.MaxDelta = 0.1
	}
	if cfg.JWT.PublicKeyRefreshHrs == 0 {
		cfg.JWT.PublicKeyRefreshHrs = 24
	}
	if cfg.Session.MaxPlayers == 0 {
		cfg.Session.MaxPlayers = 100
	}

	def := colony.DefaultTuning()
	sim := &cfg.Simulation
	if sim.HexScale == 0 {
		sim.HexScale = def.HexScale
	}
	if sim.ClickThreshold == 0 {
		sim.ClickThreshold = def.ClickThreshold
	}
	if sim.HitRadius == 0 {
		sim.HitRadius = def.HitRadius
	}
	if sim.ArrivalTolerance == 0 {
		sim.ArrivalTolerance = def.ArrivalTolerance
	}
	if sim.UnitSpeed == 0 {
		sim.UnitSpeed = def.UnitSpeed
	}
	if sim.SpiralCap == 0 {
		sim.SpiralCap = def.SpiralCap
	}
	if sim.WorkerCount == 0 {
		sim.WorkerCount = def.WorkerCount
	}
	if sim.GridRadius == 0 {
		sim.GridRadius = 10
	}
}

func (cfg *Config) validate() error {
	if cfg.Server.TickRate < 0 {
		return fmt.Errorf("server.tick_rate must be positive, got %d", cfg.Server.TickRate)
	}
	if cfg.Server.MaxDelta < 0 {
		return fmt.Errorf("server.max_delta must be positive, got %v", cfg.Server.MaxDelta)
	}
	if cfg.Session.MaxPlayers < 0 {
		return fmt.Errorf("session.max_players must be positive, got %d", cfg.Session.MaxPlayers)
	}

	sim := cfg.Simulation
	positive := []struct {
		name  string
		value float64
	}{
		{"simulation.hex_scale", sim.HexScale},
		{"simulation.click_threshold", sim.ClickThreshold},
		{"simulation.hit_radius", sim.HitRadius},
		{"simulation.arrival_tolerance", sim.ArrivalTolerance},
		{"simulation.unit_speed", sim.UnitSpeed},
	}
	for _, p := range positive {
		if p.value < 0 {
			return fmt.Errorf("%s must be positive, got %v", p.name, p.value)
		}
	}
	if sim.SpiralCap < 0 {
		return fmt.Errorf("simulation.spiral_cap must be positive, got %d", sim.SpiralCap)
	}
	if sim.GridRadius < 0 {
		return fmt.Errorf("simulation.grid_radius must be positive, got %d", sim.GridRadius)
	}
	if sim.WorkerCount < 0 {
		return fmt.Errorf("simulation.worker_count must not be negative, got %d", sim.WorkerCount)
	}
	return nil
}
