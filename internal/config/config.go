// Package config loads the process configuration from YAML on top of
// built-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/tiltmaze/internal/core/game"
	"github.com/zeusync/tiltmaze/internal/core/level"
	"github.com/zeusync/tiltmaze/internal/core/observability/log"
	"github.com/zeusync/tiltmaze/internal/core/systems/physics"
	"github.com/zeusync/tiltmaze/internal/core/systems/tilt"
	"github.com/zeusync/tiltmaze/internal/server"
)

type Config struct {
	Server  Server         `yaml:"server"`
	Log     Log            `yaml:"log"`
	Physics physics.Params `yaml:"physics"`
	Tilt    tilt.Config    `yaml:"tilt"`
	Game    Game           `yaml:"game"`
	Levels  Levels         `yaml:"levels"`
}

type Server struct {
	ListenAddr   string        `yaml:"listen_addr"`
	MaxClients   int           `yaml:"max_clients"`
	TickRate     int           `yaml:"tick_rate"`
	ReadLimit    int64         `yaml:"read_limit"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	Encoding     string        `yaml:"encoding"`
}

type Log struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"` // json or console
}

type Game struct {
	MarbleRadius     float64 `yaml:"marble_radius"`
	HazardCooldown   float64 `yaml:"hazard_cooldown"`
	CoinPickupFactor float64 `yaml:"coin_pickup_factor"`
}

type Levels struct {
	Dir     string `yaml:"dir"`     // extra level files, appended after the built-ins
	Builtin bool   `yaml:"builtin"` // include the bundled levels
}

func Default() Config {
	srv := server.DefaultServerConfig()
	g := game.DefaultConfig()
	return Config{
		Server: Server{
			ListenAddr:   srv.ListenAddr,
			MaxClients:   srv.MaxClients,
			TickRate:     srv.TickRate,
			ReadLimit:    srv.ReadLimit,
			WriteTimeout: srv.WriteTimeout,
			Encoding:     string(srv.Encoding),
		},
		Log:     Log{Level: "info", Encoding: "json"},
		Physics: g.Physics,
		Tilt:    g.Tilt,
		Game: Game{
			MarbleRadius:     g.MarbleRadius,
			HazardCooldown:   g.HazardCooldown,
			CoinPickupFactor: g.CoinPickupFactor,
		},
		Levels: Levels{Builtin: true},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Read decodes YAML from r over the defaults and validates the result.
func Read(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if err := c.ServerConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Encoding != "json" && c.Log.Encoding != "console" {
		errs = append(errs, fmt.Errorf("log encoding %q", c.Log.Encoding))
	}
	if c.Game.MarbleRadius <= 0 {
		errs = append(errs, errors.New("game.marble_radius must be positive"))
	}
	if c.Game.HazardCooldown < 0 {
		errs = append(errs, errors.New("game.hazard_cooldown must not be negative"))
	}
	if c.Physics.MaxDelta <= 0 || c.Physics.MaxSubsteps < 1 {
		errs = append(errs, errors.New("physics.max_delta and physics.max_substeps must be positive"))
	}
	if !c.Levels.Builtin && c.Levels.Dir == "" {
		errs = append(errs, errors.New("no level source: enable levels.builtin or set levels.dir"))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func (c Config) ServerConfig() server.Config {
	return server.Config{
		ListenAddr:   c.Server.ListenAddr,
		MaxClients:   c.Server.MaxClients,
		TickRate:     c.Server.TickRate,
		ReadLimit:    c.Server.ReadLimit,
		WriteTimeout: c.Server.WriteTimeout,
		Encoding:     server.Encoding(c.Server.Encoding),
	}
}

func (c Config) GameConfig() game.Config {
	return game.Config{
		Physics:          c.Physics,
		Tilt:             c.Tilt,
		MarbleRadius:     c.Game.MarbleRadius,
		HazardCooldown:   c.Game.HazardCooldown,
		CoinPickupFactor: c.Game.CoinPickupFactor,
	}
}

func (c Config) LogOptions() log.Options {
	lvl, _ := log.ParseLevel(c.Log.Level)
	return log.Options{Level: lvl, Encoding: c.Log.Encoding}
}

// Catalog assembles the configured level sources.
func (c Config) Catalog() (*level.Catalog, error) {
	var defs []level.Definition
	if c.Levels.Builtin {
		defs = append(defs, level.Builtin()...)
	}
	if c.Levels.Dir != "" {
		loaded, err := level.LoadDir(c.Levels.Dir)
		if err != nil {
			return nil, fmt.Errorf("load levels: %w", err)
		}
		defs = append(defs, loaded...)
	}
	return level.NewCatalog(c.Game.MarbleRadius, defs...)
}
