// Package config loads the HCL configuration for the bingo server.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/bingo/internal/board"
	"github.com/lox/bingo/internal/reveal"
	"github.com/lox/bingo/internal/session"
)

// DefaultPath is the file read when no --config is given.
const DefaultPath = "bingo.hcl"

// Config is the complete configuration.
type Config struct {
	Server ServerSettings
	Game   GameSettings
}

// ServerSettings controls the HTTP listener and logging.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings are the defaults for newly created games.
type GameSettings struct {
	Size           int `hcl:"size,optional"`
	BandRange      int `hcl:"band_range,optional"`
	RevealMs       int `hcl:"reveal_ms,optional"`
	IdleTTLSeconds int `hcl:"idle_ttl_seconds,optional"`
}

// file mirrors the HCL layout; both blocks are optional.
type file struct {
	Server *ServerSettings `hcl:"server,block"`
	Game   *GameSettings   `hcl:"game,block"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: GameSettings{
			Size:           5,
			BandRange:      15,
			RevealMs:       700,
			IdleTTLSeconds: 1800,
		},
	}
}

// Load reads filename. A missing file yields Default.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and fills unset values from Default.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw file
	diags = gohcl.DecodeBody(f.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Default()
	if raw.Server != nil {
		if raw.Server.Address != "" {
			cfg.Server.Address = raw.Server.Address
		}
		if raw.Server.Port != 0 {
			cfg.Server.Port = raw.Server.Port
		}
		if raw.Server.LogLevel != "" {
			cfg.Server.LogLevel = raw.Server.LogLevel
		}
	}
	if raw.Game != nil {
		if raw.Game.Size != 0 {
			cfg.Game.Size = raw.Game.Size
		}
		if raw.Game.BandRange != 0 {
			cfg.Game.BandRange = raw.Game.BandRange
		}
		if raw.Game.RevealMs != 0 {
			cfg.Game.RevealMs = raw.Game.RevealMs
		}
		if raw.Game.IdleTTLSeconds != 0 {
			cfg.Game.IdleTTLSeconds = raw.Game.IdleTTLSeconds
		}
	}
	return cfg, nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Server.LogLevel)
	}
	if err := board.Validate(c.Game.Size, c.Game.BandRange); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	minReveal := reveal.DefaultOptions().Settle.Milliseconds()
	if int64(c.Game.RevealMs) <= minReveal {
		return fmt.Errorf("game: reveal_ms must be greater than %d", minReveal)
	}
	if c.Game.IdleTTLSeconds <= 0 {
		return fmt.Errorf("game: idle_ttl_seconds must be positive")
	}
	return nil
}

// Addr returns host:port for the listener.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// Session returns the default game configuration.
func (c *Config) Session() session.Config {
	return session.Config{Size: c.Game.Size, BandRange: c.Game.BandRange}
}

// Reveal returns roll timing with the configured duration.
func (c *Config) Reveal() reveal.Options {
	o := reveal.DefaultOptions()
	o.Duration = time.Duration(c.Game.RevealMs) * time.Millisecond
	return o
}

// IdleTTL is how long an untouched game is kept.
func (c *Config) IdleTTL() time.Duration {
	return time.Duration(c.Game.IdleTTLSeconds) * time.Second
}
