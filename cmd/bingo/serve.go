package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/bingo/cmd/bingo/shared"
	"github.com/lox/bingo/internal/config"
	"github.com/lox/bingo/internal/server"
)

// ServeCmd runs the HTTP and websocket server
type ServeCmd struct {
	Config string `short:"c" default:"bingo.hcl" help:"Path to HCL configuration file"`
	Addr   string `help:"Listen address host:port (overrides config)"`
	Debug  bool   `help:"Enable debug logging"`
}

func (c *ServeCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Debug {
		cfg.Server.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := log.ParseLevel(cfg.Server.LogLevel) // Validated above
	logger := shared.NewLogger(os.Stderr, level)

	addr := cfg.Addr()
	if c.Addr != "" {
		addr = c.Addr
	}

	games := server.NewGameManager(server.GameManagerConfig{
		Defaults: cfg.Session(),
		Reveal:   cfg.Reveal(),
		IdleTTL:  cfg.IdleTTL(),
	}, quartz.NewReal(), logger)
	s := server.NewServer(games, logger)

	logger.Info("Starting bingo server",
		"address", addr,
		"size", cfg.Game.Size,
		"band_range", cfg.Game.BandRange,
		"reveal", cfg.Reveal().Duration,
		"idle_ttl", cfg.IdleTTL())

	// Setup graceful shutdown
	ctx := shared.SetupSignalHandlerWithLogger(logger)

	go func() {
		if err := games.Run(ctx, time.Minute); err != nil {
			logger.Error("Idle sweeper stopped", "error", err)
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		if err := s.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
