package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/bingo/cmd/bingo/shared"
	"github.com/lox/bingo/internal/randutil"
	"github.com/lox/bingo/internal/reveal"
	"github.com/lox/bingo/internal/session"
	"github.com/lox/bingo/internal/tui"
)

// PlayCmd plays a game in the terminal
type PlayCmd struct {
	Size      int    `default:"5" help:"Board side length (odd, 5-11)"`
	BandRange int    `default:"15" help:"Numbers per column"`
	Seed      *int64 `help:"Deterministic RNG seed (optional)"`
	LogFile   string `default:"bingo.log" help:"Log file path"`
	Debug     bool   `help:"Enable debug logging"`
}

func (c *PlayCmd) Run() error {
	logger, f, err := shared.SetupFileLogger(c.LogFile, c.Debug)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	seed, _ := randutil.Seed(c.Seed)
	model, err := tui.New(tui.Options{
		Session: session.Config{Size: c.Size, BandRange: c.BandRange},
		Seed:    seed,
		Reveal:  reveal.DefaultOptions(),
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
