package main

import (
	"os"

	"github.com/lox/bingo/cmd/bingo/shared"
	"github.com/lox/bingo/internal/simulate"
)

// SimulateCmd plays games in bulk and reports milestone statistics
type SimulateCmd struct {
	Games     int    `default:"10000" help:"Number of games to play"`
	Size      int    `default:"5" help:"Board side length (odd, 5-11)"`
	BandRange int    `default:"15" help:"Numbers per column"`
	Seed      int64  `default:"1" help:"Seed of the first game; game i uses seed+i"`
	Workers   int    `help:"Parallel workers (default GOMAXPROCS)"`
	Out       string `help:"Write the JSON report to this file"`
	Debug     bool   `help:"Enable debug logging"`
}

func (c *SimulateCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)
	ctx := shared.SetupSignalHandlerWithLogger(logger)

	report, err := simulate.Run(ctx, simulate.Config{
		Games:     c.Games,
		Size:      c.Size,
		BandRange: c.BandRange,
		Seed:      c.Seed,
		Workers:   c.Workers,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	if c.Out != "" {
		if err := simulate.WriteReport(c.Out, report); err != nil {
			return err
		}
		logger.Info("Wrote report", "path", c.Out)
	}
	return simulate.Print(os.Stdout, report)
}
