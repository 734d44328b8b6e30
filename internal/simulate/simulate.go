// Package simulate plays many independent bingo games to completion and
// reports how quickly boards reach and complete lines.
package simulate

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/bingo/internal/board"
	"github.com/lox/bingo/internal/randutil"
	"github.com/lox/bingo/internal/session"
	"golang.org/x/sync/errgroup"
)

// Config controls a simulation run.
type Config struct {
	Games     int
	Size      int
	BandRange int
	Seed      int64 // game i uses Seed+i
	Workers   int   // defaults to GOMAXPROCS
	Logger    *log.Logger
}

// GameResult records the draw numbers (1-based) at which milestones were hit.
type GameResult struct {
	Seed        int64 `json:"seed"`
	FirstReach  int   `json:"firstReach"`
	FirstBingo  int   `json:"firstBingo"`
	Blackout    int   `json:"blackout"`    // every cell marked
	BingoAtHalf int   `json:"bingoAtHalf"` // bingo lines after half the pool
}

// Stats summarizes one metric across games.
type Stats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
}

// Report is the outcome of Run.
type Report struct {
	Games       int           `json:"games"`
	Size        int           `json:"size"`
	BandRange   int           `json:"bandRange"`
	Seed        int64         `json:"seed"`
	Duration    time.Duration `json:"durationNs"`
	FirstReach  Stats         `json:"firstReach"`
	FirstBingo  Stats         `json:"firstBingo"`
	Blackout    Stats         `json:"blackout"`
	BingoAtHalf Stats         `json:"bingoAtHalf"`
	Results     []GameResult  `json:"results,omitempty"`
}

// Run plays cfg.Games games and aggregates their milestones.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if cfg.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", cfg.Games)
	}
	if err := board.Validate(cfg.Size, cfg.BandRange); err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.WithPrefix("simulate")

	start := time.Now()
	results := make([]GameResult, cfg.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < cfg.Games; i++ {
		seed := cfg.Seed + int64(i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Play(session.Config{Size: cfg.Size, BandRange: cfg.BandRange}, seed)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Games:     cfg.Games,
		Size:      cfg.Size,
		BandRange: cfg.BandRange,
		Seed:      cfg.Seed,
		Duration:  time.Since(start),
		Results:   results,
	}
	report.FirstReach = collect(results, func(r GameResult) int { return r.FirstReach })
	report.FirstBingo = collect(results, func(r GameResult) int { return r.FirstBingo })
	report.Blackout = collect(results, func(r GameResult) int { return r.Blackout })
	report.BingoAtHalf = collect(results, func(r GameResult) int { return r.BingoAtHalf })

	logger.Info("Simulation complete",
		"games", cfg.Games,
		"workers", workers,
		"first_bingo_mean", fmt.Sprintf("%.1f", report.FirstBingo.Mean),
		"duration", report.Duration.Round(time.Millisecond))
	return report, nil
}

// Play draws one seeded game until the pool is exhausted.
func Play(cfg session.Config, seed int64) (GameResult, error) {
	s, err := session.New(cfg, randutil.New(seed))
	if err != nil {
		return GameResult{}, err
	}

	res := GameResult{Seed: seed}
	half := cfg.PoolMax() / 2
	for draw := 1; !s.Exhausted(); draw++ {
		if _, err := s.Draw(); err != nil {
			return GameResult{}, err
		}
		c := s.Counts()
		if res.FirstReach == 0 && c.Reach > 0 {
			res.FirstReach = draw
		}
		if res.FirstBingo == 0 && c.Bingo > 0 {
			res.FirstBingo = draw
		}
		if draw == half {
			res.BingoAtHalf = c.Bingo
		}
		if res.Blackout == 0 && s.Marks().Full() {
			res.Blackout = draw
		}
	}
	return res, nil
}

func collect(results []GameResult, metric func(GameResult) int) Stats {
	values := make([]float64, len(results))
	for i, r := range results {
		values[i] = float64(metric(r))
	}
	return Summarize(values)
}

// Summarize computes Stats over values. Percentiles interpolate linearly.
func Summarize(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return Stats{
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   sum / float64(n),
		Median: median,
		P90:    percentile(sorted, 0.9),
	}
}

func percentile(sorted []float64, p float64) float64 {
	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
