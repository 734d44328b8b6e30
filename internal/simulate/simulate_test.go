package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lox/bingo/internal/board"
	"github.com/lox/bingo/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()

	cfg := Config{Games: 40, Size: 5, BandRange: 15, Seed: 100, Workers: 4}
	a, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	cfg.Workers = 1
	b, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Results, b.Results)
	assert.Equal(t, a.FirstBingo, b.FirstBingo)
	assert.Len(t, a.Results, 40)
	for i, r := range a.Results {
		assert.Equal(t, int64(100+i), r.Seed)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), Config{Games: 1, Size: 6, BandRange: 15})
	assert.ErrorIs(t, err, board.ErrEvenSize)

	_, err = Run(context.Background(), Config{Games: 0, Size: 5, BandRange: 15})
	assert.Error(t, err)
}

func TestRunCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Config{Games: 10, Size: 5, BandRange: 15, Workers: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlayMilestoneOrder(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		size := rapid.SampledFrom([]int{5, 7, 9}).Draw(t, "size")
		bandRange := rapid.IntRange(2*size, 3*size).Draw(t, "bandRange")
		seed := rapid.Int64().Draw(t, "seed")
		cfg := session.Config{Size: size, BandRange: bandRange}

		res, err := Play(cfg, seed)
		if err != nil {
			t.Fatalf("play: %v", err)
		}
		if res.FirstReach <= 0 || res.FirstReach >= res.FirstBingo {
			t.Fatalf("first reach %d must precede first bingo %d", res.FirstReach, res.FirstBingo)
		}
		if res.FirstBingo > res.Blackout || res.Blackout > cfg.PoolMax() {
			t.Fatalf("bingo %d, blackout %d, pool %d out of order", res.FirstBingo, res.Blackout, cfg.PoolMax())
		}
		if res.Blackout < size*size-1 {
			t.Fatalf("blackout after %d draws needs at least %d", res.Blackout, size*size-1)
		}
	})
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []float64
		want   Stats
	}{
		{"empty", nil, Stats{}},
		{"single", []float64{7}, Stats{Min: 7, Max: 7, Mean: 7, Median: 7, P90: 7}},
		{"odd", []float64{3, 1, 2}, Stats{Min: 1, Max: 3, Mean: 2, Median: 2, P90: 2.8}},
		{"even", []float64{4, 1, 3, 2}, Stats{Min: 1, Max: 4, Mean: 2.5, Median: 2.5, P90: 3.7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.values)
			assert.InDelta(t, tt.want.Min, got.Min, 1e-9)
			assert.InDelta(t, tt.want.Max, got.Max, 1e-9)
			assert.InDelta(t, tt.want.Mean, got.Mean, 1e-9)
			assert.InDelta(t, tt.want.Median, got.Median, 1e-9)
			assert.InDelta(t, tt.want.P90, got.P90, 1e-9)
		})
	}
}

func TestWriteReport(t *testing.T) {
	t.Parallel()

	r, err := Run(context.Background(), Config{Games: 5, Size: 5, BandRange: 15, Seed: 1})
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	require.NoError(t, WriteReport(path, r))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, r.Results, got.Results)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be renamed away")
}

func TestWriteReportMissingDir(t *testing.T) {
	t.Parallel()

	err := WriteReport(filepath.Join(t.TempDir(), "nope", "report.json"), &Report{})
	assert.Error(t, err)
}

func TestWriteReportRenameFailureCleansUp(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "report.json")
	// A non-empty directory at the target path makes the rename fail
	require.NoError(t, os.MkdirAll(filepath.Join(target, "keep"), 0o755))

	err := WriteReport(target, &Report{Games: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rename")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file should be removed")
	assert.Equal(t, "report.json", entries[0].Name())
}

func TestPrint(t *testing.T) {
	t.Parallel()

	r, err := Run(context.Background(), Config{Games: 3, Size: 5, BandRange: 15, Seed: 9})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, r))
	out := buf.String()
	assert.Contains(t, out, "3 games, 5x5 board, numbers 1-75, seed 9")
	assert.Contains(t, out, "first bingo")
	assert.Contains(t, out, "blackout")
}
