package simulate

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
)

// WriteReport writes r as JSON to filename. The file is written to a
// temporary sibling and renamed, so readers never see a partial report.
func WriteReport(filename string, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')

	// Same directory keeps the rename on one filesystem
	tmpFile, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	tmpFile = nil

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Print writes a metric table for r.
func Print(w io.Writer, r *Report) error {
	fmt.Fprintf(w, "%d games, %dx%d board, numbers 1-%d, seed %d\n\n",
		r.Games, r.Size, r.Size, r.Size*r.BandRange, r.Seed)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "metric\tmin\tmedian\tmean\tp90\tmax\t")
	rows := []struct {
		name string
		s    Stats
	}{
		{"first reach", r.FirstReach},
		{"first bingo", r.FirstBingo},
		{"blackout", r.Blackout},
		{"bingo at half", r.BingoAtHalf},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%.0f\t%.1f\t%.2f\t%.1f\t%.0f\t\n",
			row.name, row.s.Min, row.s.Median, row.s.Mean, row.s.P90, row.s.Max)
	}
	return tw.Flush()
}
