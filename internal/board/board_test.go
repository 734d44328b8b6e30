package board

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/lox/bingo/internal/grid"
	"github.com/lox/bingo/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestGenerateClassicBoard(t *testing.T) {
	b, err := Generate(5, 15, randutil.New(1))
	require.NoError(t, err)

	require.Equal(t, 5, b.Size())
	assert.Equal(t, grid.Coord{Row: 2, Col: 2}, b.Center())
	assert.True(t, b.At(b.Center()).IsFree())
	assert.Len(t, b.Numbers(), 24)

	for c := 0; c < 5; c++ {
		lo, hi := Band(c, 15)
		for r := 0; r < 5; r++ {
			cell := b[r][c]
			if cell.IsFree() {
				continue
			}
			assert.GreaterOrEqual(t, int(cell), lo, "row %d col %d", r, c)
			assert.LessOrEqual(t, int(cell), hi, "row %d col %d", r, c)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, err := Generate(7, 20, randutil.New(99))
	require.NoError(t, err)
	b, err := Generate(7, 20, randutil.New(99))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		size := rapid.SampledFrom([]int{5, 7, 9, 11}).Draw(rt, "size")
		bandRange := rapid.IntRange(2*size, 4*size).Draw(rt, "bandRange")
		seed := rapid.Int64().Draw(rt, "seed")

		b, err := Generate(size, bandRange, randutil.New(seed))
		require.NoError(rt, err)
		require.Len(rt, b, size)

		frees := 0
		cells := 0
		for r, row := range b {
			require.Len(rt, row, size)
			for c, cell := range row {
				cells++
				if cell.IsFree() {
					frees++
					assert.Equal(rt, size/2, r)
					assert.Equal(rt, size/2, c)
				}
			}
		}
		assert.Equal(rt, 1, frees, "exactly one FREE cell")
		assert.Equal(rt, size*size, cells)

		for c := 0; c < size; c++ {
			lo, hi := Band(c, bandRange)
			seen := map[Cell]bool{}
			for r := 0; r < size; r++ {
				cell := b[r][c]
				if cell.IsFree() {
					continue
				}
				assert.False(rt, seen[cell], "duplicate %d in column %d", cell, c)
				seen[cell] = true
				assert.True(rt, int(cell) >= lo && int(cell) <= hi, "%d outside band %d [%d,%d]", cell, c, lo, hi)
			}
		}
	})
}

func TestValidateViolations(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		bandRange int
		want      error
	}{
		{name: "zero size", size: 0, bandRange: 15, want: ErrNonPositive},
		{name: "zero band range", size: 5, bandRange: 0, want: ErrNonPositive},
		{name: "negative size", size: -5, bandRange: 15, want: ErrNonPositive},
		{name: "even size", size: 4, bandRange: 15, want: ErrEvenSize},
		{name: "even size in range", size: 6, bandRange: 15, want: ErrEvenSize},
		{name: "odd below minimum", size: 3, bandRange: 15, want: ErrSizeTooSmall},
		{name: "above maximum", size: 13, bandRange: 30, want: ErrSizeTooLarge},
		{name: "band range too small", size: 5, bandRange: 3, want: ErrBandRangeTooSmall},
		{name: "band range just short", size: 7, bandRange: 13, want: ErrBandRangeTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.size, tt.bandRange, randutil.New(1))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.size, cfgErr.Size)
			assert.Equal(t, tt.bandRange, cfgErr.BandRange)

			for _, other := range []error{ErrNonPositive, ErrEvenSize, ErrSizeTooSmall, ErrSizeTooLarge, ErrBandRangeTooSmall} {
				if other != tt.want {
					assert.NotErrorIs(t, err, other)
				}
			}
		})
	}
}

func TestValidateAcceptsLimits(t *testing.T) {
	for _, size := range []int{5, 7, 9, 11} {
		assert.NoError(t, Validate(size, 2*size))
	}
}

func TestFind(t *testing.T) {
	b := Board{
		{1, 16, 31},
		{2, Free, 32},
		{3, 18, 33},
	}
	assert.Equal(t, []grid.Coord{{Row: 1, Col: 2}}, b.Find(32))
	assert.Empty(t, b.Find(99))
	assert.Empty(t, b.Find(0), "FREE never matches a draw")
}

func TestMarksStartWithFree(t *testing.T) {
	b, err := Generate(5, 15, randutil.New(3))
	require.NoError(t, err)

	m := b.Marks()
	assert.Equal(t, 1, m.Count())
	assert.True(t, m.At(b.Center()))
}

func TestCellJSON(t *testing.T) {
	b := Board{{1, 2}, {Free, 40}}
	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `[[1,2],["FREE",40]]`, string(data))

	var back Board
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, b, back)

	var c Cell
	assert.Error(t, json.Unmarshal([]byte(`"FOO"`), &c))
	assert.Error(t, json.Unmarshal([]byte(`-3`), &c))
}

func TestString(t *testing.T) {
	b := Board{
		{1, 16, 31},
		{2, Free, 32},
		{3, 18, 33},
	}
	lines := strings.Split(b.String(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "   2 FREE   32", lines[1])
}
