package randutil

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 16; i++ {
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestShufflePermutes(t *testing.T) {
	s := Sequence(1, 75)
	Shuffle(New(7), s)

	require.Len(t, s, 75)
	sorted := slices.Clone(s)
	slices.Sort(sorted)
	assert.Equal(t, Sequence(1, 75), sorted)
	assert.NotEqual(t, Sequence(1, 75), s, "75 elements should not shuffle into identity")
}

func TestSequence(t *testing.T) {
	assert.Equal(t, []int{3, 4, 5}, Sequence(3, 5))
	assert.Equal(t, []int{9}, Sequence(9, 9))
	assert.Nil(t, Sequence(5, 4))
}

func TestSeed(t *testing.T) {
	want := int64(1234)
	got, fixed := Seed(&want)
	assert.True(t, fixed)
	assert.Equal(t, want, got)

	_, fixed = Seed(nil)
	assert.False(t, fixed)
}
