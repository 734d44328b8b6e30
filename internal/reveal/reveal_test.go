package reveal

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/bingo/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleDefault(t *testing.T) {
	frames := Schedule(42, 75, DefaultOptions(), randutil.New(1))

	// 0ms .. 560ms every 35ms, then the final frame at 580ms.
	require.Len(t, frames, 18)
	for i, f := range frames[:17] {
		assert.Equal(t, time.Duration(i)*35*time.Millisecond, f.At)
		assert.False(t, f.Final)
		assert.True(t, f.Number >= 1 && f.Number <= 75)
	}

	last := frames[17]
	assert.True(t, last.Final)
	assert.Equal(t, 42, last.Number)
	assert.Equal(t, 580*time.Millisecond, last.At)
}

func TestScheduleWithoutRoll(t *testing.T) {
	frames := Schedule(7, 75, Options{}, randutil.New(1))
	require.Len(t, frames, 1)
	assert.Equal(t, Frame{Number: 7, Final: true}, frames[0])
}

func TestPlayEmitsOnClock(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mClock := quartz.NewMock(t)
	frames := Schedule(9, 75, DefaultOptions(), randutil.New(2))
	ch := Play(ctx, mClock, frames)

	first := <-ch
	assert.Equal(t, frames[0], first)

	for i := 1; i < len(frames); i++ {
		d, w := mClock.AdvanceNext()
		assert.Equal(t, frames[i].At-frames[i-1].At, d)
		w.MustWait(ctx)

		select {
		case f := <-ch:
			assert.Equal(t, frames[i], f)
		case <-ctx.Done():
			t.Fatal("timed out waiting for frame")
		}
	}

	_, ok := <-ch
	assert.False(t, ok, "channel closes after the final frame")
}

func TestPlayCancel(t *testing.T) {
	mClock := quartz.NewMock(t)
	frames := Schedule(3, 75, DefaultOptions(), randutil.New(3))

	ctx, cancel := context.WithCancel(context.Background())
	ch := Play(ctx, mClock, frames)
	cancel()

	var got []Frame
	deadline := time.After(5 * time.Second)
	for {
		select {
		case f, ok := <-ch:
			if !ok {
				require.Len(t, got, 1, "only the immediate frame was emitted")
				return
			}
			got = append(got, f)
		case <-deadline:
			t.Fatal("channel was not closed after cancel")
		}
	}
}
