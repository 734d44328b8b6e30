// Package reveal plans and plays the rolling-number animation shown while a
// draw is revealed. It is cosmetic: the draw has already been applied to the
// session by the time a roll starts, and stopping a roll changes nothing.
package reveal

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/bingo/internal/randutil"
)

// Options controls roll timing.
type Options struct {
	Duration time.Duration // total roll length
	Interval time.Duration // time between rolling frames
	Settle   time.Duration // the final number shows this long before Duration
}

// DefaultOptions is a 0.7s roll switching numbers every 35ms.
func DefaultOptions() Options {
	return Options{
		Duration: 700 * time.Millisecond,
		Interval: 35 * time.Millisecond,
		Settle:   120 * time.Millisecond,
	}
}

// Frame is one displayed number.
type Frame struct {
	At     time.Duration // offset from the start of the roll
	Number int
	Final  bool
}

// Schedule plans a roll ending on final. Rolling frames cycle through a
// shuffled deck of [1, poolMax].
func Schedule(final, poolMax int, opts Options, src randutil.Source) []Frame {
	end := opts.Duration - opts.Settle
	if end < 0 {
		end = 0
	}

	var frames []Frame
	if poolMax > 0 && opts.Interval > 0 {
		deck := randutil.Sequence(1, poolMax)
		randutil.Shuffle(src, deck)
		for i := 0; time.Duration(i)*opts.Interval < end; i++ {
			frames = append(frames, Frame{
				At:     time.Duration(i) * opts.Interval,
				Number: deck[i%len(deck)],
			})
		}
	}

	return append(frames, Frame{At: end, Number: final, Final: true})
}

// Play emits frames on the returned channel at their offsets, measured on
// clock. The channel closes after the final frame, or early when ctx is
// cancelled.
func Play(ctx context.Context, clock quartz.Clock, frames []Frame) <-chan Frame {
	p := &player{
		out:       make(chan Frame, len(frames)),
		done:      make(chan struct{}),
		remaining: len(frames),
	}
	if len(frames) == 0 {
		p.closeLocked()
		return p.out
	}

	timers := make([]*quartz.Timer, 0, len(frames))
	for _, f := range frames {
		if f.At <= 0 {
			p.emit(f)
			continue
		}
		timers = append(timers, clock.AfterFunc(f.At, func() { p.emit(f) }, "reveal", "frame"))
	}

	p.mu.Lock()
	p.timers = timers
	p.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			p.stop()
		case <-p.done:
		}
	}()

	return p.out
}

type player struct {
	mu        sync.Mutex
	out       chan Frame
	done      chan struct{}
	timers    []*quartz.Timer
	remaining int
	closed    bool
}

func (p *player) emit(f Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.out <- f
	p.remaining--
	if p.remaining == 0 {
		p.closeLocked()
	}
}

func (p *player) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range p.timers {
		t.Stop()
	}
	p.closeLocked()
}

func (p *player) closeLocked() {
	if p.closed {
		return
	}
	p.closed = true
	close(p.out)
	close(p.done)
}
