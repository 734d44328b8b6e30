package protocol

import (
	"encoding/json"
	"testing"

	"github.com/lox/bingo/internal/randutil"
	"github.com/lox/bingo/internal/reveal"
	"github.com/lox/bingo/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(MessageTypeError, ErrorData{Code: CodeGameNotFound, Message: "nope"})
	require.NoError(t, err)
	assert.Equal(t, MessageTypeError, msg.Type)
	assert.False(t, msg.Timestamp.IsZero())

	var data ErrorData
	require.NoError(t, msg.Decode(&data))
	assert.Equal(t, CodeGameNotFound, data.Code)

	empty, err := NewMessage(MessageTypeDraw, nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Data)
	assert.Error(t, empty.Decode(&data))
}

func TestSnapshotJSON(t *testing.T) {
	s, err := session.New(session.DefaultConfig(), randutil.New(1))
	require.NoError(t, err)

	data, err := json.Marshal(Snapshot("g1", s, reveal.DefaultOptions()))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "g1", raw["gameId"])
	assert.Equal(t, "ready", raw["state"])
	assert.Equal(t, float64(75), raw["remaining"])

	b := raw["board"].([]any)
	center := b[2].([]any)[2]
	assert.Equal(t, "FREE", center)

	rv := raw["reveal"].(map[string]any)
	assert.Equal(t, float64(700), rv["durationMs"])
}

func TestDrawResultCelebratesNewBingo(t *testing.T) {
	s, err := session.New(session.DefaultConfig(), randutil.New(2))
	require.NoError(t, err)

	celebrated := 0
	for !s.Exhausted() {
		res, err := s.Draw()
		require.NoError(t, err)

		d := DrawResultFrom("g", s, res, reveal.DefaultOptions())
		assert.NotNil(t, d.Cells)
		if d.Counters.NewBingo {
			require.NotNil(t, d.Celebration)
			assert.Equal(t, DefaultCelebration(), *d.Celebration)
			celebrated++
		} else {
			assert.Nil(t, d.Celebration)
		}
		for _, l := range d.Lines {
			assert.NotEqual(t, "none", l.Status.String())
		}
	}
	assert.Positive(t, celebrated)
}
