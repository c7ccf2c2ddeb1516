package rtmp

import (
	"testing"

	"github.com/jionmezc11/RtmpClient/pkg/flv/amf"
	"github.com/stretchr/testify/require"
)

func TestNewPlay(t *testing.T) {
	tests := []struct {
		name     string
		start    float64
		duration float64
		reset    float64
		expect   Command
	}{
		{"name only", -2, -1, -1, Command{"play", float64(0), nil, "clip"}},
		{"start", 3, -1, -1, Command{"play", float64(0), nil, "clip", float64(3)}},
		{"start and duration", 3, 10, -1, Command{"play", float64(0), nil, "clip", float64(3), float64(10)}},
		{"all params", 3, 10, 0, Command{"play", float64(0), nil, "clip", float64(3), float64(10), float64(0)}},
		{"duration without start", -2, 10, 0, Command{"play", float64(0), nil, "clip"}},
		{"reset without duration", -1, -1, 1, Command{"play", float64(0), nil, "clip", float64(-1)}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cmd := NewPlay("clip", test.start, test.duration, test.reset)
			require.Equal(t, test.expect, cmd)
			require.Equal(t, "play", cmd.Name())
		})
	}
}

func TestNewPause(t *testing.T) {
	pause := NewPause(1500)
	resume := NewResume(1500)

	require.Equal(t, Command{"pause", float64(0), nil, true, float64(1500)}, pause)
	require.Equal(t, Command{"pause", float64(0), nil, false, float64(1500)}, resume)
	require.Equal(t, pause.Name(), resume.Name())
}

func TestNewSeek(t *testing.T) {
	require.Equal(t, Command{"seek", float64(0), nil, float64(2500)}, NewSeek(2500))
	require.Equal(t, Command{"closeStream", float64(0), nil, float64(7)}, NewCloseStream(7))
}

func TestCommandBytes(t *testing.T) {
	commands := []Command{
		NewPlay("clip", -2, -1, -1),
		NewPlay("live/cam?token=123", 0, 60.5, 1),
		NewPause(0),
		NewResume(12.25),
		NewSeek(1000),
		NewCloseStream(1),
	}

	for _, cmd := range commands {
		items, err := amf.NewReader(cmd.Bytes()).ReadItems()
		require.Nil(t, err)
		require.Equal(t, []any(cmd), items)
	}
}
