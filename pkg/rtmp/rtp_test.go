package rtmp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAudioPacket(t *testing.T) {
	ev := AudioReceived{
		TimeMS:  1000,
		Payload: []byte{1, 2, 3},
		Info:    AudioInfo{Format: AudioAAC, SampleRate: 48000, Channels: 2},
	}

	pkt := ev.Packet()
	require.Equal(t, uint8(2), pkt.Version)
	require.Equal(t, uint32(48000), pkt.Timestamp)
	require.Equal(t, ev.Payload, pkt.Payload)
	require.False(t, pkt.Marker)

	// unknown sample rate keeps milliseconds
	ev.Info = AudioInfo{}
	require.Equal(t, uint32(1000), ev.Packet().Timestamp)
}

func TestVideoPacket(t *testing.T) {
	ev := VideoReceived{
		DecodeTime:       1000,
		PresentationTime: 1040,
		Keyframe:         true,
		Payload:          []byte{0, 0, 0, 1, 0x65},
	}

	pkt := ev.Packet()
	require.True(t, pkt.Marker)
	require.Equal(t, uint32(93600), pkt.Timestamp)
	require.Equal(t, ev.Payload, pkt.Payload)

	b, err := pkt.Marshal()
	require.Nil(t, err)
	require.Len(t, b, 12+len(ev.Payload))
}
