package rtmp

import "github.com/jionmezc11/RtmpClient/pkg/flv/amf"

// Play params sentinels, the param is not sent when it equals the sentinel
const (
	PlayStartAny    = -2 // live if exists, else recorded
	PlayDurationAll = -1
	PlayResetNone   = -1
)

// Command - name, transaction ID, command object and params.
// NetStream commands are fire and forget, so transaction ID is always zero.
type Command []any

func newCommand(name string, params ...any) Command {
	return append(Command{name, float64(0), nil}, params...)
}

// NewPlay - each optional param is sent only with all previous ones
func NewPlay(name string, start, duration, reset float64) Command {
	cmd := newCommand("play", name)
	if start == PlayStartAny {
		return cmd
	}
	cmd = append(cmd, start)
	if duration == PlayDurationAll {
		return cmd
	}
	cmd = append(cmd, duration)
	if reset == PlayResetNone {
		return cmd
	}
	return append(cmd, reset)
}

func NewPause(pos float64) Command {
	return newCommand("pause", true, pos)
}

func NewResume(pos float64) Command {
	return newCommand("pause", false, pos)
}

func NewSeek(offset float64) Command {
	return newCommand("seek", offset)
}

func NewCloseStream(streamID uint32) Command {
	return newCommand("closeStream", float64(streamID))
}

func (c Command) Name() string {
	return getString(c, 0)
}

func (c Command) Bytes() []byte {
	return amf.EncodeItems(c...)
}
