package rtmp

import (
	"errors"
	"fmt"
)

// https://rtmp.veriskope.com/docs/spec/#54-protocol-control-messages
const (
	TypeSetPacketSize   = 1
	TypeAbort           = 2
	TypeAck             = 3
	TypeControl         = 4
	TypeServerBandwidth = 5 // window acknowledgement size
	TypeClientBandwidth = 6 // set peer bandwidth
	TypeAudio           = 8
	TypeVideo           = 9
	TypeDataAMF3        = 15
	TypeCommandAMF3     = 17
	TypeData            = 18
	TypeCommand         = 20
	TypeAggregate       = 22
)

var (
	ErrShortPayload   = errors.New("rtmp: short payload")
	ErrShortAggregate = errors.New("rtmp: short aggregate record")
	ErrWrongData      = errors.New("rtmp: wrong data message")
	ErrResponse       = errors.New("rtmp: wrong response")
	ErrAttached       = errors.New("rtmp: stream already attached")
)

// Message - one complete message of a single stream, already reassembled from chunks
type Message struct {
	Type     byte
	TimeMS   uint32
	StreamID uint32
	Payload  []byte
}

func (m *Message) String() string {
	return fmt.Sprintf("type=%d time=%d stream=%d size=%d", m.Type, m.TimeMS, m.StreamID, len(m.Payload))
}

func PutUint24(b []byte, v uint32) {
	_ = b[2]
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

func Uint24(b []byte) uint32 {
	_ = b[2]
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}
