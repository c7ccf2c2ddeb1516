package rtmp

// Event - closed set of notifications fired by Stream
type Event interface {
	event()
}

// AudioStarted - audio format became known or AAC config was received
type AudioStarted struct {
	Info AudioInfo
}

type AudioReceived struct {
	TimeMS  uint32
	Payload []byte
	Info    AudioInfo
}

// VideoStarted - video format became known or AVC sequence header was received
type VideoStarted struct {
	Info VideoInfo
}

// VideoReceived - for AVC payload is Annex B (start code before each NAL unit)
type VideoReceived struct {
	DecodeTime       uint32
	PresentationTime uint32
	Keyframe         bool
	Payload          []byte
	Info             VideoInfo
}

type StatusUpdated struct {
	Code StatusCode
	Raw  string
}

type MetadataReceived struct {
	Values map[string]any
}

type Attached struct {
	StreamID uint32
}

type Detached struct {
	StreamID uint32
}

// MessageDropped - malformed message was skipped, stream state is untouched.
// Type and TimeMS are taken from the failed record for aggregate message,
// events of its other records are still fired.
type MessageDropped struct {
	Type   byte
	TimeMS uint32
	Err    error
}

func (AudioStarted) event()     {}
func (AudioReceived) event()    {}
func (VideoStarted) event()     {}
func (VideoReceived) event()    {}
func (StatusUpdated) event()    {}
func (MetadataReceived) event() {}
func (Attached) event()         {}
func (Detached) event()         {}
func (MessageDropped) event()   {}
