package rtmp

import (
	"fmt"

	"github.com/jionmezc11/RtmpClient/pkg/flv/amf"
)

// Demuxer keeps format state of one stream and turns messages into events.
// It returns an error only for malformed messages and doesn't change state in this case.
// Aggregate messages are the exception: records before the broken one keep their effects.
type Demuxer struct {
	audio      AudioInfo
	audioKnown bool

	video      VideoInfo
	videoKnown bool

	lengthSize int    // AVC NALU length size from sequence header
	sampleRate uint32 // audiosamplerate from onMetaData, 0 - absent
}

func (d *Demuxer) Demux(msg *Message) ([]Event, error) {
	switch msg.Type {
	case TypeAudio:
		return d.demuxAudio(msg)
	case TypeVideo:
		return d.demuxVideo(msg)
	case TypeData, TypeDataAMF3:
		return d.demuxData(msg)
	case TypeCommand, TypeCommandAMF3:
		return d.demuxCommand(msg)
	case TypeAggregate:
		return d.demuxAggregate(msg)
	}
	return nil, nil
}

func (d *Demuxer) AudioInfo() AudioInfo {
	return d.audio
}

func (d *Demuxer) VideoInfo() VideoInfo {
	return d.video
}

// SampleRateHint - audiosamplerate from last onMetaData
func (d *Demuxer) SampleRateHint() uint32 {
	return d.sampleRate
}

func decodeAMF(msg *Message) ([]any, error) {
	b := msg.Payload

	if msg.Type == TypeDataAMF3 || msg.Type == TypeCommandAMF3 {
		// format selector byte, the body is still AMF0
		if len(b) == 0 {
			return nil, fmt.Errorf("%w: amf3 selector", ErrShortPayload)
		}
		b = b[1:]
	}

	items, err := amf.NewReader(b).ReadItems()
	if err != nil {
		return nil, fmt.Errorf("rtmp: decode message type %d: %w", msg.Type, err)
	}
	return items, nil
}

func getString(items []any, i int) string {
	if i < len(items) {
		s, _ := items[i].(string)
		return s
	}
	return ""
}

func getObject(items []any, i int) map[string]any {
	if i < len(items) {
		obj, _ := items[i].(map[string]any)
		return obj
	}
	return nil
}
