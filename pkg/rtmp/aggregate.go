package rtmp

import (
	"errors"
	"fmt"

	"github.com/jionmezc11/RtmpClient/pkg/flv"
)

// demuxAggregate unpacks FLV tags: header (11 bytes), data, previous tag size (4 bytes).
// Record timestamps replace the timestamp of the aggregate message.
func (d *Demuxer) demuxAggregate(msg *Message) ([]Event, error) {
	b := msg.Payload
	if len(b) < flv.TagHeaderSize {
		return nil, nil
	}

	var events []Event
	var errs []error

	for len(b) > 0 {
		hdr, err := flv.ReadTagHeader(b)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: header", ErrShortAggregate))
			break
		}
		b = b[flv.TagHeaderSize:]

		if uint32(len(b)) < hdr.DataSize {
			errs = append(errs, fmt.Errorf("%w: data", ErrShortAggregate))
			break
		}

		sub := &Message{
			Type:     hdr.Type,
			TimeMS:   hdr.TimeMS,
			StreamID: msg.StreamID,
			Payload:  b[:hdr.DataSize],
		}
		b = b[hdr.DataSize:]

		if len(b) < flv.PrevTagSizeSize {
			b = nil
		} else {
			b = b[flv.PrevTagSizeSize:]
		}

		switch sub.Type {
		case TypeAudio, TypeVideo, TypeData:
			subEvents, err := d.Demux(sub)
			if err != nil {
				errs = append(errs, &RecordError{Type: sub.Type, TimeMS: sub.TimeMS, Err: err})
				continue
			}
			events = append(events, subEvents...)
		}
	}

	return events, errors.Join(errs...)
}

// RecordError - failed FLV tag inside aggregate message
type RecordError struct {
	Type   byte
	TimeMS uint32
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("rtmp: aggregate record type=%d time=%d: %v", e.Type, e.TimeMS, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
