package rtmp

import (
	"bytes"
	"fmt"

	"github.com/jionmezc11/RtmpClient/pkg/flv"
	"github.com/jionmezc11/RtmpClient/pkg/h264/avc"
)

const defaultLengthSize = 4

func (d *Demuxer) demuxVideo(msg *Message) ([]Event, error) {
	b := msg.Payload
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: video byte", ErrShortPayload)
	}

	frameType, codecID := flv.ParseVideoByte(b[0])
	keyframe := frameType == flv.FrameKey

	if codecID == flv.CodecAVC {
		return d.demuxAVC(msg, keyframe)
	}

	var events []Event

	if !d.videoKnown {
		d.video = VideoInfo{Format: VideoFormat(codecID)}
		d.videoKnown = true
		events = append(events, VideoStarted{Info: d.video})
	}

	events = append(events, VideoReceived{
		DecodeTime:       msg.TimeMS,
		PresentationTime: msg.TimeMS,
		Keyframe:         keyframe,
		Payload:          b[1:],
		Info:             d.video,
	})
	return events, nil
}

// demuxAVC - video byte, AVCPacketType, CompositionTime (SI24), data
func (d *Demuxer) demuxAVC(msg *Message, keyframe bool) ([]Event, error) {
	b := msg.Payload
	if len(b) < 5 {
		return nil, fmt.Errorf("%w: avc header", ErrShortPayload)
	}

	switch b[1] {
	case flv.PacketTypeSequenceHeader:
		conf, err := avc.DecodeConfig(b[5:])
		if err != nil {
			return nil, fmt.Errorf("rtmp: avc config: %w", err)
		}

		info := VideoInfo{Format: VideoAVC}
		if len(conf.SPS) > 0 {
			// copy, because payload belongs to the message
			info.SPS = bytes.Clone(conf.SPS[0])
			info.Width, info.Height, _ = avc.Dimensions(info.SPS)
		}
		if len(conf.PPS) > 0 {
			info.PPS = bytes.Clone(conf.PPS[0])
		}

		d.video = info
		d.lengthSize = conf.LengthSize
		return []Event{VideoStarted{Info: d.video}}, nil

	case flv.PacketTypeRaw:
		lengthSize := d.lengthSize
		if lengthSize == 0 {
			lengthSize = defaultLengthSize
		}

		payload, err := avc.ToAnnexB(b[5:], lengthSize)
		if err != nil {
			return nil, fmt.Errorf("rtmp: avc nalu: %w", err)
		}

		pts := int64(msg.TimeMS) + int64(flv.CompositionTime(b[2:5]))
		if pts < 0 {
			pts = 0
		}

		return []Event{VideoReceived{
			DecodeTime:       msg.TimeMS,
			PresentationTime: uint32(pts),
			Keyframe:         keyframe,
			Payload:          payload,
			Info:             d.video,
		}}, nil
	}

	// end of sequence and unknown packet types
	return nil, nil
}
