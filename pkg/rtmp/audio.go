package rtmp

import (
	"fmt"

	"github.com/jionmezc11/RtmpClient/pkg/aac"
	"github.com/jionmezc11/RtmpClient/pkg/flv"
)

func (d *Demuxer) demuxAudio(msg *Message) ([]Event, error) {
	b := msg.Payload
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: sound info", ErrShortPayload)
	}

	si := flv.ParseSoundInfo(b[0])

	if si.Format == flv.SoundAAC {
		return d.demuxAAC(msg, si)
	}

	var events []Event

	if !d.audioKnown {
		d.audio = AudioInfo{
			Format:        AudioFormat(si.Format),
			SampleRate:    si.SampleRate(),
			Channels:      si.Channels(),
			BitsPerSample: si.BitsPerSample(),
		}
		d.audioKnown = true
		events = append(events, AudioStarted{Info: d.audio})
	}

	events = append(events, AudioReceived{TimeMS: msg.TimeMS, Payload: b[1:], Info: d.audio})
	return events, nil
}

// demuxAAC never touches audioKnown, so each config re-fires AudioStarted
func (d *Demuxer) demuxAAC(msg *Message, si flv.SoundInfo) ([]Event, error) {
	b := msg.Payload
	if len(b) < 2 {
		return nil, fmt.Errorf("%w: aac packet type", ErrShortPayload)
	}

	switch b[1] {
	case flv.PacketTypeRaw:
		return []Event{AudioReceived{TimeMS: msg.TimeMS, Payload: b[2:], Info: d.audio}}, nil

	case flv.PacketTypeSequenceHeader:
		conf, err := aac.DecodeConfig(b[2:])
		if err != nil {
			return nil, fmt.Errorf("rtmp: aac config: %w", err)
		}

		d.audio = AudioInfo{
			Format:        AudioAAC,
			SampleRate:    conf.SampleRate,
			Channels:      conf.Channels,
			BitsPerSample: si.BitsPerSample(),
		}
		if d.sampleRate != 0 {
			d.audio.SampleRate = d.sampleRate
		}
		return []Event{AudioStarted{Info: d.audio}}, nil
	}

	return nil, nil
}
