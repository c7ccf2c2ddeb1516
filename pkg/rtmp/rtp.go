package rtmp

import (
	"github.com/jionmezc11/RtmpClient/pkg/flv"
	"github.com/pion/rtp"
)

const ClockRateVideo = 90000

// Packet - payload is shared with the event, clock rate is the sample rate
func (e AudioReceived) Packet() *rtp.Packet {
	clockRate := e.Info.SampleRate
	if clockRate == 0 {
		clockRate = 1000
	}
	return &rtp.Packet{
		Header: rtp.Header{
			Version:   2,
			Timestamp: flv.TimeToRTP(e.TimeMS, clockRate),
		},
		Payload: e.Payload,
	}
}

// Packet - whole access unit in one packet, so marker is always set
func (e VideoReceived) Packet() *rtp.Packet {
	return &rtp.Packet{
		Header: rtp.Header{
			Version:   2,
			Marker:    true,
			Timestamp: flv.TimeToRTP(e.PresentationTime, ClockRateVideo),
		},
		Payload: e.Payload,
	}
}
