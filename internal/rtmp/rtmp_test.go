package rtmp

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/jionmezc11/RtmpClient/pkg/rtmp"
	"github.com/jionmezc11/RtmpClient/pkg/tcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestHandleEvent(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	buf := bytes.NewBuffer(nil)
	log = zerolog.New(buf).Level(zerolog.DebugLevel)

	handleEvent(rtmp.AudioStarted{Info: rtmp.AudioInfo{
		Format: rtmp.AudioAAC, SampleRate: 48000, Channels: 2, BitsPerSample: 16,
	}})
	require.Equal(t, `{"level":"info","codec":"AAC","rate":48000,"channels":2,"bits":16,"message":"[rtmp] audio"}`+"\n", buf.String())

	buf.Reset()
	handleEvent(rtmp.StatusUpdated{Code: rtmp.StatusPlayStart, Raw: "NetStream.Play.Start"})
	require.Equal(t, `{"level":"info","code":"NetStream.Play.Start","message":"[rtmp] status"}`+"\n", buf.String())

	buf.Reset()
	handleEvent(rtmp.MessageDropped{Type: rtmp.TypeVideo, TimeMS: 40, Err: errors.New("rtmp: short payload")})
	require.Equal(t, `{"level":"warn","error":"rtmp: short payload","type":9,"time":40,"message":"[rtmp] drop message"}`+"\n", buf.String())

	// packets are logged only with trace level
	buf.Reset()
	handleEvent(rtmp.VideoReceived{DecodeTime: 40, PresentationTime: 80, Payload: []byte{1}})
	require.Equal(t, 0, buf.Len())

	log = log.Level(zerolog.TraceLevel)
	handleEvent(rtmp.VideoReceived{DecodeTime: 40, PresentationTime: 80, Keyframe: true, Payload: []byte{1}})
	require.Equal(t, `{"level":"trace","dts":40,"pts":80,"rtp":7200,"key":true,"size":1,"message":"[rtmp] video packet"}`+"\n", buf.String())

	buf.Reset()
	handleEvent(rtmp.AudioReceived{TimeMS: 1000, Payload: []byte{1, 2}, Info: rtmp.AudioInfo{SampleRate: 8000}})
	require.Equal(t, `{"level":"trace","time":1000,"rtp":8000,"size":2,"message":"[rtmp] audio packet"}`+"\n", buf.String())
}

func TestOpenError(t *testing.T) {
	log = zerolog.Nop()

	_, _, err := open(config{URL: "rtsp://localhost/live/cam", Timeout: time.Second})
	require.ErrorIs(t, err, tcp.ErrScheme)
}

func TestClose(t *testing.T) {
	client = nil
	Close()
}
