package rtmp

import (
	"context"
	"time"

	"github.com/jionmezc11/RtmpClient/internal/app"
	"github.com/jionmezc11/RtmpClient/pkg/rtmp"
	"github.com/rs/zerolog"
)

type config struct {
	URL      string        `yaml:"url"`
	Start    float64       `yaml:"start"`
	Duration float64       `yaml:"duration"`
	Reset    float64       `yaml:"reset"`
	Timeout  time.Duration `yaml:"timeout"`
}

var log zerolog.Logger

var client *rtmp.Client
var stream *rtmp.Stream

func Init() {
	var conf struct {
		Mod config `yaml:"rtmp"`
	}

	conf.Mod.Start = rtmp.PlayStartAny
	conf.Mod.Duration = rtmp.PlayDurationAll
	conf.Mod.Reset = rtmp.PlayResetNone
	conf.Mod.Timeout = 5 * time.Second

	app.LoadConfig(&conf)

	log = app.GetLogger("rtmp")

	if conf.Mod.URL == "" {
		log.Info().Msg("[rtmp] url not set")
		return
	}

	var err error
	if client, stream, err = open(conf.Mod); err != nil {
		log.Error().Err(err).Caller().Send()
		return
	}

	go func() {
		err := client.Serve()
		log.Debug().Err(err).Msg("[rtmp] serve")
	}()
}

// Close detaches the stream and closes the connection
func Close() {
	if client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := stream.Detach(ctx); err != nil {
		log.Warn().Err(err).Msg("[rtmp] close stream")
	}

	_ = client.Close()
}

func open(conf config) (*rtmp.Client, *rtmp.Stream, error) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.Timeout)
	defer cancel()

	log.Debug().Str("url", conf.URL).Msg("[rtmp] dial")

	c, err := rtmp.Dial(ctx, conf.URL)
	if err != nil {
		return nil, nil, err
	}

	s := rtmp.NewStream()
	s.Listen(handleEvent)

	if err = s.Attach(ctx, c); err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	log.Info().Str("app", c.App).Str("stream", c.Stream).Msg("[rtmp] play")

	if err = s.Play(ctx, c.Stream, conf.Start, conf.Duration, conf.Reset); err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	return c, s, nil
}

func handleEvent(ev rtmp.Event) {
	switch ev := ev.(type) {
	case rtmp.AudioStarted:
		log.Info().Str("codec", ev.Info.Format.String()).Uint32("rate", ev.Info.SampleRate).
			Uint16("channels", ev.Info.Channels).Uint16("bits", ev.Info.BitsPerSample).Msg("[rtmp] audio")

	case rtmp.VideoStarted:
		log.Info().Str("codec", ev.Info.Format.String()).
			Uint16("width", ev.Info.Width).Uint16("height", ev.Info.Height).Msg("[rtmp] video")

	case rtmp.AudioReceived:
		if e := log.Trace(); e.Enabled() {
			pkt := ev.Packet()
			e.Uint32("time", ev.TimeMS).Uint32("rtp", pkt.Timestamp).Int("size", len(ev.Payload)).Msg("[rtmp] audio packet")
		}

	case rtmp.VideoReceived:
		if e := log.Trace(); e.Enabled() {
			pkt := ev.Packet()
			e.Uint32("dts", ev.DecodeTime).Uint32("pts", ev.PresentationTime).Uint32("rtp", pkt.Timestamp).
				Bool("key", ev.Keyframe).Int("size", len(ev.Payload)).Msg("[rtmp] video packet")
		}

	case rtmp.StatusUpdated:
		log.Info().Str("code", ev.Raw).Msg("[rtmp] status")

	case rtmp.MetadataReceived:
		log.Debug().Interface("values", ev.Values).Msg("[rtmp] metadata")

	case rtmp.Attached:
		log.Debug().Uint32("stream", ev.StreamID).Msg("[rtmp] attached")

	case rtmp.Detached:
		log.Debug().Uint32("stream", ev.StreamID).Msg("[rtmp] detached")

	case rtmp.MessageDropped:
		log.Warn().Err(ev.Err).Uint8("type", ev.Type).Uint32("time", ev.TimeMS).Msg("[rtmp] drop message")
	}
}
