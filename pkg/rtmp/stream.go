package rtmp

import (
	"context"
	"errors"
)

// Connection - NetConnection side of the stream, Client implements it
type Connection interface {
	// AttachStream creates new stream on the server and returns its ID
	AttachStream(ctx context.Context, s *Stream) (uint32, error)
	DetachStream(s *Stream)
	SendCommand(ctx context.Context, streamID uint32, cmd Command) error
}

type EventFunc func(ev Event)

// Stream - one NetStream session. Not safe for concurrent use: messages
// and commands should come from one goroutine or be synchronized outside.
type Stream struct {
	demuxer Demuxer

	conn     Connection
	streamID uint32

	handlers []EventFunc
}

func NewStream() *Stream {
	return &Stream{}
}

func (s *Stream) Listen(f EventFunc) {
	s.handlers = append(s.handlers, f)
}

func (s *Stream) fire(ev Event) {
	for _, f := range s.handlers {
		f(ev)
	}
}

func (s *Stream) ID() uint32 {
	return s.streamID
}

func (s *Stream) IsAttached() bool {
	return s.conn != nil
}

func (s *Stream) AudioInfo() AudioInfo {
	return s.demuxer.AudioInfo()
}

func (s *Stream) VideoInfo() VideoInfo {
	return s.demuxer.VideoInfo()
}

func (s *Stream) Attach(ctx context.Context, conn Connection) error {
	if s.conn != nil {
		return ErrAttached
	}

	streamID, err := conn.AttachStream(ctx, s)
	if err != nil {
		return err
	}

	s.conn = conn
	s.streamID = streamID
	s.fire(Attached{StreamID: streamID})
	return nil
}

// Detach sends closeStream and releases the connection even if sending fails
func (s *Stream) Detach(ctx context.Context) error {
	if s.conn == nil {
		return nil
	}

	err := s.conn.SendCommand(ctx, s.streamID, NewCloseStream(s.streamID))

	s.conn.DetachStream(s)
	s.conn = nil
	s.fire(Detached{StreamID: s.streamID})

	return err
}

// Play - optional params are start, duration and reset
func (s *Stream) Play(ctx context.Context, name string, params ...float64) error {
	start, duration, reset := float64(PlayStartAny), float64(PlayDurationAll), float64(PlayResetNone)
	switch {
	case len(params) >= 3:
		reset = params[2]
		fallthrough
	case len(params) == 2:
		duration = params[1]
		fallthrough
	case len(params) == 1:
		start = params[0]
	}
	return s.send(ctx, NewPlay(name, start, duration, reset))
}

func (s *Stream) Pause(ctx context.Context, pos float64) error {
	return s.send(ctx, NewPause(pos))
}

func (s *Stream) Resume(ctx context.Context, pos float64) error {
	return s.send(ctx, NewResume(pos))
}

func (s *Stream) Seek(ctx context.Context, offset float64) error {
	return s.send(ctx, NewSeek(offset))
}

func (s *Stream) send(ctx context.Context, cmd Command) error {
	if s.conn == nil {
		return nil
	}
	return s.conn.SendCommand(ctx, s.streamID, cmd)
}

// Route demuxes message and fires events. Malformed message is reported
// with MessageDropped event and returned error, the stream stays usable.
// For aggregate message MessageDropped is fired for each failed record.
func (s *Stream) Route(msg *Message) error {
	events, err := s.demuxer.Demux(msg)
	for _, ev := range events {
		s.fire(ev)
	}
	if err == nil {
		return nil
	}

	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}

	for _, e := range errs {
		dropped := MessageDropped{Type: msg.Type, TimeMS: msg.TimeMS, Err: e}
		var rec *RecordError
		if errors.As(e, &rec) {
			dropped.Type = rec.Type
			dropped.TimeMS = rec.TimeMS
		}
		s.fire(dropped)
	}

	return err
}
