package rtmp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jionmezc11/RtmpClient/pkg/flv/amf"
	"github.com/jionmezc11/RtmpClient/pkg/tcp"
)

const (
	DefaultPort = "1935"
	BufferSize  = 64 * 1024

	handshakeSize = 1536
	wrPacketSize  = 4096 // OBS - 4096, Reolink - 4096
)

var _ Connection = (*Client)(nil)

// Client - NetConnection with simple handshake, can carry many streams
type Client struct {
	App    string
	Stream string // stream name with query from URL path
	URL    string

	conn net.Conn
	rw   *conn

	mu      sync.Mutex
	transID float64
	serving bool
	pending map[float64]chan []any
	streams map[uint32]*Stream
	done    chan struct{}
}

func Dial(ctx context.Context, rawURL string) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	conn, err := tcp.Dial(ctx, u, DefaultPort)
	if err != nil {
		return nil, err
	}

	c := NewClient(conn, u)

	if err = c.Connect(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return c, nil
}

func NewClient(conn net.Conn, u *url.URL) *Client {
	c := &Client{
		URL:     u.String(),
		conn:    conn,
		rw:      newConn(bufio.NewReaderSize(conn, BufferSize), conn),
		pending: map[float64]chan []any{},
		streams: map[uint32]*Stream{},
		done:    make(chan struct{}),
	}

	// tcUrl should be without stream name
	if args := strings.Split(u.Path, "/"); len(args) >= 2 {
		c.App = args[1]
		if len(args) >= 3 {
			c.Stream = strings.Join(args[2:], "/")
			if u.RawQuery != "" {
				c.Stream += "?" + u.RawQuery
			}
		}
	}

	return c
}

// Connect - handshake, packet size and connect command
func (c *Client) Connect(ctx context.Context) error {
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetDeadline(deadline)
		defer c.conn.SetDeadline(time.Time{})
	}

	if err := c.handshake(); err != nil {
		return err
	}
	if err := c.rw.writePacketSize(wrPacketSize); err != nil {
		return err
	}

	v, err := c.request(ctx, "connect", map[string]any{
		"app":           c.App,
		"flashVer":      "LNX 9,0,124,2",
		"tcUrl":         c.tcURL(),
		"fpad":          false,
		"capabilities":  float64(15),
		"audioCodecs":   float64(4071),
		"videoCodecs":   float64(252),
		"videoFunction": float64(1),
	})
	if err != nil {
		return err
	}

	if code := getCode(v); code != "NetConnection.Connect.Success" {
		return fmt.Errorf("%w: connect %s", ErrResponse, code)
	}

	return nil
}

func (c *Client) tcURL() string {
	u, err := url.Parse(c.URL)
	if err != nil {
		return c.URL
	}
	u.Path = "/" + c.App
	u.RawQuery = ""
	return u.String()
}

func (c *Client) handshake() error {
	// simple handshake without real random and check response
	b := make([]byte, 1+handshakeSize)
	b[0] = 0x03
	// write C0+C1
	if _, err := c.conn.Write(b); err != nil {
		return err
	}
	// read S0+S1
	if _, err := io.ReadFull(c.rw.rd, b); err != nil {
		return err
	}
	if b[0] != 0x03 {
		return fmt.Errorf("%w: handshake version %d", ErrResponse, b[0])
	}
	// write S1 as C2
	if _, err := c.conn.Write(b[1:]); err != nil {
		return err
	}
	// read S2, skip check
	if _, err := io.ReadFull(c.rw.rd, b[1:]); err != nil {
		return err
	}
	return nil
}

// request sends NetConnection command and waits for _result or _error with same transaction ID.
// Before Serve it reads the connection itself, after - waits for Serve to deliver the response.
func (c *Client) request(ctx context.Context, name string, cmdObj any, params ...any) ([]any, error) {
	c.mu.Lock()
	c.transID++
	transID := c.transID

	var ch chan []any
	if c.serving {
		ch = make(chan []any, 1)
		c.pending[transID] = ch
	}
	c.mu.Unlock()

	items := append([]any{name, transID, cmdObj}, params...)
	if err := c.rw.writeMessage(chunkCommand, TypeCommand, 0, 0, amf.EncodeItems(items...)); err != nil {
		c.forget(transID)
		return nil, err
	}

	if ch == nil {
		return c.readResponse(ctx, transID)
	}

	select {
	case v := <-ch:
		return checkResult(v)
	case <-ctx.Done():
		c.forget(transID)
		return nil, ctx.Err()
	case <-c.done:
		return nil, net.ErrClosed
	}
}

func (c *Client) forget(transID float64) {
	c.mu.Lock()
	delete(c.pending, transID)
	c.mu.Unlock()
}

func (c *Client) readResponse(ctx context.Context, transID float64) ([]any, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetReadDeadline(deadline)
		defer c.conn.SetReadDeadline(time.Time{})
	}

	for {
		msg, err := c.rw.readMessage()
		if err != nil {
			return nil, err
		}

		if ok, err := c.rw.handleControl(msg); ok {
			if err != nil {
				return nil, err
			}
			continue
		}

		if v := parseResult(msg); v != nil && v[1] == transID {
			return checkResult(v)
		}

		c.route(msg)
	}
}

// parseResult returns items of _result or _error command
func parseResult(msg *Message) []any {
	if msg.Type != TypeCommand || msg.StreamID != 0 {
		return nil
	}
	v, err := amf.NewReader(msg.Payload).ReadItems()
	if err != nil || len(v) < 3 {
		return nil
	}
	if name := getString(v, 0); name != "_result" && name != "_error" {
		return nil
	}
	if _, ok := v[1].(float64); !ok {
		return nil
	}
	return v
}

func checkResult(v []any) ([]any, error) {
	if getString(v, 0) == "_error" {
		return nil, fmt.Errorf("%w: %s", ErrResponse, getCode(v))
	}
	return v, nil
}

func getCode(v []any) string {
	if obj := getObject(v, 3); obj != nil {
		s, _ := obj["code"].(string)
		return s
	}
	return ""
}

func (c *Client) AttachStream(ctx context.Context, s *Stream) (uint32, error) {
	v, err := c.request(ctx, "createStream", nil)
	if err != nil {
		return 0, err
	}

	if len(v) < 4 {
		return 0, fmt.Errorf("%w: createStream %v", ErrResponse, v)
	}

	f, ok := v[3].(float64)
	if !ok {
		return 0, fmt.Errorf("%w: createStream %v", ErrResponse, v)
	}

	streamID := uint32(f)

	c.mu.Lock()
	c.streams[streamID] = s
	c.mu.Unlock()

	return streamID, nil
}

func (c *Client) DetachStream(s *Stream) {
	c.mu.Lock()
	for id, stream := range c.streams {
		if stream == s {
			delete(c.streams, id)
		}
	}
	c.mu.Unlock()
}

func (c *Client) SendCommand(ctx context.Context, streamID uint32, cmd Command) error {
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
		defer c.conn.SetWriteDeadline(time.Time{})
	}
	return c.rw.writeMessage(chunkStream, TypeCommand, 0, streamID, cmd.Bytes())
}

// Serve reads messages until error. Stream handlers are called from this goroutine.
func (c *Client) Serve() error {
	c.mu.Lock()
	c.serving = true
	c.mu.Unlock()

	defer close(c.done)

	for {
		msg, err := c.rw.readMessage()
		if err != nil {
			return err
		}

		if ok, err := c.rw.handleControl(msg); ok {
			if err != nil {
				return err
			}
			continue
		}

		if v := parseResult(msg); v != nil {
			transID := v[1].(float64)

			c.mu.Lock()
			ch := c.pending[transID]
			delete(c.pending, transID)
			c.mu.Unlock()

			if ch != nil {
				ch <- v
			}
			continue
		}

		c.route(msg)
	}
}

func (c *Client) route(msg *Message) {
	c.mu.Lock()
	s := c.streams[msg.StreamID]
	c.mu.Unlock()

	if s != nil {
		// errors are reported to the stream listeners
		_ = s.Route(msg)
	}
}

func (c *Client) Close() error {
	return c.conn.Close()
}
