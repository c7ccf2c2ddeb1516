package rtmp

import (
	"encoding/binary"
	"fmt"
	"io"
	"slices"
	"sync"
)

const (
	chunkControl = 2 // protocol control messages
	chunkCommand = 3 // NetConnection commands
	chunkStream  = 8 // NetStream commands

	defaultPacketSize = 128
	maxPacketSize     = 0xFFFFFF

	readStep = 4096
)

// conn - chunk stream reader and writer
type conn struct {
	rd io.Reader
	wr io.Writer

	rdPacketSize uint32
	wrPacketSize uint32

	// acknowledgement window from the peer, 0 - don't send acks
	ackWindow uint32
	ackSent   uint32
	rdBytes   uint32

	chunks map[uint32]*chunk

	wrBuf []byte
	wrMu  sync.Mutex
}

func newConn(rd io.Reader, wr io.Writer) *conn {
	return &conn{
		rd:           rd,
		wr:           wr,
		rdPacketSize: defaultPacketSize,
		wrPacketSize: defaultPacketSize,
		chunks:       map[uint32]*chunk{},
	}
}

type chunk struct {
	rawTime  uint32
	timeMS   uint32
	delta    uint32
	dataSize uint32
	tagType  byte
	streamID uint32

	data []byte // nil - no message in progress
}

func (c *conn) readSize(n uint32) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(c.rd, b); err != nil {
		return nil, err
	}
	c.rdBytes += n
	return b, nil
}

// readData appends n bytes to the message. Buffer grows with received bytes
// only, declared message size is not trusted.
func (c *conn) readData(ch *chunk, n uint32) error {
	for n > 0 {
		step := min(n, readStep)
		i := len(ch.data)
		ch.data = slices.Grow(ch.data, int(step))[:i+int(step)]
		if _, err := io.ReadFull(c.rd, ch.data[i:]); err != nil {
			ch.data = ch.data[:i]
			return err
		}
		c.rdBytes += step
		n -= step
	}
	return nil
}

// readBasicHeader - fmt 2 bits and chunk stream ID in 1, 2 or 3 bytes
func (c *conn) readBasicHeader() (hdrType byte, chunkID uint32, err error) {
	b, err := c.readSize(1)
	if err != nil {
		return 0, 0, err
	}

	hdrType = b[0] >> 6

	switch chunkID = uint32(b[0] & 0b111111); chunkID {
	case 0:
		if b, err = c.readSize(1); err != nil {
			return 0, 0, err
		}
		chunkID = 64 + uint32(b[0])
	case 1:
		if b, err = c.readSize(2); err != nil {
			return 0, 0, err
		}
		chunkID = 64 + uint32(b[0]) + uint32(b[1])<<8
	}

	return
}

func (c *conn) readExtendedTime(ch *chunk) (uint32, error) {
	if ch.rawTime != 0xFFFFFF {
		return ch.rawTime, nil
	}
	b, err := c.readSize(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (c *conn) readHeader(ch *chunk, hdrType byte) error {
	switch hdrType {
	case 0: // 11 bytes - absolute time, size, type, stream ID
		b, err := c.readSize(11)
		if err != nil {
			return err
		}
		ch.rawTime = Uint24(b)
		ch.dataSize = Uint24(b[3:])
		ch.tagType = b[6]
		ch.streamID = binary.LittleEndian.Uint32(b[7:])
		if ch.timeMS, err = c.readExtendedTime(ch); err != nil {
			return err
		}
		ch.delta = ch.timeMS

	case 1: // 7 bytes - time delta, size, type
		b, err := c.readSize(7)
		if err != nil {
			return err
		}
		ch.rawTime = Uint24(b)
		ch.dataSize = Uint24(b[3:])
		ch.tagType = b[6]
		if ch.delta, err = c.readExtendedTime(ch); err != nil {
			return err
		}
		ch.timeMS += ch.delta

	case 2: // 3 bytes - time delta
		b, err := c.readSize(3)
		if err != nil {
			return err
		}
		ch.rawTime = Uint24(b)
		if ch.delta, err = c.readExtendedTime(ch); err != nil {
			return err
		}
		ch.timeMS += ch.delta

	case 3: // header from previous chunk with same ID
		if _, err := c.readExtendedTime(ch); err != nil {
			return err
		}
		if ch.data == nil {
			ch.timeMS += ch.delta
		}
	}

	return nil
}

// readMessage reads chunks until some chunk stream completes its message
func (c *conn) readMessage() (*Message, error) {
	for {
		hdrType, chunkID, err := c.readBasicHeader()
		if err != nil {
			return nil, err
		}

		ch, ok := c.chunks[chunkID]
		if !ok {
			if hdrType != 0 {
				return nil, fmt.Errorf("rtmp: unknown chunk stream %d", chunkID)
			}
			ch = &chunk{}
			c.chunks[chunkID] = ch
		}

		if hdrType != 3 && ch.data != nil {
			return nil, fmt.Errorf("rtmp: new header inside message on chunk stream %d", chunkID)
		}

		if err = c.readHeader(ch, hdrType); err != nil {
			return nil, err
		}

		if ch.data == nil {
			ch.data = []byte{}
		}

		n := ch.dataSize - uint32(len(ch.data))
		if n > c.rdPacketSize {
			n = c.rdPacketSize
		}

		if err = c.readData(ch, n); err != nil {
			return nil, err
		}

		if err = c.checkAck(); err != nil {
			return nil, err
		}

		if uint32(len(ch.data)) < ch.dataSize {
			continue
		}

		msg := &Message{
			Type:     ch.tagType,
			TimeMS:   ch.timeMS,
			StreamID: ch.streamID,
			Payload:  ch.data,
		}
		ch.data = nil
		return msg, nil
	}
}

// handleControl applies protocol control messages, returns false for other messages
func (c *conn) handleControl(msg *Message) (bool, error) {
	switch msg.Type {
	case TypeSetPacketSize:
		if len(msg.Payload) < 4 {
			return true, fmt.Errorf("%w: set packet size", ErrShortPayload)
		}
		size := binary.BigEndian.Uint32(msg.Payload) & 0x7FFFFFFF
		if size == 0 || size > maxPacketSize {
			return true, fmt.Errorf("rtmp: wrong packet size %d", size)
		}
		c.rdPacketSize = size

	case TypeAbort:
		if len(msg.Payload) >= 4 {
			if ch := c.chunks[binary.BigEndian.Uint32(msg.Payload)]; ch != nil {
				ch.data = nil
			}
		}

	case TypeServerBandwidth:
		if len(msg.Payload) >= 4 {
			c.ackWindow = binary.BigEndian.Uint32(msg.Payload)
		}

	case TypeControl:
		// ping request (event 6) should be answered with ping response (event 7)
		if len(msg.Payload) >= 6 && binary.BigEndian.Uint16(msg.Payload) == 6 {
			b := append([]byte{0, 7}, msg.Payload[2:6]...)
			return true, c.writeMessage(chunkControl, TypeControl, 0, 0, b)
		}

	case TypeAck, TypeClientBandwidth:

	default:
		return false, nil
	}

	return true, nil
}

func (c *conn) checkAck() error {
	if c.ackWindow == 0 || c.rdBytes-c.ackSent < c.ackWindow {
		return nil
	}
	c.ackSent = c.rdBytes
	b := binary.BigEndian.AppendUint32(nil, c.rdBytes)
	return c.writeMessage(chunkControl, TypeAck, 0, 0, b)
}

func (c *conn) writeMessage(chunkID, tagType byte, timeMS, streamID uint32, payload []byte) error {
	c.wrMu.Lock()
	defer c.wrMu.Unlock()

	c.wrBuf = c.wrBuf[:0]

	b := payload
	size := uint32(len(b))

	if size > c.wrPacketSize {
		c.appendType0(chunkID, tagType, timeMS, size, streamID, b[:c.wrPacketSize])

		for {
			b = b[c.wrPacketSize:]
			if uint32(len(b)) > c.wrPacketSize {
				c.appendType3(chunkID, b[:c.wrPacketSize])
			} else {
				c.appendType3(chunkID, b)
				break
			}
		}
	} else {
		c.appendType0(chunkID, tagType, timeMS, size, streamID, b)
	}

	_, err := c.wr.Write(c.wrBuf)
	return err
}

func (c *conn) appendType0(chunkID, tagType byte, timeMS, size, streamID uint32, payload []byte) {
	c.wrBuf = append(c.wrBuf,
		chunkID,
		byte(timeMS>>16), byte(timeMS>>8), byte(timeMS),
		byte(size>>16), byte(size>>8), byte(size),
		tagType,
	)
	c.wrBuf = binary.LittleEndian.AppendUint32(c.wrBuf, streamID)
	c.wrBuf = append(c.wrBuf, payload...)
}

func (c *conn) appendType3(chunkID byte, payload []byte) {
	c.wrBuf = append(c.wrBuf, 3<<6|chunkID)
	c.wrBuf = append(c.wrBuf, payload...)
}

func (c *conn) writePacketSize(size uint32) error {
	b := binary.BigEndian.AppendUint32(nil, size)
	if err := c.writeMessage(chunkControl, TypeSetPacketSize, 0, 0, b); err != nil {
		return err
	}
	c.wrPacketSize = size
	return nil
}
