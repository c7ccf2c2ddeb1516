package rtmp

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func header0(chunkID byte, rawTime, size uint32, tagType byte, streamID uint32) []byte {
	b := []byte{chunkID}
	b = append(b, byte(rawTime>>16), byte(rawTime>>8), byte(rawTime))
	b = append(b, byte(size>>16), byte(size>>8), byte(size), tagType)
	return binary.LittleEndian.AppendUint32(b, streamID)
}

func readAll(t *testing.T, c *conn) []*Message {
	var msgs []*Message
	for {
		msg, err := c.readMessage()
		if err == io.EOF {
			return msgs
		}
		require.Nil(t, err)
		msgs = append(msgs, msg)
	}
}

func TestReadHeaderTypes(t *testing.T) {
	var b []byte
	b = append(b, header0(4, 1000, 3, TypeAudio, 1)...)
	b = append(b, 1, 2, 3)
	b = append(b, 2<<6|4, 0, 0, 40) // delta 40
	b = append(b, 4, 5, 6)
	b = append(b, 3<<6|4) // same delta
	b = append(b, 7, 8, 9)
	b = append(b, 1<<6|4, 0, 0, 20, 0, 0, 2, TypeVideo) // delta 20, new size and type
	b = append(b, 0x17, 0x02)

	msgs := readAll(t, newConn(bytes.NewReader(b), io.Discard))
	require.Len(t, msgs, 4)

	require.Equal(t, &Message{Type: TypeAudio, TimeMS: 1000, StreamID: 1, Payload: []byte{1, 2, 3}}, msgs[0])
	require.Equal(t, &Message{Type: TypeAudio, TimeMS: 1040, StreamID: 1, Payload: []byte{4, 5, 6}}, msgs[1])
	require.Equal(t, &Message{Type: TypeAudio, TimeMS: 1080, StreamID: 1, Payload: []byte{7, 8, 9}}, msgs[2])
	require.Equal(t, &Message{Type: TypeVideo, TimeMS: 1100, StreamID: 1, Payload: []byte{0x17, 0x02}}, msgs[3])
}

func TestReadExtendedTime(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 200)

	var b []byte
	b = append(b, header0(3, 0xFFFFFF, 200, TypeVideo, 1)...)
	b = append(b, 0x01, 0x00, 0x00, 0x00)
	b = append(b, payload[:128]...)
	b = append(b, 3<<6|3, 0x01, 0x00, 0x00, 0x00) // continuation repeats extended time
	b = append(b, payload[128:]...)

	msgs := readAll(t, newConn(bytes.NewReader(b), io.Discard))
	require.Len(t, msgs, 1)
	require.Equal(t, uint32(0x01000000), msgs[0].TimeMS)
	require.Equal(t, payload, msgs[0].Payload)
}

func TestReadInterleaved(t *testing.T) {
	video := bytes.Repeat([]byte{0x01}, 200)

	var b []byte
	// chunk stream 70 in two bytes form
	b = append(b, header0(0, 10, 200, TypeVideo, 1)...)
	b = append(b[:1], append([]byte{70 - 64}, b[1:]...)...)
	b = append(b, video[:128]...)

	// chunk stream 320 in three bytes form
	b = append(b, 1)
	b = append(b, 0x00, 0x01)
	b = append(b, header0(0, 20, 2, TypeAudio, 1)[1:]...)
	b = append(b, 0xAF, 0x01)

	b = append(b, 3<<6|0, 70-64)
	b = append(b, video[128:]...)

	c := newConn(bytes.NewReader(b), io.Discard)
	msgs := readAll(t, c)
	require.Len(t, msgs, 2)

	require.Equal(t, &Message{Type: TypeAudio, TimeMS: 20, StreamID: 1, Payload: []byte{0xAF, 0x01}}, msgs[0])
	require.Equal(t, &Message{Type: TypeVideo, TimeMS: 10, StreamID: 1, Payload: video}, msgs[1])

	require.Contains(t, c.chunks, uint32(70))
	require.Contains(t, c.chunks, uint32(320))
}

func TestReadZeroSize(t *testing.T) {
	b := header0(4, 0, 0, TypeData, 1)

	msgs := readAll(t, newConn(bytes.NewReader(b), io.Discard))
	require.Len(t, msgs, 1)
	require.Len(t, msgs[0].Payload, 0)
}

func TestReadUnfinishedMessages(t *testing.T) {
	// many chunk streams declare max message size and send one byte each
	var b []byte
	for id := 64; id < 264; id++ {
		b = append(b, 0, byte(id-64))
		b = append(b, header0(0, 0, 0xFFFFFF, TypeVideo, 1)[1:]...)
		b = append(b, 0xAB)
	}

	// one byte chunks leave all 200 messages in progress
	c := newConn(bytes.NewReader(b), io.Discard)
	c.rdPacketSize = 1
	_, err := c.readMessage()
	require.ErrorIs(t, err, io.EOF)
	require.Len(t, c.chunks, 200)

	for _, packetSize := range []uint32{1, defaultPacketSize, maxPacketSize} {
		c = newConn(bytes.NewReader(b), io.Discard)
		c.rdPacketSize = packetSize

		_, err = c.readMessage()
		require.Error(t, err)

		var total int
		for _, ch := range c.chunks {
			total += cap(ch.data)
		}
		require.LessOrEqual(t, total, 2*len(b)+readStep)
	}
}

func TestReadErrors(t *testing.T) {
	// continuation for unknown chunk stream
	_, err := newConn(bytes.NewReader([]byte{3<<6 | 5, 0}), io.Discard).readMessage()
	require.Error(t, err)

	// truncated header
	_, err = newConn(bytes.NewReader([]byte{4, 0, 0}), io.Discard).readMessage()
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestWriteMessage(t *testing.T) {
	payload := bytes.Repeat([]byte{1, 2, 3}, 100)

	buf := bytes.NewBuffer(nil)
	wr := newConn(nil, buf)
	require.Nil(t, wr.writeMessage(chunkStream, TypeCommand, 0, 7, payload))

	// header + 300 bytes in 3 chunks
	require.Equal(t, 12+300+2, buf.Len())

	msg, err := newConn(buf, io.Discard).readMessage()
	require.Nil(t, err)
	require.Equal(t, &Message{Type: TypeCommand, StreamID: 7, Payload: payload}, msg)
}

func TestPacketSize(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	wr := newConn(nil, buf)
	require.Nil(t, wr.writePacketSize(4096))
	require.Nil(t, wr.writeMessage(chunkCommand, TypeCommand, 0, 0, make([]byte, 1000)))

	rd := newConn(buf, io.Discard)

	msg, err := rd.readMessage()
	require.Nil(t, err)
	ok, err := rd.handleControl(msg)
	require.True(t, ok)
	require.Nil(t, err)
	require.Equal(t, uint32(4096), rd.rdPacketSize)

	// one chunk message
	msg, err = rd.readMessage()
	require.Nil(t, err)
	require.Len(t, msg.Payload, 1000)

	_, err = rd.handleControl(&Message{Type: TypeSetPacketSize, Payload: []byte{0, 0}})
	require.ErrorIs(t, err, ErrShortPayload)

	_, err = rd.handleControl(&Message{Type: TypeSetPacketSize, Payload: []byte{0, 0, 0, 0}})
	require.Error(t, err)
}

func TestHandleControl(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	c := newConn(nil, buf)

	// ping request
	ok, err := c.handleControl(&Message{Type: TypeControl, Payload: []byte{0, 6, 0, 0, 1, 0}})
	require.True(t, ok)
	require.Nil(t, err)

	msg, err := newConn(buf, io.Discard).readMessage()
	require.Nil(t, err)
	require.Equal(t, &Message{Type: TypeControl, Payload: []byte{0, 7, 0, 0, 1, 0}}, msg)

	// stream begin is consumed silently
	ok, err = c.handleControl(&Message{Type: TypeControl, Payload: []byte{0, 0, 0, 0, 0, 1}})
	require.True(t, ok)
	require.Nil(t, err)
	require.Equal(t, 0, buf.Len())

	ok, _ = c.handleControl(&Message{Type: TypeClientBandwidth, Payload: []byte{0, 0, 0x10, 0, 2}})
	require.True(t, ok)

	ok, _ = c.handleControl(&Message{Type: TypeAudio})
	require.False(t, ok)
}

func TestAcknowledgement(t *testing.T) {
	var b []byte
	for i := 0; i < 4; i++ {
		b = append(b, header0(4, 0, 100, TypeAudio, 1)...)
		b = append(b, make([]byte, 100)...)
	}

	acks := bytes.NewBuffer(nil)
	c := newConn(bytes.NewReader(b), acks)

	ok, err := c.handleControl(&Message{Type: TypeServerBandwidth, Payload: []byte{0, 0, 0, 200}})
	require.True(t, ok)
	require.Nil(t, err)

	require.Len(t, readAll(t, c), 4)

	var seq []uint32
	rd := newConn(acks, io.Discard)
	for {
		msg, err := rd.readMessage()
		if err != nil {
			break
		}
		require.Equal(t, byte(TypeAck), msg.Type)
		seq = append(seq, binary.BigEndian.Uint32(msg.Payload))
	}
	// each message takes 112 bytes on the wire
	require.Equal(t, []uint32{224, 448}, seq)
}
