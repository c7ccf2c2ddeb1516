// Package flv - bit layouts shared by FLV tags and RTMP media messages.
// https://rtmp.veriskope.com/pdf/video_file_format_spec_v10.pdf
package flv

import "errors"

const (
	TagAudio = 8
	TagVideo = 9
	TagData  = 18

	TagHeaderSize   = 11
	PrevTagSizeSize = 4
)

// SoundFormat, 4 bits
const (
	SoundPCM            = 0 // platform endian
	SoundADPCM          = 1
	SoundMP3            = 2
	SoundPCMLE          = 3
	SoundNellymoser16k  = 4
	SoundNellymoser8k   = 5
	SoundNellymoser     = 6
	SoundG711A          = 7
	SoundG711U          = 8
	SoundAAC            = 10
	SoundSpeex          = 11
	SoundMP38k          = 14
	SoundDeviceSpecific = 15
)

// FrameType, 4 bits
const (
	FrameKey          = 1
	FrameInter        = 2
	FrameDisposable   = 3 // H.263 only
	FrameGeneratedKey = 4
	FrameInfo         = 5
)

// CodecID, 4 bits
const (
	CodecJPEG     = 1
	CodecH263     = 2
	CodecScreen   = 3
	CodecVP6      = 4
	CodecVP6Alpha = 5
	CodecScreen2  = 6
	CodecAVC      = 7

	CodecAAC = SoundAAC
)

// AACPacketType and AVCPacketType
const (
	PacketTypeSequenceHeader = 0
	PacketTypeRaw            = 1 // AAC raw or AVC NALU
	PacketTypeEndOfSequence  = 2 // AVC only
)

var ErrShortTag = errors.New("flv: short tag")

// SoundInfo - first byte of audio data: format 4b, rate 2b, size 1b, type 1b
type SoundInfo struct {
	Format    byte
	RateIndex byte
	Is16Bit   bool
	Stereo    bool
}

func ParseSoundInfo(b byte) SoundInfo {
	return SoundInfo{
		Format:    b >> 4,
		RateIndex: (b >> 2) & 0b11,
		Is16Bit:   b&0b10 != 0,
		Stereo:    b&0b01 != 0,
	}
}

var soundRates = [4]uint32{5512, 11025, 22050, 44100}

func (s SoundInfo) SampleRate() uint32 {
	switch s.Format {
	case SoundNellymoser16k:
		return 16000
	case SoundNellymoser8k, SoundMP38k, SoundG711A, SoundG711U:
		return 8000
	}
	return soundRates[s.RateIndex&0b11]
}

func (s SoundInfo) BitsPerSample() uint16 {
	if s.Is16Bit {
		return 16
	}
	return 8
}

func (s SoundInfo) Channels() uint16 {
	if s.Stereo {
		return 2
	}
	return 1
}

// ParseVideoByte - first byte of video data: frame type 4b, codec ID 4b
func ParseVideoByte(b byte) (frameType, codecID byte) {
	return b >> 4, b & 0x0F
}

// CompositionTime - signed 24 bit offset in milliseconds
func CompositionTime(b []byte) int32 {
	_ = b[2]
	v := int32(b[0])<<16 | int32(b[1])<<8 | int32(b[2])
	if v&0x800000 != 0 {
		v -= 1 << 24
	}
	return v
}

type TagHeader struct {
	Type     byte
	DataSize uint32
	TimeMS   uint32
	StreamID uint32
}

// ReadTagHeader - type 1b, data size 3b, time 3b + extended time 1b, stream ID 3b
func ReadTagHeader(b []byte) (*TagHeader, error) {
	if len(b) < TagHeaderSize {
		return nil, ErrShortTag
	}

	return &TagHeader{
		Type:     b[0],
		DataSize: uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]),
		TimeMS:   uint32(b[4])<<16 | uint32(b[5])<<8 | uint32(b[6]) | uint32(b[7])<<24,
		StreamID: uint32(b[8])<<16 | uint32(b[9])<<8 | uint32(b[10]),
	}, nil
}

// AppendTag - header + data + previous tag size
func AppendTag(b []byte, tagType byte, timeMS uint32, data []byte) []byte {
	size := uint32(len(data))
	b = append(b,
		tagType,
		byte(size>>16), byte(size>>8), byte(size),
		byte(timeMS>>16), byte(timeMS>>8), byte(timeMS), byte(timeMS>>24),
		0, 0, 0,
	)
	b = append(b, data...)
	size += TagHeaderSize
	return append(b, byte(size>>24), byte(size>>16), byte(size>>8), byte(size))
}

func TimeToRTP(timeMS uint32, clockRate uint32) uint32 {
	return uint32(uint64(timeMS) * uint64(clockRate) / 1000)
}
