// Package avc - AVCDecoderConfigurationRecord and length-prefixed NAL units (ISO/IEC 14496-15)
package avc

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/deepch/vdk/codec/h264parser"
)

const StartCode = "\x00\x00\x00\x01"

var (
	ErrShortRecord = errors.New("avc: short config record")
	ErrVersion     = errors.New("avc: wrong config version")
	ErrLengthSize  = errors.New("avc: wrong NALU length size")
	ErrShortNALU   = errors.New("avc: NALU length out of range")
)

type Config struct {
	Profile    []byte // profile, compatibility, level
	LengthSize int    // lengthSizeMinusOne + 1
	SPS        [][]byte
	PPS        [][]byte
}

func DecodeConfig(conf []byte) (*Config, error) {
	// version 1b, profile 3b, length size 1b, SPS count 1b
	if len(conf) < 6 {
		return nil, ErrShortRecord
	}
	if conf[0] != 1 {
		return nil, ErrVersion
	}

	c := &Config{
		Profile:    conf[1:4],
		LengthSize: int(conf[4]&0b11) + 1,
	}
	if c.LengthSize == 3 {
		return nil, ErrLengthSize
	}

	var err error

	count := int(conf[5] & 0x1F)
	if c.SPS, conf, err = readParameterSets(conf[6:], count); err != nil {
		return nil, err
	}

	if len(conf) < 1 {
		return nil, ErrShortRecord
	}

	count = int(conf[0])
	if c.PPS, _, err = readParameterSets(conf[1:], count); err != nil {
		return nil, err
	}

	return c, nil
}

func readParameterSets(b []byte, count int) (sets [][]byte, left []byte, err error) {
	for i := 0; i < count; i++ {
		if len(b) < 2 {
			return nil, nil, ErrShortRecord
		}
		size := 2 + int(binary.BigEndian.Uint16(b))
		if len(b) < size {
			return nil, nil, ErrShortRecord
		}
		sets = append(sets, b[2:size])
		b = b[size:]
	}
	return sets, b, nil
}

// ToAnnexB - rewrite length-prefixed NAL units into start code delimited form.
// Source slice is not changed.
func ToAnnexB(b []byte, lengthSize int) ([]byte, error) {
	switch lengthSize {
	case 1, 2, 4:
	default:
		return nil, ErrLengthSize
	}

	var n int
	for i := 0; i < len(b); {
		size, err := naluSize(b[i:], lengthSize)
		if err != nil {
			return nil, err
		}
		i += lengthSize + size
		n += len(StartCode) + size
	}

	dst := make([]byte, 0, n)
	for len(b) > 0 {
		size, _ := naluSize(b, lengthSize)
		dst = append(dst, StartCode...)
		dst = append(dst, b[lengthSize:lengthSize+size]...)
		b = b[lengthSize+size:]
	}

	return dst, nil
}

func naluSize(b []byte, lengthSize int) (int, error) {
	if len(b) < lengthSize {
		return 0, ErrShortNALU
	}

	var size uint32
	for _, v := range b[:lengthSize] {
		size = size<<8 | uint32(v)
	}

	if uint32(len(b)-lengthSize) < size {
		return 0, ErrShortNALU
	}
	return int(size), nil
}

// Dimensions - picture size from SPS NAL unit (with NAL header)
func Dimensions(sps []byte) (width, height uint16, ok bool) {
	if len(sps) < 4 {
		return
	}

	info, err := h264parser.ParseSPS(sps)
	if err != nil {
		return
	}

	if info.Width > math.MaxUint16 || info.Height > math.MaxUint16 {
		return
	}

	return uint16(info.Width), uint16(info.Height), true
}
