// Package aac - MPEG-4 AudioSpecificConfig, as carried by the AAC sequence header
package aac

import (
	"errors"

	"github.com/jionmezc11/RtmpClient/pkg/bits"
)

const (
	TypeAACMain = 1
	TypeAACLC   = 2
	TypeAACSBR  = 5
	TypeESCAPE  = 31
	TypeAACELD  = 39

	AUTime = 1024
)

var (
	ErrShortConfig = errors.New("aac: short config")
	ErrSampleRate  = errors.New("aac: wrong sample rate index")
)

var sampleRates = []uint32{
	96000, 88200, 64000, 48000, 44100, 32000, 24000, 22050, 16000, 12000, 11025, 8000, 7350,
	0, 0, 0, // protection from request sampleRates[15]
}

type Config struct {
	ObjectType      byte
	SampleRateIndex byte
	SampleRate      uint32
	Channels        uint16
}

// DecodeConfig - https://wiki.multimedia.cx/index.php/MPEG-4_Audio#Audio_Specific_Config
func DecodeConfig(b []byte) (*Config, error) {
	if len(b) < 2 {
		return nil, ErrShortConfig
	}

	rd := bits.NewReader(b)

	conf := &Config{}

	conf.ObjectType = rd.ReadBits8(5)
	if conf.ObjectType == TypeESCAPE {
		conf.ObjectType = 32 + rd.ReadBits8(6)
	}

	conf.SampleRateIndex = rd.ReadBits8(4)
	if conf.SampleRateIndex == 0x0F {
		conf.SampleRate = rd.ReadBits(24)
	} else {
		conf.SampleRate = sampleRates[conf.SampleRateIndex]
	}

	conf.Channels = rd.ReadBits16(4)

	if rd.EOF {
		return nil, ErrShortConfig
	}
	if conf.SampleRate == 0 {
		return nil, ErrSampleRate
	}

	return conf, nil
}

func EncodeConfig(objType byte, sampleRate uint32, channels uint16) []byte {
	wr := bits.NewWriter(nil)

	if objType < TypeESCAPE {
		wr.WriteBits8(objType, 5)
	} else {
		wr.WriteBits8(TypeESCAPE, 5)
		wr.WriteBits8(objType-32, 6)
	}

	idx := byte(0x0F)
	for i, rate := range sampleRates {
		if rate == sampleRate {
			idx = byte(i)
			break
		}
	}

	wr.WriteBits8(idx, 4)
	if idx == 0x0F {
		wr.WriteBits(sampleRate, 24)
	}

	wr.WriteBits16(channels, 4)

	return wr.Bytes()
}
