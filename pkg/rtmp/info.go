package rtmp

import (
	"fmt"

	"github.com/jionmezc11/RtmpClient/pkg/flv"
)

type AudioFormat byte

const (
	AudioPCM            AudioFormat = flv.SoundPCM
	AudioADPCM          AudioFormat = flv.SoundADPCM
	AudioMP3            AudioFormat = flv.SoundMP3
	AudioPCMLE          AudioFormat = flv.SoundPCMLE
	AudioNellymoser16k  AudioFormat = flv.SoundNellymoser16k
	AudioNellymoser8k   AudioFormat = flv.SoundNellymoser8k
	AudioNellymoser     AudioFormat = flv.SoundNellymoser
	AudioG711A          AudioFormat = flv.SoundG711A
	AudioG711U          AudioFormat = flv.SoundG711U
	AudioAAC            AudioFormat = flv.SoundAAC
	AudioSpeex          AudioFormat = flv.SoundSpeex
	AudioMP38k          AudioFormat = flv.SoundMP38k
	AudioDeviceSpecific AudioFormat = flv.SoundDeviceSpecific
)

var audioNames = map[AudioFormat]string{
	AudioPCM:            "PCM",
	AudioADPCM:          "ADPCM",
	AudioMP3:            "MP3",
	AudioPCMLE:          "PCMLE",
	AudioNellymoser16k:  "Nellymoser-16k",
	AudioNellymoser8k:   "Nellymoser-8k",
	AudioNellymoser:     "Nellymoser",
	AudioG711A:          "PCMA",
	AudioG711U:          "PCMU",
	AudioAAC:            "AAC",
	AudioSpeex:          "Speex",
	AudioMP38k:          "MP3-8k",
	AudioDeviceSpecific: "Device",
}

func (f AudioFormat) String() string {
	if s, ok := audioNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Audio-%d", byte(f))
}

type VideoFormat byte

const (
	VideoJPEG     VideoFormat = flv.CodecJPEG
	VideoH263     VideoFormat = flv.CodecH263
	VideoScreen   VideoFormat = flv.CodecScreen
	VideoVP6      VideoFormat = flv.CodecVP6
	VideoVP6Alpha VideoFormat = flv.CodecVP6Alpha
	VideoScreen2  VideoFormat = flv.CodecScreen2
	VideoAVC      VideoFormat = flv.CodecAVC
)

var videoNames = map[VideoFormat]string{
	VideoJPEG:     "JPEG",
	VideoH263:     "H263",
	VideoScreen:   "Screen",
	VideoVP6:      "VP6",
	VideoVP6Alpha: "VP6-Alpha",
	VideoScreen2:  "Screen2",
	VideoAVC:      "H264",
}

func (f VideoFormat) String() string {
	if s, ok := videoNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Video-%d", byte(f))
}

type AudioInfo struct {
	Format        AudioFormat
	SampleRate    uint32
	Channels      uint16
	BitsPerSample uint16
}

// VideoInfo - size and parameter sets are known only for AVC
type VideoInfo struct {
	Format VideoFormat
	Width  uint16
	Height uint16
	SPS    []byte
	PPS    []byte
}
