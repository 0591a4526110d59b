// Package denoise provides streaming noise suppression for real-time audio.
//
// This file implements the Opus input adapter: it decodes Opus packets
// with the pure Go pion/opus decoder, converts the PCM16 output to
// normalized float32, downmixes stereo packets, conditions narrower
// decoder bandwidths up to 48kHz, and feeds the result into a Denoiser.
package denoise

import (
	"fmt"

	"github.com/pion/opus"
	"github.com/sirupsen/logrus"
)

// opusDecodeBufferSize is the decode scratch size: 40ms at 48kHz covers
// typical VoIP packet durations, two bytes per int16 sample.
const opusDecodeBufferSize = 1920 * 2

// OpusStream adapts an Opus packet stream to the denoising streaming API.
//
// One OpusStream serves one packet stream and feeds one Denoiser, which the
// caller owns and closes. A resampler is created on demand whenever the
// decoder reports a bandwidth below 48kHz and is recreated if the bandwidth
// changes mid-stream. Not safe for concurrent use; wrap calls in the same
// serialization the underlying stream requires.
type OpusStream struct {
	denoiser  *Denoiser
	decoder   opus.Decoder
	resampler *Resampler
	decodeBuf []byte
}

// NewOpusStream creates an adapter feeding decoded Opus audio into d.
func NewOpusStream(d *Denoiser) (*OpusStream, error) {
	logrus.WithFields(logrus.Fields{
		"function": "NewOpusStream",
	}).Info("Creating Opus stream adapter")

	if d == nil {
		logrus.WithFields(logrus.Fields{
			"function": "NewOpusStream",
			"error":    "nil denoiser",
		}).Error("Denoiser validation failed")
		return nil, fmt.Errorf("denoiser must not be nil")
	}

	return &OpusStream{
		denoiser:  d,
		decoder:   opus.NewDecoder(),
		decodeBuf: make([]byte, opusDecodeBufferSize),
	}, nil
}

// ProcessPacket decodes one Opus packet and streams the audio through the
// denoiser, returning the denoised samples for every frame that completed
// and the mean speech probability across them.
//
// Empty packets short-circuit to (nil, 0, nil). Sub-frame audio accumulates
// in the denoiser's carryover buffer exactly as with ProcessStream.
func (s *OpusStream) ProcessPacket(packet []byte) ([]float32, float32, error) {
	if len(packet) == 0 {
		return nil, 0, nil
	}

	logrus.WithFields(logrus.Fields{
		"function":    "ProcessPacket",
		"packet_size": len(packet),
	}).Debug("Decoding Opus packet")

	bandwidth, isStereo, err := s.decoder.Decode(packet, s.decodeBuf)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "ProcessPacket",
			"error":    err.Error(),
		}).Error("Opus decode failed")
		return nil, 0, fmt.Errorf("opus decode failed: %w", err)
	}

	samples := Float32FromPCM16(s.decodeBuf)
	decodedRate := uint32(bandwidth.SampleRate())

	logrus.WithFields(logrus.Fields{
		"function":  "ProcessPacket",
		"bandwidth": bandwidth.String(),
		"stereo":    isStereo,
		"samples":   len(samples),
	}).Debug("Opus decode completed")

	mono := samples
	if isStereo {
		mono, err = DownmixMono(&AudioBuffer{
			Format:      SampleFormatFloat32,
			Layout:      LayoutInterleaved,
			Channels:    2,
			SampleRate:  RequiredSampleRate,
			Interleaved: samples,
		})
		if err != nil {
			return nil, 0, err
		}
	}

	if decodedRate != uint32(RequiredSampleRate) {
		mono, err = s.conditionRate(mono, decodedRate)
		if err != nil {
			return nil, 0, err
		}
	}

	return s.denoiser.ProcessStream(mono, RequiredSampleRate)
}

// conditionRate upsamples decoder output to 48kHz, creating or replacing
// the resampler when the decoder bandwidth changes.
func (s *OpusStream) conditionRate(mono []float32, decodedRate uint32) ([]float32, error) {
	if s.resampler == nil || s.resampler.InputRate() != decodedRate {
		logrus.WithFields(logrus.Fields{
			"function":    "conditionRate",
			"input_rate":  decodedRate,
			"output_rate": uint32(RequiredSampleRate),
		}).Debug("Creating resampler for decoder bandwidth")

		resampler, err := NewResampler(decodedRate, uint32(RequiredSampleRate))
		if err != nil {
			return nil, fmt.Errorf("failed to create resampler: %w", err)
		}
		s.resampler = resampler
	}

	return s.resampler.Resample(mono)
}

// Reset clears the adapter's resampler state. The denoiser itself is reset
// separately through Denoiser.Reset.
func (s *OpusStream) Reset() {
	logrus.WithFields(logrus.Fields{
		"function": "Reset",
	}).Debug("Resetting Opus stream adapter")

	if s.resampler != nil {
		s.resampler.Reset()
	}
}
