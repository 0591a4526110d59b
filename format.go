// Package denoise provides streaming noise suppression for real-time audio.
//
// This file implements the audio format descriptor and format validation.
// Validation is a pure check performed strictly before any mutation, so a
// rejected buffer never leaves the denoiser in a partially-updated state.
package denoise

import (
	"math"

	"github.com/sirupsen/logrus"
)

// RequiredSampleRate is the only sample rate the streaming API accepts, in Hz.
//
// This is a policy constant of the streaming layer, not of the engine: the
// default engine's frame timing assumes it, and callers with other capture
// rates are expected to resample first (see Resampler).
const RequiredSampleRate = 48000.0

// sampleRateTolerance absorbs floating point rounding when callers carry
// rates through float conversions (e.g. 47999.9999 from a ratio computation).
const sampleRateTolerance = 0.5

// SampleFormat identifies the encoding of samples in an AudioBuffer.
type SampleFormat int

// Supported sample format descriptors. Only SampleFormatFloat32 passes
// validation; the other values exist so platform buffer wrappers can report
// what they actually hold.
const (
	SampleFormatFloat32 SampleFormat = iota
	SampleFormatInt16
	SampleFormatInt32
)

// String returns a human-readable name for the sample format.
func (f SampleFormat) String() string {
	switch f {
	case SampleFormatFloat32:
		return "float32"
	case SampleFormatInt16:
		return "int16"
	case SampleFormatInt32:
		return "int32"
	default:
		return "unknown"
	}
}

// BufferLayout identifies how multi-channel samples are arranged in memory.
type BufferLayout int

// Supported channel layouts.
const (
	// LayoutInterleaved stores frames contiguously: L R L R ...
	LayoutInterleaved BufferLayout = iota
	// LayoutPlanar stores each channel in its own plane: LLLL... RRRR...
	LayoutPlanar
)

// String returns a human-readable name for the buffer layout.
func (l BufferLayout) String() string {
	switch l {
	case LayoutInterleaved:
		return "interleaved"
	case LayoutPlanar:
		return "planar"
	default:
		return "unknown"
	}
}

// AudioBuffer describes one batch of input audio.
//
// The descriptor is immutable per call: the denoiser reads it but never
// modifies it. Interleaved buffers carry their samples in Interleaved;
// planar buffers carry one slice per channel in Planes (len(Planes) must
// equal Channels). The Format field reports the encoding of the originating
// platform buffer; only float32 data is accepted for processing.
type AudioBuffer struct {
	Format     SampleFormat
	Layout     BufferLayout
	Channels   int
	SampleRate float64

	// Interleaved holds sample data when Layout == LayoutInterleaved.
	Interleaved []float32

	// Planes holds per-channel sample data when Layout == LayoutPlanar.
	Planes [][]float32
}

// FrameCount returns the number of sample frames the buffer holds.
//
// For planar buffers with unequal plane lengths this is the shortest plane,
// so downmixing never reads past any channel's data.
func (b *AudioBuffer) FrameCount() int {
	switch b.Layout {
	case LayoutPlanar:
		if len(b.Planes) == 0 {
			return 0
		}
		frames := len(b.Planes[0])
		for _, plane := range b.Planes[1:] {
			if len(plane) < frames {
				frames = len(plane)
			}
		}
		return frames
	default:
		if b.Channels < 1 {
			return 0
		}
		return len(b.Interleaved) / b.Channels
	}
}

// ValidateFormat checks an audio buffer descriptor against the streaming
// requirements. It is a pure check with no side effects.
//
// Returns:
//   - *UnsupportedSampleFormatError if the encoding is not 32-bit float
//   - *UnsupportedChannelCountError if the channel count is < 1
//   - *UnsupportedSampleRateError if the rate differs from RequiredSampleRate
//     by sampleRateTolerance or more
func ValidateFormat(buf *AudioBuffer) error {
	if buf == nil {
		logrus.WithFields(logrus.Fields{
			"function": "ValidateFormat",
			"error":    "nil buffer",
		}).Error("Format validation failed")
		return ErrNilBuffer
	}

	logrus.WithFields(logrus.Fields{
		"function":    "ValidateFormat",
		"format":      buf.Format.String(),
		"layout":      buf.Layout.String(),
		"channels":    buf.Channels,
		"sample_rate": buf.SampleRate,
	}).Debug("Validating audio buffer format")

	if buf.Format != SampleFormatFloat32 {
		logrus.WithFields(logrus.Fields{
			"function": "ValidateFormat",
			"format":   buf.Format.String(),
			"error":    "sample format must be float32",
		}).Error("Sample format validation failed")
		return &UnsupportedSampleFormatError{Format: buf.Format}
	}

	if buf.Channels < 1 {
		logrus.WithFields(logrus.Fields{
			"function": "ValidateFormat",
			"channels": buf.Channels,
			"error":    "channel count must be >= 1",
		}).Error("Channel count validation failed")
		return &UnsupportedChannelCountError{Channels: buf.Channels}
	}

	if err := validateSampleRate(buf.SampleRate); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function":    "ValidateFormat",
		"channels":    buf.Channels,
		"sample_rate": buf.SampleRate,
	}).Debug("Audio buffer format validation successful")

	return nil
}

// validateSampleRate checks a bare sample rate against RequiredSampleRate.
func validateSampleRate(rate float64) error {
	if math.Abs(rate-RequiredSampleRate) >= sampleRateTolerance {
		logrus.WithFields(logrus.Fields{
			"function":      "validateSampleRate",
			"actual_rate":   rate,
			"expected_rate": RequiredSampleRate,
			"error":         "sample rate outside tolerance",
		}).Error("Sample rate validation failed")
		return &UnsupportedSampleRateError{Expected: RequiredSampleRate, Actual: rate}
	}
	return nil
}
