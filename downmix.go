// Package denoise provides streaming noise suppression for real-time audio.
//
// This file implements equal-weight mono downmixing for interleaved and
// planar multi-channel buffers. The engine operates on mono streams only,
// so every multi-channel buffer passes through here before ingestion.
package denoise

import (
	"github.com/sirupsen/logrus"
)

// DownmixMono converts an audio buffer to a single mono sample sequence
// using an equal-weight average across channels.
//
// The sum is accumulated in the sample's native float32 precision and the
// 1/C scale is applied once per output sample, which makes the result an
// exact arithmetic mean rather than a running average.
//
// Single-channel buffers are copied directly. Zero-length buffers return an
// empty sequence with no error. The encoding is re-validated so the function
// is safe to call outside the facade.
func DownmixMono(buf *AudioBuffer) ([]float32, error) {
	if buf == nil {
		return nil, ErrNilBuffer
	}

	logrus.WithFields(logrus.Fields{
		"function": "DownmixMono",
		"layout":   buf.Layout.String(),
		"channels": buf.Channels,
		"frames":   buf.FrameCount(),
	}).Debug("Downmixing audio buffer to mono")

	if buf.Format != SampleFormatFloat32 {
		logrus.WithFields(logrus.Fields{
			"function": "DownmixMono",
			"format":   buf.Format.String(),
			"error":    "sample format must be float32",
		}).Error("Downmix format validation failed")
		return nil, &UnsupportedSampleFormatError{Format: buf.Format}
	}

	if buf.Channels < 1 {
		logrus.WithFields(logrus.Fields{
			"function": "DownmixMono",
			"channels": buf.Channels,
			"error":    "channel count must be >= 1",
		}).Error("Downmix channel validation failed")
		return nil, &UnsupportedChannelCountError{Channels: buf.Channels}
	}

	if buf.Layout == LayoutPlanar && len(buf.Planes) < buf.Channels {
		logrus.WithFields(logrus.Fields{
			"function": "DownmixMono",
			"channels": buf.Channels,
			"planes":   len(buf.Planes),
			"error":    "fewer planes than channels",
		}).Error("Downmix channel validation failed")
		return nil, &UnsupportedChannelCountError{Channels: buf.Channels}
	}

	frames := buf.FrameCount()
	if frames == 0 {
		logrus.WithFields(logrus.Fields{
			"function": "DownmixMono",
		}).Debug("Empty buffer, returning empty mono sequence")
		return []float32{}, nil
	}

	mono := make([]float32, frames)

	switch {
	case buf.Channels == 1 && buf.Layout == LayoutPlanar:
		copy(mono, buf.Planes[0][:frames])
	case buf.Channels == 1:
		copy(mono, buf.Interleaved[:frames])
	case buf.Layout == LayoutPlanar:
		downmixPlanar(mono, buf.Planes, buf.Channels)
	default:
		downmixInterleaved(mono, buf.Interleaved, buf.Channels)
	}

	logrus.WithFields(logrus.Fields{
		"function":     "DownmixMono",
		"channels":     buf.Channels,
		"mono_samples": len(mono),
	}).Debug("Mono downmix completed")

	return mono, nil
}

// downmixPlanar averages per-channel planes: mono[i] = sum_c(planes[c][i]) / C.
func downmixPlanar(mono []float32, planes [][]float32, channels int) {
	scale := float32(channels)
	for i := range mono {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += planes[c][i]
		}
		mono[i] = sum / scale
	}
}

// downmixInterleaved averages interleaved frames: mono[i] = sum_c(data[i*C+c]) / C.
func downmixInterleaved(mono []float32, data []float32, channels int) {
	scale := float32(channels)
	for i := range mono {
		var sum float32
		base := i * channels
		for c := 0; c < channels; c++ {
			sum += data[base+c]
		}
		mono[i] = sum / scale
	}
}
