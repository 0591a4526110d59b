// Package denoise provides streaming noise suppression for real-time audio.
//
// This file implements a streaming mono resampler used to condition input
// captured at other rates to the 48kHz the engine requires. Linear
// interpolation provides good quality for voice without external
// dependencies, and the fractional position plus the last sample of each
// batch carry across calls so chunked streams resample continuously.
package denoise

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Resampler converts a mono float32 stream between sample rates.
//
// A Resampler is stateful: it remembers its fractional read position and
// the final sample of the previous batch, so feeding a stream chunk by
// chunk produces the same result as feeding it whole. It is not safe for
// concurrent use.
type Resampler struct {
	inputRate  uint32
	outputRate uint32
	position   float64
	last       float32
	primed     bool
}

// NewResampler creates a mono resampler converting inputRate to outputRate.
func NewResampler(inputRate, outputRate uint32) (*Resampler, error) {
	logrus.WithFields(logrus.Fields{
		"function":    "NewResampler",
		"input_rate":  inputRate,
		"output_rate": outputRate,
	}).Info("Creating streaming resampler")

	if inputRate == 0 || outputRate == 0 {
		logrus.WithFields(logrus.Fields{
			"function":    "NewResampler",
			"input_rate":  inputRate,
			"output_rate": outputRate,
			"error":       "invalid sample rates",
		}).Error("Sample rate validation failed")
		return nil, fmt.Errorf("invalid sample rates: input=%d, output=%d", inputRate, outputRate)
	}

	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
	}, nil
}

// InputRate returns the configured input sample rate.
func (r *Resampler) InputRate() uint32 {
	return r.inputRate
}

// OutputRate returns the configured output sample rate.
func (r *Resampler) OutputRate() uint32 {
	return r.outputRate
}

// Resample converts a batch of mono samples from the input rate to the
// output rate using linear interpolation.
//
// Equal input and output rates short-circuit to a copy. Empty input
// returns an empty batch.
func (r *Resampler) Resample(input []float32) ([]float32, error) {
	if len(input) == 0 {
		return nil, nil
	}

	if r.inputRate == r.outputRate {
		out := make([]float32, len(input))
		copy(out, input)
		return out, nil
	}

	ratio := float64(r.inputRate) / float64(r.outputRate)
	outputCount := int(float64(len(input))/ratio + 0.5)
	output := make([]float32, 0, outputCount)

	logrus.WithFields(logrus.Fields{
		"function":      "Resample",
		"input_length":  len(input),
		"output_length": outputCount,
		"ratio":         ratio,
		"position":      r.position,
	}).Debug("Resampling audio batch")

	for o := 0; o < outputCount; o++ {
		index := int(math.Floor(r.position))
		frac := r.position - float64(index)
		output = append(output, r.interpolate(input, index, frac))
		r.position += ratio
	}

	// Carry state into the next batch.
	r.position -= float64(len(input))
	r.last = input[len(input)-1]
	r.primed = true

	return output, nil
}

// interpolate computes one output sample at a fractional input position,
// bridging batch boundaries with the previous batch's final sample.
func (r *Resampler) interpolate(input []float32, index int, frac float64) float32 {
	if index < 0 {
		if !r.primed {
			return input[0]
		}
		return r.last + float32(frac)*(input[0]-r.last)
	}
	if index >= len(input)-1 {
		return input[len(input)-1]
	}
	a := input[index]
	b := input[index+1]
	return a + float32(frac)*(b-a)
}

// Reset clears the resampler state, for use at stream discontinuities.
func (r *Resampler) Reset() {
	logrus.WithFields(logrus.Fields{
		"function":     "Reset",
		"old_position": r.position,
	}).Debug("Resetting resampler state")

	r.position = 0
	r.last = 0
	r.primed = false
}
