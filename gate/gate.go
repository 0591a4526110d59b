// Package gate implements the default fixed-frame denoising engine.
//
// This file implements the engine itself: an energy-adaptive noise gate
// with a logistic voice activity estimate, processing fixed 480-sample
// frames in place and carrying noise floor and gain state across frames.
package gate

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// FrameSize is the fixed number of mono samples per engine frame
// (10ms at 48kHz, matching the RNNoise frame contract).
const FrameSize = 480

// energyEpsilon bounds the noise floor away from zero so silence does not
// drive the SNR computation into infinities.
const energyEpsilon = 1e-10

// Engine is a recurrent noise gate implementing the denoise.Engine contract.
//
// State evolves with every processed frame: the noise floor estimate adapts
// asymmetrically (fast downward, slow upward so speech does not inflate it)
// and the suppression gain is smoothed between frames to avoid audible
// pumping at frame boundaries. Not safe for concurrent use.
type Engine struct {
	model Model

	noiseEnergy float64
	gain        float64
	warmed      bool
	closed      bool
}

// NewDefault creates an engine with the built-in model.
func NewDefault() *Engine {
	engine, err := New(nil)
	if err != nil {
		// New only fails on a non-nil, malformed blob.
		panic(fmt.Sprintf("gate: default engine construction failed: %v", err))
	}
	return engine
}

// New creates an engine from a serialized model blob. A nil or empty blob
// selects the built-in model.
func New(model []byte) (*Engine, error) {
	logrus.WithFields(logrus.Fields{
		"function":   "New",
		"model_size": len(model),
	}).Info("Creating gate engine")

	m := DefaultModel()
	if len(model) > 0 {
		decoded, err := DecodeModel(model)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "New",
				"error":    err.Error(),
			}).Error("Model decoding failed")
			return nil, err
		}
		m = decoded
	}

	engine := &Engine{model: m}
	engine.initState()

	logrus.WithFields(logrus.Fields{
		"function":   "New",
		"frame_size": FrameSize,
	}).Info("Gate engine created successfully")

	return engine, nil
}

// NewWithModel creates an engine from an in-memory parameter set.
func NewWithModel(m Model) (*Engine, error) {
	if err := m.validate(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "NewWithModel",
			"error":    err.Error(),
		}).Error("Model validation failed")
		return nil, fmt.Errorf("invalid model parameters: %w", err)
	}
	engine := &Engine{model: m}
	engine.initState()
	return engine, nil
}

// initState sets the per-stream state to its fresh-construction condition.
func (e *Engine) initState() {
	e.noiseEnergy = energyEpsilon
	e.gain = 1.0
	e.warmed = false
}

// FrameSize returns the fixed frame size in samples.
func (e *Engine) FrameSize() int {
	return FrameSize
}

// Model returns the engine's active parameter set.
func (e *Engine) Model() Model {
	return e.model
}

// ProcessFrame denoises exactly FrameSize samples in place and returns the
// frame's speech probability in [0, 1].
func (e *Engine) ProcessFrame(frame []float32) (float32, error) {
	if e.closed {
		return 0, fmt.Errorf("engine is closed")
	}
	if len(frame) != FrameSize {
		logrus.WithFields(logrus.Fields{
			"function": "ProcessFrame",
			"expected": FrameSize,
			"actual":   len(frame),
			"error":    "frame size mismatch",
		}).Error("Frame size validation failed")
		return 0, fmt.Errorf("frame must hold exactly %d samples, got %d", FrameSize, len(frame))
	}

	energy := frameEnergy(frame)
	e.updateNoiseFloor(energy)

	probability := e.speechProbability(energy)

	// Noise-only frames sit at the attenuation floor; confident speech
	// approaches unity gain.
	target := float64(e.model.AttenuationFloor) + (1.0-float64(e.model.AttenuationFloor))*probability
	smoothing := float64(e.model.GainSmoothing)
	e.gain = smoothing*e.gain + (1.0-smoothing)*target

	scale := float32(e.gain)
	for i := range frame {
		frame[i] *= scale
	}

	return float32(probability), nil
}

// Reset reinitializes the engine state, equivalent to fresh construction.
func (e *Engine) Reset() error {
	logrus.WithFields(logrus.Fields{
		"function": "Reset",
	}).Debug("Resetting gate engine state")

	if e.closed {
		return fmt.Errorf("engine is closed")
	}
	e.initState()
	return nil
}

// Close releases the engine state. The engine must not be used afterwards.
func (e *Engine) Close() error {
	logrus.WithFields(logrus.Fields{
		"function": "Close",
	}).Debug("Closing gate engine")

	e.closed = true
	return nil
}

// frameEnergy returns the mean square energy of a frame.
func frameEnergy(frame []float32) float64 {
	var sum float64
	for _, s := range frame {
		sum += float64(s) * float64(s)
	}
	return sum / float64(len(frame))
}

// updateNoiseFloor adapts the noise energy estimate toward the frame energy.
//
// The first frame seeds the estimate directly; afterwards adaptation is
// asymmetric so short speech bursts raise the floor only slowly while
// decaying noise pulls it down quickly.
func (e *Engine) updateNoiseFloor(energy float64) {
	if !e.warmed {
		e.noiseEnergy = math.Max(energy, energyEpsilon)
		e.warmed = true
		return
	}

	rate := float64(e.model.NoiseAttack)
	if energy < e.noiseEnergy {
		rate = float64(e.model.NoiseRelease)
	}
	e.noiseEnergy += rate * (energy - e.noiseEnergy)
	if e.noiseEnergy < energyEpsilon {
		e.noiseEnergy = energyEpsilon
	}
}

// speechProbability maps the frame's log-SNR through a logistic curve.
func (e *Engine) speechProbability(energy float64) float64 {
	if energy <= energyEpsilon {
		return 0
	}

	logSNR := math.Log10(energy / e.noiseEnergy)
	p := 1.0 / (1.0 + math.Exp(-float64(e.model.VADSlope)*(logSNR-float64(e.model.VADBias))))

	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
