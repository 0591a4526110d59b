// Package denoise provides streaming noise suppression for real-time audio.
//
// This file implements the carryover buffer: the state machine that adapts
// arbitrarily-chunked caller input to the engine's fixed frame size. The
// buffer accumulates incoming samples, feeds every complete frame through
// the engine, and retains the sub-frame remainder for the next call.
//
// Invariant: len(pending) < engine.FrameSize() whenever no operation is in
// flight, and the total sample count flowing out (processed output plus
// flushed remainder) always equals the total sample count flowing in.
package denoise

import (
	"github.com/sirupsen/logrus"
)

// streamBuffer holds the carryover state for one logical audio stream.
//
// It is not safe for concurrent use on its own; the owning Denoiser
// serializes access under its lock.
type streamBuffer struct {
	engine  Engine
	pending []float32
}

// ingest appends samples to the carryover, processes every complete frame
// in place through the engine, and retains the remainder.
//
// The returned output holds the post-processing values of exactly
// frameCount*N samples (nil when no complete frame accumulated) along with
// the arithmetic mean of the per-frame speech probabilities. Frame
// boundaries depend only on the cumulative sample count, so any chunking of
// the same stream produces bit-identical output.
//
// An engine error leaves the carryover unchanged; it can only arise from an
// engine violating its own frame contract.
func (b *streamBuffer) ingest(samples []float32) ([]float32, float32, error) {
	frameSize := b.engine.FrameSize()

	combined := make([]float32, 0, len(b.pending)+len(samples))
	combined = append(combined, b.pending...)
	combined = append(combined, samples...)

	frameCount := len(combined) / frameSize
	if frameCount == 0 {
		logrus.WithFields(logrus.Fields{
			"function":   "streamBuffer.ingest",
			"new":        len(samples),
			"pending":    len(combined),
			"frame_size": frameSize,
		}).Debug("Sub-frame accumulation, retaining all samples")
		b.pending = combined
		return nil, 0, nil
	}

	processed := frameCount * frameSize
	var probabilitySum float64
	for i := 0; i < frameCount; i++ {
		probability, err := b.engine.ProcessFrame(combined[i*frameSize : (i+1)*frameSize])
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "streamBuffer.ingest",
				"frame":    i,
				"error":    err.Error(),
			}).Error("Engine frame processing failed")
			return nil, 0, err
		}
		probabilitySum += float64(probability)
	}

	// Keep the remainder in a buffer detached from the returned output.
	b.pending = append(b.pending[:0], combined[processed:]...)

	logrus.WithFields(logrus.Fields{
		"function":  "streamBuffer.ingest",
		"frames":    frameCount,
		"processed": processed,
		"remainder": len(b.pending),
	}).Debug("Processed complete frames, retained remainder")

	return combined[:processed], float32(probabilitySum / float64(frameCount)), nil
}

// flush drains the carryover buffer.
//
// With processPartial false the pending samples are returned verbatim with
// probability 0. With processPartial true the pending samples are zero-padded
// to one full frame, run through the engine, and only the leading
// len(pending) samples of the result are returned along with that frame's
// speech probability. Either way the carryover is empty afterwards.
func (b *streamBuffer) flush(processPartial bool) ([]float32, float32, error) {
	if len(b.pending) == 0 {
		return nil, 0, nil
	}

	logrus.WithFields(logrus.Fields{
		"function":        "streamBuffer.flush",
		"pending":         len(b.pending),
		"process_partial": processPartial,
	}).Debug("Flushing carryover buffer")

	if !processPartial {
		out := b.pending
		b.pending = nil
		return out, 0, nil
	}

	remainder := len(b.pending)
	frame := make([]float32, b.engine.FrameSize())
	copy(frame, b.pending)

	probability, err := b.engine.ProcessFrame(frame)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "streamBuffer.flush",
			"error":    err.Error(),
		}).Error("Engine frame processing failed during flush")
		return nil, 0, err
	}

	b.pending = nil
	return frame[:remainder], probability, nil
}

// reset discards all pending samples and optionally reinitializes the
// engine state to its fresh-construction condition.
func (b *streamBuffer) reset(resetEngineState bool) error {
	logrus.WithFields(logrus.Fields{
		"function":     "streamBuffer.reset",
		"dropped":      len(b.pending),
		"reset_engine": resetEngineState,
	}).Debug("Resetting stream state")

	b.pending = nil
	if resetEngineState {
		return b.engine.Reset()
	}
	return nil
}
