// Package gate implements the default fixed-frame denoising engine.
//
// This file implements model blob handling: a small serialized parameter
// set with an embedded BLAKE2b-256 integrity digest, so build-time asset
// pipelines can pin model versions by digest and the loader can reject
// corrupted or truncated blobs before any state is constructed.
package gate

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

// Model blob format errors.
var (
	// ErrModelTruncated indicates the blob is too short to hold a model.
	ErrModelTruncated = errors.New("model blob truncated")

	// ErrModelMagic indicates the blob does not start with the model magic.
	ErrModelMagic = errors.New("model blob has invalid magic")

	// ErrModelVersion indicates an unsupported model format version.
	ErrModelVersion = errors.New("unsupported model format version")

	// ErrModelDigest indicates the embedded integrity digest does not match.
	ErrModelDigest = errors.New("model blob digest mismatch")
)

// modelMagic identifies a serialized gate model blob.
var modelMagic = [4]byte{'D', 'N', 'G', 'M'}

// modelVersion is the only blob format version this loader accepts.
const modelVersion = 1

// modelParamCount is the number of float32 parameters in a version-1 blob.
const modelParamCount = 6

// modelBlobSize is the exact length of a version-1 blob:
// magic + version byte + params + BLAKE2b-256 digest.
const modelBlobSize = 4 + 1 + modelParamCount*4 + blake2b.Size256

// Model holds the tuning parameters of the gate engine.
//
// All fields are plain multipliers or logistic coefficients; the zero value
// is not usable, start from DefaultModel when deriving custom tunings.
type Model struct {
	// AttenuationFloor is the minimum gain applied to noise-only frames.
	AttenuationFloor float32

	// NoiseAttack is the noise floor adaptation rate while frame energy
	// exceeds the estimate. Kept small so speech does not inflate the floor.
	NoiseAttack float32

	// NoiseRelease is the adaptation rate while frame energy falls below
	// the estimate, letting the floor track decaying noise quickly.
	NoiseRelease float32

	// VADSlope is the steepness of the logistic mapping log-SNR to
	// speech probability.
	VADSlope float32

	// VADBias is the log-SNR (base 10) at which speech probability is 0.5.
	VADBias float32

	// GainSmoothing is the per-frame smoothing coefficient applied to the
	// suppression gain, limiting gain jumps between adjacent frames.
	GainSmoothing float32
}

// DefaultModel returns the built-in model tuning for general voice capture.
func DefaultModel() Model {
	return Model{
		AttenuationFloor: 0.15,
		NoiseAttack:      0.02,
		NoiseRelease:     0.30,
		VADSlope:         3.5,
		VADBias:          0.9,
		GainSmoothing:    0.6,
	}
}

// validate rejects parameter sets the engine cannot run with.
func (m Model) validate() error {
	if m.AttenuationFloor < 0 || m.AttenuationFloor > 1 {
		return fmt.Errorf("attenuation floor out of range [0,1]: %g", m.AttenuationFloor)
	}
	if m.NoiseAttack <= 0 || m.NoiseAttack > 1 {
		return fmt.Errorf("noise attack out of range (0,1]: %g", m.NoiseAttack)
	}
	if m.NoiseRelease <= 0 || m.NoiseRelease > 1 {
		return fmt.Errorf("noise release out of range (0,1]: %g", m.NoiseRelease)
	}
	if m.VADSlope <= 0 {
		return fmt.Errorf("vad slope must be positive: %g", m.VADSlope)
	}
	if m.GainSmoothing < 0 || m.GainSmoothing >= 1 {
		return fmt.Errorf("gain smoothing out of range [0,1): %g", m.GainSmoothing)
	}
	return nil
}

// params returns the model's parameters in serialization order.
func (m Model) params() [modelParamCount]float32 {
	return [modelParamCount]float32{
		m.AttenuationFloor,
		m.NoiseAttack,
		m.NoiseRelease,
		m.VADSlope,
		m.VADBias,
		m.GainSmoothing,
	}
}

// EncodeModel serializes a model into the digest-pinned blob format
// accepted by New.
func EncodeModel(m Model) []byte {
	blob := make([]byte, 0, modelBlobSize)
	blob = append(blob, modelMagic[:]...)
	blob = append(blob, modelVersion)

	for _, p := range m.params() {
		var scratch [4]byte
		binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(p))
		blob = append(blob, scratch[:]...)
	}

	digest := blake2b.Sum256(blob)
	return append(blob, digest[:]...)
}

// DecodeModel parses and integrity-checks a serialized model blob.
func DecodeModel(blob []byte) (Model, error) {
	logrus.WithFields(logrus.Fields{
		"function":  "DecodeModel",
		"blob_size": len(blob),
	}).Debug("Decoding model blob")

	if len(blob) != modelBlobSize {
		logrus.WithFields(logrus.Fields{
			"function": "DecodeModel",
			"expected": modelBlobSize,
			"actual":   len(blob),
			"error":    "truncated or oversized blob",
		}).Error("Model blob size validation failed")
		return Model{}, ErrModelTruncated
	}

	if !bytes.Equal(blob[:4], modelMagic[:]) {
		logrus.WithFields(logrus.Fields{
			"function": "DecodeModel",
			"error":    "magic mismatch",
		}).Error("Model blob magic validation failed")
		return Model{}, ErrModelMagic
	}

	if blob[4] != modelVersion {
		logrus.WithFields(logrus.Fields{
			"function": "DecodeModel",
			"version":  blob[4],
			"error":    "unsupported version",
		}).Error("Model blob version validation failed")
		return Model{}, ErrModelVersion
	}

	payloadEnd := len(blob) - blake2b.Size256
	digest := blake2b.Sum256(blob[:payloadEnd])
	if !bytes.Equal(digest[:], blob[payloadEnd:]) {
		logrus.WithFields(logrus.Fields{
			"function": "DecodeModel",
			"error":    "digest mismatch",
		}).Error("Model blob integrity check failed")
		return Model{}, ErrModelDigest
	}

	var params [modelParamCount]float32
	for i := range params {
		bits := binary.LittleEndian.Uint32(blob[5+i*4 : 9+i*4])
		params[i] = math.Float32frombits(bits)
	}

	m := Model{
		AttenuationFloor: params[0],
		NoiseAttack:      params[1],
		NoiseRelease:     params[2],
		VADSlope:         params[3],
		VADBias:          params[4],
		GainSmoothing:    params[5],
	}

	if err := m.validate(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "DecodeModel",
			"error":    err.Error(),
		}).Error("Model parameter validation failed")
		return Model{}, fmt.Errorf("invalid model parameters: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "DecodeModel",
	}).Debug("Model blob decoded successfully")

	return m, nil
}

// ModelDigest returns the hex BLAKE2b-256 digest of a model blob, as used
// by asset pipelines to pin model versions.
func ModelDigest(blob []byte) string {
	digest := blake2b.Sum256(blob)
	return hex.EncodeToString(digest[:])
}
