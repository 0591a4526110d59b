package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelEncodeDecodeRoundTrip(t *testing.T) {
	want := Model{
		AttenuationFloor: 0.2,
		NoiseAttack:      0.05,
		NoiseRelease:     0.4,
		VADSlope:         2.5,
		VADBias:          1.1,
		GainSmoothing:    0.5,
	}

	blob := EncodeModel(want)
	got, err := DecodeModel(blob)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeModelRejectsCorruption(t *testing.T) {
	blob := EncodeModel(DefaultModel())

	tests := []struct {
		name    string
		mutate  func([]byte) []byte
		wantErr error
	}{
		{
			name:    "truncated",
			mutate:  func(b []byte) []byte { return b[:len(b)-1] },
			wantErr: ErrModelTruncated,
		},
		{
			name:    "empty",
			mutate:  func(b []byte) []byte { return nil },
			wantErr: ErrModelTruncated,
		},
		{
			name: "bad_magic",
			mutate: func(b []byte) []byte {
				b[0] ^= 0xFF
				return b
			},
			wantErr: ErrModelMagic,
		},
		{
			name: "bad_version",
			mutate: func(b []byte) []byte {
				b[4] = 99
				return b
			},
			wantErr: ErrModelVersion,
		},
		{
			name: "flipped_parameter_bit",
			mutate: func(b []byte) []byte {
				b[10] ^= 0x01
				return b
			},
			wantErr: ErrModelDigest,
		},
		{
			name: "flipped_digest_bit",
			mutate: func(b []byte) []byte {
				b[len(b)-1] ^= 0x01
				return b
			},
			wantErr: ErrModelDigest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corrupted := tt.mutate(append([]byte(nil), blob...))

			_, err := DecodeModel(corrupted)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeModelRejectsInvalidParameters(t *testing.T) {
	// A structurally valid blob carrying unusable parameters must still
	// be rejected by parameter validation.
	blob := EncodeModel(Model{
		AttenuationFloor: 2.0, // out of range
		NoiseAttack:      0.02,
		NoiseRelease:     0.3,
		VADSlope:         3.5,
		VADBias:          0.9,
		GainSmoothing:    0.6,
	})

	_, err := DecodeModel(blob)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrModelDigest)
}

func TestModelDigest(t *testing.T) {
	blob := EncodeModel(DefaultModel())

	digest := ModelDigest(blob)

	assert.Len(t, digest, 64, "BLAKE2b-256 hex digest")
	assert.Equal(t, digest, ModelDigest(blob), "digest must be stable")

	other := EncodeModel(Model{
		AttenuationFloor: 0.1,
		NoiseAttack:      0.02,
		NoiseRelease:     0.3,
		VADSlope:         3.5,
		VADBias:          0.9,
		GainSmoothing:    0.6,
	})
	assert.NotEqual(t, digest, ModelDigest(other))
}

func TestNewFromBlob(t *testing.T) {
	custom := Model{
		AttenuationFloor: 0.3,
		NoiseAttack:      0.04,
		NoiseRelease:     0.25,
		VADSlope:         4.0,
		VADBias:          0.8,
		GainSmoothing:    0.7,
	}

	engine, err := New(EncodeModel(custom))

	require.NoError(t, err)
	assert.Equal(t, custom, engine.Model())
}
