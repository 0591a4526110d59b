package denoise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpusStreamRequiresDenoiser(t *testing.T) {
	_, err := NewOpusStream(nil)

	assert.Error(t, err)
}

func TestOpusStreamEmptyPacket(t *testing.T) {
	d, _ := newTestDenoiser(t, 480)
	defer d.Close()

	s, err := NewOpusStream(d)
	require.NoError(t, err)

	out, prob, err := s.ProcessPacket(nil)

	assert.NoError(t, err)
	assert.Nil(t, out)
	assert.Zero(t, prob)
}

func TestOpusStreamRejectsGarbagePacket(t *testing.T) {
	d, engine := newTestDenoiser(t, 480)
	defer d.Close()

	s, err := NewOpusStream(d)
	require.NoError(t, err)

	// 0xFF selects a CELT-only configuration the pure Go decoder does not
	// implement; the decode error must surface without touching the stream.
	_, _, err = s.ProcessPacket([]byte{0xFF, 0xFF, 0xFF, 0xFF})

	assert.Error(t, err)
	assert.Zero(t, engine.frames)
	assert.Empty(t, d.stream.pending)
}

func TestOpusStreamReset(t *testing.T) {
	d, _ := newTestDenoiser(t, 480)
	defer d.Close()

	s, err := NewOpusStream(d)
	require.NoError(t, err)

	// Safe with and without a resampler in place.
	s.Reset()

	s.resampler, err = NewResampler(16000, 48000)
	require.NoError(t, err)
	_, err = s.resampler.Resample(make([]float32, 80))
	require.NoError(t, err)

	s.Reset()
	assert.Zero(t, s.resampler.position)
}
