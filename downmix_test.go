package denoise

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownmixMonoPlanarStereo(t *testing.T) {
	// Opposite-phase channels must cancel exactly.
	buf := &AudioBuffer{
		Format:     SampleFormatFloat32,
		Layout:     LayoutPlanar,
		Channels:   2,
		SampleRate: 48000,
		Planes: [][]float32{
			{1, 1},
			{-1, -1},
		},
	}

	mono, err := DownmixMono(buf)

	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0}, mono)
}

func TestDownmixMonoInterleavedStereo(t *testing.T) {
	buf := &AudioBuffer{
		Format:      SampleFormatFloat32,
		Layout:      LayoutInterleaved,
		Channels:    2,
		SampleRate:  48000,
		Interleaved: []float32{0.2, 0.4, -0.5, 0.5, 1, 0},
	}

	mono, err := DownmixMono(buf)

	require.NoError(t, err)
	require.Len(t, mono, 3)
	assert.InDelta(t, 0.3, mono[0], 1e-6)
	assert.InDelta(t, 0.0, mono[1], 1e-6)
	assert.InDelta(t, 0.5, mono[2], 1e-6)
}

func TestDownmixMonoThreeChannels(t *testing.T) {
	buf := &AudioBuffer{
		Format:   SampleFormatFloat32,
		Layout:   LayoutPlanar,
		Channels: 3,
		Planes: [][]float32{
			{0.3},
			{0.3},
			{0.3},
		},
	}

	mono, err := DownmixMono(buf)

	require.NoError(t, err)
	require.Len(t, mono, 1)
	// Equal-weight mean, scale applied once per sample.
	assert.InDelta(t, 0.3, mono[0], 1e-6)
}

func TestDownmixMonoSingleChannelCopies(t *testing.T) {
	tests := []struct {
		name string
		buf  *AudioBuffer
	}{
		{
			name: "planar",
			buf: &AudioBuffer{
				Format:   SampleFormatFloat32,
				Layout:   LayoutPlanar,
				Channels: 1,
				Planes:   [][]float32{{0.1, 0.2, 0.3}},
			},
		},
		{
			name: "interleaved",
			buf: &AudioBuffer{
				Format:      SampleFormatFloat32,
				Layout:      LayoutInterleaved,
				Channels:    1,
				Interleaved: []float32{0.1, 0.2, 0.3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mono, err := DownmixMono(tt.buf)

			require.NoError(t, err)
			assert.Equal(t, []float32{0.1, 0.2, 0.3}, mono)

			// The result must be a copy, never an alias of caller storage.
			mono[0] = 9
			if tt.buf.Layout == LayoutPlanar {
				assert.Equal(t, float32(0.1), tt.buf.Planes[0][0])
			} else {
				assert.Equal(t, float32(0.1), tt.buf.Interleaved[0])
			}
		})
	}
}

func TestDownmixMonoEmptyBuffer(t *testing.T) {
	buf := &AudioBuffer{
		Format:   SampleFormatFloat32,
		Layout:   LayoutInterleaved,
		Channels: 2,
	}

	mono, err := DownmixMono(buf)

	assert.NoError(t, err)
	assert.Empty(t, mono)
}

func TestDownmixMonoValidation(t *testing.T) {
	_, err := DownmixMono(nil)
	assert.ErrorIs(t, err, ErrNilBuffer)

	_, err = DownmixMono(&AudioBuffer{Format: SampleFormatInt16, Channels: 1})
	var formatErr *UnsupportedSampleFormatError
	assert.True(t, errors.As(err, &formatErr))

	_, err = DownmixMono(&AudioBuffer{Format: SampleFormatFloat32, Channels: 0})
	var channelErr *UnsupportedChannelCountError
	assert.True(t, errors.As(err, &channelErr))

	// A planar buffer claiming more channels than it carries planes for.
	_, err = DownmixMono(&AudioBuffer{
		Format:   SampleFormatFloat32,
		Layout:   LayoutPlanar,
		Channels: 2,
		Planes:   [][]float32{{0.1, 0.2}},
	})
	assert.True(t, errors.As(err, &channelErr))
}
