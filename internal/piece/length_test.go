package piece

import (
	"math"
	"testing"

	"github.com/WendelHime/mktorrent/internal/shared/models"
	"github.com/stretchr/testify/assert"
)

func TestSelectLength(t *testing.T) {
	var tests = []struct {
		name   string
		size   int64
		assert func(t *testing.T, actual models.PieceLength, err error)
	}{
		{
			name: "zero size is rejected",
			size: 0,
			assert: func(t *testing.T, actual models.PieceLength, err error) {
				assert.ErrorIs(t, err, models.ErrInvalidSize)
			},
		},
		{
			name: "negative size is rejected",
			size: -1,
			assert: func(t *testing.T, actual models.PieceLength, err error) {
				assert.ErrorIs(t, err, models.ErrInvalidSize)
			},
		},
		{
			name: "one byte gets the minimum piece length",
			size: 1,
			assert: func(t *testing.T, actual models.PieceLength, err error) {
				assert.Nil(t, err)
				assert.Equal(t, 16*models.KiB, int(actual))
			},
		},
		{
			name: "20000 bytes gets the minimum piece length",
			size: 20000,
			assert: func(t *testing.T, actual models.PieceLength, err error) {
				assert.Nil(t, err)
				assert.Equal(t, 16*models.KiB, int(actual))
			},
		},
		{
			name: "8 MiB stays at 256 KiB pieces",
			size: 8 * models.MiB,
			assert: func(t *testing.T, actual models.PieceLength, err error) {
				assert.Nil(t, err)
				assert.Equal(t, 256*models.KiB, int(actual))
			},
		},
		{
			name: "1 MiB is halved down to 128 KiB",
			size: 1 * models.MiB,
			assert: func(t *testing.T, actual models.PieceLength, err error) {
				assert.Nil(t, err)
				assert.Equal(t, 128*models.KiB, int(actual))
			},
		},
		{
			name: "1 GiB is doubled to 1 MiB",
			size: 1024 * models.MiB,
			assert: func(t *testing.T, actual models.PieceLength, err error) {
				assert.Nil(t, err)
				assert.Equal(t, 1*models.MiB, int(actual))
			},
		},
		{
			name: "100 GiB is clamped to 1 MiB",
			size: 100 * 1024 * models.MiB,
			assert: func(t *testing.T, actual models.PieceLength, err error) {
				assert.Nil(t, err)
				assert.Equal(t, 1*models.MiB, int(actual))
			},
		},
		{
			name: "largest size is clamped to 1 MiB",
			size: math.MaxInt64,
			assert: func(t *testing.T, actual models.PieceLength, err error) {
				assert.Nil(t, err)
				assert.Equal(t, models.MaxPieceLength, actual)
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			actual, err := SelectLength(tt.size)
			tt.assert(t, actual, err)
		})
	}
}

func TestSelectLengthBounds(t *testing.T) {
	sizes := []int64{1, 100, 16*models.KiB - 1, 16 * models.KiB, 16*models.KiB + 1, 100 * models.KiB,
		3 * models.MiB, 511 * models.MiB, 2000 * models.MiB, 1 << 40,
		1 << 60, 1 << 62, math.MaxInt64 / 2, math.MaxInt64}
	for s := int64(1); s < 1<<36; s = s*3 + 7 {
		sizes = append(sizes, s)
	}

	for _, size := range sizes {
		actual, err := SelectLength(size)
		assert.Nil(t, err)
		assert.GreaterOrEqual(t, actual, models.MinPieceLength, "size %d", size)
		assert.LessOrEqual(t, actual, models.MaxPieceLength, "size %d", size)
		assert.Zero(t, actual&(actual-1), "size %d gave %d, not a power of two", size, actual)
		if size < 16*models.KiB {
			assert.Equal(t, models.MinPieceLength, actual)
		}
	}
}
