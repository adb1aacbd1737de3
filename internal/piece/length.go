package piece

import (
	"fmt"

	"github.com/WendelHime/mktorrent/internal/shared/models"
)

const (
	initialPieceLength models.PieceLength = 256 * models.KiB
	maxPieceCount                         = 2000
	minPieceCount                         = 8
)

// SelectLength picks a piece length for size bytes of data.
//
// Starting at 256 KiB the length is doubled while there would be more than
// 2000 pieces (up to 1 MiB) and halved while there would be fewer than 8, then clamped to
// [16 KiB, 1 MiB]. Data smaller than 16 KiB always gets 16 KiB pieces.
func SelectLength(size int64) (models.PieceLength, error) {
	if size <= 0 {
		return 0, fmt.Errorf("%w: size must be greater than 0 (given: %d)", models.ErrInvalidSize, size)
	}

	if size < models.MinPieceLength.Int64() {
		return models.MinPieceLength, nil
	}

	pieceLength := initialPieceLength
	// Past MaxPieceLength the clamp decides, and 2000*length stays far from overflow.
	for pieceLength < models.MaxPieceLength && size > maxPieceCount*pieceLength.Int64() {
		pieceLength *= 2
	}
	for size < minPieceCount*pieceLength.Int64() {
		pieceLength /= 2
	}

	return max(min(pieceLength, models.MaxPieceLength), models.MinPieceLength), nil
}
