package models

// HashSize is the width of one piece digest.
const HashSize = 20

const (
	KiB = 1 << 10
	MiB = KiB * KiB
)

const (
	MinPieceLength PieceLength = 16 * KiB
	MaxPieceLength PieceLength = 1 * MiB
)

// PieceLength is the number of bytes covered by one piece digest.
type PieceLength int64

func (p PieceLength) Int64() int64 {
	return int64(p)
}

// PieceCount returns ceil(size / p).
func (p PieceLength) PieceCount(size int64) int {
	if p <= 0 || size <= 0 {
		return 0
	}
	return int((size + int64(p) - 1) / int64(p))
}
