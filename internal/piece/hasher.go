package piece

import (
	"context"
	"crypto/sha1"
	"errors"
	"io"

	"github.com/WendelHime/mktorrent/internal/shared/models"
)

// Hasher splits a logical byte stream into fixed-size pieces and keeps the
// SHA-1 digest of each one. Piece boundaries depend only on the number of
// bytes written so far, never on how the stream is split into writes, so
// several files can be fed one after another and a piece may span the tail
// of one file and the head of the next.
type Hasher struct {
	pieceLength int
	pending     []byte
	pieces      []byte
	total       int64
	progress    func(n int64)
}

func NewHasher(pieceLength models.PieceLength) *Hasher {
	return &Hasher{
		pieceLength: int(pieceLength),
		pending:     make([]byte, 0, pieceLength),
	}
}

// WithProgress registers fn to be called with the size of every chunk
// consumed by Consume.
func (h *Hasher) WithProgress(fn func(n int64)) *Hasher {
	h.progress = fn
	return h
}

// Write implements io.Writer. It never fails.
func (h *Hasher) Write(p []byte) (int, error) {
	n := len(p)
	h.total += int64(n)

	if len(h.pending) > 0 {
		need := h.pieceLength - len(h.pending)
		if len(p) < need {
			h.pending = append(h.pending, p...)
			return n, nil
		}
		h.pending = append(h.pending, p[:need]...)
		h.digest(h.pending)
		h.pending = h.pending[:0]
		p = p[need:]
	}

	for len(p) >= h.pieceLength {
		h.digest(p[:h.pieceLength])
		p = p[h.pieceLength:]
	}
	h.pending = append(h.pending, p...)

	return n, nil
}

func (h *Hasher) digest(b []byte) {
	sum := sha1.Sum(b)
	h.pieces = append(h.pieces, sum[:]...)
}

// Consume reads r until EOF in piece-length chunks, feeding every chunk to
// the piece accumulator and to each of the extra writers (for example a
// whole-file checksum). The context is checked between chunks.
func (h *Hasher) Consume(ctx context.Context, r io.Reader, extra ...io.Writer) (int64, error) {
	w := io.Writer(h)
	if len(extra) > 0 {
		w = io.MultiWriter(append([]io.Writer{h}, extra...)...)
	}

	buf := make([]byte, h.pieceLength)
	var consumed int64
	for {
		if err := ctx.Err(); err != nil {
			return consumed, err
		}

		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return consumed, werr
			}
			consumed += int64(n)
			if h.progress != nil {
				h.progress(int64(n))
			}
		}
		if errors.Is(err, io.EOF) {
			return consumed, nil
		}
		if err != nil {
			return consumed, err
		}
	}
}

// Total is the number of bytes written so far.
func (h *Hasher) Total() int64 {
	return h.total
}

// Sum hashes the trailing short piece, if any, and returns the concatenated
// digests. It fails with ErrEmptyData when nothing was written.
func (h *Hasher) Sum() ([]byte, error) {
	if h.total == 0 {
		return nil, models.ErrEmptyData
	}
	if len(h.pending) > 0 {
		h.digest(h.pending)
		h.pending = h.pending[:0]
	}

	pieces := make([]byte, len(h.pieces))
	copy(pieces, h.pieces)
	return pieces, nil
}
