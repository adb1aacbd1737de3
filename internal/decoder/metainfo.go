package decoder

import (
	"bytes"
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/WendelHime/mktorrent/internal/shared/models"
	"github.com/zeebo/bencode"
)

var ErrInvalidPieces = errors.New("pieces is not a multiple of the hash size")

// Torrent is what can be read back from an encoded metainfo.
type Torrent struct {
	Metainfo models.Metainfo
	InfoHash models.Hash
}

// Paths returns the slash separated path of every file, starting with the
// torrent name.
func (t Torrent) Paths() []string {
	info := t.Metainfo.Info
	if !info.Multi {
		return []string{info.Name}
	}
	paths := make([]string, len(info.Files))
	for i, f := range info.Files {
		paths[i] = path.Join(append([]string{info.Name}, f.Path...)...)
	}
	return paths
}

type MetafileDecoder interface {
	Decode(io.Reader) (Torrent, error)
}

type decoder struct {
	log *slog.Logger
}

func NewDecoder(logger *slog.Logger) MetafileDecoder {
	return decoder{log: logger}
}

// serialization struct the represents the structure of a .torrent file
type bencodeTorrent struct {
	Announce     string `bencode:"announce"`
	CreatedBy    string `bencode:"created by"`
	CreationDate int64  `bencode:"creation date"`
	// Info is kept raw so the info hash is computed over the exact bytes
	// that were stored.
	Info bencode.RawMessage `bencode:"info"`
}

type bencodeInfo struct {
	Name        string        `bencode:"name"`
	PieceLength int64         `bencode:"piece length"`
	Pieces      string        `bencode:"pieces"`
	Length      int64         `bencode:"length"`
	MD5Sum      string        `bencode:"md5sum"`
	Files       []bencodeFile `bencode:"files"`
}

type bencodeFile struct {
	Length int64    `bencode:"length"`
	MD5Sum string   `bencode:"md5sum"`
	Path   []string `bencode:"path"`
}

func (d decoder) Decode(torrent io.Reader) (Torrent, error) {
	var bt bencodeTorrent
	err := bencode.NewDecoder(torrent).Decode(&bt)
	if err != nil {
		d.log.Error("failed to decode torrent", slog.Any("error", err))
		return Torrent{}, err
	}

	var bi bencodeInfo
	err = bencode.NewDecoder(bytes.NewReader(bt.Info)).Decode(&bi)
	if err != nil {
		d.log.Error("failed to decode torrent info", slog.Any("error", err))
		return Torrent{}, err
	}

	if len(bi.Pieces)%models.HashSize != 0 {
		return Torrent{}, fmt.Errorf("%w: %d bytes", ErrInvalidPieces, len(bi.Pieces))
	}

	info := models.Info{
		Name:        bi.Name,
		PieceLength: models.PieceLength(bi.PieceLength),
		Pieces:      []byte(bi.Pieces),
		Length:      bi.Length,
		MD5Sum:      bi.MD5Sum,
	}
	if len(bi.Files) > 0 {
		info.Multi = true
		info.Files = make([]models.FileEntry, len(bi.Files))
		for i, f := range bi.Files {
			info.Files[i] = models.FileEntry{Path: f.Path, Length: f.Length, MD5Sum: f.MD5Sum}
		}
	}

	return Torrent{
		Metainfo: models.Metainfo{
			Info:         info,
			Announce:     bt.Announce,
			CreationDate: bt.CreationDate,
			CreatedBy:    bt.CreatedBy,
		},
		InfoHash: calculateInfoHash(bt.Info),
	}, nil
}

func calculateInfoHash(info []byte) models.Hash {
	sum := sha1.Sum(info)
	return models.Hash{Hash: sum[:]}
}
