package logic

import (
	"errors"
	"time"

	"github.com/WendelHime/mktorrent/internal/bencode"
	"github.com/WendelHime/mktorrent/internal/shared/models"
)

var errMissingInfo = errors.New("metainfo requires an info record")

// NewMetainfo wraps info with the distribution metadata.
func NewMetainfo(info *models.Info, announce, createdBy string, now time.Time) (models.Metainfo, error) {
	if info == nil {
		return models.Metainfo{}, errMissingInfo
	}
	return models.Metainfo{
		Info:         *info,
		Announce:     announce,
		CreationDate: now.Unix(),
		CreatedBy:    createdBy,
	}, nil
}

// MetainfoValue converts m into the dictionary stored in a .torrent file.
func MetainfoValue(m models.Metainfo) bencode.Dict {
	return bencode.Dict{
		"announce":      bencode.Str(m.Announce),
		"created by":    bencode.Str(m.CreatedBy),
		"creation date": bencode.Int(m.CreationDate),
		"info":          InfoValue(m.Info),
	}
}

func InfoValue(info models.Info) bencode.Dict {
	d := bencode.Dict{
		"name":         bencode.Str(info.Name),
		"piece length": bencode.Int(info.PieceLength),
		"pieces":       bencode.String(info.Pieces),
	}

	if !info.Multi {
		d["length"] = bencode.Int(info.Length)
		if info.MD5Sum != "" {
			d["md5sum"] = bencode.Str(info.MD5Sum)
		}
		return d
	}

	files := make(bencode.List, len(info.Files))
	for i, f := range info.Files {
		file := bencode.Dict{
			"length": bencode.Int(f.Length),
			"path":   bencode.Strs(f.Path),
		}
		if f.MD5Sum != "" {
			file["md5sum"] = bencode.Str(f.MD5Sum)
		}
		files[i] = file
	}
	d["files"] = files

	return d
}

// Encode returns the bencoded form of m.
func Encode(m models.Metainfo) ([]byte, error) {
	return bencode.Marshal(MetainfoValue(m))
}
