package models

import "encoding/hex"

// Metainfo is the complete description of a build: the info record plus
// the distribution metadata stored next to it.
type Metainfo struct {
	Info         Info
	Announce     string
	CreationDate int64
	CreatedBy    string
}

// Info describes the data itself. Exactly one of Length (single file) or
// Files (multi file) is meaningful, selected by Multi.
type Info struct {
	Name        string
	PieceLength PieceLength
	Pieces      []byte

	Multi bool

	// single file
	Length int64
	MD5Sum string

	// multi file
	Files []FileEntry
}

type FileEntry struct {
	Path   []string
	Length int64
	MD5Sum string
}

// TotalLength is the size of the byte stream the pieces were computed over.
func (i Info) TotalLength() int64 {
	if !i.Multi {
		return i.Length
	}
	var total int64
	for _, f := range i.Files {
		total += f.Length
	}
	return total
}

// PieceCount is the number of digests stored in Pieces.
func (i Info) PieceCount() int {
	return len(i.Pieces) / HashSize
}

type Hash struct {
	Hash []byte
}

func (h Hash) String() string {
	return string(h.Hash)
}

func (h Hash) Hex() string {
	return hex.EncodeToString(h.Hash)
}
