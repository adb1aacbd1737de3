package logic

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"

	"github.com/WendelHime/mktorrent/internal/piece"
	"github.com/WendelHime/mktorrent/internal/shared/models"
)

// BuildSingleFileInfo hashes file in one pass and returns its info record.
// The whole-file md5 is computed from the same chunks when includeMD5 is set.
func BuildSingleFileInfo(ctx context.Context, file string, pieceLength models.PieceLength, includeMD5 bool, progress func(int64)) (models.Info, error) {
	stat, err := os.Stat(file)
	if err != nil {
		return models.Info{}, err
	}
	if !stat.Mode().IsRegular() {
		return models.Info{}, fmt.Errorf("%w: %s", models.ErrNotAFile, file)
	}

	hasher := piece.NewHasher(pieceLength).WithProgress(progress)
	length, sum, err := consumeFile(ctx, hasher, file, includeMD5)
	if err != nil {
		return models.Info{}, err
	}

	pieces, err := hasher.Sum()
	if err != nil {
		return models.Info{}, fmt.Errorf("%w: %s", err, file)
	}

	return models.Info{
		Name:        filepath.Base(file),
		PieceLength: pieceLength,
		Pieces:      pieces,
		Length:      length,
		MD5Sum:      sum,
	}, nil
}

// BuildMultiFileInfo streams files, given relative to directory and in walk
// order, through a single hasher so pieces run across file boundaries.
func BuildMultiFileInfo(ctx context.Context, directory string, files []string, pieceLength models.PieceLength, includeMD5 bool, progress func(int64)) (models.Info, error) {
	stat, err := os.Stat(directory)
	if err != nil {
		return models.Info{}, err
	}
	if !stat.IsDir() {
		return models.Info{}, fmt.Errorf("%w: %s", models.ErrNotADirectory, directory)
	}

	hasher := piece.NewHasher(pieceLength).WithProgress(progress)
	entries := make([]models.FileEntry, 0, len(files))
	for _, file := range files {
		path, err := SplitPath(file)
		if err != nil {
			return models.Info{}, err
		}

		length, sum, err := consumeFile(ctx, hasher, filepath.Join(directory, file), includeMD5)
		if err != nil {
			return models.Info{}, err
		}

		entries = append(entries, models.FileEntry{Path: path, Length: length, MD5Sum: sum})
	}

	pieces, err := hasher.Sum()
	if err != nil {
		return models.Info{}, fmt.Errorf("%w: %s", err, directory)
	}

	return models.Info{
		Name:        filepath.Base(filepath.Clean(directory)),
		PieceLength: pieceLength,
		Pieces:      pieces,
		Multi:       true,
		Files:       entries,
	}, nil
}

// consumeFile feeds one file into hasher and returns the number of bytes
// read and, if requested, the hex md5 of exactly those bytes.
func consumeFile(ctx context.Context, hasher *piece.Hasher, path string, includeMD5 bool) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer f.Close()

	var sum hash.Hash
	var extra []io.Writer
	if includeMD5 {
		sum = md5.New()
		extra = append(extra, sum)
	}

	n, err := hasher.Consume(ctx, f, extra...)
	if err != nil {
		return 0, "", fmt.Errorf("failed to hash %s: %w", path, err)
	}

	if sum == nil {
		return n, "", nil
	}
	return n, hex.EncodeToString(sum.Sum(nil)), nil
}
