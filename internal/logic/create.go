package logic

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/WendelHime/mktorrent/internal/output"
	"github.com/WendelHime/mktorrent/internal/piece"
	"github.com/WendelHime/mktorrent/internal/shared/models"
	"github.com/WendelHime/mktorrent/internal/walker"
)

type Options struct {
	Announce   string
	CreatedBy  string
	IncludeMD5 bool
	// Name replaces the base name of the input in info.name and in the
	// output file name.
	Name             string
	ExcludedPaths    []string
	ExcludedPatterns []*regexp.Regexp
	// Progress is called with the number of bytes hashed after every chunk.
	Progress func(n int64)
}

type Result struct {
	Metainfo models.Metainfo
	Torrent  []byte
	FileName string
	// Path is set once the torrent was written to disk.
	Path     string
	Warnings []walker.Warning
}

type Creator interface {
	// Create builds and encodes the metainfo for the file or directory at
	// path without touching the disk.
	Create(ctx context.Context, path string, opts Options) (Result, error)
	// CreateFile is Create followed by writing the torrent with out.
	CreateFile(ctx context.Context, path string, opts Options, out output.Writer) (Result, error)
	WithClock(now func() time.Time) Creator
}

type creator struct {
	walker walker.Walker
	log    *slog.Logger
	now    func() time.Time
}

func NewCreator(w walker.Walker, logger *slog.Logger) Creator {
	return &creator{walker: w, log: logger, now: time.Now}
}

func (c *creator) WithClock(now func() time.Time) Creator {
	c.now = now
	return c
}

func (c *creator) Create(ctx context.Context, path string, opts Options) (Result, error) {
	node, err := filepath.Abs(path)
	if err != nil {
		return Result{}, err
	}

	stat, err := os.Stat(node)
	if err != nil {
		return Result{}, err
	}

	var info models.Info
	var warnings []walker.Warning
	switch {
	case stat.Mode().IsRegular():
		info, err = c.singleFile(ctx, node, stat.Size(), opts)
	case stat.IsDir():
		info, warnings, err = c.directory(ctx, node, opts)
	default:
		err = fmt.Errorf("%w: %s is neither a file nor a directory", models.ErrInvalidNode, node)
	}
	if err != nil {
		return Result{}, err
	}

	if opts.Name != "" {
		info.Name = opts.Name
	}

	meta, err := NewMetainfo(&info, opts.Announce, opts.CreatedBy, c.now())
	if err != nil {
		return Result{}, err
	}

	torrent, err := Encode(meta)
	if err != nil {
		return Result{}, err
	}

	c.log.Info("torrent created",
		slog.String("name", info.Name),
		slog.Int64("size", info.TotalLength()),
		slog.Int64("piece_length", info.PieceLength.Int64()),
		slog.Int("pieces", info.PieceCount()),
	)

	return Result{
		Metainfo: meta,
		Torrent:  torrent,
		FileName: output.FileName(info.Name),
		Warnings: warnings,
	}, nil
}

func (c *creator) CreateFile(ctx context.Context, path string, opts Options, out output.Writer) (Result, error) {
	result, err := c.Create(ctx, path, opts)
	if err != nil {
		return Result{}, err
	}

	result.Path, err = out.Write(ctx, result.Metainfo.Info.Name, result.Torrent)
	if err != nil {
		return Result{}, err
	}

	c.log.Info("torrent written", slog.String("path", result.Path))
	return result, nil
}

func (c *creator) singleFile(ctx context.Context, file string, size int64, opts Options) (models.Info, error) {
	if size == 0 {
		return models.Info{}, fmt.Errorf("%w: %s", models.ErrEmptyData, file)
	}

	pieceLength, err := piece.SelectLength(size)
	if err != nil {
		return models.Info{}, err
	}
	c.log.Info("hashing file", slog.String("path", file), slog.Int64("size", size), slog.Int64("piece_length", pieceLength.Int64()))

	return BuildSingleFileInfo(ctx, file, pieceLength, opts.IncludeMD5, opts.Progress)
}

func (c *creator) directory(ctx context.Context, dir string, opts Options) (models.Info, []walker.Warning, error) {
	walked, err := c.walker.Walk(dir, walker.Options{
		ExcludedPaths:    opts.ExcludedPaths,
		ExcludedPatterns: opts.ExcludedPatterns,
	})
	if err != nil {
		return models.Info{}, nil, err
	}

	var size int64
	for _, file := range walked.Files {
		stat, err := os.Stat(filepath.Join(dir, file))
		if err != nil {
			return models.Info{}, nil, err
		}
		size += stat.Size()
	}
	if size == 0 {
		return models.Info{}, nil, fmt.Errorf("%w: %s", models.ErrEmptyData, dir)
	}

	pieceLength, err := piece.SelectLength(size)
	if err != nil {
		return models.Info{}, nil, err
	}
	c.log.Info("hashing directory",
		slog.String("path", dir),
		slog.Int("files", len(walked.Files)),
		slog.Int64("size", size),
		slog.Int64("piece_length", pieceLength.Int64()),
	)

	info, err := BuildMultiFileInfo(ctx, dir, walked.Files, pieceLength, opts.IncludeMD5, opts.Progress)
	if err != nil {
		return models.Info{}, nil, err
	}
	return info, walked.Warnings, nil
}
