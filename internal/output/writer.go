package output

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/WendelHime/mktorrent/internal/shared/models"
)

// Extension is appended to the info name to form the output file name.
const Extension = ".torrent"

const chunkSize = 64 * models.KiB

type Writer interface {
	// Write stores data as <name>.torrent and returns the path written.
	Write(ctx context.Context, name string, data []byte) (string, error)
}

type writer struct {
	dir       string
	overwrite bool
	log       *slog.Logger
}

// NewWriter returns a Writer storing files in dir, or the working directory
// when dir is empty. Existing files are only replaced when overwrite is set.
func NewWriter(dir string, overwrite bool, logger *slog.Logger) Writer {
	return &writer{dir: dir, overwrite: overwrite, log: logger}
}

// FileName returns the output file name for an info name.
func FileName(name string) string {
	return name + Extension
}

// Write goes through a temporary file in the target directory that is
// moved into place once fully written and synced. Whatever fails before
// that point, including cancellation of ctx, the temporary file is removed
// so no truncated torrent is left behind.
func (w *writer) Write(ctx context.Context, name string, data []byte) (string, error) {
	dir := w.dir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, FileName(name))

	if !w.overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", &models.WriteError{Path: path, Err: models.ErrOutputExists}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", &models.WriteError{Path: path, Err: err}
		}
	}

	tmp, err := os.CreateTemp(dir, "."+FileName(name)+"-*")
	if err != nil {
		return "", &models.WriteError{Path: path, Err: err}
	}
	w.log.Debug("writing torrent", slog.String("path", path), slog.String("tmp", tmp.Name()), slog.Int("bytes", len(data)))

	if err := w.fill(ctx, tmp, data); err != nil {
		tmp.Close()
		w.discard(tmp.Name())
		return "", &models.WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		w.discard(tmp.Name())
		return "", &models.WriteError{Path: path, Err: err}
	}
	if err := ctx.Err(); err != nil {
		w.discard(tmp.Name())
		return "", &models.WriteError{Path: path, Err: err}
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		w.discard(tmp.Name())
		return "", &models.WriteError{Path: path, Err: err}
	}
	if err := w.commit(tmp.Name(), path); err != nil {
		w.discard(tmp.Name())
		return "", &models.WriteError{Path: path, Err: err}
	}

	return path, nil
}

// commit moves tmp to path. Without overwrite the file is hard linked
// instead of renamed, so a file that appeared at path after the initial
// check is reported rather than replaced.
func (w *writer) commit(tmp, path string) error {
	if w.overwrite {
		return os.Rename(tmp, path)
	}
	if err := os.Link(tmp, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return models.ErrOutputExists
		}
		return err
	}
	w.discard(tmp)
	return nil
}

func (w *writer) fill(ctx context.Context, f *os.File, data []byte) error {
	for len(data) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := min(len(data), chunkSize)
		if _, err := f.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return f.Sync()
}

func (w *writer) discard(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		w.log.Warn("failed to remove partial torrent", slog.String("path", path), slog.Any("error", err))
	}
}
