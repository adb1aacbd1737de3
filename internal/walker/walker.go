package walker

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"github.com/WendelHime/mktorrent/internal/shared/models"
)

// Options narrow down which files a walk returns.
type Options struct {
	// ExcludedPaths are literal paths that are skipped, together with
	// everything below them. The root itself cannot be excluded.
	ExcludedPaths []string
	// ExcludedPatterns are searched in the absolute path of every node.
	ExcludedPatterns []*regexp.Regexp
	// RelativeTo is the directory returned paths are relative to. Defaults
	// to the root.
	RelativeTo string
}

// Warning describes a node skipped because its target was already walked.
type Warning struct {
	Path   string
	Target string
}

func (w Warning) String() string {
	return fmt.Sprintf("skipping symlink %q, because its target %q has already been processed", w.Path, w.Target)
}

type Result struct {
	// Files holds the regular files found, relative to Options.RelativeTo,
	// in walk order.
	Files    []string
	Warnings []Warning
}

type Walker interface {
	Walk(root string, opts Options) (Result, error)
}

type walker struct {
	log *slog.Logger
}

func New(logger *slog.Logger) Walker {
	return &walker{log: logger}
}

// walk holds the state of one Walk call. A fresh one is created per call so
// nothing carries over between builds.
type walk struct {
	log        *slog.Logger
	excluded   map[string]struct{}
	patterns   []*regexp.Regexp
	relativeTo string
	visited    map[string]struct{}
	result     Result
}

// Walk enumerates the regular files reachable from root. Entries of every
// directory are visited in case-insensitive name order, so the same tree
// always yields the same list. Every node is resolved to its canonical path
// first; a node whose canonical path was already seen is skipped with a warning,
// which stops symlink loops. Anything that is neither a regular file nor a
// directory aborts the walk with ErrInvalidNode.
func (w *walker) Walk(root string, opts Options) (Result, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return Result{}, err
	}

	info, err := os.Stat(root)
	if err != nil {
		return Result{}, err
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("%w: %s", models.ErrNotADirectory, root)
	}

	relativeTo := root
	if opts.RelativeTo != "" {
		relativeTo, err = filepath.Abs(opts.RelativeTo)
		if err != nil {
			return Result{}, err
		}
		info, err := os.Stat(relativeTo)
		if err != nil || !info.IsDir() {
			return Result{}, fmt.Errorf("relative_to: %w: %s", models.ErrNotADirectory, opts.RelativeTo)
		}
	}

	state := &walk{
		log:        w.log,
		excluded:   make(map[string]struct{}, len(opts.ExcludedPaths)),
		patterns:   opts.ExcludedPatterns,
		relativeTo: relativeTo,
		visited:    make(map[string]struct{}),
	}
	for _, p := range opts.ExcludedPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return Result{}, err
		}
		state.excluded[normcase(abs)] = struct{}{}
	}

	if err := state.dir(root); err != nil {
		return Result{}, err
	}

	return state.result, nil
}

func (s *walk) dir(dir string) error {
	canonical, err := realpath(dir)
	if err != nil {
		return err
	}
	s.visited[canonical] = struct{}{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	sort.SliceStable(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})

	for _, name := range names {
		path := filepath.Join(dir, name)

		if s.isExcluded(path) {
			s.log.Debug("excluded", slog.String("path", path))
			continue
		}

		canonical, err := realpath(path)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", models.ErrInvalidNode, path, err)
		}
		if _, ok := s.visited[canonical]; ok {
			warning := Warning{Path: path, Target: canonical}
			s.log.Warn("skipping already processed node", slog.String("path", path), slog.String("target", canonical))
			s.result.Warnings = append(s.result.Warnings, warning)
			continue
		}
		s.visited[canonical] = struct{}{}

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", models.ErrInvalidNode, path, err)
		}

		switch {
		case info.Mode().IsRegular():
			rel, err := filepath.Rel(s.relativeTo, path)
			if err != nil {
				return err
			}
			s.result.Files = append(s.result.Files, rel)
		case info.IsDir():
			if err := s.dir(path); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s (%s)", models.ErrInvalidNode, path, info.Mode().Type())
		}
	}

	return nil
}

func (s *walk) isExcluded(path string) bool {
	if _, ok := s.excluded[normcase(path)]; ok {
		return true
	}
	for _, re := range s.patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

func realpath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", err
	}
	return normcase(abs), nil
}

// normcase folds case on platforms with case-insensitive file systems.
func normcase(path string) string {
	path = filepath.Clean(path)
	if runtime.GOOS == "windows" {
		return strings.ToLower(path)
	}
	return path
}
