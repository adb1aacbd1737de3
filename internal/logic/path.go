package logic

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SplitPath returns the components of a relative path after resolving "."
// and ".." elements, e.g. "this/./is/a/very/../nested/file.ext" becomes
// [this is a nested file.ext].
func SplitPath(path string) ([]string, error) {
	cleaned := filepath.ToSlash(filepath.Clean(path))

	parts := make([]string, 0, strings.Count(cleaned, "/")+1)
	for _, part := range strings.Split(cleaned, "/") {
		if part == "" || part == "." {
			continue
		}
		parts = append(parts, part)
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("empty path %q", path)
	}
	return parts, nil
}
