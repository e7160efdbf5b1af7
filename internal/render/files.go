package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// fileName turns a report name into a safe base name. Report names may carry
// user input such as city names, so anything outside [A-Za-z0-9_-] becomes
// an underscore and path separators cannot escape the output directory.
func fileName(name, ext string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	if clean == "" {
		clean = "report"
	}
	return clean + "." + ext
}

// writeFile writes through a temp file in dir and renames it into place so
// a failed render never leaves a truncated artifact.
func writeFile(dir, base string, w io.WriterTo) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after rename

	if _, err := w.WriteTo(tmp); err != nil {
		tmp.Close() //nolint:errcheck,gosec // already failing
		return "", fmt.Errorf("write %s: %w", base, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", base, err)
	}

	path := filepath.Join(dir, base)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename %s: %w", base, err)
	}
	return path, nil
}
