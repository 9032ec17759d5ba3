package delivery

import (
	"fmt"
	"os"
	"path/filepath"
)

// LocalSaver writes exports under Dir.
type LocalSaver struct {
	Dir string
}

// Save writes data to Dir/filename through a temp file and rename, so a
// failed write never leaves a partial workbook behind.
func (l LocalSaver) Save(filename string, data []byte) (string, error) {
	dir := l.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("delivery: create output dir: %w", err)
	}
	target := filepath.Join(dir, filepath.Base(filename))

	tmp, err := os.CreateTemp(dir, ".practicum-*.xlsx")
	if err != nil {
		return "", fmt.Errorf("delivery: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("delivery: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("delivery: close: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("delivery: chmod: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("delivery: rename: %w", err)
	}
	return target, nil
}
