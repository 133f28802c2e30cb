package safeio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Root confines file reads to a fixed directory. The local-source mode
// reads whatever path the user types into the settings form, so every
// read is resolved against the configured root and rejected if it
// escapes it.
type Root struct {
	abs string
}

// NewRoot resolves dir to an absolute, symlink-free directory and locks
// all future reads under it.
func NewRoot(dir string) (*Root, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("safeio: empty root")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("safeio: %s is not a directory", abs)
	}
	return &Root{abs: abs}, nil
}

// Dir returns the absolute root directory.
func (r *Root) Dir() string {
	if r == nil {
		return ""
	}
	return r.abs
}

// ReadFile reads a file resolved relative to the root. Absolute paths and
// traversal outside the root are rejected.
func (r *Root) ReadFile(userPath string) ([]byte, error) {
	p, err := r.resolve(userPath)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("safeio: %s is a directory", userPath)
	}
	return os.ReadFile(p)
}

func (r *Root) resolve(userPath string) (string, error) {
	if r == nil {
		return "", errors.New("safeio: root not configured")
	}
	userPath = strings.TrimSpace(userPath)
	if userPath == "" {
		return "", errors.New("safeio: empty path")
	}
	if filepath.IsAbs(userPath) {
		return "", errors.New("safeio: absolute paths not allowed")
	}
	clean := filepath.Clean(userPath)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.New("safeio: path traversal not allowed")
	}
	joined := filepath.Join(r.abs, clean)
	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		return "", err
	}
	if resolved != r.abs && !strings.HasPrefix(resolved, r.abs+string(filepath.Separator)) {
		return "", fmt.Errorf("safeio: %s resolves outside the root", userPath)
	}
	return resolved, nil
}
