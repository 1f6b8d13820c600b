// Package runnerscript places the embedded NW.js runner script on disk.
package runnerscript

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	nwerrors "github.com/AndreyAkinshin/nwtest/internal/errors"
	script "github.com/AndreyAkinshin/nwtest/runnerscript"
)

// DefaultDir returns the directory the runner script is materialized in:
// <user cache dir>/nwtest.
func DefaultDir() (string, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", nwerrors.Environmentf("cannot locate user cache directory: %v", err)
	}
	return filepath.Join(cache, "nwtest"), nil
}

// Materialize writes the runner script to dir and returns its absolute path.
// The file is only rewritten when its content differs, and the write goes
// through a temporary file so a concurrent reader never sees a partial script.
func Materialize(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, script.FileName)

	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, script.Script) {
		return path, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create runner directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, script.FileName+".*")
	if err != nil {
		return "", fmt.Errorf("write runner script: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(script.Script); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("write runner script: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("write runner script: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("install runner script: %w", err)
	}
	return path, nil
}

// Resolve returns the runner script to use. A non-empty override must name
// an existing file; otherwise the embedded script is materialized in
// DefaultDir.
func Resolve(override string) (string, error) {
	if override != "" {
		path, err := filepath.Abs(override)
		if err != nil {
			return "", err
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return "", nwerrors.Environmentf("runner script not found: %s", path)
		}
		return path, nil
	}

	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	path, err := Materialize(dir)
	if err != nil {
		return "", nwerrors.Environment(err.Error())
	}
	return path, nil
}
