package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WritableDir creates dir if needed and reports whether files can be
// created in it.
func WritableDir(dir string) bool {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warnf("Cannot create directory %s: %v", dir, err)
		return false
	}
	f, err := os.CreateTemp(dir, ".kanaserve-*")
	if err != nil {
		log.Warnf("Cannot write to directory %s: %v", dir, err)
		return false
	}
	f.Close()
	os.Remove(f.Name())
	return true
}

// WriteFileAtomic writes path through encode into a temp file in the same
// directory and renames it over path, so readers never see a partial file.
func WriteFileAtomic(path string, encode func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// EncodeTOML returns an encode func for WriteFileAtomic.
func EncodeTOML(v any) func(io.Writer) error {
	return func(w io.Writer) error {
		return toml.NewEncoder(w).Encode(v)
	}
}

// EncodeYAML returns an encode func for WriteFileAtomic, indented by two.
func EncodeYAML(v any) func(io.Writer) error {
	return func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
}

// GetAbsolutePath is path made absolute, or path itself when that fails.
func GetAbsolutePath(path string) string {
	if path == "" {
		return "unknown"
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// ResolveConfigDir returns ConfigDir when it is writable and the
// executable's directory otherwise.
func ResolveConfigDir() (string, error) {
	if dir := ConfigDir(); WritableDir(dir) {
		return dir, nil
	}
	return executableDir()
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	return filepath.Dir(exe), nil
}
