// Package persist writes rendered QR codes to disk as PNG.
package persist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"

	"qrterm/internal/domain"
)

// EnsureExt appends ".png" unless path already ends with it.
func EnsureExt(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".png") {
		return path
	}
	return path + ".png"
}

// fileMode keeps the permissions of a file being replaced and uses 0644
// for new ones.
func fileMode(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		return info.Mode().Perm()
	}
	return 0o644
}

// Exists reports whether a file is already present at path.
func Exists(path string) bool {
	_, err := os.Stat(EnsureExt(path))
	return err == nil
}

// SavePNG writes img to path, adding the .png extension when missing, and
// returns the final path. The image is written to a temporary file next
// to the destination and renamed over it, so a failed save leaves any
// previous file untouched.
func SavePNG(img *domain.Image, path string) (string, error) {
	if img == nil || img.Pixels == nil {
		return "", fmt.Errorf("no QR code to save: %w", domain.ErrEncoding)
	}
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("empty destination path: %w", domain.ErrIO)
	}
	path = EnsureExt(path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %v: %w", dir, err, domain.ErrIO)
	}

	tmp, err := os.CreateTemp(dir, ".qrterm-*.png")
	if err != nil {
		return "", fmt.Errorf("create temp file in %s: %v: %w", dir, err, domain.ErrIO)
	}
	tmpName := tmp.Name()
	tmp.Close()

	if err := gg.SavePNG(tmpName, img.Pixels); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("encode PNG: %v: %w", err, domain.ErrIO)
	}
	if err := os.Chmod(tmpName, fileMode(path)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("chmod %s: %v: %w", tmpName, err, domain.ErrIO)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("write %s: %v: %w", path, err, domain.ErrIO)
	}
	return path, nil
}
