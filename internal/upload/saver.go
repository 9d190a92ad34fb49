// Package upload persists incoming file streams to a flat content directory
// under randomized, collision-resistant names.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrTooLarge is returned when a saved file exceeds the configured maximum.
// The file is removed before the error is returned.
var ErrTooLarge = errors.New("uploaded file is too large")

// placeholderName is used when the client supplied no filename at all.
const placeholderName = "upload"

// Saver writes upload streams into a single destination directory.
type Saver struct {
	dir     string
	maxSize int64
	log     *zap.Logger
}

// NewSaver creates a Saver writing into dir with a maxSize byte ceiling.
func NewSaver(dir string, maxSize int64, log *zap.Logger) *Saver {
	return &Saver{dir: dir, maxSize: maxSize, log: log}
}

// Dir returns the destination directory.
func (s *Saver) Dir() string {
	return s.dir
}

// Save streams src into the destination directory and returns the generated
// storage filename (`<token>_<sanitized-basename>`). src is closed on every
// exit path. On failure no file remains on disk: a partial write is removed
// best-effort, an oversized file is removed and ErrTooLarge returned.
func (s *Saver) Save(src io.ReadCloser, clientName string) (string, error) {
	defer func() {
		if err := src.Close(); err != nil {
			s.log.Warn("failed to close upload source", zap.Error(err))
		}
	}()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.New().String() + "_" + SanitizeName(clientName)
	destPath := filepath.Join(s.dir, name)

	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	// io.Copy streams in fixed-size chunks, so large uploads never sit in
	// memory in full.
	written, copyErr := io.Copy(dst, src)
	if closeErr := dst.Close(); copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		s.removePath(destPath)
		return "", fmt.Errorf("failed to write upload file: %w", copyErr)
	}

	if written > s.maxSize {
		s.removePath(destPath)
		return "", ErrTooLarge
	}

	return name, nil
}

// Remove deletes a stored file by its storage filename. Deletion is
// best-effort: failures are logged and never returned, so compensation paths
// cannot mask the error that triggered them.
func (s *Saver) Remove(name string) {
	s.removePath(filepath.Join(s.dir, filepath.Base(name)))
}

func (s *Saver) removePath(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("failed to remove upload file",
			zap.String("path", path),
			zap.Error(err),
		)
	}
}

// SanitizeName strips any directory components from a client-supplied
// filename. Both separator styles are handled so a Windows-style path cannot
// smuggle directories through filepath.Base on other platforms.
func SanitizeName(clientName string) string {
	name := clientName
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		name = name[i+1:]
	}
	name = filepath.Base(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return placeholderName
	}
	return name
}
