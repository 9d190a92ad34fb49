package upload

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"go.uber.org/zap"
)

var storedNamePattern = regexp.MustCompile(`^[0-9a-f-]{36}_`)

type trackedReader struct {
	io.Reader
	closed bool
}

func (r *trackedReader) Close() error {
	r.closed = true
	return nil
}

func newTestSaver(t *testing.T, maxSize int64) *Saver {
	t.Helper()
	return NewSaver(t.TempDir(), maxSize, zap.NewNop())
}

func dirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	return entries
}

func TestSaver_Save(t *testing.T) {
	t.Run("stores content under generated name", func(t *testing.T) {
		saver := newTestSaver(t, 1024)
		content := []byte("photo bytes")
		src := &trackedReader{Reader: bytes.NewReader(content)}

		name, err := saver.Save(src, "photo.jpg")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if !storedNamePattern.MatchString(name) {
			t.Errorf("Expected name with random token prefix, got %s", name)
		}
		if !strings.HasSuffix(name, "_photo.jpg") {
			t.Errorf("Expected name to keep original basename, got %s", name)
		}
		if !src.closed {
			t.Error("Expected source to be closed")
		}

		stored, err := os.ReadFile(filepath.Join(saver.Dir(), name))
		if err != nil {
			t.Fatalf("Expected stored file, got %v", err)
		}
		if !bytes.Equal(stored, content) {
			t.Errorf("Stored content mismatch: got %q", stored)
		}
	})

	t.Run("generates distinct names for the same client filename", func(t *testing.T) {
		saver := newTestSaver(t, 1024)

		first, err := saver.Save(io.NopCloser(strings.NewReader("a")), "photo.jpg")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		second, err := saver.Save(io.NopCloser(strings.NewReader("b")), "photo.jpg")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if first == second {
			t.Errorf("Expected distinct storage names, got %s twice", first)
		}
	})

	t.Run("strips directory components from client filename", func(t *testing.T) {
		saver := newTestSaver(t, 1024)

		name, err := saver.Save(io.NopCloser(strings.NewReader("x")), "../../etc/evil.txt")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if !strings.HasSuffix(name, "_evil.txt") {
			t.Errorf("Expected basename only, got %s", name)
		}
		if strings.ContainsAny(name, `/\`) {
			t.Errorf("Expected flat filename, got %s", name)
		}
		if _, err := os.Stat(filepath.Join(saver.Dir(), name)); err != nil {
			t.Errorf("Expected file inside upload dir, got %v", err)
		}
	})

	t.Run("substitutes placeholder when no filename given", func(t *testing.T) {
		saver := newTestSaver(t, 1024)

		name, err := saver.Save(io.NopCloser(strings.NewReader("x")), "")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !strings.HasSuffix(name, "_upload") {
			t.Errorf("Expected placeholder basename, got %s", name)
		}
	})

	t.Run("rejects oversized file and leaves no file behind", func(t *testing.T) {
		saver := newTestSaver(t, 10)
		src := &trackedReader{Reader: bytes.NewReader(make([]byte, 11))}

		_, err := saver.Save(src, "big.bin")
		if !errors.Is(err, ErrTooLarge) {
			t.Fatalf("Expected ErrTooLarge, got %v", err)
		}
		if !src.closed {
			t.Error("Expected source to be closed")
		}
		if entries := dirEntries(t, saver.Dir()); len(entries) != 0 {
			t.Errorf("Expected empty upload dir, got %d entries", len(entries))
		}
	})

	t.Run("accepts file exactly at the size limit", func(t *testing.T) {
		saver := newTestSaver(t, 10)

		name, err := saver.Save(io.NopCloser(bytes.NewReader(make([]byte, 10))), "max.bin")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if _, err := os.Stat(filepath.Join(saver.Dir(), name)); err != nil {
			t.Errorf("Expected stored file, got %v", err)
		}
	})

	t.Run("cleans up partial file on read failure", func(t *testing.T) {
		saver := newTestSaver(t, 1024)
		src := &trackedReader{Reader: io.MultiReader(
			strings.NewReader("partial"),
			&failingReader{},
		)}

		_, err := saver.Save(src, "broken.bin")
		if err == nil {
			t.Fatal("Expected error from failing source")
		}
		if errors.Is(err, ErrTooLarge) {
			t.Fatalf("Expected I/O error, got %v", err)
		}
		if !src.closed {
			t.Error("Expected source to be closed")
		}
		if entries := dirEntries(t, saver.Dir()); len(entries) != 0 {
			t.Errorf("Expected no orphaned file, got %d entries", len(entries))
		}
	})

	t.Run("creates missing destination directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "uploads")
		saver := NewSaver(dir, 1024, zap.NewNop())

		name, err := saver.Save(io.NopCloser(strings.NewReader("x")), "a.txt")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected stored file, got %v", err)
		}
	})
}

type failingReader struct{}

func (*failingReader) Read([]byte) (int, error) {
	return 0, errors.New("read failure")
}

func TestSaver_Remove(t *testing.T) {
	t.Run("deletes stored file", func(t *testing.T) {
		saver := newTestSaver(t, 1024)
		name, err := saver.Save(io.NopCloser(strings.NewReader("x")), "a.txt")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		saver.Remove(name)

		if _, err := os.Stat(filepath.Join(saver.Dir(), name)); !os.IsNotExist(err) {
			t.Errorf("Expected file to be gone, got %v", err)
		}
	})

	t.Run("ignores missing file", func(t *testing.T) {
		saver := newTestSaver(t, 1024)
		saver.Remove("does-not-exist.txt")
	})

	t.Run("never escapes the upload dir", func(t *testing.T) {
		outside := filepath.Join(t.TempDir(), "outside.txt")
		if err := os.WriteFile(outside, []byte("keep"), 0o644); err != nil {
			t.Fatalf("Failed to write fixture: %v", err)
		}

		saver := newTestSaver(t, 1024)
		saver.Remove("../" + filepath.Base(outside))

		if _, err := os.Stat(outside); err != nil {
			t.Errorf("Expected outside file untouched, got %v", err)
		}
	})
}

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name", "photo.jpg", "photo.jpg"},
		{"unix path", "/tmp/photo.jpg", "photo.jpg"},
		{"relative traversal", "../../etc/passwd", "passwd"},
		{"windows path", `C:\Users\evil.exe`, "evil.exe"},
		{"empty", "", "upload"},
		{"dot", ".", "upload"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeName(tc.input); got != tc.expected {
				t.Errorf("SanitizeName(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
