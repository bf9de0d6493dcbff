package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var ErrUnsupportedType = errors.New("unsupported file type")
var ErrNotFound = errors.New("file not found")

// Document types accepted as policy/evidence uploads.
var allowedTypes = []string{
	"application/pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
	"text/markdown",
	"image/png",
	"image/jpeg",
}

// Local stores uploaded documents on disk under a single root.
// Keys are opaque uuid-based names; the original filename only
// contributes its extension.
type Local struct {
	Root string
}

func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &Local{Root: root}, nil
}

// Save sniffs the content, rejects anything outside the allowlist and
// writes it under a fresh key.
func (l *Local) Save(r io.Reader, origName string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	mt := mimetype.Detect(data)
	if !typeAllowed(mt) {
		return "", ErrUnsupportedType
	}

	key := uuid.NewString() + safeExt(origName)
	if err := os.WriteFile(filepath.Join(l.Root, key), data, 0o644); err != nil {
		return "", err
	}
	return key, nil
}

func (l *Local) Open(key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(l.Root, filepath.Base(key)))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return f, err
}

func (l *Local) Remove(key string) error {
	err := os.Remove(filepath.Join(l.Root, filepath.Base(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func typeAllowed(mt *mimetype.MIME) bool {
	for _, t := range allowedTypes {
		if mt.Is(t) {
			return true
		}
	}
	return false
}

func safeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) > 10 {
		return ""
	}
	for _, r := range ext {
		if r != '.' && (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
