package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

var keyReplacer = strings.NewReplacer(":", "__", "/", "_", "\\", "_")

// File stores each key as a JSON file under dir.
type File struct {
	fs  afero.Fs
	dir string
}

// NewFile returns a File store rooted at dir on fs.
func NewFile(fs afero.Fs, dir string) *File {
	return &File{fs: fs, dir: dir}
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, keyReplacer.Replace(key)+".json")
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	data, err := afero.ReadFile(f.fs, f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Set writes through a temp file and rename so readers never see a
// partially written document.
func (f *File) Set(_ context.Context, key string, value []byte) error {
	if err := f.fs.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", f.dir, err)
	}

	tmp, err := afero.TempFile(f.fs, f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer f.fs.Remove(tmpPath)

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := f.fs.Rename(tmpPath, f.path(key)); err != nil {
		return fmt.Errorf("rename into %s: %w", key, err)
	}
	return nil
}

func (f *File) Delete(_ context.Context, key string) error {
	err := f.fs.Remove(f.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
