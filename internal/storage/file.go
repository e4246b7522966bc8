package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// FileConfig locates the on-disk store for hosts without Redis.
type FileConfig struct {
	Dir string `envconfig:"STORAGE_DIR" default:".nncoach"`
}

// File persists one file per key under a directory. It is the durable
// local analog of browser localStorage.
type File struct {
	dir string
}

func NewFile(cfg FileConfig) (*File, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}
	return &File{dir: cfg.Dir}, nil
}

// path maps a key onto a file name. Keys are caller-controlled constants,
// but separators are stripped so a malformed key cannot escape the dir.
func (f *File) path(key string) string {
	key = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, key)
	return filepath.Join(f.dir, key+".json")
}

func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	raw, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return raw, true, nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	return os.WriteFile(f.path(key), value, 0o600)
}

func (f *File) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

var _ KV = (*File)(nil)
