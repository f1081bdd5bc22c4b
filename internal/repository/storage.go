package repository

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

var errReadOnly = errors.New("filesystem is read-only")

// storage abstracts where template bytes live.
type storage interface {
	read(ctx context.Context, name string) ([]byte, error)
	stat(ctx context.Context, name string) error
	write(ctx context.Context, name string, data []byte) error
	// resolve returns the OS path for name, or "" when there is none.
	resolve(name string) string
	base() (string, error)
}

// osStorage reads relative paths under dir, or the working directory when
// dir is empty.
type osStorage struct {
	dir string
}

func (s osStorage) resolve(name string) string {
	if filepath.IsAbs(name) || s.dir == "" {
		abs, err := filepath.Abs(name)
		if err != nil {
			return name
		}
		return abs
	}
	abs, err := filepath.Abs(filepath.Join(s.dir, name))
	if err != nil {
		return filepath.Join(s.dir, name)
	}
	return abs
}

func (s osStorage) read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(s.resolve(name))
}

func (s osStorage) stat(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := os.Stat(s.resolve(name))
	return err
}

func (s osStorage) write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := s.resolve(name)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

func (s osStorage) base() (string, error) {
	if s.dir != "" {
		return filepath.Abs(s.dir)
	}
	return os.Getwd()
}

// fsStorage reads from an fs.FS. Writes always fail.
type fsStorage struct {
	files fs.FS
}

func (s fsStorage) name(name string) (string, error) {
	clean := filepath.ToSlash(name)
	if !fs.ValidPath(clean) {
		return "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	return clean, nil
}

func (s fsStorage) read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := s.name(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(s.files, clean)
}

func (s fsStorage) stat(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean, err := s.name(name)
	if err != nil {
		return err
	}
	_, err = fs.Stat(s.files, clean)
	return err
}

func (s fsStorage) write(context.Context, string, []byte) error {
	return errReadOnly
}

func (s fsStorage) resolve(string) string { return "" }

func (s fsStorage) base() (string, error) { return ".", nil }
