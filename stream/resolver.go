package stream

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
)

// PathResolver is the file system seen by file streams.
type PathResolver interface {
	// Truename returns the canonical absolute path.
	Truename(path string) (string, error)
	Exists(path string) (bool, error)
	Rename(from, to string) error
	Delete(path string) error
	// TempName creates an empty file next to path and returns its name.
	TempName(path string) (string, error)
}

// OSResolver resolves paths against the host file system.
type OSResolver struct{}

var _ PathResolver = OSResolver{}

func (OSResolver) Truename(path string) (truename string, err error) {
	truename, err = filepath.Abs(path)
	if err != nil {
		err = pkgerrors.Wrap(err, "unable to compute absolute path")
		return
	}

	resolved, err := filepath.EvalSymlinks(truename)
	if errors.Is(err, fs.ErrNotExist) {
		err = nil
		return
	}
	if err != nil {
		err = pkgerrors.Wrap(err, "unable to resolve symbolic links")
		return
	}

	truename = resolved
	return
}

func (OSResolver) Exists(path string) (exists bool, err error) {
	_, err = os.Stat(path)
	switch {
	case err == nil:
		exists = true
	case errors.Is(err, fs.ErrNotExist):
		err = nil
	default:
		err = pkgerrors.Wrap(err, "unable to probe file")
	}
	return
}

func (OSResolver) Rename(from, to string) error {
	return pkgerrors.Wrap(os.Rename(from, to), "unable to rename file")
}

func (OSResolver) Delete(path string) error {
	return pkgerrors.Wrap(os.Remove(path), "unable to remove file")
}

func (OSResolver) TempName(path string) (name string, err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	file, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		err = pkgerrors.Wrap(err, "unable to create temporary file")
		return
	}

	name = file.Name()
	err = pkgerrors.Wrap(file.Close(), "unable to close temporary file")
	return
}
