package export

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// Writer creates directories and files below an output root.
// Names are slash-separated and relative to the root.
type Writer interface {
	MkdirAll(dir string) error
	Create(name string) (io.WriteCloser, error)
}

// DirWriter is a Writer rooted at a directory on disk.
type DirWriter string

func (d DirWriter) path(name string) string {
	return filepath.Join(string(d), filepath.FromSlash(name))
}

// MkdirAll creates dir and any missing parents. An existing directory is not an error.
func (d DirWriter) MkdirAll(dir string) error {
	return os.MkdirAll(d.path(dir), 0o755)
}

// Create creates or truncates the named file.
func (d DirWriter) Create(name string) (io.WriteCloser, error) {
	return os.Create(d.path(name))
}

// writeFile writes data to the named file of w.
func writeFile(w Writer, name string, data []byte) error {
	f, err := w.Create(name)
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	return errors.Join(err, f.Close())
}
