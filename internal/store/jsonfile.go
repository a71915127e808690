package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Default file names, relative to the working directory
const (
	CounterFile = "order_counter.json"
	HistoryFile = "order_history.json"
)

var (
	// ErrNotFound is returned by Load when nothing has been saved yet
	ErrNotFound = errors.New("not found")
	// ErrCorrupt is returned by Load when the stored value cannot be decoded
	ErrCorrupt = errors.New("stored value is corrupt")
)

// JSONFile keeps a value in a JSON document on disk
type JSONFile[T any] struct {
	path   string
	indent bool
}

// NewJSONFile stores compact JSON at path
func NewJSONFile[T any](path string) *JSONFile[T] {
	return &JSONFile[T]{path: path}
}

// NewIndentedJSONFile stores two-space indented JSON at path
func NewIndentedJSONFile[T any](path string) *JSONFile[T] {
	return &JSONFile[T]{path: path, indent: true}
}

func (f *JSONFile[T]) Path() string {
	return f.path
}

func (f *JSONFile[T]) Load() (T, error) {
	var v T
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return v, fmt.Errorf("%s: %w", f.path, ErrNotFound)
	}
	if err != nil {
		return v, fmt.Errorf("read %s: %w", f.path, err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, fmt.Errorf("decode %s: %w: %w", f.path, ErrCorrupt, err)
	}
	return v, nil
}

// Save replaces the file through a temp file and rename so a crash mid-write
// leaves the previous contents in place.
func (f *JSONFile[T]) Save(v T) error {
	var (
		data []byte
		err  error
	)
	if f.indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", f.path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}
