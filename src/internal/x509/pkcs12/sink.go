// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509pkcs12

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/H0llyW00dzZ/pkcs12-transport/src/internal/helper/gc"
)

// Materialization selects where the PEM sequence lives while it is loaded.
type Materialization string

const (
	// MaterializeMemory keeps the PEM sequence in a pooled buffer.
	MaterializeMemory Materialization = "memory"
	// MaterializeFile writes the PEM sequence to a private temporary file.
	MaterializeFile Materialization = "file"
)

// ErrUnknownMaterialization is returned by [ParseMaterialization] for unknown names.
var ErrUnknownMaterialization = errors.New("x509pkcs12: unknown materialization")

// ParseMaterialization maps "memory" or "file" to a [Materialization].
// The empty string selects [MaterializeMemory].
func ParseMaterialization(s string) (Materialization, error) {
	switch Materialization(s) {
	case "", MaterializeMemory:
		return MaterializeMemory, nil
	case MaterializeFile:
		return MaterializeFile, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMaterialization, s)
	}
}

// Sink is the scoped destination of the PEM sequence.
//
// Contents returns everything written so far; the slice must not be used
// after Close. Close releases the sink and erases its content. It must be
// safe to call Close more than once.
type Sink interface {
	io.Writer
	Contents() ([]byte, error)
	Close() error
}

// MemorySink is a [Sink] backed by a buffer from [gc.Default].
type MemorySink struct {
	buf gc.Buffer
}

// NewMemorySink returns an empty [MemorySink].
func NewMemorySink() *MemorySink { return &MemorySink{buf: gc.Default.Get()} }

// Write appends p to the buffer. Backing arrays outgrown along the way are
// zeroed before they are dropped.
func (s *MemorySink) Write(p []byte) (int, error) {
	if s.buf == nil {
		return 0, fs.ErrClosed
	}
	return gc.WriteWiped(s.buf, p)
}

// Contents returns the buffered bytes without copying.
func (s *MemorySink) Contents() ([]byte, error) {
	if s.buf == nil {
		return nil, fs.ErrClosed
	}
	return s.buf.Bytes(), nil
}

// Close wipes the buffer and returns it to the pool.
func (s *MemorySink) Close() error {
	if s.buf != nil {
		gc.Wipe(gc.Default, s.buf)
		s.buf = nil
	}
	return nil
}

// TempFileSink is a [Sink] backed by a file created with [os.CreateTemp]
// (mode 0600). The file is removed by Close.
type TempFileSink struct {
	f    *os.File
	path string
}

// NewTempFileSink creates the temporary file in dir, or in [os.TempDir] when
// dir is empty.
func NewTempFileSink(dir string) (*TempFileSink, error) {
	f, err := os.CreateTemp(dir, "pkcs12-*.pem")
	if err != nil {
		return nil, err
	}
	return &TempFileSink{f: f, path: f.Name()}, nil
}

// Path returns the location of the temporary file.
func (s *TempFileSink) Path() string { return s.path }

// Write appends p to the file.
func (s *TempFileSink) Write(p []byte) (int, error) { return s.f.Write(p) }

// Contents flushes and closes the file handle, then reads the file back
// by path the way a path-based chain loader would.
func (s *TempFileSink) Contents() ([]byte, error) {
	if err := s.closeHandle(); err != nil {
		return nil, err
	}
	return os.ReadFile(s.path)
}

// Close removes the file. A file that is already gone is not an error.
func (s *TempFileSink) Close() error {
	closeErr := s.closeHandle()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return closeErr
}

func (s *TempFileSink) closeHandle() error {
	if err := s.f.Close(); err != nil && !errors.Is(err, fs.ErrClosed) {
		return err
	}
	return nil
}
