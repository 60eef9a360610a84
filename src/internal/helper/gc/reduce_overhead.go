// Copyright (c) 2024 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gc

import (
	"io"

	"github.com/valyala/bytebufferpool"
)

// Buffer defines the interface for a reusable byte buffer.
// It abstracts the [bytebufferpool.ByteBuffer] type to avoid direct dependencies.
type Buffer interface {
	io.Writer
	WriteString(s string) (int, error)
	WriteByte(c byte) error
	ReadFrom(r io.Reader) (int64, error)
	Bytes() []byte
	Len() int
	Reset()
}

// Pool defines the interface for buffer pooling.
// It abstracts the [bytebufferpool.Pool] type to avoid direct dependencies.
//
// Pool implementations must be safe for concurrent use by multiple goroutines.
type Pool interface {
	Get() Buffer
	Put(b Buffer)
}

// pool wraps [bytebufferpool.Pool] to implement Pool interface.
type pool struct{ p *bytebufferpool.Pool }

// Get returns a buffer from the pool.
func (p *pool) Get() Buffer { return p.p.Get() }

// Put returns a buffer to the pool.
func (p *pool) Put(b Buffer) {
	if buf, ok := b.(*bytebufferpool.ByteBuffer); ok {
		p.p.Put(buf)
	}
}

// Default is the default buffer pool used for efficient memory reuse in I/O operations.
//
// Example usage for reading a response body:
//
//	buf := gc.Default.Get()
//	defer func() {
//		buf.Reset()
//		gc.Default.Put(buf)
//	}()
//
//	if _, err := buf.ReadFrom(resp.Body); err != nil {
//		return fmt.Errorf("error reading response body: %w", err)
//	}
var Default Pool = &pool{p: &bytebufferpool.Pool{}}

// Wipe overwrites the buffer contents with zeros, resets it and returns it to p.
// Use it instead of Reset+Put whenever the buffer held private key bytes,
// since Reset alone keeps the old bytes in the backing array.
func Wipe(p Pool, b Buffer) {
	data := b.Bytes()
	clear(data[:cap(data)])
	b.Reset()
	p.Put(b)
}

// WriteWiped appends data to b like Write, but when the append has to move
// the buffer to a larger backing array the old array is zeroed first.
// Together with [Wipe] this leaves no copy of the written bytes behind.
func WriteWiped(b Buffer, data []byte) (int, error) {
	buf, ok := b.(*bytebufferpool.ByteBuffer)
	if !ok || len(buf.B)+len(data) <= cap(buf.B) {
		return b.Write(data)
	}

	old := buf.B
	grown := make([]byte, len(old), 2*cap(old)+len(data))
	copy(grown, old)
	clear(old[:cap(old)])
	buf.B = append(grown, data...)
	return len(data), nil
}
