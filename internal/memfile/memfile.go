// Package memfile provides an in-memory io.ReadWriteSeeker for exercising
// the writer and reader packages without touching a real file.
package memfile

import (
	"errors"
	"io"
)

// Buffer is a growable, seekable in-memory byte store.
type Buffer struct {
	data []byte
	pos  int64
}

// New returns an empty Buffer.
func New() *Buffer { return &Buffer{} }

// Bytes returns the buffer's full current content.
func (b *Buffer) Bytes() []byte { return b.data }

func (b *Buffer) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if end > int64(len(b.data)) {
		grown := make([]byte, end)
		copy(grown, b.data)
		b.data = grown
	}
	n := copy(b.data[b.pos:end], p)
	b.pos = end
	return n, nil
}

func (b *Buffer) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += int64(n)
	return n, nil
}

func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = b.pos + offset
	case io.SeekEnd:
		target = int64(len(b.data)) + offset
	default:
		return 0, errors.New("memfile: invalid whence")
	}
	if target < 0 {
		return 0, errors.New("memfile: negative seek position")
	}
	b.pos = target
	return target, nil
}
