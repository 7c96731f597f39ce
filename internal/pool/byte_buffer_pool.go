// Package pool provides sync.Pool-backed byte buffer reuse for the
// writer's solid-block accumulation buffer.
package pool

import "sync"

// Default and maximum size for the solid-session buffer pool.
const (
	SolidBufferDefaultSize  = 1024 * 1024 // 1MiB, matches a typical solid session
	SolidBufferMaxThreshold = 8 * 1024 * 1024
)

// ByteBuffer is a growable byte slice wrapper sized for reuse via sync.Pool.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the given starting capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer while retaining its backing array for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the number of bytes currently held.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// MustWrite appends data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// ByteBufferPool pools ByteBuffers of a given default size, discarding
// buffers that have grown past maxThreshold instead of returning them to
// the pool.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool whose buffers start at defaultSize and
// are discarded (not recycled) once they exceed maxThreshold capacity.
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse, discarding it instead if
// it grew past the pool's maxThreshold.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var solidPool = NewByteBufferPool(SolidBufferDefaultSize, SolidBufferMaxThreshold)

// GetSolidBuffer retrieves a ByteBuffer from the default solid-session pool.
func GetSolidBuffer() *ByteBuffer { return solidPool.Get() }

// PutSolidBuffer returns a ByteBuffer to the default solid-session pool.
func PutSolidBuffer(bb *ByteBuffer) { solidPool.Put(bb) }
