package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBufferPoolReuse(t *testing.T) {
	p := NewByteBufferPool(64, 256)

	bb := p.Get()
	bb.MustWrite([]byte("hello"))
	require.Equal(t, 5, bb.Len())

	p.Put(bb)

	reused := p.Get()
	require.Equal(t, 0, reused.Len())
}

func TestByteBufferPoolDiscardsOversized(t *testing.T) {
	p := NewByteBufferPool(8, 16)

	bb := p.Get()
	bb.MustWrite(make([]byte, 64))
	p.Put(bb)

	// The oversized buffer should have been discarded, not recycled, so
	// this Get constructs a fresh default-sized one.
	fresh := p.Get()
	require.LessOrEqual(t, cap(fresh.B), 16)
}

func TestSolidBufferHelpers(t *testing.T) {
	sb := GetSolidBuffer()
	sb.MustWrite([]byte("solid session data"))
	require.Equal(t, "solid session data", string(sb.Bytes()))
	PutSolidBuffer(sb)

	reused := GetSolidBuffer()
	require.Equal(t, 0, reused.Len())
	PutSolidBuffer(reused)
}
