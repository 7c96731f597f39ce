package sixcy

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/byte271/sixcy/codec"
)

func TestCompressChunksParallelPreservesOrder(t *testing.T) {
	reg := codec.NewRegistry()
	c, ok := reg.Lookup(codec.Zstd.UUID)
	require.True(t, ok)

	chunks := make([][]byte, 8)
	for i := range chunks {
		chunks[i] = bytes.Repeat([]byte{byte('a' + i)}, 1024)
	}

	sequential, err := CompressChunksParallel(c, 3, chunks, 1)
	require.NoError(t, err)

	parallel, err := CompressChunksParallel(c, 3, chunks, 4)
	require.NoError(t, err)

	require.Equal(t, len(sequential), len(parallel))
	for i := range chunks {
		decSeq, err := c.Decompress(sequential[i], len(chunks[i]))
		require.NoError(t, err)
		decPar, err := c.Decompress(parallel[i], len(chunks[i]))
		require.NoError(t, err)
		require.Equal(t, chunks[i], decSeq)
		require.Equal(t, chunks[i], decPar)
	}
}

func TestCompressChunksParallelEmpty(t *testing.T) {
	reg := codec.NewRegistry()
	c, ok := reg.Lookup(codec.None.UUID)
	require.True(t, ok)

	out, err := CompressChunksParallel(c, 0, nil, 4)
	require.NoError(t, err)
	require.Empty(t, out)
}
