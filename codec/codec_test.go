package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryBuiltinsRoundTrip(t *testing.T) {
	reg := NewRegistry()
	payload := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 64)

	cases := []struct {
		name string
		id   ID
	}{
		{"none", None},
		{"zstd", Zstd},
		{"lz4", LZ4},
		{"brotli", Brotli},
		{"lzma", LZMA},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.True(t, reg.Available(tc.id.UUID))

			c, ok := reg.Lookup(tc.id.UUID)
			require.True(t, ok)

			compressed, err := c.Compress(payload, 3)
			require.NoError(t, err)

			decompressed, err := c.Decompress(compressed, len(payload))
			require.NoError(t, err)
			require.Equal(t, payload, decompressed)
		})
	}
}

func TestRegistryEmptyInput(t *testing.T) {
	reg := NewRegistry()

	for _, id := range []ID{None, Zstd, LZ4, Brotli, LZMA} {
		c, ok := reg.Lookup(id.UUID)
		require.True(t, ok)

		compressed, err := c.Compress(nil, 1)
		require.NoError(t, err)

		decompressed, err := c.Decompress(compressed, 0)
		require.NoError(t, err)
		require.Empty(t, decompressed)
	}
}

func TestRegistryUnavailableUUID(t *testing.T) {
	reg := NewRegistry()

	var unknown [16]byte
	unknown[0] = 0xFF

	require.False(t, reg.Available(unknown))
	_, ok := reg.Lookup(unknown)
	require.False(t, ok)
}

func TestRegistryRegisterPlugin(t *testing.T) {
	reg := NewRegistry()

	var pluginUUID [16]byte
	pluginUUID[0] = 0x42

	p := Plugin{
		UUID:       pluginUUID,
		ABIVersion: 1,
		Compress: func(data []byte, level int) ([]byte, error) {
			out := make([]byte, len(data))
			copy(out, data)
			return out, nil
		},
		Decompress: func(data []byte, originalSize int) ([]byte, error) {
			out := make([]byte, len(data))
			copy(out, data)
			return out, nil
		},
		CompressBound: func(n int) int { return n },
	}

	require.NoError(t, reg.Register(p))
	require.True(t, reg.Available(pluginUUID))

	c, ok := reg.Lookup(pluginUUID)
	require.True(t, ok)

	out, err := c.Compress([]byte("hello"), 1)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), out)
}

func TestRegisterRejectsNewerABI(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register(Plugin{
		ABIVersion: PluginABIVersion + 1,
		Compress:   func(data []byte, level int) ([]byte, error) { return data, nil },
		Decompress: func(data []byte, originalSize int) ([]byte, error) { return data, nil },
	})
	require.Error(t, err)
}

func TestRegisterRejectsIncompletePlugin(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register(Plugin{ABIVersion: 1})
	require.Error(t, err)
}
