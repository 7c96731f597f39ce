package block

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/byte271/sixcy/codec"
)

func TestEncodeDecodeRoundTripPlain(t *testing.T) {
	reg := codec.NewRegistry()
	c, ok := reg.Lookup(codec.Zstd.UUID)
	require.True(t, ok)

	plaintext := []byte("some file content to compress and frame")

	enc, err := Encode(TypeData, codec.Zstd, c, 3, plaintext, 1, 0, nil)
	require.NoError(t, err)
	require.False(t, enc.Header.Encrypted())

	out, err := Decode(enc.Header, enc.Payload, c, nil)
	require.NoError(t, err)
	require.Equal(t, plaintext, out)
}

func TestEncodeDecodeRoundTripEncrypted(t *testing.T) {
	reg := codec.NewRegistry()
	c, ok := reg.Lookup(codec.LZ4.UUID)
	require.True(t, ok)

	var key [32]byte
	key[0] = 0x42

	plaintext := []byte("a sensitive payload")

	enc, err := Encode(TypeData, codec.LZ4, c, 1, plaintext, 2, 0, &key)
	require.NoError(t, err)
	require.True(t, enc.Header.Encrypted())

	out, err := Decode(enc.Header, enc.Payload, c, &key)
	require.NoError(t, err)
	require.Equal(t, plaintext, out)
}

func TestDecodeEncryptedWithoutKeyFails(t *testing.T) {
	reg := codec.NewRegistry()
	c, ok := reg.Lookup(codec.None.UUID)
	require.True(t, ok)

	var key [32]byte
	enc, err := Encode(TypeData, codec.None, c, 0, []byte("data"), 1, 0, &key)
	require.NoError(t, err)

	_, err = Decode(enc.Header, enc.Payload, c, nil)
	require.Error(t, err)
}

func TestDecodeWrongKeyFails(t *testing.T) {
	reg := codec.NewRegistry()
	c, ok := reg.Lookup(codec.None.UUID)
	require.True(t, ok)

	var key1, key2 [32]byte
	key1[0] = 0x01
	key2[0] = 0x02

	enc, err := Encode(TypeData, codec.None, c, 0, []byte("data"), 1, 0, &key1)
	require.NoError(t, err)

	_, err = Decode(enc.Header, enc.Payload, c, &key2)
	require.Error(t, err)
}

func TestDecodeContentHashMismatch(t *testing.T) {
	reg := codec.NewRegistry()
	c, ok := reg.Lookup(codec.None.UUID)
	require.True(t, ok)

	enc, err := Encode(TypeData, codec.None, c, 0, []byte("original"), 1, 0, nil)
	require.NoError(t, err)

	enc.Header.ContentHash[0] ^= 0xFF

	_, err = Decode(enc.Header, enc.Payload, c, nil)
	require.Error(t, err)
}
