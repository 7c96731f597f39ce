package block

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := NewHeader(TypeData, [16]byte{0x01, 0x02})
	h.Flags = FlagEncrypted
	h.FileID = 7
	h.FileOffset = 4096
	h.OrigSize = 1024
	h.CompSize = 512
	h.ContentHash = [32]byte{0xAA}

	b := h.Bytes()
	require.Len(t, b, HeaderSize)

	parsed, err := ParseHeader(b)
	require.NoError(t, err)
	require.Equal(t, h.HeaderVersion, parsed.HeaderVersion)
	require.Equal(t, h.BlockType, parsed.BlockType)
	require.Equal(t, h.Flags, parsed.Flags)
	require.Equal(t, h.CodecUUID, parsed.CodecUUID)
	require.Equal(t, h.FileID, parsed.FileID)
	require.Equal(t, h.FileOffset, parsed.FileOffset)
	require.Equal(t, h.OrigSize, parsed.OrigSize)
	require.Equal(t, h.CompSize, parsed.CompSize)
	require.Equal(t, h.ContentHash, parsed.ContentHash)
	require.True(t, parsed.Encrypted())
}

func TestParseHeaderRejectsBadMagic(t *testing.T) {
	h := NewHeader(TypeData, [16]byte{})
	b := h.Bytes()
	b[0] = 'X'

	_, err := ParseHeader(b)
	require.Error(t, err)
}

func TestParseHeaderRejectsCorruptCRC(t *testing.T) {
	h := NewHeader(TypeIndex, [16]byte{})
	b := h.Bytes()
	b[10] ^= 0xFF // flip the low flags byte after the CRC was computed

	_, err := ParseHeader(b)
	require.Error(t, err)
}

func TestParseHeaderRejectsTruncatedInput(t *testing.T) {
	_, err := ParseHeader(make([]byte, HeaderSize-1))
	require.Error(t, err)
}
