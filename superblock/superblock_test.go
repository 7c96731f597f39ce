package superblock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	s := New()
	s.IndexOffset = 4096
	s.IndexSize = 128
	s.Flags = FlagEncrypted

	require.NoError(t, s.AddRequiredCodec([16]byte{0x01}))
	require.NoError(t, s.AddRequiredCodec([16]byte{0x02}))

	b, err := s.Bytes()
	require.NoError(t, err)
	require.Len(t, b, Size)

	parsed, err := Parse(b)
	require.NoError(t, err)
	require.Equal(t, s.ArchiveUUID, parsed.ArchiveUUID)
	require.Equal(t, s.IndexOffset, parsed.IndexOffset)
	require.Equal(t, s.IndexSize, parsed.IndexSize)
	require.Equal(t, s.Flags, parsed.Flags)
	require.Equal(t, s.RequiredCodecUUIDs, parsed.RequiredCodecUUIDs)
}

func TestAddRequiredCodecIsIdempotent(t *testing.T) {
	s := New()
	id := [16]byte{0x05}

	require.NoError(t, s.AddRequiredCodec(id))
	require.NoError(t, s.AddRequiredCodec(id))
	require.Len(t, s.RequiredCodecUUIDs, 1)
}

func TestAddRequiredCodecSkipsNone(t *testing.T) {
	s := New()
	var none [16]byte

	require.NoError(t, s.AddRequiredCodec(none))
	require.Empty(t, s.RequiredCodecUUIDs)
}

func TestAddRequiredCodecBoundsCount(t *testing.T) {
	s := New()

	for i := 0; i < MaxRequiredCodecs; i++ {
		id := [16]byte{byte(i + 1)}
		require.NoError(t, s.AddRequiredCodec(id))
	}

	overflow := [16]byte{0xFF}
	err := s.AddRequiredCodec(overflow)
	require.Error(t, err)
}

func TestParseRejectsBadMagic(t *testing.T) {
	s := New()
	b, err := s.Bytes()
	require.NoError(t, err)
	b[0] = 'X'

	_, err = Parse(b)
	require.Error(t, err)
}

func TestParseRejectsCorruptCRC(t *testing.T) {
	s := New()
	b, err := s.Bytes()
	require.NoError(t, err)
	b[24] ^= 0xFF

	_, err = Parse(b)
	require.Error(t, err)
}

func TestParseRejectsTruncated(t *testing.T) {
	_, err := Parse(make([]byte, Size-1))
	require.Error(t, err)
}
