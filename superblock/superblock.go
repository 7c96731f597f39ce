// Package superblock implements the .6cy archive's fixed 256-byte
// anchor: format identity, the archive's UUID, the location of the
// index block, and the list of codec UUIDs a reader must have available
// before it can touch any block.
package superblock

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/google/uuid"

	"github.com/byte271/sixcy/errs"
)

// Size is the fixed on-disk size of a superblock.
const Size = 256

// FormatVersion is the current .6cy format revision this package writes
// and the minimum version it will read.
const FormatVersion uint32 = 3

// Magic identifies a .6cy archive.
var Magic = [4]byte{'.', '6', 'c', 'y'}

const (
	fixedPrefixSize = 4 + 4 + 16 + 4 + 8 + 8 + 2 // magic..required_codec_count
	uuidEntrySize   = 16
	crcFieldSize    = 4
)

// MaxRequiredCodecs is the largest number of required-codec UUIDs that
// fit in the fixed 256-byte layout alongside the fixed prefix and the
// trailing CRC32.
const MaxRequiredCodecs = (Size - fixedPrefixSize - crcFieldSize) / uuidEntrySize

// Flag bits.
const (
	// FlagEncrypted marks the archive as having at least one file
	// encrypted, so openers should prompt for a password.
	FlagEncrypted uint32 = 1 << 0
)

// Superblock is the archive's fixed anchor, always located at offset 0.
type Superblock struct {
	FormatVersion      uint32
	ArchiveUUID        [16]byte
	Flags              uint32
	IndexOffset        uint64
	IndexSize          uint64
	RequiredCodecUUIDs [][16]byte
}

// New creates a Superblock with a freshly generated archive UUID.
func New() Superblock {
	u := uuid.New()
	var id [16]byte
	copy(id[:], u[:])

	return Superblock{
		FormatVersion: FormatVersion,
		ArchiveUUID:   id,
	}
}

// AddRequiredCodec records codecUUID as required to open this archive. It
// is idempotent — adding the same UUID twice is a no-op — and never
// records the None codec, since every reader can handle it trivially.
func (s *Superblock) AddRequiredCodec(codecUUID [16]byte) error {
	var zero [16]byte
	if codecUUID == zero {
		return nil
	}

	for _, existing := range s.RequiredCodecUUIDs {
		if existing == codecUUID {
			return nil
		}
	}

	if len(s.RequiredCodecUUIDs) >= MaxRequiredCodecs {
		return errs.ErrTooManyRequiredCodecs
	}

	s.RequiredCodecUUIDs = append(s.RequiredCodecUUIDs, codecUUID)

	return nil
}

// Bytes serializes the superblock to exactly Size bytes, zero-padded
// after the trailing CRC32.
func (s Superblock) Bytes() ([]byte, error) {
	if len(s.RequiredCodecUUIDs) > MaxRequiredCodecs {
		return nil, errs.ErrTooManyRequiredCodecs
	}

	b := make([]byte, Size)

	copy(b[0:4], Magic[:])
	binary.LittleEndian.PutUint32(b[4:8], s.FormatVersion)
	copy(b[8:24], s.ArchiveUUID[:])
	binary.LittleEndian.PutUint32(b[24:28], s.Flags)
	binary.LittleEndian.PutUint64(b[28:36], s.IndexOffset)
	binary.LittleEndian.PutUint64(b[36:44], s.IndexSize)
	binary.LittleEndian.PutUint16(b[44:46], uint16(len(s.RequiredCodecUUIDs)))

	off := fixedPrefixSize
	for _, id := range s.RequiredCodecUUIDs {
		copy(b[off:off+uuidEntrySize], id[:])
		off += uuidEntrySize
	}

	sum := crc32.ChecksumIEEE(b[:off])
	binary.LittleEndian.PutUint32(b[off:off+crcFieldSize], sum)

	return b, nil
}

// Parse decodes a Superblock from exactly Size bytes, verifying magic,
// minimum format version, and CRC32 before returning.
func Parse(data []byte) (Superblock, error) {
	if len(data) < Size {
		return Superblock{}, errs.ErrTruncatedPayload
	}

	if string(data[0:4]) != string(Magic[:]) {
		return Superblock{}, errs.ErrInvalidMagic
	}

	var s Superblock
	s.FormatVersion = binary.LittleEndian.Uint32(data[4:8])
	if s.FormatVersion < FormatVersion {
		return Superblock{}, errs.ErrUnsupportedVersion
	}

	copy(s.ArchiveUUID[:], data[8:24])
	s.Flags = binary.LittleEndian.Uint32(data[24:28])
	s.IndexOffset = binary.LittleEndian.Uint64(data[28:36])
	s.IndexSize = binary.LittleEndian.Uint64(data[36:44])
	count := binary.LittleEndian.Uint16(data[44:46])

	if int(count) > MaxRequiredCodecs {
		return Superblock{}, errs.ErrTooManyRequiredCodecs
	}

	off := fixedPrefixSize
	s.RequiredCodecUUIDs = make([][16]byte, count)
	for i := 0; i < int(count); i++ {
		copy(s.RequiredCodecUUIDs[i][:], data[off:off+uuidEntrySize])
		off += uuidEntrySize
	}

	declaredCRC := binary.LittleEndian.Uint32(data[off : off+crcFieldSize])
	actualCRC := crc32.ChecksumIEEE(data[:off])
	if declaredCRC != actualCRC {
		return Superblock{}, errs.ErrCrc32Mismatch
	}

	return s, nil
}
