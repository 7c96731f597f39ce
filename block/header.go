package block

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/byte271/sixcy/errs"
)

// HeaderSize is the fixed, on-disk size of a block header in bytes.
const HeaderSize = 84

// Magic identifies the start of a block header.
var Magic = [4]byte{'B', 'L', 'C', 'K'}

const headerVersion uint16 = 1

// Type distinguishes the three kinds of block a .6cy archive can contain.
type Type uint16

const (
	// TypeData holds a chunk of file content.
	TypeData Type = 0
	// TypeIndex holds the serialized FileIndex.
	TypeIndex Type = 1
	// TypeSolid holds the concatenated payload of a solid compression
	// session spanning multiple small files.
	TypeSolid Type = 2
)

// Header flag bits.
const (
	// FlagEncrypted marks a block's payload as AES-256-GCM sealed after
	// compression.
	FlagEncrypted uint16 = 1 << 0
)

// Header is the 84-byte fixed layout preceding every block's payload.
//
//	offset  size  field
//	0       4     magic
//	4       2     header_version
//	6       2     header_size
//	8       2     block_type
//	10      2     flags
//	12      16    codec_uuid
//	28      4     file_id
//	32      8     file_offset
//	40      4     orig_size
//	44      4     comp_size
//	48      32    content_hash
//	80      4     header_crc32
type Header struct {
	HeaderVersion uint16
	HeaderSize    uint16
	BlockType     Type
	Flags         uint16
	CodecUUID     [16]byte
	FileID        uint32
	FileOffset    uint64
	OrigSize      uint32
	CompSize      uint32
	ContentHash   [32]byte
}

// Encrypted reports whether FlagEncrypted is set.
func (h Header) Encrypted() bool { return h.Flags&FlagEncrypted != 0 }

// NewHeader constructs a Header with the current header version and fixed
// size, ready to have its variable fields filled in before encoding.
func NewHeader(blockType Type, codecUUID [16]byte) Header {
	return Header{
		HeaderVersion: headerVersion,
		HeaderSize:    HeaderSize,
		BlockType:     blockType,
		CodecUUID:     codecUUID,
	}
}

// Bytes serializes the header, computing and embedding its CRC32 over
// everything preceding the checksum field.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	copy(b[0:4], Magic[:])
	binary.LittleEndian.PutUint16(b[4:6], h.HeaderVersion)
	binary.LittleEndian.PutUint16(b[6:8], h.HeaderSize)
	binary.LittleEndian.PutUint16(b[8:10], uint16(h.BlockType))
	binary.LittleEndian.PutUint16(b[10:12], h.Flags)
	copy(b[12:28], h.CodecUUID[:])
	binary.LittleEndian.PutUint32(b[28:32], h.FileID)
	binary.LittleEndian.PutUint64(b[32:40], h.FileOffset)
	binary.LittleEndian.PutUint32(b[40:44], h.OrigSize)
	binary.LittleEndian.PutUint32(b[44:48], h.CompSize)
	copy(b[48:80], h.ContentHash[:])

	sum := crc32.ChecksumIEEE(b[:80])
	binary.LittleEndian.PutUint32(b[80:84], sum)

	return b
}

// ParseHeader decodes a Header from exactly HeaderSize bytes, verifying
// its magic and CRC32 before returning. A header_size greater than
// HeaderSize is not an error: it signals a future format revision added
// trailing fields this reader doesn't know about, and the caller is
// expected to skip the extra bytes before reading the payload.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrTruncatedPayload
	}

	if string(data[0:4]) != string(Magic[:]) {
		return Header{}, errs.ErrInvalidMagic
	}

	declaredCRC := binary.LittleEndian.Uint32(data[80:84])
	actualCRC := crc32.ChecksumIEEE(data[:80])
	if declaredCRC != actualCRC {
		return Header{}, errs.ErrCrc32Mismatch
	}

	var h Header
	h.HeaderVersion = binary.LittleEndian.Uint16(data[4:6])
	h.HeaderSize = binary.LittleEndian.Uint16(data[6:8])
	h.BlockType = Type(binary.LittleEndian.Uint16(data[8:10]))
	h.Flags = binary.LittleEndian.Uint16(data[10:12])
	copy(h.CodecUUID[:], data[12:28])
	h.FileID = binary.LittleEndian.Uint32(data[28:32])
	h.FileOffset = binary.LittleEndian.Uint64(data[32:40])
	h.OrigSize = binary.LittleEndian.Uint32(data[40:44])
	h.CompSize = binary.LittleEndian.Uint32(data[44:48])
	copy(h.ContentHash[:], data[48:80])

	return h, nil
}
