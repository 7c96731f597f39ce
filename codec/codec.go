package codec

import (
	"fmt"

	"github.com/google/uuid"
)

// Compressor compresses a plaintext chunk at the given level.
//
// Memory management mirrors the teacher convention this package is built
// on: the returned slice is newly allocated and owned by the caller, and
// the input slice is never modified.
type Compressor interface {
	Compress(data []byte, level int) ([]byte, error)
}

// Decompressor decompresses a chunk previously produced by the matching
// Compressor. originalSize is the plaintext length recorded in the block
// header and is used to preallocate the output buffer. The built-in
// implementations do not check the decoded length against it; a payload
// that decodes to different content is caught by block.Decode's content
// hash check instead.
type Decompressor interface {
	Decompress(data []byte, originalSize int) ([]byte, error)
}

// Codec combines compression and decompression for a single algorithm.
type Codec interface {
	Compressor
	Decompressor
}

// ID is the (UUID, short-ID) identity pair for a codec. UUID is the only
// field ever persisted; ShortID exists purely for fast in-memory lookup
// and must never be compared across processes.
type ID struct {
	UUID    [16]byte
	ShortID uint16
}

func (id ID) String() string {
	return fmt.Sprintf("%x", id.UUID)
}

// Built-in codec UUIDs. These sixteen bytes are frozen: once assigned, a
// UUID is never reassigned to a different algorithm, since it is the only
// on-disk record of which decompressor a block requires.
var (
	None   = ID{UUID: uuid.MustParse("00000000-0000-0000-0000-000000000000"), ShortID: 0}
	Zstd   = ID{UUID: uuid.MustParse("3f1a9c2e-6b4d-4e8a-9f3b-1c7d2e5a8b6f"), ShortID: 1}
	LZ4    = ID{UUID: uuid.MustParse("7d2e5a8b-6f3f-4a1c-9c2e-4d8a1b9f3b6d"), ShortID: 2}
	Brotli = ID{UUID: uuid.MustParse("9c2e4d8a-1b9f-4b6d-8b6f-3f1a7d2e5a6e"), ShortID: 3}
	LZMA   = ID{UUID: uuid.MustParse("1c7d2e5a-8b6f-4f3f-a1c9-2e4d8a1b9f3c"), ShortID: 4}
)
