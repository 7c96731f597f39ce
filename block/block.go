// Package block implements the .6cy block format: an 84-byte
// self-describing header followed by a compressed, optionally encrypted
// payload.
package block

import (
	"fmt"

	"lukechampine.com/blake3"

	"github.com/byte271/sixcy/codec"
	"github.com/byte271/sixcy/crypto"
	"github.com/byte271/sixcy/errs"
)

// Encoded is a fully serialized block: its header followed immediately by
// its payload, ready to be written at any archive offset.
type Encoded struct {
	Header  Header
	Payload []byte
}

// Bytes concatenates the header and payload for writing.
func (e Encoded) Bytes() []byte {
	out := make([]byte, 0, HeaderSize+len(e.Payload))
	out = append(out, e.Header.Bytes()...)
	out = append(out, e.Payload...)
	return out
}

// Encode compresses plaintext with c at level, optionally seals it with
// key, and returns the fully serialized block. fileID/fileOffset identify
// where this block's content logically belongs; blockType distinguishes
// Data/Index/Solid blocks.
func Encode(blockType Type, codecID codec.ID, c codec.Codec, level int, plaintext []byte, fileID uint32, fileOffset uint64, key *[32]byte) (Encoded, error) {
	compressed, err := c.Compress(plaintext, level)
	if err != nil {
		return Encoded{}, fmt.Errorf("block: %w: %v", errs.ErrCompressionFailed, err)
	}

	payload := compressed
	var flags uint16
	if key != nil {
		sealed, err := crypto.Encrypt(*key, compressed)
		if err != nil {
			return Encoded{}, fmt.Errorf("block: encrypting payload: %w", err)
		}
		payload = sealed
		flags |= FlagEncrypted
	}

	h := NewHeader(blockType, codecID.UUID)
	h.Flags = flags
	h.FileID = fileID
	h.FileOffset = fileOffset
	h.OrigSize = uint32(len(plaintext))
	h.CompSize = uint32(len(payload))
	h.ContentHash = blake3.Sum256(plaintext)

	return Encoded{Header: h, Payload: payload}, nil
}

// Decode reverses Encode: it optionally decrypts the payload with key,
// decompresses it with c, and verifies the result's BLAKE3 hash against
// the header's recorded content_hash before returning it.
func Decode(h Header, payload []byte, c codec.Codec, key *[32]byte) ([]byte, error) {
	data := payload

	if h.Encrypted() {
		if key == nil {
			return nil, errs.ErrMissingKey
		}

		plain, err := crypto.Decrypt(*key, data)
		if err != nil {
			return nil, err
		}
		data = plain
	}

	plaintext, err := c.Decompress(data, int(h.OrigSize))
	if err != nil {
		return nil, fmt.Errorf("block: %w: %v", errs.ErrDecompressionFailed, err)
	}

	if got := blake3.Sum256(plaintext); got != h.ContentHash {
		return nil, errs.ErrContentHashMismatch
	}

	return plaintext, nil
}
