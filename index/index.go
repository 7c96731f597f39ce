// Package index implements the .6cy Index block: the table mapping every
// file in an archive to the block(s) holding its content, and the
// archive-wide root hash binding that table to the blocks it describes.
package index

import (
	"encoding/json"
	"fmt"

	"lukechampine.com/blake3"
)

// BlockRef points at one content-addressed chunk backing a file, either
// as a whole block (IntraOffset 0, IntraLength == the block's plaintext
// size) or as a slice of a solid block shared with other files.
type BlockRef struct {
	ContentHash   [32]byte `json:"content_hash"`
	ArchiveOffset uint64   `json:"archive_offset"`
	IntraOffset   uint32   `json:"intra_offset"`
	IntraLength   uint32   `json:"intra_length"`
}

// FileRecord describes one stored file: its identity, its logical place
// in the archive's (flat or hierarchical) namespace, and the ordered
// chunks that reassemble its content.
type FileRecord struct {
	ID             uint32            `json:"id"`
	ParentID       uint32            `json:"parent_id,omitempty"`
	Name           string             `json:"name"`
	BlockRefs      []BlockRef         `json:"block_refs"`
	OriginalSize   uint64             `json:"original_size"`
	CompressedSize uint64             `json:"compressed_size"`
	Metadata       map[string]string  `json:"metadata,omitempty"`
}

// FileIndex is the full on-disk index: every file record plus the root
// hash transcripted over them.
type FileIndex struct {
	Records  []FileRecord `json:"records"`
	RootHash [32]byte     `json:"root_hash"`
}

// ComputeRootHash derives the archive's root hash as a BLAKE3 digest over
// every record's content hashes, in record order then block-ref order.
// Two archives with identical file content and identical chunking always
// produce the same root hash regardless of compression level or codec
// choice, since it transcripts plaintext hashes, not compressed bytes.
func (fi *FileIndex) ComputeRootHash() [32]byte {
	h := blake3.New(32, nil)

	for _, rec := range fi.Records {
		for _, ref := range rec.BlockRefs {
			_, _ = h.Write(ref.ContentHash[:])
		}
	}

	var out [32]byte
	copy(out[:], h.Sum(nil))
	fi.RootHash = out

	return out
}

// Marshal serializes the index to its on-disk JSON representation.
func (fi FileIndex) Marshal() ([]byte, error) {
	b, err := json.Marshal(fi)
	if err != nil {
		return nil, fmt.Errorf("index: marshal: %w", err)
	}
	return b, nil
}

// Unmarshal decodes a FileIndex previously produced by Marshal.
func Unmarshal(data []byte) (FileIndex, error) {
	var fi FileIndex
	if err := json.Unmarshal(data, &fi); err != nil {
		return FileIndex{}, fmt.Errorf("index: unmarshal: %w", err)
	}
	return fi, nil
}

// ByID returns the record with the given file id, if any.
func (fi FileIndex) ByID(id uint32) (FileRecord, bool) {
	for _, rec := range fi.Records {
		if rec.ID == id {
			return rec, true
		}
	}
	return FileRecord{}, false
}

// ByName returns the record with the given name, if any. Archives are not
// required to enforce unique names; the first match wins.
func (fi FileIndex) ByName(name string) (FileRecord, bool) {
	for _, rec := range fi.Records {
		if rec.Name == name {
			return rec, true
		}
	}
	return FileRecord{}, false
}
