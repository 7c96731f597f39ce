// Package reader implements random-access reading of a .6cy archive:
// opening validates every required codec is available before any block
// is touched, after which files can be fully unpacked or read at an
// arbitrary byte offset.
package reader

import (
	"fmt"
	"io"

	"github.com/byte271/sixcy/block"
	"github.com/byte271/sixcy/codec"
	"github.com/byte271/sixcy/errs"
	"github.com/byte271/sixcy/index"
	"github.com/byte271/sixcy/superblock"
)

// Reader provides random access to a .6cy archive's files.
type Reader struct {
	r   io.ReadSeeker
	reg *codec.Registry
	sb  superblock.Superblock
	idx index.FileIndex
	key *[32]byte
}

// Open reads and validates the superblock and Index block from r. It
// fails immediately if any codec the superblock declares required is not
// available in reg — before any file's payload is ever touched — so a
// missing codec is never discovered mid-extraction.
func Open(r io.ReadSeeker, reg *codec.Registry) (*Reader, error) {
	return open(r, reg, nil)
}

// OpenWithKey is Open, additionally storing key for decrypting encrypted
// Data and Solid blocks. The Index block itself is never encrypted, so
// listing an archive's contents never requires a key.
func OpenWithKey(r io.ReadSeeker, reg *codec.Registry, key [32]byte) (*Reader, error) {
	return open(r, reg, &key)
}

func open(r io.ReadSeeker, reg *codec.Registry, key *[32]byte) (*Reader, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("reader: seeking to superblock: %w", err)
	}

	sbBytes := make([]byte, superblock.Size)
	if _, err := io.ReadFull(r, sbBytes); err != nil {
		return nil, fmt.Errorf("reader: reading superblock: %w", err)
	}

	sb, err := superblock.Parse(sbBytes)
	if err != nil {
		return nil, err
	}

	for _, uuid := range sb.RequiredCodecUUIDs {
		if !reg.Available(uuid) {
			return nil, &errs.UnavailableCodecError{UUID: uuid}
		}
	}

	if _, err := r.Seek(int64(sb.IndexOffset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("reader: seeking to index: %w", err)
	}

	raw := make([]byte, block.HeaderSize+sb.IndexSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("reader: reading index block: %w", err)
	}

	if uint64(len(raw)) < block.HeaderSize {
		return nil, errs.ErrTruncatedPayload
	}

	h, err := block.ParseHeader(raw[:block.HeaderSize])
	if err != nil {
		return nil, err
	}

	payloadStart := h.HeaderSize
	if uint64(len(raw)) < uint64(payloadStart)+uint64(h.CompSize) {
		return nil, &errs.TruncatedPayloadError{Declared: h.CompSize, Available: uint64(len(raw)) - uint64(payloadStart)}
	}
	payload := raw[payloadStart : uint64(payloadStart)+uint64(h.CompSize)]

	c, ok := reg.Lookup(h.CodecUUID)
	if !ok {
		return nil, &errs.UnavailableCodecError{UUID: h.CodecUUID}
	}

	decoded, err := block.Decode(h, payload, c, nil)
	if err != nil {
		return nil, err
	}

	idx, err := index.Unmarshal(decoded)
	if err != nil {
		return nil, err
	}

	return &Reader{r: r, reg: reg, sb: sb, idx: idx, key: key}, nil
}

// List returns every file record in the archive, in index order.
func (rd *Reader) List() []index.FileRecord {
	return rd.idx.Records
}

// Stat returns the record for fileID, or errs.NotFoundError.
func (rd *Reader) Stat(fileID uint32) (index.FileRecord, error) {
	rec, ok := rd.idx.ByID(fileID)
	if !ok {
		return index.FileRecord{}, &errs.NotFoundError{ID: fileID, ByID: true}
	}
	return rec, nil
}

// UUID returns the archive's UUID.
func (rd *Reader) UUID() [16]byte { return rd.sb.ArchiveUUID }

// RootHash returns the archive's index root hash.
func (rd *Reader) RootHash() [32]byte { return rd.idx.RootHash }

func (rd *Reader) readBlockSegment(ref index.BlockRef) ([]byte, error) {
	if _, err := rd.r.Seek(int64(ref.ArchiveOffset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("reader: seeking to block: %w", err)
	}

	hdrBytes := make([]byte, block.HeaderSize)
	if _, err := io.ReadFull(rd.r, hdrBytes); err != nil {
		return nil, fmt.Errorf("reader: reading block header: %w", err)
	}

	h, err := block.ParseHeader(hdrBytes)
	if err != nil {
		return nil, err
	}

	if h.HeaderSize > block.HeaderSize {
		if _, err := io.CopyN(io.Discard, rd.r, int64(h.HeaderSize-block.HeaderSize)); err != nil {
			return nil, fmt.Errorf("reader: skipping forward-compat header tail: %w", err)
		}
	}

	payload := make([]byte, h.CompSize)
	if _, err := io.ReadFull(rd.r, payload); err != nil {
		return nil, &errs.TruncatedPayloadError{Declared: h.CompSize, Available: 0}
	}

	c, ok := rd.reg.Lookup(h.CodecUUID)
	if !ok {
		return nil, &errs.UnavailableCodecError{UUID: h.CodecUUID}
	}

	full, err := block.Decode(h, payload, c, rd.key)
	if err != nil {
		return nil, err
	}

	end := int(ref.IntraOffset) + int(ref.IntraLength)
	if end > len(full) {
		return nil, &errs.TruncatedPayloadError{Declared: uint32(end), Available: uint64(len(full))}
	}

	return full[ref.IntraOffset:end], nil
}

// UnpackFile reads and reassembles fileID's entire content.
func (rd *Reader) UnpackFile(fileID uint32) ([]byte, error) {
	rec, err := rd.Stat(fileID)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, rec.OriginalSize)
	for _, ref := range rec.BlockRefs {
		segment, err := rd.readBlockSegment(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, segment...)
	}

	return out, nil
}

// ReadAt reads len(buf) bytes of fileID's logical content starting at
// offset, walking the file's block refs to find the first overlapping
// chunk. It returns io.EOF once offset reaches the file's end.
func (rd *Reader) ReadAt(fileID uint32, offset int64, buf []byte) (int, error) {
	rec, err := rd.Stat(fileID)
	if err != nil {
		return 0, err
	}

	if offset < 0 || uint64(offset) >= rec.OriginalSize {
		return 0, io.EOF
	}

	var pos int64
	total := 0

	for _, ref := range rec.BlockRefs {
		refLen := int64(ref.IntraLength)
		refStart, refEnd := pos, pos+refLen
		pos = refEnd

		if offset >= refEnd {
			continue
		}
		if total >= len(buf) {
			break
		}

		segment, err := rd.readBlockSegment(ref)
		if err != nil {
			return total, err
		}

		startInSegment := int64(0)
		if offset > refStart {
			startInSegment = offset - refStart
		}

		n := copy(buf[total:], segment[startInSegment:])
		total += n
		offset += int64(n)
	}

	if total == 0 {
		return 0, io.EOF
	}

	return total, nil
}
