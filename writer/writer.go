// Package writer implements the streaming .6cy archive writer: per-chunk
// content-addressed deduplication, optional solid compression sessions
// spanning multiple small files, and finalization into a complete,
// self-describing archive.
package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"lukechampine.com/blake3"

	"github.com/byte271/sixcy/block"
	"github.com/byte271/sixcy/codec"
	"github.com/byte271/sixcy/errs"
	"github.com/byte271/sixcy/index"
	"github.com/byte271/sixcy/internal/pool"
	"github.com/byte271/sixcy/superblock"
)

// DefaultChunkSize is the default size a file is split into before
// per-chunk deduplication and compression.
const DefaultChunkSize = 4 * 1024 * 1024

// DefaultLevel is the default compression level passed to a codec's
// Compress method.
const DefaultLevel = 3

// SolidFileID is the file_id written into the header of a Solid block,
// which holds content of several files, and is also used as the
// file_id of the Index block itself. It is never a valid real file id
// since file ids are assigned densely from 0, one per position in the
// file list.
const SolidFileID = 0xFFFFFFFF

// Option configures a Writer at construction time.
type Option func(*Writer)

// WithChunkSize overrides DefaultChunkSize.
func WithChunkSize(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.chunkSize = n
		}
	}
}

// WithLevel overrides DefaultLevel.
func WithLevel(level int) Option {
	return func(w *Writer) { w.level = level }
}

// WithDefaultCodec sets the codec used for files added via AddFile.
func WithDefaultCodec(id codec.ID) Option {
	return func(w *Writer) { w.defaultCodec = id }
}

// WithEncryptionKey enables AES-256-GCM sealing of every Data and Solid
// block payload written after this option is applied. The Index block is
// never encrypted: a reader must always be able to enumerate an
// archive's contents without a password.
func WithEncryptionKey(key [32]byte) Option {
	return func(w *Writer) { w.key = &key }
}

type casEntry struct {
	offset      uint64
	intraLength uint32
}

type pendingSolidRef struct {
	recordIdx   int
	intraOffset uint32
	intraLength uint32
	contentHash [32]byte
}

type checkpoint struct {
	ArchiveOffset uint64 `json:"archive_offset"`
	LastFileID    uint32 `json:"last_file_id"`
	Timestamp     int64  `json:"timestamp"`
}

// Writer assembles a .6cy archive onto an io.WriteSeeker. It must be
// driven through AddFile/AddFileWithCodec and optionally BeginSolid/
// EndSolid, then Finalize exactly once.
type Writer struct {
	w   io.WriteSeeker
	reg *codec.Registry

	chunkSize    int
	level        int
	defaultCodec codec.ID
	key          *[32]byte

	sb    superblock.Superblock
	idx   index.FileIndex
	cas   map[[32]byte]casEntry
	nowFn func() int64

	offset     uint64
	nextFileID uint32
	finalized  bool

	inSolid      bool
	solidCodec   codec.ID
	solidBuffer  *pool.ByteBuffer
	solidPending []pendingSolidRef

	checkpoints []checkpoint
}

// New constructs a Writer and immediately writes a placeholder superblock
// at offset 0, so every subsequent block has a stable, known offset.
func New(w io.WriteSeeker, reg *codec.Registry, opts ...Option) (*Writer, error) {
	wr := &Writer{
		w:            w,
		reg:          reg,
		chunkSize:    DefaultChunkSize,
		level:        DefaultLevel,
		defaultCodec: codec.Zstd,
		sb:           superblock.New(),
		cas:          make(map[[32]byte]casEntry),
		nextFileID:   0,
		nowFn:        func() int64 { return time.Now().Unix() },
	}

	for _, opt := range opts {
		opt(wr)
	}

	placeholder := make([]byte, superblock.Size)
	if err := wr.writeRaw(placeholder); err != nil {
		return nil, fmt.Errorf("writer: writing placeholder superblock: %w", err)
	}

	return wr, nil
}

func (w *Writer) writeRaw(b []byte) error {
	n, err := w.w.Write(b)
	w.offset += uint64(n)
	return err
}

// AddFile stores name's content using the writer's default codec.
func (w *Writer) AddFile(name string, data []byte) (uint32, error) {
	return w.AddFileWithCodec(name, data, w.defaultCodec)
}

// AddFileWithCodec stores name's content, chunked into ChunkSize pieces,
// each deduplicated against every chunk written so far in this archive
// (including from other files) by BLAKE3 content hash.
//
// Inside a solid session (see BeginSolid), this instead appends the
// entire file to the session's shared buffer without per-chunk chunking
// or deduplication; the file's blocks are back-patched in when EndSolid
// runs.
func (w *Writer) AddFileWithCodec(name string, data []byte, codecID codec.ID) (uint32, error) {
	if w.finalized {
		return 0, errs.ErrAlreadyFinalized
	}

	fileID := w.nextFileID
	w.nextFileID++

	if w.inSolid {
		return fileID, w.addFileToSolidSession(fileID, name, data)
	}

	c, ok := w.reg.Lookup(codecID.UUID)
	if !ok {
		return 0, &errs.UnavailableCodecError{UUID: codecID.UUID}
	}

	rec := index.FileRecord{ID: fileID, Name: name}

	chunkSize := w.chunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	for off := 0; off < len(data) || len(data) == 0; off += chunkSize {
		end := off + chunkSize
		if end > len(data) {
			end = len(data)
		}
		chunk := data[off:end]

		ref, err := w.writeOrDedupChunk(chunk, fileID, uint64(off), codecID, c)
		if err != nil {
			return 0, err
		}
		rec.BlockRefs = append(rec.BlockRefs, ref)
		rec.OriginalSize += uint64(len(chunk))
		rec.CompressedSize += uint64(ref.IntraLength)

		if len(data) == 0 {
			break
		}
	}

	if err := w.sb.AddRequiredCodec(codecID.UUID); err != nil {
		return 0, err
	}

	w.idx.Records = append(w.idx.Records, rec)
	w.checkpoints = append(w.checkpoints, checkpoint{
		ArchiveOffset: w.offset,
		LastFileID:    fileID,
		Timestamp:     w.nowFn(),
	})

	return fileID, nil
}

func (w *Writer) writeOrDedupChunk(chunk []byte, fileID uint32, fileOffset uint64, codecID codec.ID, c codec.Codec) (index.BlockRef, error) {
	hash := blake3.Sum256(chunk)

	if entry, ok := w.cas[hash]; ok {
		return index.BlockRef{
			ContentHash:   hash,
			ArchiveOffset: entry.offset,
			IntraLength:   entry.intraLength,
		}, nil
	}

	enc, err := block.Encode(block.TypeData, codecID, c, w.level, chunk, fileID, fileOffset, w.key)
	if err != nil {
		return index.BlockRef{}, err
	}

	blockOffset := w.offset
	if err := w.writeRaw(enc.Bytes()); err != nil {
		return index.BlockRef{}, fmt.Errorf("writer: writing data block: %w", err)
	}

	w.cas[hash] = casEntry{offset: blockOffset, intraLength: uint32(len(chunk))}

	return index.BlockRef{
		ContentHash:   hash,
		ArchiveOffset: blockOffset,
		IntraLength:   uint32(len(chunk)),
	}, nil
}

// BeginSolid starts a solid compression session: every file added until
// the matching EndSolid is appended to one shared buffer compressed as a
// single block, instead of being chunked and deduplicated individually.
// Solid sessions trade per-file random access within the block for a
// better compression ratio on many small, similar files.
func (w *Writer) BeginSolid(codecID codec.ID) error {
	if w.finalized {
		return errs.ErrAlreadyFinalized
	}
	if w.inSolid {
		return fmt.Errorf("writer: solid session already in progress")
	}

	w.inSolid = true
	w.solidCodec = codecID
	w.solidBuffer = pool.GetSolidBuffer()
	w.solidPending = nil

	return nil
}

func (w *Writer) addFileToSolidSession(fileID uint32, name string, data []byte) error {
	recordIdx := len(w.idx.Records)
	w.idx.Records = append(w.idx.Records, index.FileRecord{
		ID:             fileID,
		Name:           name,
		OriginalSize:   uint64(len(data)),
		CompressedSize: uint64(len(data)),
	})

	intraOffset := uint32(w.solidBuffer.Len())
	w.solidBuffer.MustWrite(data)

	w.solidPending = append(w.solidPending, pendingSolidRef{
		recordIdx:   recordIdx,
		intraOffset: intraOffset,
		intraLength: uint32(len(data)),
		contentHash: blake3.Sum256(data),
	})

	return nil
}

// EndSolid closes the current solid session. An empty session (no files
// were added) is silently discarded without writing a block.
func (w *Writer) EndSolid() error {
	if w.finalized {
		return errs.ErrAlreadyFinalized
	}
	if !w.inSolid {
		return fmt.Errorf("writer: no solid session in progress")
	}

	w.inSolid = false

	if w.solidBuffer.Len() == 0 {
		pool.PutSolidBuffer(w.solidBuffer)
		w.solidBuffer = nil
		w.solidPending = nil
		return nil
	}

	c, ok := w.reg.Lookup(w.solidCodec.UUID)
	if !ok {
		return &errs.UnavailableCodecError{UUID: w.solidCodec.UUID}
	}

	enc, err := block.Encode(block.TypeSolid, w.solidCodec, c, w.level, w.solidBuffer.Bytes(), SolidFileID, w.offset, w.key)
	if err != nil {
		return err
	}

	blockOffset := w.offset
	if err := w.writeRaw(enc.Bytes()); err != nil {
		return fmt.Errorf("writer: writing solid block: %w", err)
	}

	for _, pend := range w.solidPending {
		ref := index.BlockRef{
			ContentHash:   pend.contentHash,
			ArchiveOffset: blockOffset,
			IntraOffset:   pend.intraOffset,
			IntraLength:   pend.intraLength,
		}
		w.idx.Records[pend.recordIdx].BlockRefs = append(w.idx.Records[pend.recordIdx].BlockRefs, ref)
	}

	if err := w.sb.AddRequiredCodec(w.solidCodec.UUID); err != nil {
		return err
	}

	pool.PutSolidBuffer(w.solidBuffer)
	w.solidBuffer = nil
	w.solidPending = nil

	return nil
}

// Finalize flushes any open solid session, computes the archive's root
// hash, writes the Index block, writes the recovery checkpoint log, and
// rewrites the superblock with its final offsets. A Writer is single-use:
// every method after Finalize returns ErrAlreadyFinalized.
func (w *Writer) Finalize() error {
	if w.finalized {
		return errs.ErrAlreadyFinalized
	}

	if w.inSolid {
		if err := w.EndSolid(); err != nil {
			return err
		}
	}

	w.idx.ComputeRootHash()

	payload, err := w.idx.Marshal()
	if err != nil {
		return err
	}

	indexCodec, ok := w.reg.Lookup(codec.Zstd.UUID)
	if !ok {
		return &errs.UnavailableCodecError{UUID: codec.Zstd.UUID}
	}

	indexOffset := w.offset
	enc, err := block.Encode(block.TypeIndex, codec.Zstd, indexCodec, w.level, payload, SolidFileID, indexOffset, nil)
	if err != nil {
		return fmt.Errorf("writer: encoding index block: %w", err)
	}

	indexBytes := enc.Bytes()
	if err := w.writeRaw(indexBytes); err != nil {
		return fmt.Errorf("writer: writing index block: %w", err)
	}

	if err := w.sb.AddRequiredCodec(codec.Zstd.UUID); err != nil {
		return err
	}

	recoveryBytes, err := json.Marshal(w.checkpoints)
	if err != nil {
		return fmt.Errorf("writer: marshaling recovery map: %w", err)
	}
	if err := w.writeRaw(recoveryBytes); err != nil {
		return fmt.Errorf("writer: writing recovery map: %w", err)
	}

	w.sb.IndexOffset = indexOffset
	w.sb.IndexSize = uint64(len(enc.Payload))
	if w.key != nil {
		w.sb.Flags |= superblock.FlagEncrypted
	}

	sbBytes, err := w.sb.Bytes()
	if err != nil {
		return fmt.Errorf("writer: serializing superblock: %w", err)
	}

	if _, err := w.w.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("writer: seeking to patch superblock: %w", err)
	}
	if _, err := w.w.Write(sbBytes); err != nil {
		return fmt.Errorf("writer: writing final superblock: %w", err)
	}

	w.finalized = true

	return nil
}

// UUID returns the archive's UUID.
func (w *Writer) UUID() [16]byte { return w.sb.ArchiveUUID }
