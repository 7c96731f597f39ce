// Package sixcy implements the .6cy self-describing, content-addressed
// archive container: per-block integrity, pluggable codecs identified by
// frozen UUIDs, optional AES-256-GCM encryption, and an index-bypass
// recovery scanner.
//
// # Quick start
//
//	f, _ := os.Create("out.6cy")
//	a, _ := sixcy.Create(f, sixcy.DefaultPackOptions())
//	a.AddFile("hello.txt", []byte("hello, world"))
//	a.Finalize()
//	f.Close()
//
//	f, _ = os.Open("out.6cy")
//	a, _ = sixcy.Open(f)
//	data, _ := a.ReadFile("hello.txt")
//
// # Thread safety
//
// An Archive is not safe for concurrent use. Open multiple Archives over
// the same file (or the same *os.File via separate handles) for
// concurrent readers.
package sixcy

import (
	"encoding/hex"
	"io"

	"github.com/byte271/sixcy/codec"
	"github.com/byte271/sixcy/crypto"
	"github.com/byte271/sixcy/errs"
	"github.com/byte271/sixcy/index"
	"github.com/byte271/sixcy/reader"
	"github.com/byte271/sixcy/writer"
)

// PackOptions configures a newly created archive.
type PackOptions struct {
	// DefaultCodec is used for every file added without an explicit
	// per-file codec.
	DefaultCodec codec.ID
	// Level is the compression level passed to the codec.
	Level int
	// ChunkSize is the size a file is split into for per-chunk
	// deduplication.
	ChunkSize int
	// Password, if non-empty, enables AES-256-GCM encryption of file
	// content (never of the Index block) derived via Argon2id.
	Password string
}

// DefaultPackOptions returns the default archive configuration: Zstd at
// level 3, 4MiB chunks, no encryption.
func DefaultPackOptions() PackOptions {
	return PackOptions{
		DefaultCodec: codec.Zstd,
		Level:        writer.DefaultLevel,
		ChunkSize:    writer.DefaultChunkSize,
	}
}

// FileInfo summarizes one stored file, mirroring index.FileRecord
// without exposing the internal BlockRef slice.
type FileInfo struct {
	ID             uint32
	Name           string
	OriginalSize   uint64
	CompressedSize uint64
	BlockCount     int
	FirstBlockHash *[32]byte
}

func fileInfoFromRecord(rec index.FileRecord) FileInfo {
	info := FileInfo{
		ID:             rec.ID,
		Name:           rec.Name,
		OriginalSize:   rec.OriginalSize,
		CompressedSize: rec.CompressedSize,
		BlockCount:     len(rec.BlockRefs),
	}
	if len(rec.BlockRefs) > 0 {
		hash := rec.BlockRefs[0].ContentHash
		info.FirstBlockHash = &hash
	}
	return info
}

// Archive is the root-package facade over writer.Writer and
// reader.Reader: exactly one of its two underlying modes is active for
// the lifetime of a value, and calling an operation from the wrong mode
// returns errs.WrongModeError.
type Archive struct {
	reg *codec.Registry
	w   *writer.Writer
	r   *reader.Reader
}

// Create opens a new archive for writing onto rw, which must support
// Seek since Finalize rewrites the superblock at offset 0 once every
// file has been written.
func Create(rw io.WriteSeeker, opts PackOptions) (*Archive, error) {
	reg := codec.NewRegistry()

	writerOpts := []writer.Option{
		writer.WithDefaultCodec(opts.DefaultCodec),
		writer.WithLevel(opts.Level),
	}
	if opts.ChunkSize > 0 {
		writerOpts = append(writerOpts, writer.WithChunkSize(opts.ChunkSize))
	}

	w, err := writer.New(rw, reg, writerOpts...)
	if err != nil {
		return nil, err
	}

	if opts.Password != "" {
		key, err := crypto.DeriveKey(opts.Password, w.UUID())
		if err != nil {
			return nil, err
		}
		writer.WithEncryptionKey(key)(w)
	}

	return &Archive{reg: reg, w: w}, nil
}

// Open opens an existing, unencrypted archive for reading.
func Open(r io.ReadSeeker) (*Archive, error) {
	reg := codec.NewRegistry()
	rd, err := reader.Open(r, reg)
	if err != nil {
		return nil, err
	}
	return &Archive{reg: reg, r: rd}, nil
}

// OpenEncrypted opens an archive that may contain encrypted files,
// deriving the decryption key from password and the archive's own UUID.
// Listing and Stat always succeed regardless of password correctness;
// only reading an encrypted file's content can fail with a decryption
// error.
func OpenEncrypted(r io.ReadSeeker, password string) (*Archive, error) {
	reg := codec.NewRegistry()

	probe, err := reader.Open(r, reg)
	if err != nil {
		return nil, err
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	key, err := crypto.DeriveKey(password, probe.UUID())
	if err != nil {
		return nil, err
	}

	rd, err := reader.OpenWithKey(r, reg, key)
	if err != nil {
		return nil, err
	}

	return &Archive{reg: reg, r: rd}, nil
}

// AddFile stores name's content using the archive's default codec. Valid
// only in write mode.
func (a *Archive) AddFile(name string, data []byte) (uint32, error) {
	if a.w == nil {
		return 0, &errs.WrongModeError{Op: "AddFile"}
	}
	return a.w.AddFile(name, data)
}

// AddFileWithCodec stores name's content using a specific codec. Valid
// only in write mode.
func (a *Archive) AddFileWithCodec(name string, data []byte, codecID codec.ID) (uint32, error) {
	if a.w == nil {
		return 0, &errs.WrongModeError{Op: "AddFileWithCodec"}
	}
	return a.w.AddFileWithCodec(name, data, codecID)
}

// BeginSolid starts a solid compression session. Valid only in write
// mode.
func (a *Archive) BeginSolid(codecID codec.ID) error {
	if a.w == nil {
		return &errs.WrongModeError{Op: "BeginSolid"}
	}
	return a.w.BeginSolid(codecID)
}

// EndSolid closes the current solid session. Valid only in write mode.
func (a *Archive) EndSolid() error {
	if a.w == nil {
		return &errs.WrongModeError{Op: "EndSolid"}
	}
	return a.w.EndSolid()
}

// Finalize completes the archive. Valid only in write mode.
func (a *Archive) Finalize() error {
	if a.w == nil {
		return &errs.WrongModeError{Op: "Finalize"}
	}
	return a.w.Finalize()
}

// List returns every file stored in the archive. Valid only in read
// mode.
func (a *Archive) List() ([]FileInfo, error) {
	if a.r == nil {
		return nil, &errs.WrongModeError{Op: "List"}
	}

	recs := a.r.List()
	out := make([]FileInfo, len(recs))
	for i, rec := range recs {
		out[i] = fileInfoFromRecord(rec)
	}
	return out, nil
}

// Stat returns info about fileID. Valid only in read mode.
func (a *Archive) Stat(fileID uint32) (FileInfo, error) {
	if a.r == nil {
		return FileInfo{}, &errs.WrongModeError{Op: "Stat"}
	}

	rec, err := a.r.Stat(fileID)
	if err != nil {
		return FileInfo{}, err
	}
	return fileInfoFromRecord(rec), nil
}

// ReadFileByID reads and reassembles fileID's content. Valid only in read
// mode.
func (a *Archive) ReadFileByID(fileID uint32) ([]byte, error) {
	if a.r == nil {
		return nil, &errs.WrongModeError{Op: "ReadFileByID"}
	}
	return a.r.UnpackFile(fileID)
}

// ReadFile reads and reassembles the content of the first file named
// name. Valid only in read mode.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	if a.r == nil {
		return nil, &errs.WrongModeError{Op: "ReadFile"}
	}

	for _, rec := range a.r.List() {
		if rec.Name == name {
			return a.r.UnpackFile(rec.ID)
		}
	}

	return nil, &errs.NotFoundError{Name: name}
}

// ReadAt reads len(buf) bytes of fileID's content starting at offset.
// Valid only in read mode.
func (a *Archive) ReadAt(fileID uint32, offset int64, buf []byte) (int, error) {
	if a.r == nil {
		return 0, &errs.WrongModeError{Op: "ReadAt"}
	}
	return a.r.ReadAt(fileID, offset, buf)
}

// UUID returns the archive's UUID, in either mode.
func (a *Archive) UUID() [16]byte {
	if a.w != nil {
		return a.w.UUID()
	}
	return a.r.UUID()
}

// RootHashHex returns the hex-encoded BLAKE3 root hash of the archive's
// index. Valid only in read mode, after Open/OpenEncrypted.
func (a *Archive) RootHashHex() (string, error) {
	if a.r == nil {
		return "", &errs.WrongModeError{Op: "RootHashHex"}
	}
	hash := a.r.RootHash()
	return hex.EncodeToString(hash[:]), nil
}

// ExtractAll reads every file in the archive and invokes writeFile with
// its stored name and content. Valid only in read mode. How (or whether)
// writeFile lays files out on a filesystem is the caller's decision; this
// package never walks or creates directories itself.
func (a *Archive) ExtractAll(writeFile func(name string, data []byte) error) error {
	if a.r == nil {
		return &errs.WrongModeError{Op: "ExtractAll"}
	}

	for _, rec := range a.r.List() {
		data, err := a.r.UnpackFile(rec.ID)
		if err != nil {
			return err
		}
		if err := writeFile(rec.Name, data); err != nil {
			return err
		}
	}

	return nil
}
