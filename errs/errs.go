// Package errs defines the error taxonomy shared by every sixcy package.
//
// Sentinel errors are compared with errors.Is. Errors that carry structured
// context (an unavailable codec UUID, a truncated payload's byte counts) are
// typed values that also satisfy errors.Is against the taxonomy's sentinel
// via Unwrap, so callers can match on either the sentinel or the detail.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMagic is returned when a superblock or block header's magic
	// number does not match the expected constant.
	ErrInvalidMagic = errors.New("sixcy: invalid magic number")

	// ErrUnsupportedVersion is returned when a superblock's format_version
	// is below FORMAT_VERSION.
	ErrUnsupportedVersion = errors.New("sixcy: unsupported format version")

	// ErrCrc32Mismatch is returned when a header's CRC32 does not match its
	// declared checksum. Never recovered locally; always propagates.
	ErrCrc32Mismatch = errors.New("sixcy: header crc32 mismatch")

	// ErrUnavailableCodec is the sentinel wrapped by UnavailableCodecError.
	ErrUnavailableCodec = errors.New("sixcy: codec unavailable")

	// ErrContentHashMismatch is returned when a decoded block's BLAKE3 hash
	// does not match its header's content_hash.
	ErrContentHashMismatch = errors.New("sixcy: content hash mismatch")

	// ErrDecryptionFailed is opaque by design: it never discloses whether
	// the nonce, key, or ciphertext was the point of failure.
	ErrDecryptionFailed = errors.New("sixcy: decryption failed")

	// ErrKeyDerivationFailed is returned when Argon2id key derivation fails.
	ErrKeyDerivationFailed = errors.New("sixcy: key derivation failed")

	// ErrTruncatedPayload is the sentinel wrapped by TruncatedPayloadError.
	ErrTruncatedPayload = errors.New("sixcy: truncated payload")

	// ErrUnknownBlockType is returned when a block header declares a
	// block_type the reader does not recognize.
	ErrUnknownBlockType = errors.New("sixcy: unknown block type")

	// ErrCompressionFailed wraps a codec's Compress failure.
	ErrCompressionFailed = errors.New("sixcy: compression failed")

	// ErrDecompressionFailed wraps a codec's Decompress failure.
	ErrDecompressionFailed = errors.New("sixcy: decompression failed")

	// ErrNotFound is the sentinel wrapped by NotFoundError.
	ErrNotFound = errors.New("sixcy: not found")

	// ErrWrongMode is the sentinel wrapped by WrongModeError — a read
	// operation invoked on a writer, or a write operation invoked on a
	// reader.
	ErrWrongMode = errors.New("sixcy: wrong mode")

	// ErrTooManyRequiredCodecs is returned when a superblock would need to
	// declare more required codec UUIDs than its fixed 256-byte layout
	// bounds (superblock.MaxRequiredCodecs).
	ErrTooManyRequiredCodecs = errors.New("sixcy: too many required codec uuids for superblock")

	// ErrAlreadyFinalized is returned by any writer operation invoked after
	// Finalize has already run once.
	ErrAlreadyFinalized = errors.New("sixcy: writer already finalized")

	// ErrMissingKey is returned when a block is encrypted but the reader
	// was opened without a decryption key.
	ErrMissingKey = errors.New("sixcy: block is encrypted but no key was provided")
)

// UnavailableCodecError reports a required codec UUID that has no registered
// implementation. The reader must fail with this before touching any block.
type UnavailableCodecError struct {
	UUID [16]byte
}

func (e *UnavailableCodecError) Error() string {
	return fmt.Sprintf("sixcy: codec unavailable: %x", e.UUID)
}

func (e *UnavailableCodecError) Unwrap() error { return ErrUnavailableCodec }

// TruncatedPayloadError reports a block whose declared on-disk size exceeds
// the bytes actually available.
type TruncatedPayloadError struct {
	Declared  uint32
	Available uint64
}

func (e *TruncatedPayloadError) Error() string {
	return fmt.Sprintf("sixcy: truncated payload: declared %d bytes, %d available", e.Declared, e.Available)
}

func (e *TruncatedPayloadError) Unwrap() error { return ErrTruncatedPayload }

// NotFoundError reports a missing file lookup by name or id.
type NotFoundError struct {
	Name string
	ID   uint32
	ByID bool
}

func (e *NotFoundError) Error() string {
	if e.ByID {
		return fmt.Sprintf("sixcy: file id %d not found", e.ID)
	}

	return fmt.Sprintf("sixcy: file %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// WrongModeError reports an operation invoked against the wrong archive
// mode (e.g. a write call on a read-only Archive).
type WrongModeError struct {
	Op string
}

func (e *WrongModeError) Error() string {
	return fmt.Sprintf("sixcy: operation %q is not valid in this mode", e.Op)
}

func (e *WrongModeError) Unwrap() error { return ErrWrongMode }
