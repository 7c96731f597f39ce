// Package codec defines the compression codec identity model and registry
// used by the block and superblock layers.
//
// Every codec is identified first by a frozen 16-byte UUID — the only
// identity ever persisted to disk — and second by a process-local short ID
// used for quick in-memory dispatch. The short ID is never written to an
// archive and must never be treated as stable across processes or builds.
//
// # Built-ins
//
// None, Zstd, LZ4, Brotli, and LZMA are always available from
// NewRegistry. Register extends a Registry with a plugin codec for the
// lifetime of that Registry value only; nothing about a plugin is ever
// written to an archive beyond its UUID.
//
// # Availability gate
//
// A reader must call Available on every UUID a superblock declares
// required before touching any block payload. Decoding a block whose
// codec isn't registered is always a programming error to avoid, not a
// recoverable data condition.
package codec
