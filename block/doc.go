// Package block: see block.go for the encode/decode pipeline and header.go
// for the 84-byte on-disk header layout.
//
// # Forward compatibility
//
// header_size may exceed HeaderSize in an archive written by a later
// format revision. This package always writes HeaderSize and treats a
// larger declared size on read as "skip the extra bytes, the fields this
// version understands are still at their fixed offsets" rather than an
// error.
package block
