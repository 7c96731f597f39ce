// Package superblock: see superblock.go for the fixed 256-byte layout.
//
// A reader must check Available for every UUID in RequiredCodecUUIDs
// before reading any block — not lazily on first use — so that an
// archive requiring an unavailable codec fails predictably at open time
// instead of partway through an extraction.
package superblock
