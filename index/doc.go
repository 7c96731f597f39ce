// Package index: see index.go for FileRecord/BlockRef/FileIndex and the
// root hash computation.
package index
