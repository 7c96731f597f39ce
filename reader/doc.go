// Package reader: see reader.go for Open/OpenWithKey and the
// UnpackFile/ReadAt accessors.
package reader
