// Package writer: see writer.go for the Writer type and its AddFile/
// BeginSolid/EndSolid/Finalize lifecycle.
package writer
