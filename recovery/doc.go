// Package recovery: see scanner.go for Scan, the BlockHealth
// classification, and ExtractRecoverable.
package recovery
