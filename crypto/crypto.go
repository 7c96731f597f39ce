// Package crypto implements the archive's optional encryption layer:
// Argon2id key derivation from a passphrase, and AES-256-GCM for block
// payload confidentiality and integrity.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/byte271/sixcy/errs"
)

// Argon2id tuning. These are fixed, not configurable: a variable KDF cost
// would mean two archives encrypted with "the same" password could need
// different amounts of work to open, defeating the point of a frozen
// on-disk format.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024 // KiB, i.e. 64 MiB
	argonThreads = 1
	keyLen       = 32
)

// NonceLen is the AES-GCM nonce size prepended to every ciphertext.
const NonceLen = 12

// DeriveKey derives a 32-byte AES-256 key from password and salt using
// Argon2id. salt is the archive's UUID, so the same password always
// derives the same key for a given archive and never collides across
// archives.
func DeriveKey(password string, salt [16]byte) ([32]byte, error) {
	var key [32]byte

	if password == "" {
		return key, fmt.Errorf("crypto: %w: empty password", errs.ErrKeyDerivationFailed)
	}

	derived := argon2.IDKey([]byte(password), salt[:], argonTime, argonMemory, argonThreads, keyLen)
	copy(key[:], derived)

	return key, nil
}

// Encrypt seals plaintext under key using AES-256-GCM with a freshly
// generated random nonce. The returned slice is nonce || ciphertext || tag.
func Encrypt(key [32]byte, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("crypto: aes cipher init: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypto: gcm init: %w", err)
	}

	nonce := make([]byte, NonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("crypto: nonce generation: %w", err)
	}

	out := gcm.Seal(nonce, nonce, plaintext, nil)

	return out, nil
}

// Decrypt opens a blob produced by Encrypt. Any failure — wrong key,
// corrupted ciphertext, truncated nonce — returns the single opaque
// errs.ErrDecryptionFailed, never disclosing which.
func Decrypt(key [32]byte, blob []byte) ([]byte, error) {
	if len(blob) < NonceLen {
		return nil, errs.ErrDecryptionFailed
	}

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, errs.ErrDecryptionFailed
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errs.ErrDecryptionFailed
	}

	nonce, ciphertext := blob[:NonceLen], blob[NonceLen:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errs.ErrDecryptionFailed
	}

	return plaintext, nil
}
