package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/byte271/sixcy/errs"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	var salt [16]byte
	copy(salt[:], "archive-uuid-1234")

	key, err := DeriveKey("correct horse battery staple", salt)
	require.NoError(t, err)

	plaintext := []byte("a secret message that does not fit in one block")

	blob, err := Encrypt(key, plaintext)
	require.NoError(t, err)
	require.Greater(t, len(blob), NonceLen)

	recovered, err := Decrypt(key, blob)
	require.NoError(t, err)
	require.Equal(t, plaintext, recovered)
}

func TestDeriveKeyIsDeterministicPerSalt(t *testing.T) {
	var salt [16]byte
	copy(salt[:], "fixed-salt-value")

	k1, err := DeriveKey("hunter2", salt)
	require.NoError(t, err)

	k2, err := DeriveKey("hunter2", salt)
	require.NoError(t, err)

	require.Equal(t, k1, k2)
}

func TestDeriveKeyDiffersAcrossSalts(t *testing.T) {
	var saltA, saltB [16]byte
	saltA[0] = 0x01
	saltB[0] = 0x02

	ka, err := DeriveKey("hunter2", saltA)
	require.NoError(t, err)

	kb, err := DeriveKey("hunter2", saltB)
	require.NoError(t, err)

	require.NotEqual(t, ka, kb)
}

func TestDecryptWrongKeyFails(t *testing.T) {
	var salt [16]byte
	key1, err := DeriveKey("password-one", salt)
	require.NoError(t, err)
	key2, err := DeriveKey("password-two", salt)
	require.NoError(t, err)

	blob, err := Encrypt(key1, []byte("payload"))
	require.NoError(t, err)

	_, err = Decrypt(key2, blob)
	require.ErrorIs(t, err, errs.ErrDecryptionFailed)
}

func TestDecryptTruncatedBlobFails(t *testing.T) {
	var salt [16]byte
	key, err := DeriveKey("password", salt)
	require.NoError(t, err)

	_, err = Decrypt(key, []byte("short"))
	require.ErrorIs(t, err, errs.ErrDecryptionFailed)
}

func TestDeriveKeyRejectsEmptyPassword(t *testing.T) {
	var salt [16]byte
	_, err := DeriveKey("", salt)
	require.Error(t, err)
}
