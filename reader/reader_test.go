package reader

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/byte271/sixcy/codec"
	"github.com/byte271/sixcy/crypto"
	"github.com/byte271/sixcy/internal/memfile"
	"github.com/byte271/sixcy/writer"
)

func buildArchive(t *testing.T, opts ...writer.Option) (*memfile.Buffer, map[string]uint32) {
	t.Helper()

	buf := memfile.New()
	reg := codec.NewRegistry()

	w, err := writer.New(buf, reg, opts...)
	require.NoError(t, err)

	ids := make(map[string]uint32)

	id, err := w.AddFile("a.txt", []byte("content of file a"))
	require.NoError(t, err)
	ids["a.txt"] = id

	id, err = w.AddFile("b.txt", []byte("content of file b, which differs"))
	require.NoError(t, err)
	ids["b.txt"] = id

	require.NoError(t, w.Finalize())

	return buf, ids
}

func TestOpenAndUnpackFile(t *testing.T) {
	buf, ids := buildArchive(t)

	rd, err := Open(buf, codec.NewRegistry())
	require.NoError(t, err)

	got, err := rd.UnpackFile(ids["a.txt"])
	require.NoError(t, err)
	require.Equal(t, "content of file a", string(got))

	got, err = rd.UnpackFile(ids["b.txt"])
	require.NoError(t, err)
	require.Equal(t, "content of file b, which differs", string(got))
}

func TestReadAtPartial(t *testing.T) {
	buf, ids := buildArchive(t)

	rd, err := Open(buf, codec.NewRegistry())
	require.NoError(t, err)

	out := make([]byte, 7)
	n, err := rd.ReadAt(ids["a.txt"], 8, out)
	require.NoError(t, err)
	require.Equal(t, 7, n)
	require.Equal(t, "of file", string(out))
}

func TestStatNotFound(t *testing.T) {
	buf, _ := buildArchive(t)

	rd, err := Open(buf, codec.NewRegistry())
	require.NoError(t, err)

	_, err = rd.Stat(9999)
	require.Error(t, err)
}

func TestEncryptedArchiveRequiresKey(t *testing.T) {
	var salt [16]byte
	key, err := crypto.DeriveKey("s3cret", salt)
	require.NoError(t, err)

	buf := memfile.New()
	reg := codec.NewRegistry()

	w, err := writer.New(buf, reg, writer.WithEncryptionKey(key))
	require.NoError(t, err)

	id, err := w.AddFile("secret.txt", []byte("top secret payload"))
	require.NoError(t, err)
	require.NoError(t, w.Finalize())

	rdNoKey, err := Open(buf, codec.NewRegistry())
	require.NoError(t, err)
	require.Len(t, rdNoKey.List(), 1)

	_, err = rdNoKey.UnpackFile(id)
	require.Error(t, err)

	var wrongKey [32]byte
	wrongKey[0] = 0xAB
	rdWrongKey, err := OpenWithKey(buf, codec.NewRegistry(), wrongKey)
	require.NoError(t, err)
	_, err = rdWrongKey.UnpackFile(id)
	require.Error(t, err)

	rdCorrect, err := OpenWithKey(buf, codec.NewRegistry(), key)
	require.NoError(t, err)
	got, err := rdCorrect.UnpackFile(id)
	require.NoError(t, err)
	require.Equal(t, "top secret payload", string(got))
}

func TestUnavailableCodecRejectedAtOpen(t *testing.T) {
	var pluginUUID [16]byte
	pluginUUID[0] = 0x99
	pluginID := codec.ID{UUID: pluginUUID}

	writeReg := codec.NewRegistry()
	require.NoError(t, writeReg.Register(codec.Plugin{
		UUID:       pluginUUID,
		ABIVersion: 1,
		Compress: func(data []byte, level int) ([]byte, error) {
			return append([]byte(nil), data...), nil
		},
		Decompress: func(data []byte, originalSize int) ([]byte, error) {
			return append([]byte(nil), data...), nil
		},
	}))

	buf := memfile.New()
	w, err := writer.New(buf, writeReg, writer.WithDefaultCodec(pluginID))
	require.NoError(t, err)
	_, err = w.AddFile("plugin.bin", []byte("data needing the plugin codec"))
	require.NoError(t, err)
	require.NoError(t, w.Finalize())

	_, err = Open(buf, codec.NewRegistry())
	require.Error(t, err)
}
