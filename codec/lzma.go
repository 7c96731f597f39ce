package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
)

// lzmaCodec wraps ulikunitz/xz, which frames its LZMA2 stream in the xz
// container format. xz has no direct analog of zstd's 1-22 level scale;
// level only adjusts the dictionary capacity, clamped to the library's
// supported range.
type lzmaCodec struct{}

var _ Codec = lzmaCodec{}

func dictCapForLevel(level int) int {
	switch {
	case level <= 0:
		return 8 << 20
	case level >= 9:
		return 64 << 20
	default:
		return (1 << 20) * (1 << level)
	}
}

func (lzmaCodec) Compress(data []byte, level int) ([]byte, error) {
	cfg := xz.WriterConfig{DictCap: dictCapForLevel(level)}

	var buf bytes.Buffer
	w, err := cfg.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("codec: xz writer init: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("codec: xz write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("codec: xz close: %w", err)
	}

	return buf.Bytes(), nil
}

func (lzmaCodec) Decompress(data []byte, originalSize int) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("codec: xz reader init: %w", err)
	}

	out := bytes.NewBuffer(make([]byte, 0, originalSize))
	if _, err := io.Copy(out, r); err != nil {
		return nil, fmt.Errorf("codec: xz read: %w", err)
	}

	return out.Bytes(), nil
}
