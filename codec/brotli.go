package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

// brotliCodec wraps andybalholm/brotli. Unlike zstd and lz4, this package
// only exposes a streaming io.Writer/io.Reader API, so both directions go
// through an in-memory buffer.
type brotliCodec struct{}

var _ Codec = brotliCodec{}

func (brotliCodec) Compress(data []byte, level int) ([]byte, error) {
	if level <= 0 {
		level = brotli.DefaultCompression
	}

	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, level)

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("codec: brotli write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("codec: brotli close: %w", err)
	}

	return buf.Bytes(), nil
}

func (brotliCodec) Decompress(data []byte, originalSize int) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(data))

	out := bytes.NewBuffer(make([]byte, 0, originalSize))
	if _, err := io.Copy(out, r); err != nil {
		return nil, fmt.Errorf("codec: brotli read: %w", err)
	}

	return out.Bytes(), nil
}
