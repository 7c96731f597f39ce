package codec

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdCodec wraps klauspost/compress/zstd. It is the default codec for
// both file chunks and the Index block.
//
// Encoders are level-specific, so a fresh *zstd.Encoder is created per
// Compress call and closed when done; decoders are level-independent and
// are pooled since a single shared *zstd.Decoder is always correct.
type zstdCodec struct {
	decPool sync.Pool
}

var _ Codec = (*zstdCodec)(nil)

func newZstdCodec() *zstdCodec {
	return &zstdCodec{
		decPool: sync.Pool{
			New: func() any {
				d, err := zstd.NewReader(nil)
				if err != nil {
					panic(fmt.Errorf("codec: failed to construct zstd decoder: %w", err))
				}
				return d
			},
		},
	}
}

func (c *zstdCodec) Compress(data []byte, level int) ([]byte, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("codec: zstd encoder init: %w", err)
	}
	defer enc.Close()

	return enc.EncodeAll(data, make([]byte, 0, len(data))), nil
}

func (c *zstdCodec) Decompress(data []byte, originalSize int) ([]byte, error) {
	dec, _ := c.decPool.Get().(*zstd.Decoder)
	defer c.decPool.Put(dec)

	out, err := dec.DecodeAll(data, make([]byte, 0, originalSize))
	if err != nil {
		return nil, fmt.Errorf("codec: zstd decode: %w", err)
	}

	return out, nil
}
