package codec

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances for the fast path.
var lz4CompressorPool = sync.Pool{
	New: func() any { return &lz4.Compressor{} },
}

// lz4Codec wraps pierrec/lz4/v4. level <= 0 uses the fast block
// compressor; level > 0 selects the high-compression variant at that
// level, matching lz4's own Level1..Level9 scale (levels above 9 use
// Level9).
type lz4Codec struct{}

var _ Codec = lz4Codec{}

func (lz4Codec) Compress(data []byte, level int) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	var n int
	var err error
	if level > 0 {
		if level > 9 {
			level = 9
		}
		// lz4.Level1..Level9 are 1<<9..1<<17.
		hc := lz4.CompressorHC{Level: lz4.CompressionLevel(1 << (8 + level))}
		n, err = hc.CompressBlock(data, dst)
	} else {
		lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
		defer lz4CompressorPool.Put(lc)
		n, err = lc.CompressBlock(data, dst)
	}
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress uses the adaptive buffer-doubling strategy: LZ4 block
// decompression has no way to learn the destination size in advance, so
// the buffer grows by doubling (starting from originalSize, or 4x the
// input length if the caller didn't know the plaintext size) until it
// succeeds or a safety ceiling is hit.
func (lz4Codec) Decompress(data []byte, originalSize int) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}

	bufSize := originalSize
	if bufSize <= 0 {
		bufSize = len(data) * 4
	}
	const maxSize = 256 * 1024 * 1024

	for bufSize <= maxSize {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < maxSize {
				bufSize *= 2
				continue
			}
			return nil, err
		}

		return buf[:n], nil
	}

	return nil, lz4.ErrInvalidSourceShortBuffer
}
