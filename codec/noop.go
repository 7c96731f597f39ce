package codec

// noopCodec bypasses compression entirely. It backs the None codec UUID
// and exists mainly so callers can disable compression per-file without a
// special case at the block layer.
type noopCodec struct{}

var _ Codec = noopCodec{}

func (noopCodec) Compress(data []byte, level int) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (noopCodec) Decompress(data []byte, originalSize int) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
