package codec

import (
	"fmt"
)

// PluginABIVersion is the ABI contract version this registry accepts.
// Plugins declaring a newer version are rejected so that a future ABI
// change cannot silently misinterpret an older plugin's buffers.
const PluginABIVersion uint32 = 1

// Plugin is the Go-native realization of the frozen codec ABI: a pluggable
// codec identifies itself by UUID and exposes compress/decompress/bound
// as plain function values rather than a C calling convention. The
// contract a real C-ABI plugin would have to honor still applies here —
// each call receives a caller-owned input buffer and must return a
// freshly allocated output buffer; no buffer is ever shared or retained
// across calls.
type Plugin struct {
	UUID          [16]byte
	ABIVersion    uint32
	Compress      func(data []byte, level int) ([]byte, error)
	Decompress    func(data []byte, originalSize int) ([]byte, error)
	CompressBound func(inputLen int) int
}

func (p Plugin) id() ID { return ID{UUID: p.UUID} }

type pluginCodec struct{ p Plugin }

func (c pluginCodec) Compress(data []byte, level int) ([]byte, error) {
	return c.p.Compress(data, level)
}

func (c pluginCodec) Decompress(data []byte, originalSize int) ([]byte, error) {
	return c.p.Decompress(data, originalSize)
}

// Registry resolves a codec UUID to a working Codec implementation. The
// built-in set (None, Zstd, LZ4, Brotli, LZMA) is always present; plugins
// registered with Register extend it for the lifetime of the Registry
// value only — nothing about a plugin is ever persisted.
type Registry struct {
	byUUID map[[16]byte]Codec
}

// NewRegistry returns a Registry pre-populated with every built-in codec.
func NewRegistry() *Registry {
	r := &Registry{byUUID: make(map[[16]byte]Codec, 8)}
	r.byUUID[None.UUID] = noopCodec{}
	r.byUUID[Zstd.UUID] = newZstdCodec()
	r.byUUID[LZ4.UUID] = lz4Codec{}
	r.byUUID[Brotli.UUID] = brotliCodec{}
	r.byUUID[LZMA.UUID] = lzmaCodec{}
	return r
}

// Register adds a plugin codec to the registry, keyed by its UUID. An
// ABIVersion newer than PluginABIVersion is rejected outright: the
// registry must never hand a buffer to a plugin built against a contract
// it doesn't understand.
func (r *Registry) Register(p Plugin) error {
	if p.ABIVersion > PluginABIVersion {
		return fmt.Errorf("codec: plugin %s declares abi version %d, registry supports up to %d",
			ID{UUID: p.UUID}, p.ABIVersion, PluginABIVersion)
	}

	if p.Compress == nil || p.Decompress == nil {
		return fmt.Errorf("codec: plugin %s is missing a required compress or decompress function", ID{UUID: p.UUID})
	}

	r.byUUID[p.UUID] = pluginCodec{p: p}

	return nil
}

// Lookup returns the Codec registered for uuid, or false if no codec with
// that identity is available in this process.
func (r *Registry) Lookup(uuid [16]byte) (Codec, bool) {
	c, ok := r.byUUID[uuid]
	return c, ok
}

// Available reports whether uuid has a registered implementation, without
// retrieving it. Readers use this to fail fast on a superblock's required
// codec list before touching any block payload.
func (r *Registry) Available(uuid [16]byte) bool {
	_, ok := r.byUUID[uuid]
	return ok
}
