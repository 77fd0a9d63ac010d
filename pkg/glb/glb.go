// Package glb implements the glTF binary container: a 12-byte header
// followed by length-prefixed, typed chunks. The first chunk carries the
// JSON document; an optional BIN chunk carries the payload of buffer 0.
package glb

// Container constants are fixed by glTF 2.0 and must never change.
const (
	// Magic is ASCII "glTF" read as a little-endian uint32.
	Magic uint32 = 0x46546C67

	// Version is the only container version this package reads or writes.
	Version uint32 = 2

	// ChunkJSON is ASCII "JSON" read as a little-endian uint32.
	ChunkJSON uint32 = 0x4E4F534A

	// ChunkBIN is ASCII "BIN\x00" read as a little-endian uint32.
	ChunkBIN uint32 = 0x004E4942

	HeaderSize      = 12
	ChunkHeaderSize = 8

	// Extension is the canonical file extension of the container form.
	Extension = ".glb"

	chunkAlign = 4
)
