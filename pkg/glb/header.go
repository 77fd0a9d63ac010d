package glb

import (
	"encoding/binary"
	"path/filepath"
	"strings"
)

// Header is the fixed 12-byte container header.
type Header struct {
	Magic   uint32
	Version uint32
	Length  uint32
}

// ChunkHeader precedes every chunk payload. Length excludes the header.
type ChunkHeader struct {
	Length uint32
	Type   uint32
}

func decodeHeader(b []byte) (Header, bool) {
	if len(b) < HeaderSize {
		return Header{}, false
	}
	return Header{
		Magic:   binary.LittleEndian.Uint32(b[0:4]),
		Version: binary.LittleEndian.Uint32(b[4:8]),
		Length:  binary.LittleEndian.Uint32(b[8:12]),
	}, true
}

func encodeHeader(b []byte, h Header) bool {
	if len(b) < HeaderSize {
		return false
	}
	binary.LittleEndian.PutUint32(b[0:4], h.Magic)
	binary.LittleEndian.PutUint32(b[4:8], h.Version)
	binary.LittleEndian.PutUint32(b[8:12], h.Length)
	return true
}

func decodeChunkHeader(b []byte) (ChunkHeader, bool) {
	if len(b) < ChunkHeaderSize {
		return ChunkHeader{}, false
	}
	return ChunkHeader{
		Length: binary.LittleEndian.Uint32(b[0:4]),
		Type:   binary.LittleEndian.Uint32(b[4:8]),
	}, true
}

func encodeChunkHeader(b []byte, h ChunkHeader) bool {
	if len(b) < ChunkHeaderSize {
		return false
	}
	binary.LittleEndian.PutUint32(b[0:4], h.Length)
	binary.LittleEndian.PutUint32(b[4:8], h.Type)
	return true
}

// IsContainer reports whether data starts with the container magic.
func IsContainer(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == Magic
}

// HasExtension reports whether path carries the container extension.
func HasExtension(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Extension)
}

func padding(n int) int {
	return (chunkAlign - n%chunkAlign) % chunkAlign
}
