package glb

// Container is a decoded container. JSON and BIN alias the input passed to
// Decode; Open returns a container that owns its payloads.
type Container struct {
	Header Header
	JSON   []byte
	// BIN is nil when the container carries no BIN chunk.
	BIN []byte
}

// HasBIN reports whether the container carried a BIN chunk.
func (c *Container) HasBIN() bool {
	return c != nil && c.BIN != nil
}

// Decode validates the header and chunk framing of data and returns the JSON
// chunk and, if present, the first BIN chunk. Bytes past the declared total
// length are ignored. Unknown chunk types after the JSON chunk are skipped.
func Decode(data []byte) (*Container, error) {
	hdr, ok := decodeHeader(data)
	if !ok {
		return nil, malformed(ErrTruncatedHeader, "have %d bytes, need %d", len(data), HeaderSize)
	}
	if hdr.Magic != Magic {
		return nil, malformed(ErrBadMagic, "got 0x%08x", hdr.Magic)
	}
	if hdr.Version != Version {
		return nil, malformed(ErrUnsupportedVersion, "version %d", hdr.Version)
	}
	if uint64(hdr.Length) > uint64(len(data)) {
		return nil, malformed(ErrLengthExceedsData, "declared %d, have %d", hdr.Length, len(data))
	}
	if hdr.Length < HeaderSize {
		return nil, malformed(ErrTruncatedHeader, "declared length %d", hdr.Length)
	}
	data = data[:hdr.Length]

	c := &Container{Header: hdr}
	off := HeaderSize
	for i := 0; off < len(data); i++ {
		ch, ok := decodeChunkHeader(data[off:])
		if !ok {
			return nil, malformed(ErrTruncatedChunk, "chunk %d header at offset %d", i, off)
		}
		off += ChunkHeaderSize
		if uint64(ch.Length) > uint64(len(data)-off) {
			return nil, malformed(ErrTruncatedChunk, "chunk %d declares %d bytes, %d remain", i, ch.Length, len(data)-off)
		}
		payload := data[off : off+int(ch.Length) : off+int(ch.Length)]
		off += int(ch.Length)

		if i == 0 {
			if ch.Type != ChunkJSON {
				return nil, malformed(ErrFirstChunkNotJSON, "type 0x%08x", ch.Type)
			}
			c.JSON = payload
			continue
		}
		if ch.Type == ChunkBIN && c.BIN == nil {
			c.BIN = payload
		}
	}
	if c.JSON == nil {
		return nil, malformed(ErrTruncatedChunk, "missing JSON chunk")
	}
	return c, nil
}

func (c *Container) own() *Container {
	out := &Container{Header: c.Header, JSON: clone(c.JSON)}
	if c.BIN != nil {
		out.BIN = clone(c.BIN)
	}
	return out
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
