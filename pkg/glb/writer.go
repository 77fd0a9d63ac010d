package glb

import (
	"bytes"
	"io"
	"math"

	"github.com/cockroachdb/errors"
)

var (
	jsonPad = [chunkAlign]byte{' ', ' ', ' ', ' '}
	binPad  [chunkAlign]byte
)

// Size returns the total container length for the given chunk payloads,
// including headers and padding.
func Size(jsonLen, binLen int) uint64 {
	n := uint64(HeaderSize) + ChunkHeaderSize + uint64(jsonLen+padding(jsonLen))
	if binLen > 0 {
		n += ChunkHeaderSize + uint64(binLen+padding(binLen))
	}
	return n
}

// Write frames json and bin into a container on w. The JSON chunk is padded
// with spaces and the BIN chunk with zeros to a 4-byte boundary. The BIN
// chunk is omitted when bin is empty.
func Write(w io.Writer, json, bin []byte) error {
	total := Size(len(json), len(bin))
	if total > math.MaxUint32 {
		return errors.Wrapf(ErrTooLarge, "%d bytes", total)
	}

	var hdr [HeaderSize + ChunkHeaderSize]byte
	encodeHeader(hdr[:HeaderSize], Header{Magic: Magic, Version: Version, Length: uint32(total)})
	jp := padding(len(json))
	encodeChunkHeader(hdr[HeaderSize:], ChunkHeader{Length: uint32(len(json) + jp), Type: ChunkJSON})
	if err := writeFull(w, hdr[:]); err != nil {
		return err
	}
	if err := writeFull(w, json); err != nil {
		return err
	}
	if err := writeFull(w, jsonPad[:jp]); err != nil {
		return err
	}

	if len(bin) == 0 {
		return nil
	}
	var chdr [ChunkHeaderSize]byte
	bp := padding(len(bin))
	encodeChunkHeader(chdr[:], ChunkHeader{Length: uint32(len(bin) + bp), Type: ChunkBIN})
	if err := writeFull(w, chdr[:]); err != nil {
		return err
	}
	if err := writeFull(w, bin); err != nil {
		return err
	}
	return writeFull(w, binPad[:bp])
}

// Encode returns the container bytes for json and bin.
func Encode(json, bin []byte) ([]byte, error) {
	total := Size(len(json), len(bin))
	if total > math.MaxUint32 {
		return nil, errors.Wrapf(ErrTooLarge, "%d bytes", total)
	}
	var buf bytes.Buffer
	buf.Grow(int(total))
	if err := Write(&buf, json, bin); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeFull(w io.Writer, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	_, err := w.Write(p)
	return err
}
