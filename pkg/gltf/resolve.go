package gltf

import (
	"net/url"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/samcharles93/gltfkit/internal/logger"
)

// attachBIN makes a container's BIN chunk the payload of buffer 0. A BIN
// chunk without any declared buffer gets a buffer of its own.
func (d *Document) attachBIN(bin []byte, log logger.Logger) {
	if bin == nil {
		return
	}
	if len(d.Buffers) == 0 {
		log.Debug("synthesizing buffer for BIN chunk", "bytes", len(bin))
		d.Buffers = []Buffer{{ByteLength: len(bin)}}
	}
	b := &d.Buffers[0]
	if b.URI != "" {
		log.Debug("buffer 0 has a uri, BIN chunk unused", "uri", b.URI)
		return
	}
	if b.ByteLength == 0 {
		b.ByteLength = len(bin)
	}
	// The chunk is padded to 4 bytes; anything past byteLength is padding.
	if len(bin) > b.ByteLength {
		if len(bin)-b.ByteLength >= 4 {
			log.Warn("BIN chunk longer than buffer 0", "byte_length", b.ByteLength, "chunk_bytes", len(bin))
		}
		bin = bin[:b.ByteLength:b.ByteLength]
	}
	b.Data = bin
	b.Loaded = true
}

// resolveBuffers materializes every buffer not yet loaded, in order. The
// first failure aborts. Without files, URIs naming files are not read.
func (d *Document) resolveBuffers(log logger.Logger, files bool) error {
	for i := range d.Buffers {
		b := &d.Buffers[i]
		if !b.Loaded {
			data, err := d.readBuffer(b, files)
			if err != nil {
				return errors.Wrapf(err, "buffer %d", i)
			}
			b.Data = data
			b.Loaded = true
			log.Debug("resolved buffer", "index", i, "bytes", len(data), "data_uri", isDataURI(b.URI))
		}
		switch {
		case len(b.Data) < b.ByteLength:
			return errors.Wrapf(ErrBufferLength, "buffer %d: have %d bytes, byteLength %d", i, len(b.Data), b.ByteLength)
		case len(b.Data) > b.ByteLength:
			log.Warn("buffer longer than byteLength", "index", i, "bytes", len(b.Data), "byte_length", b.ByteLength)
		}
	}
	return nil
}

func (d *Document) readBuffer(b *Buffer, files bool) ([]byte, error) {
	if b.URI == "" {
		if b.ByteLength == 0 {
			return []byte{}, nil
		}
		return nil, errors.Wrap(ErrMissingBufferFile, "no uri and no BIN chunk")
	}
	if isDataURI(b.URI) {
		return decodeDataURI(b.URI)
	}
	if !files {
		return nil, errors.Wrapf(ErrMissingBufferFile, "file access disabled for %q", b.URI)
	}
	return d.readRelative(b.URI)
}

// readRelative reads a percent-encoded relative URI against BaseDir.
func (d *Document) readRelative(uri string) ([]byte, error) {
	path := d.uriPath(uri)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "read %s", path), ErrMissingBufferFile)
	}
	return data, nil
}

func (d *Document) uriPath(uri string) string {
	name, err := url.PathUnescape(uri)
	if err != nil {
		name = uri
	}
	name = filepath.FromSlash(name)
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.BaseDir, name)
}
