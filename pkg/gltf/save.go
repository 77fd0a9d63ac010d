package gltf

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samcharles93/gltfkit/internal/jsontree"
	"github.com/samcharles93/gltfkit/pkg/glb"
)

// Save writes the container form when path has the .glb extension and the
// text form with side-car buffer files otherwise.
func (d *Document) Save(path string) error {
	if glb.HasExtension(path) {
		return d.SaveAsContainer(path)
	}
	return d.SaveAsText(path, false)
}

// SaveAsText writes the text form to path. With embedBuffers every buffer is
// inlined as a base64 data URI; otherwise buffer i is written next to path
// as <basename>_buffer<i>.bin and referenced by that relative name.
func (d *Document) SaveAsText(path string, embedBuffers bool) error {
	if embedBuffers {
		return writeFileAtomic(path, func(w io.Writer) error {
			_, err := w.Write(d.encodeDocument(d.textBuffers(d.embeddedURIs()), d.BufferViews))
			return err
		})
	}

	dir := filepath.Dir(path)
	names := sideCarNames(path, len(d.Buffers))
	uris := make([]string, len(names))
	for i, name := range names {
		data := d.Buffers[i].Data
		if err := writeFileAtomic(filepath.Join(dir, name), func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}); err != nil {
			return errors.Wrapf(err, "buffer %d", i)
		}
		uris[i] = url.PathEscape(name)
	}
	return writeFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(d.encodeDocument(d.textBuffers(uris), d.BufferViews))
		return err
	})
}

// SaveAsContainer writes the container form to path. All buffers are
// concatenated into the BIN chunk and declared as a single buffer.
func (d *Document) SaveAsContainer(path string) error {
	json, bin := d.containerChunks()
	return writeFileAtomic(path, func(w io.Writer) error {
		return glb.Write(w, json, bin)
	})
}

// MarshalText returns the text form. With embedBuffers buffers become data
// URIs; otherwise each buffer keeps its current URI.
func (d *Document) MarshalText(embedBuffers bool) ([]byte, error) {
	uris := make([]string, len(d.Buffers))
	if embedBuffers {
		uris = d.embeddedURIs()
	} else {
		for i := range d.Buffers {
			uris[i] = d.Buffers[i].URI
		}
	}
	return d.encodeDocument(d.textBuffers(uris), d.BufferViews), nil
}

// MarshalContainer returns the container form.
func (d *Document) MarshalContainer() ([]byte, error) {
	json, bin := d.containerChunks()
	return glb.Encode(json, bin)
}

func (d *Document) containerChunks() (json, bin []byte) {
	blob, offsets := d.containerLayout()
	var buffers jsontree.Array
	if len(d.Buffers) > 0 {
		buffers = jsontree.Array{jsontree.Object{
			jsontree.Required("byteLength", jsontree.Int(len(blob))),
		}}
	}
	return d.encodeDocument(buffers, d.containerViews(offsets)), blob
}

func (d *Document) embeddedURIs() []string {
	uris := make([]string, len(d.Buffers))
	for i := range d.Buffers {
		uris[i] = encodeDataURI(octetStreamMedia, d.Buffers[i].Data)
	}
	return uris
}

func sideCarNames(path string, n int) []string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("%s_buffer%d.bin", base, i)
	}
	return names
}

// writeFileAtomic streams into a temporary file next to path and renames it
// into place once fully written.
func writeFileAtomic(path string, write func(io.Writer) error) (err error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return ioError(err, "create %s", path)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	bw := bufio.NewWriter(f)
	if err = write(bw); err != nil {
		return ioError(err, "write %s", path)
	}
	if err = bw.Flush(); err != nil {
		return ioError(err, "write %s", path)
	}
	if err = f.Chmod(0o644); err != nil {
		return ioError(err, "chmod %s", path)
	}
	if err = f.Close(); err != nil {
		return ioError(err, "close %s", path)
	}
	if err = os.Rename(tmp, path); err != nil {
		return ioError(err, "rename %s", path)
	}
	return nil
}
