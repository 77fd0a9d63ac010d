package gltf

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/samcharles93/gltfkit/internal/logger"
	"github.com/samcharles93/gltfkit/pkg/glb"
)

// Option configures Load and LoadFromMemory.
type Option func(*loadOptions)

type loadOptions struct {
	log        logger.Logger
	baseDir    string
	baseDirSet bool
	noFiles    bool
}

// WithLogger sets the logger for load diagnostics. The default discards.
func WithLogger(l logger.Logger) Option {
	return func(o *loadOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// WithBaseDir sets the directory relative buffer URIs are resolved against.
// Load defaults to the directory of the loaded file, LoadFromMemory to the
// working directory.
func WithBaseDir(dir string) Option {
	return func(o *loadOptions) {
		o.baseDir = dir
		o.baseDirSet = true
	}
}

// WithoutFileAccess rejects buffers that reference files, so only the BIN
// chunk and data URIs are used. Such buffers fail with ErrMissingBufferFile.
func WithoutFileAccess() Option {
	return func(o *loadOptions) {
		o.noFiles = true
	}
}

func newLoadOptions(opts []Option) *loadOptions {
	o := &loadOptions{log: logger.Discard()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Load reads a .gltf or .glb file and resolves all of its buffers. Files
// with the .glb extension are opened as containers directly; other files are
// sniffed by content.
func Load(path string, opts ...Option) (*Document, error) {
	o := newLoadOptions(opts)
	if !o.baseDirSet {
		o.baseDir = filepath.Dir(path)
	}
	log := o.log.With("path", path)

	if glb.HasExtension(path) {
		c, err := glb.Open(path)
		switch {
		case err == nil:
			log.Debug("opened container", "json_bytes", len(c.JSON), "bin_bytes", len(c.BIN))
			return o.loadContainer(c, log)
		case errors.Is(err, glb.ErrBadMagic), errors.Is(err, glb.ErrTruncatedHeader):
			log.Debug("container extension without a container header, sniffing content", "error", err)
		case errors.Is(err, glb.ErrMalformed):
			return nil, errors.Wrapf(err, "open %s", path)
		case errors.Is(err, glb.ErrTooLarge):
			return nil, errors.Mark(errors.Wrapf(err, "open %s", path), ErrMalformedContainer)
		default:
			return nil, ioError(err, "open %s", path)
		}
	}

	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return o.load(data, log)
}

// LoadFromMemory decodes a document from data, choosing the container or
// text form by the leading magic. The returned Document does not alias data.
func LoadFromMemory(data []byte, opts ...Option) (*Document, error) {
	o := newLoadOptions(opts)
	return o.load(data, o.log)
}

func (o *loadOptions) load(data []byte, log logger.Logger) (*Document, error) {
	if glb.IsContainer(data) {
		c, err := glb.Decode(data)
		if err != nil {
			return nil, err
		}
		log.Debug("sniffed container", "json_bytes", len(c.JSON), "bin_bytes", len(c.BIN))
		if c.HasBIN() {
			c.BIN = slices.Clone(c.BIN)
		}
		return o.loadContainer(c, log)
	}
	log.Debug("sniffed document text", "bytes", len(data))
	doc, err := parseDocument(data, log)
	if err != nil {
		return nil, err
	}
	return o.finish(doc, log)
}

func (o *loadOptions) loadContainer(c *glb.Container, log logger.Logger) (*Document, error) {
	doc, err := parseDocument(c.JSON, log)
	if err != nil {
		return nil, err
	}
	doc.attachBIN(c.BIN, log)
	return o.finish(doc, log)
}

func (o *loadOptions) finish(doc *Document, log logger.Logger) (*Document, error) {
	doc.BaseDir = o.baseDir
	if err := doc.resolveBuffers(log, !o.noFiles); err != nil {
		return nil, err
	}
	log.Debug("loaded document",
		"buffers", len(doc.Buffers),
		"meshes", len(doc.Meshes),
		"nodes", len(doc.Nodes),
	)
	return doc, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError(err, "read %s", path)
	}
	return data, nil
}
