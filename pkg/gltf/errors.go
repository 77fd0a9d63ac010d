package gltf

import (
	"github.com/cockroachdb/errors"
	"github.com/samcharles93/gltfkit/pkg/glb"
)

// Error kinds. Errors returned by this package are marked with exactly one
// of these; test with errors.Is.
var (
	ErrIO = errors.New("gltf: i/o failure")
	// ErrMalformedContainer is glb.ErrMalformed; every container framing
	// failure carries it.
	ErrMalformedContainer = glb.ErrMalformed
	ErrParse              = errors.New("gltf: document text is not valid JSON")
	ErrInvalidRoot        = errors.New("gltf: document root is not an object")
	ErrMissingBufferFile  = errors.New("gltf: buffer source cannot be read")
	ErrBufferLength       = errors.New("gltf: buffer payload shorter than byteLength")
	ErrMalformedDataURI   = errors.New("gltf: malformed data URI")
	ErrOutOfRange         = errors.New("gltf: reference out of range")
)

func ioError(err error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrIO)
}
