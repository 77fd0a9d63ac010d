package glb

import "github.com/cockroachdb/errors"

// ErrMalformed marks every error produced while decoding a container.
var ErrMalformed = errors.New("glb: malformed container")

// Each kind names the check that failed. They are distinct from each other;
// errors returned by Decode and Open carry one kind plus the ErrMalformed
// mark.
var (
	ErrTruncatedHeader    = errors.New("glb: truncated header")
	ErrBadMagic           = errors.New("glb: bad magic")
	ErrUnsupportedVersion = errors.New("glb: unsupported version")
	ErrLengthExceedsData  = errors.New("glb: declared length exceeds data size")
	ErrTruncatedChunk     = errors.New("glb: truncated chunk")
	ErrFirstChunkNotJSON  = errors.New("glb: first chunk is not JSON")
)

// ErrTooLarge is returned when a container would not fit the 32-bit length
// fields of the format.
var ErrTooLarge = errors.New("glb: container exceeds 4 GiB")

func malformed(kind error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(kind, format, args...), ErrMalformed)
}
