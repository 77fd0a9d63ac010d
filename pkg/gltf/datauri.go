package gltf

import (
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samcharles93/gltfkit/internal/bytecodec"
)

const (
	dataScheme       = "data:"
	octetStreamMedia = "application/octet-stream"
)

// isDataURI reports whether uri uses the data scheme.
func isDataURI(uri string) bool {
	return len(uri) >= len(dataScheme) && strings.EqualFold(uri[:len(dataScheme)], dataScheme)
}

// decodeDataURI returns the payload of a data URI. A ";base64" header
// selects the lenient base64 decoder; otherwise the payload is
// percent-decoded and taken literally.
func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(uri[len(dataScheme):], ",")
	if !ok {
		return nil, errors.Wrap(ErrMalformedDataURI, "missing ','")
	}
	if strings.HasSuffix(strings.ToLower(header), ";base64") {
		return bytecodec.Decode(payload), nil
	}
	raw, err := url.PathUnescape(payload)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "unescape data URI"), ErrMalformedDataURI)
	}
	return []byte(raw), nil
}

// dataURIMediaType returns the media type declared by a data URI, or "".
func dataURIMediaType(uri string) string {
	header, _, _ := strings.Cut(uri[len(dataScheme):], ",")
	media, _, _ := strings.Cut(header, ";")
	return media
}

func encodeDataURI(mediaType string, data []byte) string {
	var sb strings.Builder
	sb.Grow(len(dataScheme) + len(mediaType) + len(";base64,") + (len(data)+2)/3*4)
	sb.WriteString(dataScheme)
	sb.WriteString(mediaType)
	sb.WriteString(";base64,")
	sb.WriteString(bytecodec.Encode(data))
	return sb.String()
}
