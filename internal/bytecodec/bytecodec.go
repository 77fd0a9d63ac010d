// Package bytecodec converts between raw bytes and the base64 text alphabet
// used by data URIs.
package bytecodec

import (
	"encoding/base64"
	"strings"
)

// Encode returns the standard, padded base64 form of data.
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Decode is lenient: characters outside the alphabet (whitespace, line
// breaks) are skipped, trailing padding is optional, and a dangling single
// character that cannot form a byte is dropped.
func Decode(s string) []byte {
	clean := strings.Map(func(r rune) rune {
		if isAlphabet(r) {
			return r
		}
		return -1
	}, s)
	if len(clean)%4 == 1 {
		clean = clean[:len(clean)-1]
	}
	out := make([]byte, base64.RawStdEncoding.DecodedLen(len(clean)))
	// clean holds only alphabet characters, so Decode cannot fail here.
	n, _ := base64.RawStdEncoding.Decode(out, []byte(clean))
	return out[:n]
}

func isAlphabet(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '+', r == '/':
		return true
	}
	return false
}
