package bytecodec

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := [][]byte{
		nil,
		{0},
		{0, 1},
		{0, 1, 2},
		{0xff, 0xfe, 0xfd, 0xfc},
		[]byte("hello, glTF"),
	}
	for _, in := range inputs {
		enc := Encode(in)
		if len(enc)%4 != 0 {
			t.Fatalf("Encode(%v) = %q: not padded to a multiple of 4", in, enc)
		}
		got := Decode(enc)
		if !bytes.Equal(got, in) {
			t.Fatalf("Decode(Encode(%v)) = %v", in, got)
		}
	}
}

func TestDecodeLenient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected []byte
	}{
		{"AAEC", []byte{0, 1, 2}},
		{"AAE=", []byte{0, 1}},
		{"AAE", []byte{0, 1}},
		{"AA==", []byte{0}},
		{"AA\nEC", []byte{0, 1, 2}},
		{" A A E C ", []byte{0, 1, 2}},
		{"AAECA", []byte{0, 1, 2}},
		{"", []byte{}},
	}
	for _, tc := range tests {
		got := Decode(tc.input)
		if !bytes.Equal(got, tc.expected) {
			t.Errorf("Decode(%q): expected %v, got %v", tc.input, tc.expected, got)
		}
	}
}
