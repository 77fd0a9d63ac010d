//go:build !unix

package glb

import "os"

// Open reads and decodes a container file.
func Open(path string) (*Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
