package gltf

import "strconv"

// Index is an optional reference into one of a Document's collections. The
// zero Index refers to nothing; Ref(0) is a valid reference to the first
// element.
type Index struct {
	n   int
	set bool
}

// NoIndex is the unset reference.
var NoIndex Index

// Ref returns a reference to element i. Negative values yield NoIndex.
func Ref(i int) Index {
	if i < 0 {
		return NoIndex
	}
	return Index{n: i, set: true}
}

// Get returns the referenced position and whether the reference is set.
func (x Index) Get() (int, bool) { return x.n, x.set }

// Valid reports whether the reference is set.
func (x Index) Valid() bool { return x.set }

// Int returns the referenced position, or -1 when unset.
func (x Index) Int() int {
	if !x.set {
		return -1
	}
	return x.n
}

// In reports whether the reference is set and addresses a collection of the
// given length.
func (x Index) In(length int) bool {
	return x.set && x.n < length
}

func (x Index) String() string {
	if !x.set {
		return "none"
	}
	return strconv.Itoa(x.n)
}
