package gltf

import (
	"github.com/cockroachdb/errors"
)

// ComponentSize returns the byte size of an accessor component type, or 0
// for an unknown type.
func ComponentSize(componentType int) int {
	switch componentType {
	case ComponentByte, ComponentUnsignedByte:
		return 1
	case ComponentShort, ComponentUnsignedShort:
		return 2
	case ComponentUnsignedInt, ComponentFloat:
		return 4
	default:
		return 0
	}
}

// ComponentCount returns the number of components of an accessor type, or 0
// for an unknown type.
func ComponentCount(accessorType string) int {
	switch accessorType {
	case TypeScalar:
		return 1
	case TypeVec2:
		return 2
	case TypeVec3:
		return 3
	case TypeVec4, TypeMat2:
		return 4
	case TypeMat3:
		return 9
	case TypeMat4:
		return 16
	default:
		return 0
	}
}

// BufferViewBytes returns the bytes covered by buffer view i. The slice
// aliases the buffer's payload.
func (d *Document) BufferViewBytes(i int) ([]byte, error) {
	if i < 0 || i >= len(d.BufferViews) {
		return nil, errors.Wrapf(ErrOutOfRange, "buffer view %d of %d", i, len(d.BufferViews))
	}
	v := d.BufferViews[i]
	if v.Buffer < 0 || v.Buffer >= len(d.Buffers) {
		return nil, errors.Wrapf(ErrOutOfRange, "buffer view %d: buffer %d of %d", i, v.Buffer, len(d.Buffers))
	}
	data := d.Buffers[v.Buffer].Data
	if v.ByteOffset < 0 || v.ByteLength < 0 || v.ByteOffset > len(data) || v.ByteLength > len(data)-v.ByteOffset {
		return nil, errors.Wrapf(ErrOutOfRange, "buffer view %d: [%d, +%d) outside %d bytes", i, v.ByteOffset, v.ByteLength, len(data))
	}
	return data[v.ByteOffset : v.ByteOffset+v.ByteLength], nil
}

// maxUnbackedAccessorBytes bounds the zero-filled result of an accessor
// without a buffer view.
const maxUnbackedAccessorBytes = 1 << 30

// AccessorBytes returns the elements of accessor i packed without stride.
// An accessor without a buffer view reads as zeros. Sizes are checked
// against the view before anything is allocated.
func (d *Document) AccessorBytes(i int) ([]byte, error) {
	if i < 0 || i >= len(d.Accessors) {
		return nil, errors.Wrapf(ErrOutOfRange, "accessor %d of %d", i, len(d.Accessors))
	}
	a := d.Accessors[i]
	elem := ComponentSize(a.ComponentType) * ComponentCount(a.Type)
	if elem == 0 || a.Count < 0 {
		return nil, errors.Newf("accessor %d: unsupported layout %d/%s", i, a.ComponentType, a.Type)
	}

	vi, ok := a.BufferView.Get()
	if !ok {
		if a.Count > maxUnbackedAccessorBytes/elem {
			return nil, errors.Wrapf(ErrOutOfRange, "accessor %d: %d elements of %d bytes without a buffer view", i, a.Count, elem)
		}
		return make([]byte, elem*a.Count), nil
	}
	view, err := d.BufferViewBytes(vi)
	if err != nil {
		return nil, errors.Wrapf(err, "accessor %d", i)
	}
	stride := d.BufferViews[vi].ByteStride
	if stride == 0 {
		stride = elem
	}
	if stride < 0 {
		return nil, errors.Wrapf(ErrOutOfRange, "accessor %d: byte stride %d", i, stride)
	}
	if a.Count > 0 {
		// room is what the strides after the first element may span.
		room := -1
		if a.ByteOffset >= 0 && a.ByteOffset <= len(view) {
			room = len(view) - a.ByteOffset - elem
		}
		if room < 0 || a.Count-1 > room/stride {
			return nil, errors.Wrapf(ErrOutOfRange, "accessor %d: %d elements at offset %d, stride %d, outside %d bytes",
				i, a.Count, a.ByteOffset, stride, len(view))
		}
	}

	out := make([]byte, elem*a.Count)
	for n := 0; n < a.Count; n++ {
		src := a.ByteOffset + n*stride
		copy(out[n*elem:(n+1)*elem], view[src:src+elem])
	}
	return out, nil
}

// ImageBytes returns the encoded bytes of image i and their media type. The
// pixels are not decoded.
func (d *Document) ImageBytes(i int) ([]byte, string, error) {
	if i < 0 || i >= len(d.Images) {
		return nil, "", errors.Wrapf(ErrOutOfRange, "image %d of %d", i, len(d.Images))
	}
	img := d.Images[i]
	if vi, ok := img.BufferView.Get(); ok {
		data, err := d.BufferViewBytes(vi)
		if err != nil {
			return nil, "", errors.Wrapf(err, "image %d", i)
		}
		return data, img.MimeType, nil
	}
	if img.URI == "" {
		return nil, "", errors.Newf("image %d has neither uri nor bufferView", i)
	}
	if isDataURI(img.URI) {
		data, err := decodeDataURI(img.URI)
		if err != nil {
			return nil, "", errors.Wrapf(err, "image %d", i)
		}
		mime := img.MimeType
		if mime == "" {
			mime = dataURIMediaType(img.URI)
		}
		return data, mime, nil
	}
	path := d.uriPath(img.URI)
	data, err := readFile(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "image %d", i)
	}
	return data, img.MimeType, nil
}
