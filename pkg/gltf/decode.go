package gltf

import (
	"github.com/cockroachdb/errors"
	"github.com/samcharles93/gltfkit/internal/jsontree"
	"github.com/samcharles93/gltfkit/internal/logger"
)

// parseDocument parses document text into a fresh Document. Members that are
// missing or have the wrong JSON kind keep their defaults.
func parseDocument(text []byte, log logger.Logger) (*Document, error) {
	root, err := jsontree.Parse(text)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "parse document"), ErrParse)
	}
	return decodeDocument(root, log)
}

func decodeDocument(root jsontree.Value, log logger.Logger) (*Document, error) {
	if !root.IsObject() {
		return nil, errors.Wrapf(ErrInvalidRoot, "root is %s", root.Kind())
	}

	doc := NewDocument()
	doc.Asset = decodeAsset(root.Get("asset"))
	if doc.Asset.Version != defaultVersion {
		log.Warn("unexpected asset version", "version", doc.Asset.Version)
	}
	doc.Scene = indexMember(root, "scene")

	doc.Buffers = decodeEach(root, "buffers", decodeBuffer)
	doc.BufferViews = decodeEach(root, "bufferViews", decodeBufferView)
	doc.Accessors = decodeEach(root, "accessors", decodeAccessor)
	doc.Images = decodeEach(root, "images", decodeImage)
	doc.Samplers = decodeEach(root, "samplers", decodeSampler)
	doc.Textures = decodeEach(root, "textures", decodeTexture)
	doc.Materials = decodeEach(root, "materials", decodeMaterial)
	doc.Meshes = decodeEach(root, "meshes", decodeMesh)
	doc.Skins = decodeEach(root, "skins", decodeSkin)
	doc.Nodes = decodeEach(root, "nodes", decodeNode)
	doc.Scenes = decodeEach(root, "scenes", decodeScene)
	doc.Animations = decodeEach(root, "animations", decodeAnimation)
	return doc, nil
}

// decodeEach maps every element of the array member key. Elements that are
// not objects decode to defaults so positions stay aligned with the source.
func decodeEach[T any](parent jsontree.Value, key string, fn func(jsontree.Value) T) []T {
	arr := parent.Get(key)
	if !arr.IsArray() || arr.Len() == 0 {
		return nil
	}
	out := make([]T, 0, arr.Len())
	for _, el := range arr.Elements() {
		out = append(out, fn(el))
	}
	return out
}

func decodeAsset(v jsontree.Value) Asset {
	return Asset{
		Version:    stringMember(v, "version", defaultVersion),
		Generator:  stringMember(v, "generator", ""),
		Copyright:  stringMember(v, "copyright", ""),
		MinVersion: stringMember(v, "minVersion", ""),
	}
}

func decodeBuffer(v jsontree.Value) Buffer {
	return Buffer{
		URI:        stringMember(v, "uri", ""),
		ByteLength: intMember(v, "byteLength", 0),
		Name:       stringMember(v, "name", ""),
	}
}

func decodeBufferView(v jsontree.Value) BufferView {
	return BufferView{
		Buffer:     intMember(v, "buffer", 0),
		ByteOffset: intMember(v, "byteOffset", 0),
		ByteLength: intMember(v, "byteLength", 0),
		ByteStride: intMember(v, "byteStride", 0),
		Target:     intMember(v, "target", 0),
		Name:       stringMember(v, "name", ""),
	}
}

func decodeAccessor(v jsontree.Value) Accessor {
	return Accessor{
		BufferView:    indexMember(v, "bufferView"),
		ByteOffset:    intMember(v, "byteOffset", 0),
		ComponentType: intMember(v, "componentType", 0),
		Normalized:    boolMember(v, "normalized", false),
		Count:         intMember(v, "count", 0),
		Type:          stringMember(v, "type", ""),
		Min:           floatsMember(v, "min"),
		Max:           floatsMember(v, "max"),
		Name:          stringMember(v, "name", ""),
	}
}

func decodeImage(v jsontree.Value) Image {
	return Image{
		URI:        stringMember(v, "uri", ""),
		MimeType:   stringMember(v, "mimeType", ""),
		BufferView: indexMember(v, "bufferView"),
		Name:       stringMember(v, "name", ""),
	}
}

func decodeSampler(v jsontree.Value) Sampler {
	s := NewSampler()
	s.MagFilter = intMember(v, "magFilter", s.MagFilter)
	s.MinFilter = intMember(v, "minFilter", s.MinFilter)
	s.WrapS = intMember(v, "wrapS", s.WrapS)
	s.WrapT = intMember(v, "wrapT", s.WrapT)
	s.Name = stringMember(v, "name", "")
	return s
}

func decodeTexture(v jsontree.Value) Texture {
	return Texture{
		Sampler: indexMember(v, "sampler"),
		Source:  indexMember(v, "source"),
		Name:    stringMember(v, "name", ""),
	}
}

func decodeTextureInfo(v jsontree.Value) TextureInfo {
	return TextureInfo{
		Index:    indexMember(v, "index"),
		TexCoord: texCoordMember(v),
	}
}

func decodeMaterial(v jsontree.Value) Material {
	m := NewMaterial()
	if pbr := v.Get("pbrMetallicRoughness"); pbr.IsObject() {
		readVector(pbr, "baseColorFactor", m.PBR.BaseColorFactor[:])
		m.PBR.BaseColorTexture = decodeTextureInfo(pbr.Get("baseColorTexture"))
		m.PBR.MetallicFactor = floatMember(pbr, "metallicFactor", m.PBR.MetallicFactor)
		m.PBR.RoughnessFactor = floatMember(pbr, "roughnessFactor", m.PBR.RoughnessFactor)
		m.PBR.MetallicRoughnessTexture = decodeTextureInfo(pbr.Get("metallicRoughnessTexture"))
	}

	normal := v.Get("normalTexture")
	m.NormalTexture.TextureInfo = decodeTextureInfo(normal)
	m.NormalTexture.Scale = floatMember(normal, "scale", m.NormalTexture.Scale)

	occlusion := v.Get("occlusionTexture")
	m.OcclusionTexture.TextureInfo = decodeTextureInfo(occlusion)
	m.OcclusionTexture.Strength = floatMember(occlusion, "strength", m.OcclusionTexture.Strength)

	m.EmissiveTexture = decodeTextureInfo(v.Get("emissiveTexture"))
	readVector(v, "emissiveFactor", m.EmissiveFactor[:])
	m.AlphaMode = stringMember(v, "alphaMode", m.AlphaMode)
	m.AlphaCutoff = floatMember(v, "alphaCutoff", m.AlphaCutoff)
	m.DoubleSided = boolMember(v, "doubleSided", false)
	m.Name = stringMember(v, "name", "")
	return m
}

func decodePrimitive(v jsontree.Value) Primitive {
	p := NewPrimitive()
	for _, attr := range v.Get("attributes").Members() {
		i, ok := attr.Value.Int()
		if !ok || i < 0 {
			continue
		}
		if _, dup := p.Attributes[attr.Key]; !dup {
			p.AttributeOrder = append(p.AttributeOrder, attr.Key)
		}
		p.Attributes[attr.Key] = i
	}
	p.Indices = indexMember(v, "indices")
	p.Material = indexMember(v, "material")
	p.Mode = intMember(v, "mode", p.Mode)
	return p
}

func decodeMesh(v jsontree.Value) Mesh {
	return Mesh{
		Primitives: decodeEach(v, "primitives", decodePrimitive),
		Weights:    floatsMember(v, "weights"),
		Name:       stringMember(v, "name", ""),
	}
}

func decodeSkin(v jsontree.Value) Skin {
	return Skin{
		InverseBindMatrices: indexMember(v, "inverseBindMatrices"),
		Skeleton:            indexMember(v, "skeleton"),
		Joints:              intsMember(v, "joints"),
		Name:                stringMember(v, "name", ""),
	}
}

func decodeNode(v jsontree.Value) Node {
	return Node{
		Children:  intsMember(v, "children"),
		Mesh:      indexMember(v, "mesh"),
		Skin:      indexMember(v, "skin"),
		Transform: decodeTransform(v),
		Name:      stringMember(v, "name", ""),
	}
}

// decodeTransform prefers a well-formed matrix and then ignores the TRS
// members entirely. Without a matrix or any TRS member the result is nil.
func decodeTransform(v jsontree.Value) Transform {
	if m, ok := matrixMember(v); ok {
		return m
	}
	trs := IdentityTRS()
	found := readVector(v, "translation", trs.Translation[:])
	found = readVector(v, "rotation", trs.Rotation[:]) || found
	found = readVector(v, "scale", trs.Scale[:]) || found
	if !found {
		return nil
	}
	return trs
}

func matrixMember(v jsontree.Value) (Matrix, bool) {
	arr := v.Get("matrix")
	if !arr.IsArray() || arr.Len() != 16 {
		return Matrix{}, false
	}
	var m Matrix
	for i, el := range arr.Elements() {
		f, ok := el.Float()
		if !ok {
			return Matrix{}, false
		}
		m[i] = float32(f)
	}
	return m, true
}

func decodeScene(v jsontree.Value) Scene {
	return Scene{
		Nodes: intsMember(v, "nodes"),
		Name:  stringMember(v, "name", ""),
	}
}

func decodeAnimationSampler(v jsontree.Value) AnimationSampler {
	s := NewAnimationSampler()
	s.Input = indexMember(v, "input")
	s.Output = indexMember(v, "output")
	s.Interpolation = stringMember(v, "interpolation", s.Interpolation)
	return s
}

func decodeAnimationChannel(v jsontree.Value) AnimationChannel {
	target := v.Get("target")
	return AnimationChannel{
		Sampler: intMember(v, "sampler", 0),
		Target: AnimationTarget{
			Node: indexMember(target, "node"),
			Path: stringMember(target, "path", ""),
		},
	}
}

func decodeAnimation(v jsontree.Value) Animation {
	return Animation{
		Samplers: decodeEach(v, "samplers", decodeAnimationSampler),
		Channels: decodeEach(v, "channels", decodeAnimationChannel),
		Name:     stringMember(v, "name", ""),
	}
}

func intMember(v jsontree.Value, key string, def int) int {
	if i, ok := v.Get(key).Int(); ok {
		return i
	}
	return def
}

// texCoordMember also accepts true as UV set 1.
func texCoordMember(v jsontree.Value) int {
	m := v.Get("texCoord")
	if b, ok := m.Bool(); ok && b {
		return 1
	}
	if i, ok := m.Int(); ok && i >= 0 {
		return i
	}
	return 0
}

func indexMember(v jsontree.Value, key string) Index {
	if i, ok := v.Get(key).Int(); ok {
		return Ref(i)
	}
	return NoIndex
}

func floatMember(v jsontree.Value, key string, def float32) float32 {
	if f, ok := v.Get(key).Float(); ok {
		return float32(f)
	}
	return def
}

func stringMember(v jsontree.Value, key, def string) string {
	if s, ok := v.Get(key).Str(); ok {
		return s
	}
	return def
}

func boolMember(v jsontree.Value, key string, def bool) bool {
	if b, ok := v.Get(key).Bool(); ok {
		return b
	}
	return def
}

// floatsMember returns the numeric elements of an array member, skipping
// non-numeric ones. It returns nil for a missing or empty array.
func floatsMember(v jsontree.Value, key string) []float32 {
	arr := v.Get(key)
	if arr.Len() == 0 || !arr.IsArray() {
		return nil
	}
	out := make([]float32, 0, arr.Len())
	for _, el := range arr.Elements() {
		if f, ok := el.Float(); ok {
			out = append(out, float32(f))
		}
	}
	return out
}

func intsMember(v jsontree.Value, key string) []int {
	arr := v.Get(key)
	if arr.Len() == 0 || !arr.IsArray() {
		return nil
	}
	out := make([]int, 0, arr.Len())
	for _, el := range arr.Elements() {
		if i, ok := el.Int(); ok {
			out = append(out, i)
		}
	}
	return out
}

// readVector copies numeric elements of an array member into dst by
// position. Missing or non-numeric positions keep their current value. It
// reports whether the member was an array.
func readVector(v jsontree.Value, key string, dst []float32) bool {
	arr := v.Get(key)
	if !arr.IsArray() {
		return false
	}
	for i, el := range arr.Elements() {
		if i >= len(dst) {
			break
		}
		if f, ok := el.Float(); ok {
			dst[i] = float32(f)
		}
	}
	return true
}
