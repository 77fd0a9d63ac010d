package gltf

import (
	"slices"

	"github.com/samcharles93/gltfkit/internal/jsontree"
)

type field = jsontree.Field

// encodeDocument renders the document as JSON text. buffers is the rendered
// buffers array and views the buffer views to write, which differ between
// the text and container forms.
func (d *Document) encodeDocument(buffers jsontree.Array, views []BufferView) []byte {
	root := jsontree.Object{
		jsontree.Required("asset", encodeAsset(d.Asset)),
		optIndex("scene", d.Scene),
		optArray("scenes", d.Scenes, encodeScene),
		optArray("nodes", d.Nodes, encodeNode),
		optArray("meshes", d.Meshes, encodeMesh),
		optArray("materials", d.Materials, encodeMaterial),
		optArray("textures", d.Textures, encodeTexture),
		optArray("images", d.Images, encodeImage),
		optArray("samplers", d.Samplers, encodeSampler),
		optArray("accessors", d.Accessors, encodeAccessor),
		optArray("bufferViews", views, encodeBufferView),
		jsontree.Optional(len(buffers) > 0, "buffers", buffers),
		optArray("skins", d.Skins, encodeSkin),
		optArray("animations", d.Animations, encodeAnimation),
	}
	return jsontree.Marshal(root)
}

// textBuffers renders one buffer entry per buffer with uris[i] as its URI.
func (d *Document) textBuffers(uris []string) jsontree.Array {
	out := make(jsontree.Array, len(d.Buffers))
	for i := range d.Buffers {
		b := &d.Buffers[i]
		out[i] = jsontree.Object{
			optString("uri", uris[i], ""),
			jsontree.Required("byteLength", jsontree.Int(b.length())),
			optString("name", b.Name, ""),
		}
	}
	return out
}

// containerLayout concatenates every buffer into one blob, each starting on
// a 4-byte boundary, and returns the blob with each buffer's offset in it.
func (d *Document) containerLayout() ([]byte, []int) {
	offsets := make([]int, len(d.Buffers))
	size := 0
	for i := range d.Buffers {
		size += pad4(size)
		offsets[i] = size
		size += d.Buffers[i].length()
	}
	blob := make([]byte, size)
	for i := range d.Buffers {
		copy(blob[offsets[i]:offsets[i]+d.Buffers[i].length()], d.Buffers[i].Data)
	}
	return blob, offsets
}

// containerViews rebases buffer views onto the single container buffer.
func (d *Document) containerViews(offsets []int) []BufferView {
	views := slices.Clone(d.BufferViews)
	for i := range views {
		b := views[i].Buffer
		if b < 0 || b >= len(offsets) {
			continue
		}
		views[i].Buffer = 0
		views[i].ByteOffset += offsets[b]
	}
	return views
}

func pad4(n int) int {
	return (4 - n%4) % 4
}

func encodeAsset(a Asset) jsontree.Object {
	version := a.Version
	if version == "" {
		version = defaultVersion
	}
	return jsontree.Object{
		jsontree.Required("version", jsontree.String(version)),
		optString("generator", a.Generator, ""),
		optString("copyright", a.Copyright, ""),
		optString("minVersion", a.MinVersion, ""),
	}
}

func encodeBufferView(v BufferView) jsontree.Node {
	return jsontree.Object{
		jsontree.Required("buffer", jsontree.Int(v.Buffer)),
		optInt("byteOffset", v.ByteOffset, 0),
		jsontree.Required("byteLength", jsontree.Int(v.ByteLength)),
		optInt("byteStride", v.ByteStride, 0),
		optInt("target", v.Target, 0),
		optString("name", v.Name, ""),
	}
}

func encodeAccessor(a Accessor) jsontree.Node {
	return jsontree.Object{
		optIndex("bufferView", a.BufferView),
		optInt("byteOffset", a.ByteOffset, 0),
		jsontree.Required("componentType", jsontree.Int(a.ComponentType)),
		jsontree.Optional(a.Normalized, "normalized", jsontree.Bool(true)),
		jsontree.Required("count", jsontree.Int(a.Count)),
		jsontree.Required("type", jsontree.String(a.Type)),
		optFloats("min", a.Min),
		optFloats("max", a.Max),
		optString("name", a.Name, ""),
	}
}

func encodeImage(img Image) jsontree.Node {
	return jsontree.Object{
		optString("uri", img.URI, ""),
		optString("mimeType", img.MimeType, ""),
		optIndex("bufferView", img.BufferView),
		optString("name", img.Name, ""),
	}
}

func encodeSampler(s Sampler) jsontree.Node {
	return jsontree.Object{
		optInt("magFilter", s.MagFilter, 0),
		optInt("minFilter", s.MinFilter, 0),
		optInt("wrapS", s.WrapS, WrapRepeat),
		optInt("wrapT", s.WrapT, WrapRepeat),
		optString("name", s.Name, ""),
	}
}

func encodeTexture(t Texture) jsontree.Node {
	return jsontree.Object{
		optIndex("sampler", t.Sampler),
		optIndex("source", t.Source),
		optString("name", t.Name, ""),
	}
}

func textureInfoFields(t TextureInfo) jsontree.Object {
	i, _ := t.Index.Get()
	return jsontree.Object{
		jsontree.Required("index", jsontree.Int(i)),
		optInt("texCoord", t.TexCoord, 0),
	}
}

func optTextureInfo(key string, t TextureInfo, extra ...field) field {
	obj := append(textureInfoFields(t), extra...)
	return jsontree.Optional(t.Index.Valid(), key, obj)
}

func encodeMaterial(m Material) jsontree.Node {
	pbr := jsontree.Object{
		jsontree.Optional(m.PBR.BaseColorFactor != [4]float32{1, 1, 1, 1},
			"baseColorFactor", jsontree.Floats(m.PBR.BaseColorFactor[:])),
		optTextureInfo("baseColorTexture", m.PBR.BaseColorTexture),
		optFloat("metallicFactor", m.PBR.MetallicFactor, 1),
		optFloat("roughnessFactor", m.PBR.RoughnessFactor, 1),
		optTextureInfo("metallicRoughnessTexture", m.PBR.MetallicRoughnessTexture),
	}
	return jsontree.Object{
		optString("name", m.Name, ""),
		jsontree.Optional(anyPresent(pbr), "pbrMetallicRoughness", pbr),
		optTextureInfo("normalTexture", m.NormalTexture.TextureInfo,
			optFloat("scale", m.NormalTexture.Scale, 1)),
		optTextureInfo("occlusionTexture", m.OcclusionTexture.TextureInfo,
			optFloat("strength", m.OcclusionTexture.Strength, 1)),
		optTextureInfo("emissiveTexture", m.EmissiveTexture),
		jsontree.Optional(m.EmissiveFactor != [3]float32{},
			"emissiveFactor", jsontree.Floats(m.EmissiveFactor[:])),
		optString("alphaMode", m.AlphaMode, AlphaOpaque),
		jsontree.Optional(m.AlphaMode == AlphaMask && m.AlphaCutoff != defaultAlphaCutoff,
			"alphaCutoff", jsontree.Float(m.AlphaCutoff)),
		jsontree.Optional(m.DoubleSided, "doubleSided", jsontree.Bool(true)),
	}
}

func encodePrimitive(p Primitive) jsontree.Node {
	keys := make([]string, 0, len(p.Attributes))
	for k := range p.Attributes {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	attrs := make(jsontree.Object, len(keys))
	for i, k := range keys {
		attrs[i] = jsontree.Required(k, jsontree.Int(p.Attributes[k]))
	}
	return jsontree.Object{
		jsontree.Required("attributes", attrs),
		optIndex("indices", p.Indices),
		optIndex("material", p.Material),
		optInt("mode", p.Mode, ModeTriangles),
	}
}

func encodeMesh(m Mesh) jsontree.Node {
	prims := make(jsontree.Array, len(m.Primitives))
	for i, p := range m.Primitives {
		prims[i] = encodePrimitive(p)
	}
	return jsontree.Object{
		jsontree.Required("primitives", prims),
		optFloats("weights", m.Weights),
		optString("name", m.Name, ""),
	}
}

func encodeSkin(s Skin) jsontree.Node {
	return jsontree.Object{
		optIndex("inverseBindMatrices", s.InverseBindMatrices),
		optIndex("skeleton", s.Skeleton),
		jsontree.Required("joints", jsontree.Ints(s.Joints)),
		optString("name", s.Name, ""),
	}
}

func encodeNode(n Node) jsontree.Node {
	obj := jsontree.Object{
		optInts("children", n.Children),
		optIndex("mesh", n.Mesh),
		optIndex("skin", n.Skin),
	}
	identity := IdentityTRS()
	switch t := n.Transform.(type) {
	case Matrix:
		obj = append(obj, jsontree.Optional(!t.isIdentity(), "matrix", jsontree.Floats(t[:])))
	case TRS:
		obj = append(obj,
			jsontree.Optional(t.Translation != identity.Translation, "translation", jsontree.Floats(t.Translation[:])),
			jsontree.Optional(t.Rotation != identity.Rotation, "rotation", jsontree.Floats(t.Rotation[:])),
			jsontree.Optional(t.Scale != identity.Scale, "scale", jsontree.Floats(t.Scale[:])),
		)
	}
	return append(obj, optString("name", n.Name, ""))
}

func encodeScene(s Scene) jsontree.Node {
	return jsontree.Object{
		optInts("nodes", s.Nodes),
		optString("name", s.Name, ""),
	}
}

func encodeAnimation(a Animation) jsontree.Node {
	channels := make(jsontree.Array, len(a.Channels))
	for i, c := range a.Channels {
		channels[i] = jsontree.Object{
			jsontree.Required("sampler", jsontree.Int(c.Sampler)),
			jsontree.Required("target", jsontree.Object{
				optIndex("node", c.Target.Node),
				jsontree.Required("path", jsontree.String(c.Target.Path)),
			}),
		}
	}
	samplers := make(jsontree.Array, len(a.Samplers))
	for i, s := range a.Samplers {
		samplers[i] = jsontree.Object{
			optIndex("input", s.Input),
			optIndex("output", s.Output),
			optString("interpolation", s.Interpolation, InterpolationLinear),
		}
	}
	return jsontree.Object{
		jsontree.Required("channels", channels),
		jsontree.Required("samplers", samplers),
		optString("name", a.Name, ""),
	}
}

func optArray[T any](key string, items []T, fn func(T) jsontree.Node) field {
	if len(items) == 0 {
		return jsontree.Optional(false, key, nil)
	}
	arr := make(jsontree.Array, len(items))
	for i, it := range items {
		arr[i] = fn(it)
	}
	return jsontree.Required(key, arr)
}

func optIndex(key string, x Index) field {
	i, ok := x.Get()
	return jsontree.Optional(ok, key, jsontree.Int(i))
}

func optInt(key string, v, def int) field {
	return jsontree.Optional(v != def, key, jsontree.Int(v))
}

func optFloat(key string, v, def float32) field {
	return jsontree.Optional(v != def, key, jsontree.Float(v))
}

func optString(key, v, def string) field {
	return jsontree.Optional(v != def, key, jsontree.String(v))
}

func optFloats(key string, vs []float32) field {
	return jsontree.Optional(len(vs) > 0, key, jsontree.Floats(vs))
}

func optInts(key string, vs []int) field {
	return jsontree.Optional(len(vs) > 0, key, jsontree.Ints(vs))
}

func anyPresent(obj jsontree.Object) bool {
	for _, f := range obj {
		if f.Present {
			return true
		}
	}
	return false
}
