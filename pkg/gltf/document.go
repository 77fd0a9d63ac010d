// Package gltf reads and writes glTF 2.0 assets in both the JSON text form
// (.gltf with side-car or embedded buffers) and the binary container form
// (.glb).
//
// Load and LoadFromMemory build a Document; Save, SaveAsText and
// SaveAsContainer write one back. Cross references between entities are
// positions in the owning Document's slices, held as Index values when they
// are optional.
package gltf

// Component types of accessors.
const (
	ComponentByte          = 5120
	ComponentUnsignedByte  = 5121
	ComponentShort         = 5122
	ComponentUnsignedShort = 5123
	ComponentUnsignedInt   = 5125
	ComponentFloat         = 5126
)

// Accessor element types.
const (
	TypeScalar = "SCALAR"
	TypeVec2   = "VEC2"
	TypeVec3   = "VEC3"
	TypeVec4   = "VEC4"
	TypeMat2   = "MAT2"
	TypeMat3   = "MAT3"
	TypeMat4   = "MAT4"
)

// Buffer view targets.
const (
	TargetArrayBuffer        = 34962
	TargetElementArrayBuffer = 34963
)

// Primitive topologies.
const (
	ModePoints        = 0
	ModeLines         = 1
	ModeLineLoop      = 2
	ModeLineStrip     = 3
	ModeTriangles     = 4
	ModeTriangleStrip = 5
	ModeTriangleFan   = 6
)

// Sampler wrap modes.
const (
	WrapClampToEdge    = 33071
	WrapMirroredRepeat = 33648
	WrapRepeat         = 10497
)

// Material alpha modes.
const (
	AlphaOpaque = "OPAQUE"
	AlphaMask   = "MASK"
	AlphaBlend  = "BLEND"
)

// Animation sampler interpolations.
const (
	InterpolationLinear      = "LINEAR"
	InterpolationStep        = "STEP"
	InterpolationCubicSpline = "CUBICSPLINE"
)

// Animation channel target paths.
const (
	PathTranslation = "translation"
	PathRotation    = "rotation"
	PathScale       = "scale"
	PathWeights     = "weights"
)

const (
	defaultVersion     = "2.0"
	defaultAlphaCutoff = 0.5
)

// Document is a whole glTF asset.
type Document struct {
	Asset       Asset
	Buffers     []Buffer
	BufferViews []BufferView
	Accessors   []Accessor
	Images      []Image
	Samplers    []Sampler
	Textures    []Texture
	Materials   []Material
	Meshes      []Mesh
	Skins       []Skin
	Nodes       []Node
	Scenes      []Scene
	Animations  []Animation
	// Scene is the default scene.
	Scene Index
	// BaseDir resolves relative buffer and image URIs.
	BaseDir string
}

// NewDocument returns an empty document declaring version 2.0.
func NewDocument() *Document {
	return &Document{Asset: Asset{Version: defaultVersion}}
}

type Asset struct {
	Version    string
	Generator  string
	Copyright  string
	MinVersion string
}

// Buffer is a block of binary data. Data holds the payload once Loaded is
// true. URI is empty for the buffer backed by a container's BIN chunk.
type Buffer struct {
	URI        string
	ByteLength int
	Data       []byte
	Loaded     bool
	Name       string
}

// length is the byte count written for the buffer.
func (b *Buffer) length() int {
	if b.Data != nil {
		return len(b.Data)
	}
	return b.ByteLength
}

// BufferView is a byte range of a buffer. ByteStride 0 means tightly packed;
// Target 0 means no usage hint.
type BufferView struct {
	Buffer     int
	ByteOffset int
	ByteLength int
	ByteStride int
	Target     int
	Name       string
}

type Accessor struct {
	BufferView    Index
	ByteOffset    int
	ComponentType int
	Normalized    bool
	Count         int
	Type          string
	Min           []float32
	Max           []float32
	Name          string
}

// Image references encoded image data by URI or buffer view. The pixel
// fields belong to an image decoder and are never filled by this package.
type Image struct {
	URI        string
	MimeType   string
	BufferView Index
	Name       string

	Pixels   []byte
	Width    int
	Height   int
	Channels int
	Decoded  bool
}

// Sampler filters are 0 when unset.
type Sampler struct {
	MagFilter int
	MinFilter int
	WrapS     int
	WrapT     int
	Name      string
}

// NewSampler returns a sampler with repeat wrapping.
func NewSampler() Sampler {
	return Sampler{WrapS: WrapRepeat, WrapT: WrapRepeat}
}

type Texture struct {
	Sampler Index
	Source  Index
	Name    string
}

// TextureInfo references a texture and the UV set it is sampled with. An
// unset Index means the material slot is empty.
type TextureInfo struct {
	Index    Index
	TexCoord int
}

type NormalTextureInfo struct {
	TextureInfo
	Scale float32
}

type OcclusionTextureInfo struct {
	TextureInfo
	Strength float32
}

type PBRMetallicRoughness struct {
	BaseColorFactor          [4]float32
	BaseColorTexture         TextureInfo
	MetallicFactor           float32
	RoughnessFactor          float32
	MetallicRoughnessTexture TextureInfo
}

type Material struct {
	PBR              PBRMetallicRoughness
	NormalTexture    NormalTextureInfo
	OcclusionTexture OcclusionTextureInfo
	EmissiveTexture  TextureInfo
	EmissiveFactor   [3]float32
	AlphaMode        string
	// AlphaCutoff only applies when AlphaMode is MASK.
	AlphaCutoff float32
	DoubleSided bool
	Name        string
}

// NewMaterial returns an opaque white, fully metallic and rough material.
func NewMaterial() Material {
	return Material{
		PBR: PBRMetallicRoughness{
			BaseColorFactor: [4]float32{1, 1, 1, 1},
			MetallicFactor:  1,
			RoughnessFactor: 1,
		},
		NormalTexture:    NormalTextureInfo{Scale: 1},
		OcclusionTexture: OcclusionTextureInfo{Strength: 1},
		AlphaMode:        AlphaOpaque,
		AlphaCutoff:      defaultAlphaCutoff,
	}
}

// Primitive maps attribute semantics (POSITION, NORMAL, TEXCOORD_0, ...) to
// accessor positions. AttributeOrder records the order the attributes were
// read in and carries no meaning.
type Primitive struct {
	Attributes     map[string]int
	AttributeOrder []string
	Indices        Index
	Material       Index
	Mode           int
}

// NewPrimitive returns a triangle-list primitive without attributes.
func NewPrimitive() Primitive {
	return Primitive{Attributes: map[string]int{}, Mode: ModeTriangles}
}

type Mesh struct {
	Primitives []Primitive
	Weights    []float32
	Name       string
}

type Skin struct {
	InverseBindMatrices Index
	Skeleton            Index
	Joints              []int
	Name                string
}

type Node struct {
	Children  []int
	Mesh      Index
	Skin      Index
	Transform Transform
	Name      string
}

type Scene struct {
	Nodes []int
	Name  string
}

type AnimationSampler struct {
	Input         Index
	Output        Index
	Interpolation string
}

// NewAnimationSampler returns a sampler with linear interpolation.
func NewAnimationSampler() AnimationSampler {
	return AnimationSampler{Interpolation: InterpolationLinear}
}

type AnimationTarget struct {
	Node Index
	Path string
}

type AnimationChannel struct {
	Sampler int
	Target  AnimationTarget
}

type Animation struct {
	Samplers []AnimationSampler
	Channels []AnimationChannel
	Name     string
}
