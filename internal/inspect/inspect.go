// Package inspect summarizes loaded documents for the gltfkit command and
// HTTP service.
package inspect

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
	"github.com/kr/pretty"
	"github.com/olekukonko/tablewriter"
	"github.com/samcharles93/gltfkit/pkg/gltf"
)

type Counts struct {
	Buffers     int `json:"buffers"`
	BufferViews int `json:"bufferViews"`
	Accessors   int `json:"accessors"`
	Images      int `json:"images"`
	Samplers    int `json:"samplers"`
	Textures    int `json:"textures"`
	Materials   int `json:"materials"`
	Meshes      int `json:"meshes"`
	Skins       int `json:"skins"`
	Nodes       int `json:"nodes"`
	Scenes      int `json:"scenes"`
	Animations  int `json:"animations"`
}

type Buffer struct {
	Index      int    `json:"index"`
	Source     string `json:"source"`
	ByteLength int    `json:"byteLength"`
	Loaded     bool   `json:"loaded"`
	// Digest is the xxhash64 of the payload in hex.
	Digest string `json:"digest,omitempty"`
}

type Mesh struct {
	Index      int    `json:"index"`
	Name       string `json:"name,omitempty"`
	Primitives int    `json:"primitives"`
	Vertices   int    `json:"vertices"`
	Indices    int    `json:"indices"`
	Attributes string `json:"attributes"`
}

// Summary describes a document without its payloads.
type Summary struct {
	Version   string   `json:"version"`
	Generator string   `json:"generator,omitempty"`
	Scene     int      `json:"scene"`
	Counts    Counts   `json:"counts"`
	Buffers   []Buffer `json:"buffers"`
	Meshes    []Mesh   `json:"meshes"`
}

// Summarize collects counts, buffer digests and per-mesh totals. Scene is -1
// when the document names no default scene.
func Summarize(doc *gltf.Document) Summary {
	s := Summary{
		Version:   doc.Asset.Version,
		Generator: doc.Asset.Generator,
		Scene:     doc.Scene.Int(),
		Counts: Counts{
			Buffers:     len(doc.Buffers),
			BufferViews: len(doc.BufferViews),
			Accessors:   len(doc.Accessors),
			Images:      len(doc.Images),
			Samplers:    len(doc.Samplers),
			Textures:    len(doc.Textures),
			Materials:   len(doc.Materials),
			Meshes:      len(doc.Meshes),
			Skins:       len(doc.Skins),
			Nodes:       len(doc.Nodes),
			Scenes:      len(doc.Scenes),
			Animations:  len(doc.Animations),
		},
		Buffers: make([]Buffer, len(doc.Buffers)),
		Meshes:  make([]Mesh, len(doc.Meshes)),
	}
	for i, b := range doc.Buffers {
		s.Buffers[i] = Buffer{
			Index:      i,
			Source:     bufferSource(b.URI),
			ByteLength: b.ByteLength,
			Loaded:     b.Loaded,
		}
		if b.Loaded {
			s.Buffers[i].Digest = Digest(b.Data)
		}
	}
	for i, m := range doc.Meshes {
		s.Meshes[i] = summarizeMesh(doc, i, m)
	}
	return s
}

func summarizeMesh(doc *gltf.Document, i int, m gltf.Mesh) Mesh {
	out := Mesh{Index: i, Name: m.Name, Primitives: len(m.Primitives)}
	seen := map[string]bool{}
	var attrs []string
	for _, p := range m.Primitives {
		if pos, ok := p.Attributes["POSITION"]; ok && pos >= 0 && pos < len(doc.Accessors) {
			out.Vertices += doc.Accessors[pos].Count
		}
		if idx, ok := p.Indices.Get(); ok && idx < len(doc.Accessors) {
			out.Indices += doc.Accessors[idx].Count
		}
		for _, name := range p.AttributeOrder {
			if !seen[name] {
				seen[name] = true
				attrs = append(attrs, name)
			}
		}
	}
	out.Attributes = strings.Join(attrs, ",")
	return out
}

// bufferSource shortens data URIs to their header.
func bufferSource(uri string) string {
	switch {
	case uri == "":
		return "BIN chunk"
	case isDataURI(uri):
		header, _, _ := strings.Cut(uri, ",")
		return header
	default:
		return uri
	}
}

// Digest returns the xxhash64 of data as 16 hex digits.
func Digest(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// WriteTables renders the summary as text tables.
func WriteTables(w io.Writer, s Summary) {
	fmt.Fprintf(w, "glTF %s", s.Version)
	if s.Generator != "" {
		fmt.Fprintf(w, " (%s)", s.Generator)
	}
	fmt.Fprintln(w)

	counts := newTable(w, []string{"Collection", "Count"})
	for _, row := range []struct {
		name string
		n    int
	}{
		{"buffers", s.Counts.Buffers},
		{"bufferViews", s.Counts.BufferViews},
		{"accessors", s.Counts.Accessors},
		{"images", s.Counts.Images},
		{"samplers", s.Counts.Samplers},
		{"textures", s.Counts.Textures},
		{"materials", s.Counts.Materials},
		{"meshes", s.Counts.Meshes},
		{"skins", s.Counts.Skins},
		{"nodes", s.Counts.Nodes},
		{"scenes", s.Counts.Scenes},
		{"animations", s.Counts.Animations},
	} {
		counts.Append([]string{row.name, strconv.Itoa(row.n)})
	}
	counts.Render()

	if len(s.Buffers) > 0 {
		t := newTable(w, []string{"Buffer", "Source", "Bytes", "Loaded", "xxhash64"})
		for _, b := range s.Buffers {
			t.Append([]string{strconv.Itoa(b.Index), b.Source, strconv.Itoa(b.ByteLength), strconv.FormatBool(b.Loaded), b.Digest})
		}
		t.Render()
	}

	if len(s.Meshes) > 0 {
		t := newTable(w, []string{"Mesh", "Name", "Primitives", "Vertices", "Indices", "Attributes"})
		for _, m := range s.Meshes {
			t.Append([]string{strconv.Itoa(m.Index), m.Name, strconv.Itoa(m.Primitives), strconv.Itoa(m.Vertices), strconv.Itoa(m.Indices), m.Attributes})
		}
		t.Render()
	}
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}

// WriteJSON writes the summary as indented JSON.
func WriteJSON(w io.Writer, s Summary) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// Dump pretty-prints the whole document. Buffer and image payloads are
// replaced by their digests to keep the output readable.
func Dump(w io.Writer, doc *gltf.Document) error {
	c := *doc
	c.Buffers = make([]gltf.Buffer, len(doc.Buffers))
	for i, b := range doc.Buffers {
		if isDataURI(b.URI) {
			b.URI = bufferSource(b.URI) + ",..."
		}
		if b.Data != nil {
			b.Data = []byte(Digest(b.Data))
		}
		c.Buffers[i] = b
	}
	c.Images = make([]gltf.Image, len(doc.Images))
	for i, img := range doc.Images {
		if isDataURI(img.URI) {
			img.URI = bufferSource(img.URI) + ",..."
		}
		img.Pixels = nil
		c.Images[i] = img
	}
	_, err := fmt.Fprintf(w, "%# v\n", pretty.Formatter(c))
	return err
}

func isDataURI(uri string) bool {
	return strings.HasPrefix(strings.ToLower(uri), "data:")
}
