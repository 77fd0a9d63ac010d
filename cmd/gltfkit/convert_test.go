package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/samcharles93/gltfkit/internal/logger"
	"github.com/samcharles93/gltfkit/internal/version"
	"github.com/samcharles93/gltfkit/pkg/glb"
	"github.com/samcharles93/gltfkit/pkg/gltf"
	"github.com/stretchr/testify/require"
)

func quietContext() context.Context {
	return logger.WithContext(context.Background(), logger.Discard())
}

func writeTriangle(t *testing.T, path string) {
	t.Helper()
	data := []byte{0, 0, 0, 0, 0, 0, 128, 63}
	doc := gltf.NewDocument()
	doc.Buffers = []gltf.Buffer{{ByteLength: len(data), Data: data, Loaded: true}}
	doc.BufferViews = []gltf.BufferView{{Buffer: 0, ByteLength: len(data)}}
	doc.Accessors = []gltf.Accessor{{BufferView: gltf.Ref(0), ComponentType: gltf.ComponentFloat, Count: 2, Type: gltf.TypeScalar}}
	require.NoError(t, doc.Save(path))
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in, to, dir, want string
	}{
		{in: "a/b/model.gltf", to: "glb", want: filepath.Join("a", "b", "model.glb")},
		{in: "model.glb", to: "gltf", want: "model.gltf"},
		{in: "a/model.v2.GLTF", to: "glb", dir: "out", want: filepath.Join("out", "model.v2.glb")},
		{in: "noext", to: "glb", dir: "out", want: filepath.Join("out", "noext.glb")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, outputPath(tt.in, tt.to, tt.dir))
		})
	}
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tri.gltf")
	writeTriangle(t, in)

	out := filepath.Join(dir, "tri.glb")
	require.NoError(t, convertFile(quietContext(), in, out, convertOptions{to: formGLB}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.True(t, glb.IsContainer(data))

	doc, err := gltf.Load(out, gltf.WithLogger(logger.Discard()))
	require.NoError(t, err)
	require.Equal(t, version.Generator(), doc.Asset.Generator)
	require.Len(t, doc.Buffers, 1)
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 128, 63}, doc.Buffers[0].Data)

	back := filepath.Join(dir, "back.gltf")
	require.NoError(t, convertFile(quietContext(), out, back, convertOptions{to: formGLTF, embed: true}))
	doc, err = gltf.Load(back, gltf.WithLogger(logger.Discard()), gltf.WithoutFileAccess())
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 128, 63}, doc.Buffers[0].Data)
}

func TestConvertFileErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tri.gltf")
	writeTriangle(t, in)

	err := convertFile(quietContext(), filepath.Join(dir, "absent.gltf"), filepath.Join(dir, "x.glb"), convertOptions{to: formGLB})
	require.Error(t, err)

	err = convertFile(quietContext(), in, filepath.Join(dir, "x.obj"), convertOptions{to: "obj"})
	require.ErrorContains(t, err, "unknown output form")
}

func TestConvertAll(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	var inputs []string
	for _, name := range []string{"a.gltf", "b.gltf", "c.gltf"} {
		p := filepath.Join(dir, name)
		writeTriangle(t, p)
		inputs = append(inputs, p)
	}

	require.NoError(t, convertAll(quietContext(), inputs, convertOptions{to: formGLB, outDir: outDir}, 2))
	for _, name := range []string{"a.glb", "b.glb", "c.glb"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		require.NoError(t, err)
	}

	inputs = append(inputs, filepath.Join(dir, "missing.gltf"))
	require.Error(t, convertAll(quietContext(), inputs, convertOptions{to: formGLB, outDir: outDir}, 0))
}
