package gltf

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/samcharles93/gltfkit/internal/jsontree"
	"github.com/samcharles93/gltfkit/pkg/glb"
	"github.com/stretchr/testify/require"
)

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	slices.Sort(names)
	return names
}

func twoBufferDocument() *Document {
	doc := sampleDocument()
	doc.Buffers = append(doc.Buffers, Buffer{ByteLength: 3, Data: []byte("xyz"), Loaded: true})
	doc.BufferViews = append(doc.BufferViews, BufferView{Buffer: 1, ByteLength: 3})
	return doc
}

func TestSaveAsTextWritesSideCars(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "my scene.gltf")
	doc := twoBufferDocument()
	require.NoError(t, doc.SaveAsText(path, false))

	require.Equal(t, []string{"my scene.gltf", "my scene_buffer0.bin", "my scene_buffer1.bin"}, dirEntries(t, dir))

	side, err := os.ReadFile(filepath.Join(dir, "my scene_buffer1.bin"))
	require.NoError(t, err)
	require.Equal(t, []byte("xyz"), side)

	text, err := os.ReadFile(path)
	require.NoError(t, err)
	root, err := jsontree.Parse(text)
	require.NoError(t, err)
	uri, _ := root.Get("buffers").Elements()[0].Get("uri").Str()
	require.Equal(t, "my%20scene_buffer0.bin", uri)

	got, err := Load(path)
	require.NoError(t, err)
	requireSameScene(t, doc, got)
	for i := range doc.Buffers {
		require.Equal(t, doc.Buffers[i].Data, got.Buffers[i].Data)
	}
}

func TestSaveAsTextEmbedded(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "embedded.gltf")
	doc := twoBufferDocument()
	require.NoError(t, doc.SaveAsText(path, true))

	require.Equal(t, []string{"embedded.gltf"}, dirEntries(t, dir))

	text, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(string(text), "data:application/octet-stream;base64,"))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []byte("xyz"), got.Buffers[1].Data)
}

func TestSaveByExtension(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	doc := twoBufferDocument()

	require.NoError(t, doc.Save(filepath.Join(dir, "a.glb")))
	require.NoError(t, doc.Save(filepath.Join(dir, "b.gltf")))
	require.Equal(t, []string{"a.glb", "b.gltf", "b_buffer0.bin", "b_buffer1.bin"}, dirEntries(t, dir))

	raw, err := os.ReadFile(filepath.Join(dir, "a.glb"))
	require.NoError(t, err)
	require.True(t, glb.IsContainer(raw))

	got, err := Load(filepath.Join(dir, "a.glb"))
	require.NoError(t, err)
	require.Len(t, got.Buffers, 1)
	third, err := got.BufferViewBytes(2)
	require.NoError(t, err)
	require.Equal(t, []byte("xyz"), third)
}

func TestSaveReplacesExistingFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.glb")
	require.NoError(t, os.WriteFile(path, []byte("old contents that are not a container"), 0o600))

	require.NoError(t, sampleDocument().SaveAsContainer(path))
	require.Equal(t, []string{"scene.glb"}, dirEntries(t, dir))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	_, err = Load(path)
	require.NoError(t, err)
}

func TestSaveIntoMissingDirectory(t *testing.T) {
	t.Parallel()
	err := sampleDocument().SaveAsContainer(filepath.Join(t.TempDir(), "nope", "scene.glb"))
	require.True(t, errors.Is(err, ErrIO), "got %v", err)
}

func TestMarshalTextKeepsURIs(t *testing.T) {
	t.Parallel()
	doc := sampleDocument()
	doc.Buffers[0].URI = "geometry.bin"
	text, err := doc.MarshalText(false)
	require.NoError(t, err)
	require.Contains(t, string(text), `"buffers":[{"uri":"geometry.bin","byteLength":44,"name":"geometry"}]`)
}
