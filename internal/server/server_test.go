package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samcharles93/gltfkit/pkg/glb"
	"github.com/samcharles93/gltfkit/pkg/gltf"
	"github.com/stretchr/testify/require"
)

const triangle = `{
	"asset": {"version": "2.0", "generator": "server test"},
	"buffers": [{"uri": "data:application/octet-stream;base64,AAECAwQF", "byteLength": 6}],
	"bufferViews": [{"buffer": 0, "byteLength": 6}],
	"accessors": [{"bufferView": 0, "componentType": 5123, "count": 3, "type": "SCALAR"}],
	"meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "indices": 0}]}]
}`

func newTestEcho(t *testing.T, cfg Config) (*echo.Echo, *prometheus.Registry) {
	t.Helper()
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	e := echo.New()
	New(cfg).Register(e)
	return e, cfg.Registry
}

func do(t *testing.T, e *echo.Echo, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	t.Parallel()
	e, _ := newTestEcho(t, Config{})
	rec := do(t, e, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
	require.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestRequestIDPropagated(t *testing.T) {
	t.Parallel()
	e, _ := newTestEcho(t, Config{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}

func TestInspect(t *testing.T) {
	t.Parallel()
	e, _ := newTestEcho(t, Config{})
	rec := do(t, e, http.MethodPost, "/v1/inspect", []byte(triangle))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp inspectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, rec.Header().Get(HeaderRequestID), resp.ID)
	require.Equal(t, "gltf", resp.Form)
	require.Equal(t, "server test", resp.Summary.Generator)
	require.Equal(t, 1, resp.Summary.Counts.Meshes)
	require.Equal(t, 3, resp.Summary.Meshes[0].Indices)
}

func TestConvertRoundTrip(t *testing.T) {
	t.Parallel()
	e, _ := newTestEcho(t, Config{})

	rec := do(t, e, http.MethodPost, "/v1/convert?to=glb", []byte(triangle))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, mimeGLB, rec.Header().Get(echo.HeaderContentType))
	container := rec.Body.Bytes()
	require.True(t, glb.IsContainer(container))

	doc, err := gltf.LoadFromMemory(container)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 1, 2, 3, 4, 5}, doc.Buffers[0].Data)

	rec = do(t, e, http.MethodPost, "/v1/convert?to=gltf", container)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, mimeGLTF, rec.Header().Get(echo.HeaderContentType))
	require.Contains(t, rec.Body.String(), "data:application/octet-stream;base64,AAECAwQF")
}

func TestConvertErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{name: "missing target", path: "/v1/convert", body: triangle, status: http.StatusBadRequest},
		{name: "unknown target", path: "/v1/convert?to=obj", body: triangle, status: http.StatusBadRequest},
		{name: "empty body", path: "/v1/convert?to=glb", body: "", status: http.StatusBadRequest},
		{name: "array root", path: "/v1/convert?to=glb", body: "[]", status: http.StatusBadRequest},
		{name: "bad container", path: "/v1/convert?to=gltf", body: "glTF\x01\x00\x00\x00", status: http.StatusBadRequest},
		{name: "external buffer", path: "/v1/convert?to=glb",
			body: `{"buffers":[{"uri":"../../etc/passwd","byteLength":1}]}`, status: http.StatusUnprocessableEntity},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e, _ := newTestEcho(t, Config{})
			rec := do(t, e, http.MethodPost, tc.path, []byte(tc.body))
			require.Equal(t, tc.status, rec.Code, rec.Body.String())

			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.NotEmpty(t, body.Error)
			require.Equal(t, rec.Header().Get(HeaderRequestID), body.RequestID)
		})
	}
}

func TestUploadLimit(t *testing.T) {
	t.Parallel()
	e, _ := newTestEcho(t, Config{MaxUploadBytes: 16})
	rec := do(t, e, http.MethodPost, "/v1/inspect", []byte(triangle))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = do(t, e, http.MethodPost, "/v1/inspect", []byte(`{}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestGzipUpload(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(triangle))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	e, _ := newTestEcho(t, Config{})
	req := httptest.NewRequest(http.MethodPost, "/v1/inspect", bytes.NewReader(buf.Bytes()))
	req.Header.Set("Content-Encoding", "gzip")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), `"server test"`)

	req = httptest.NewRequest(http.MethodPost, "/v1/inspect", strings.NewReader(triangle))
	req.Header.Set("Content-Encoding", "gzip")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetrics(t *testing.T) {
	t.Parallel()
	e, _ := newTestEcho(t, Config{})
	do(t, e, http.MethodPost, "/v1/inspect", []byte(triangle))
	do(t, e, http.MethodPost, "/v1/inspect", []byte("nope"))

	rec := do(t, e, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	for _, want := range []string{
		`gltfkit_requests_total{code="200",route="inspect"} 1`,
		`gltfkit_requests_total{code="400",route="inspect"} 1`,
		`gltfkit_documents_total{form="gltf",outcome="loaded"} 1`,
		`gltfkit_documents_total{form="gltf",outcome="rejected"} 1`,
		`gltfkit_request_duration_seconds_count{route="inspect"} 2`,
	} {
		require.True(t, strings.Contains(out, want), "missing %q in:\n%s", want, out)
	}
}
