// Package server exposes document inspection and conversion over HTTP.
package server

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samcharles93/gltfkit/internal/inspect"
	"github.com/samcharles93/gltfkit/internal/logger"
	"github.com/samcharles93/gltfkit/internal/version"
	"github.com/samcharles93/gltfkit/pkg/glb"
	"github.com/samcharles93/gltfkit/pkg/gltf"
)

const (
	HeaderRequestID = "X-Request-ID"

	mimeGLB  = "model/gltf-binary"
	mimeGLTF = "model/gltf+json"

	DefaultMaxUploadBytes = 64 << 20
)

type Config struct {
	// MaxUploadBytes bounds request bodies. Zero means DefaultMaxUploadBytes.
	MaxUploadBytes int64
	Logger         logger.Logger
	// Registry receives the service metrics. Nil creates a private registry.
	Registry *prometheus.Registry
}

type Server struct {
	maxUpload int64
	log       logger.Logger
	registry  *prometheus.Registry
	metrics   *metrics
	clock     func() time.Time
}

func New(cfg Config) *Server {
	s := &Server{
		maxUpload: cfg.MaxUploadBytes,
		log:       cfg.Logger,
		registry:  cfg.Registry,
		clock:     time.Now,
	}
	if s.maxUpload <= 0 {
		s.maxUpload = DefaultMaxUploadBytes
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = newMetrics(s.registry)
	return s
}

func (s *Server) Register(e *echo.Echo) {
	e.Use(s.requestID)
	e.GET("/healthz", s.handleHealth)
	e.GET("/metrics", s.handleMetrics)
	e.POST("/v1/inspect", s.handleInspect)
	e.POST("/v1/convert", s.handleConvert)
}

// requestID propagates or assigns X-Request-ID and stores a request-scoped
// logger in the request context.
func (s *Server) requestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		req := c.Request()
		id := req.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Response().Header().Set(HeaderRequestID, id)
		ctx := logger.WithContext(req.Context(), s.log.With("request_id", id))
		c.SetRequest(req.WithContext(ctx))
		return next(c)
	}
}

func (s *Server) handleHealth(c *echo.Context) error {
	return s.writeJSON(c, "healthz", http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.String(),
	})
}

func (s *Server) handleMetrics(c *echo.Context) error {
	promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}).ServeHTTP(c.Response(), c.Request())
	return nil
}

type inspectResponse struct {
	ID      string          `json:"id"`
	Form    string          `json:"form"`
	Summary inspect.Summary `json:"summary"`
}

func (s *Server) handleInspect(c *echo.Context) error {
	const route = "inspect"
	start := s.clock()
	defer s.observe(route, start)

	doc, form, status, err := s.loadUpload(c)
	if err != nil {
		return s.writeError(c, route, status, err)
	}
	return s.writeJSON(c, route, http.StatusOK, inspectResponse{
		ID:      c.Response().Header().Get(HeaderRequestID),
		Form:    form,
		Summary: inspect.Summarize(doc),
	})
}

func (s *Server) handleConvert(c *echo.Context) error {
	const route = "convert"
	start := s.clock()
	defer s.observe(route, start)

	to := c.QueryParam("to")
	if to != "glb" && to != "gltf" {
		return s.writeError(c, route, http.StatusBadRequest, errors.Newf("query parameter to must be glb or gltf, got %q", to))
	}
	doc, _, status, err := s.loadUpload(c)
	if err != nil {
		return s.writeError(c, route, status, err)
	}

	var (
		out  []byte
		mime string
	)
	if to == "glb" {
		out, err = doc.MarshalContainer()
		mime = mimeGLB
	} else {
		out, err = doc.MarshalText(true)
		mime = mimeGLTF
	}
	if err != nil {
		return s.writeError(c, route, http.StatusInternalServerError, err)
	}
	logger.FromContext(c.Request().Context()).Info("converted document", "to", to, "bytes", len(out))
	return s.writeBlob(c, route, http.StatusOK, mime, out)
}

// loadUpload reads the request body and decodes it. The returned status is
// meaningful only when err is non-nil.
func (s *Server) loadUpload(c *echo.Context) (*gltf.Document, string, int, error) {
	var src io.Reader = c.Request().Body
	if strings.EqualFold(c.Request().Header.Get("Content-Encoding"), "gzip") {
		zr, err := gzip.NewReader(src)
		if err != nil {
			return nil, "", http.StatusBadRequest, errors.Wrap(err, "open gzip body")
		}
		defer zr.Close()
		src = zr
	}
	// The limit applies to the decompressed size.
	body, err := io.ReadAll(io.LimitReader(src, s.maxUpload+1))
	if err != nil {
		return nil, "", http.StatusBadRequest, errors.Wrap(err, "read body")
	}
	if int64(len(body)) > s.maxUpload {
		return nil, "", http.StatusRequestEntityTooLarge, errors.Newf("body exceeds %d bytes", s.maxUpload)
	}
	s.metrics.bytesIn.Add(float64(len(body)))

	form := "gltf"
	if glb.IsContainer(body) {
		form = "glb"
	}
	log := logger.FromContext(c.Request().Context())
	doc, err := gltf.LoadFromMemory(body, gltf.WithLogger(log), gltf.WithoutFileAccess())
	if err != nil {
		s.metrics.documents.WithLabelValues(form, "rejected").Inc()
		return nil, form, statusFor(err), err
	}
	s.metrics.documents.WithLabelValues(form, "loaded").Inc()
	log.Debug("loaded upload", "form", form, "bytes", len(body))
	return doc, form, http.StatusOK, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, gltf.ErrMissingBufferFile):
		return http.StatusUnprocessableEntity
	case errors.Is(err, gltf.ErrMalformedContainer),
		errors.Is(err, gltf.ErrParse),
		errors.Is(err, gltf.ErrInvalidRoot),
		errors.Is(err, gltf.ErrMalformedDataURI),
		errors.Is(err, gltf.ErrBufferLength):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeError(c *echo.Context, route string, status int, err error) error {
	logger.FromContext(c.Request().Context()).Warn("request failed", "route", route, "status", status, "error", err)
	return s.writeJSON(c, route, status, errorBody{
		Error:     err.Error(),
		RequestID: c.Response().Header().Get(HeaderRequestID),
	})
}

func (s *Server) writeJSON(c *echo.Context, route string, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.writeBlob(c, route, status, echo.MIMEApplicationJSON, b)
}

func (s *Server) writeBlob(c *echo.Context, route string, status int, contentType string, b []byte) error {
	s.metrics.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, contentType)
	res.Header().Set("Content-Length", strconv.Itoa(len(b)))
	res.WriteHeader(status)
	_, err := io.Copy(res, bytes.NewReader(b))
	return err
}

func (s *Server) observe(route string, start time.Time) {
	s.metrics.duration.WithLabelValues(route).Observe(s.clock().Sub(start).Seconds())
}
