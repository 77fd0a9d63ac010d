package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests  *prometheus.CounterVec
	bytesIn   prometheus.Counter
	duration  *prometheus.HistogramVec
	documents *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gltfkit",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		bytesIn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gltfkit",
			Name:      "upload_bytes_total",
			Help:      "Bytes of uploaded assets accepted for processing.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gltfkit",
			Name:      "request_duration_seconds",
			Help:      "Time spent loading and converting uploaded assets.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"route"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gltfkit",
			Name:      "documents_total",
			Help:      "Uploaded documents by detected input form and outcome.",
		}, []string{"form", "outcome"}),
	}
	reg.MustRegister(m.requests, m.bytesIn, m.duration, m.documents)
	return m
}
