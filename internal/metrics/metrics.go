// Package metrics defines the Prometheus collectors for the catalog service.
package metrics

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

var registerOnce sync.Once

// HTTP metrics.
var (
	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency in seconds by method and route.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "Request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Catalog metrics.
var (
	// ProductCodesGenerated counts product codes assigned to new products.
	ProductCodesGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_product_codes_generated_total",
			Help: "Product codes assigned to created products",
		},
	)

	// ProductCodeCollisions counts candidate codes found already taken while
	// resolving a unique code.
	ProductCodeCollisions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_product_code_collisions_total",
			Help: "Candidate product codes that were already taken",
		},
	)

	// ProductCodeConflicts counts inserts rejected by the product code unique
	// index after resolution.
	ProductCodeConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_product_code_conflicts_total",
			Help: "Product inserts rejected by a concurrent product code",
		},
	)

	// ImageUploadsTotal counts image uploads by outcome.
	ImageUploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_image_uploads_total",
			Help: "Image uploads by outcome",
		},
		[]string{"status"},
	)
)

// Register registers all collectors with the default registry. It is safe to
// call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			ProductCodesGenerated,
			ProductCodeCollisions,
			ProductCodeConflicts,
			ImageUploadsTotal,
		)
		for _, status := range []string{"success", "rejected", "error"} {
			ImageUploadsTotal.WithLabelValues(status)
		}
	})
}

// NormalizePath maps request paths to route templates so that entity IDs and
// media keys do not become label values.
func NormalizePath(path string) string {
	switch path {
	case "/api/health", "/metrics", "/api/categories", "/api/products":
		return path
	case "", "/":
		return "/"
	}

	if strings.HasPrefix(path, "/media/") {
		return "/media/{key}"
	}

	for _, collection := range []string{"/api/categories/", "/api/products/"} {
		if rest, ok := strings.CutPrefix(path, collection); ok {
			if _, err := uuid.Parse(rest); err == nil {
				return collection + "{id}"
			}
			return collection + "{invalid}"
		}
	}

	return "/{other}"
}
