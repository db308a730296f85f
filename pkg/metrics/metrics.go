// Package metrics holds the prometheus collectors reelbox registers at start up.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CollectionMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelbox_collection_mutations_total",
			Help: "Total number of collection changes by collection and action",
		},
		[]string{"collection", "action"},
	)

	CollectionSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reelbox_collection_size",
			Help: "Current number of entries in each collection",
		},
		[]string{"collection"},
	)

	StoreFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelbox_store_failures_total",
			Help: "Persisted collection reads and writes that failed or were recovered",
		},
		[]string{"operation"}, // "read", "write", "corrupt"
	)

	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelbox_catalog_requests_total",
			Help: "Requests sent to the remote catalog by endpoint and status code",
		},
		[]string{"endpoint", "code"},
	)
)

// RecordCatalogRequest counts one catalog call. A code of 0 means the request never got a response.
func RecordCatalogRequest(endpoint string, code int) {
	CatalogRequests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
