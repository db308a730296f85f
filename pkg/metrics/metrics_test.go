package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCatalogRequest(t *testing.T) {
	before := testutil.ToFloat64(CatalogRequests.WithLabelValues("search", "200"))
	RecordCatalogRequest("search", http.StatusOK)
	after := testutil.ToFloat64(CatalogRequests.WithLabelValues("search", "200"))

	assert.Equal(t, before+1, after)
}

func TestHandler(t *testing.T) {
	CollectionMutations.WithLabelValues("favorites", "added").Inc()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "reelbox_collection_mutations_total")
}
