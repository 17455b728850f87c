package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetDatasetRows(t *testing.T) {
	m := NewMetricsForTesting()

	m.SetDatasetRows(2, 3, 4, 10)
	m.SetDatasetRows(1, 1, 1, 5)

	assert.Equal(t, 5.0, testutil.ToFloat64(m.DatasetRows.WithLabelValues("crimes")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatasetRows.WithLabelValues("locations")))
}

func TestGinMiddlewareCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetricsForTesting()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	r := gin.New()
	r.Use(GinMiddleware(m, logger))
	r.GET("/api/areas/:name", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/api/areas/a", "/api/areas/b", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/areas/:name", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "unmatched", "404")))
}
