package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"CrimeStats/internal/config"
	"CrimeStats/internal/database"
	"CrimeStats/internal/normalize"
	"CrimeStats/internal/observability"
	"CrimeStats/internal/repository"
	"CrimeStats/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const sampleCSV = `DATE OCC,AREA NAME,Crm Cd Desc,Vict Age,Vict Sex,LOCATION
01/03/2025 10:00:00 AM,Central,VEHICLE - STOLEN,34,M,100 MAIN ST
01/20/2025 10:00:00 AM,Hollywood,BURGLARY,27,F,
03/02/2025 10:00:00 AM,Central,ROBBERY,0,,
03/15/2025 10:00:00 AM,Central,VEHICLE - STOLEN,38,F,
`

type testServer struct {
	db      *gorm.DB
	router  *gin.Engine
	metrics *observability.Metrics
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestServer(t *testing.T, seeded bool, mode string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := quietLogger()

	db, err := database.Open(config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "crimes.db"),
		LogLevel: "silent",
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	if seeded {
		incidents, err := normalize.ReadIncidents(strings.NewReader(sampleCSV), normalize.DefaultColumns())
		require.NoError(t, err)
		ds, err := normalize.Normalize(incidents)
		require.NoError(t, err)
		_, err = service.NewLoadService(repository.NewDatasetRepository(db), log).Load(context.Background(), ds, "sample.csv")
		require.NoError(t, err)
	}

	m := observability.NewMetricsForTesting()
	return &testServer{
		db:      db,
		router:  NewRouter(db, config.ServerConfig{Mode: mode}, log, m),
		metrics: m,
	}
}

func (s *testServer) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestDimensionsEmptyDatabaseAre404(t *testing.T) {
	s := newTestServer(t, false, gin.ReleaseMode)
	for _, path := range []string{"/api/types", "/api/dates", "/api/areas"} {
		w := s.get(t, path)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.NotEmpty(t, decodeError(t, w), path)
	}
}

func TestDimensions(t *testing.T) {
	s := newTestServer(t, true, gin.ReleaseMode)

	w := s.get(t, "/api/types")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["burglary","robbery","theft"]`, w.Body.String())

	w = s.get(t, "/api/dates")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["2025-01","2025-03"]`, w.Body.String())

	w = s.get(t, "/api/areas")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["Central","Hollywood"]`, w.Body.String())
}

func TestListCrimes(t *testing.T) {
	s := newTestServer(t, true, gin.ReleaseMode)

	w := s.get(t, "/api/crimes?start_month=2025-01&end_month=2025-01&area=central")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"month":"2025-01","area":"Central","type":"theft","victim_age":34,"victim_sex":"M","location":"100 MAIN ST"}]`, w.Body.String())
}

func TestListCrimesBadMonthIs400(t *testing.T) {
	s := newTestServer(t, true, gin.ReleaseMode)
	w := s.get(t, "/api/crimes?start_month=2025-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w), "start_month")
}

func TestListCrimesNoMatchIs404(t *testing.T) {
	s := newTestServer(t, true, gin.ReleaseMode)
	w := s.get(t, "/api/crimes?start_month=2025-13")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportRaw(t *testing.T) {
	s := newTestServer(t, true, gin.ReleaseMode)
	w := s.get(t, "/api/raw")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "crimes.csv")
	assert.Equal(t, "month,area,type,victim_age,victim_sex,location\n"+
		"2025-01,Central,theft,34,M,100 MAIN ST\n"+
		"2025-01,Hollywood,burglary,27,F,\n"+
		"2025-03,Central,robbery,0,,\n"+
		"2025-03,Central,theft,38,F,\n", w.Body.String())
	assert.Equal(t, 4.0, testutil.ToFloat64(s.metrics.ExportedRows))
}

func TestFilteredChart(t *testing.T) {
	s := newTestServer(t, true, gin.ReleaseMode)
	w := s.get(t, "/api/charts/filtered?areas=Central,%20Hollywood&types=theft,,burglary")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.JSONEq(t, `{
		"month_counts": {"2025-01": 2, "2025-02": 0, "2025-03": 1},
		"age_buckets": {"20-29": 1, "30-39": 2},
		"sex_counts": {"F": 2, "M": 1}
	}`, body)
	assert.Contains(t, body, `"age_buckets":{"20-29":1,"30-39":2}`)
}

func TestFilteredChartEmptySelectionIs200(t *testing.T) {
	s := newTestServer(t, true, gin.ReleaseMode)
	w := s.get(t, "/api/charts/filtered?areas=Central&types=")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"month_counts": {"2025-01": 0, "2025-02": 0, "2025-03": 0},
		"age_buckets": {},
		"sex_counts": {}
	}`, w.Body.String())
}

func TestFilteredChartBadMonthIs400(t *testing.T) {
	s := newTestServer(t, true, gin.ReleaseMode)
	w := s.get(t, "/api/charts/filtered?end_month=March")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBackendFailureIs500WithGenericMessage(t *testing.T) {
	s := newTestServer(t, true, gin.ReleaseMode)
	require.NoError(t, database.Close(s.db))

	for _, path := range []string{"/api/types", "/api/crimes", "/api/raw", "/api/charts/filtered?areas=a&types=b"} {
		w := s.get(t, path)
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.Equal(t, "internal server error", decodeError(t, w), path)
	}

	w := s.get(t, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthAndReadiness(t *testing.T) {
	s := newTestServer(t, true, gin.ReleaseMode)

	w := s.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.get(t, "/readyz")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status     string `json:"status"`
		LastImport struct {
			Source string `json:"source"`
			Crimes int    `json:"crimes"`
		} `json:"last_import"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ready", body.Status)
	assert.Equal(t, "sample.csv", body.LastImport.Source)
	assert.Equal(t, 4, body.LastImport.Crimes)
	assert.Equal(t, 4.0, testutil.ToFloat64(s.metrics.DatasetRows.WithLabelValues("crimes")))
}

func TestDatasetMetricsSetAtStartup(t *testing.T) {
	s := newTestServer(t, true, gin.ReleaseMode)

	assert.Equal(t, 4.0, testutil.ToFloat64(s.metrics.DatasetRows.WithLabelValues("crimes")))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.metrics.DatasetRows.WithLabelValues("locations")))
}

func TestReadinessWithoutImport(t *testing.T) {
	s := newTestServer(t, false, gin.ReleaseMode)
	w := s.get(t, "/readyz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())
}

func TestHelpPage(t *testing.T) {
	s := newTestServer(t, false, gin.ReleaseMode)
	w := s.get(t, "/api/help")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "/api/charts/filtered")
	assert.Contains(t, w.Body.String(), "court order violation")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, false, gin.ReleaseMode)
	w := s.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPprofOnlyInDebugMode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, newTestServer(t, false, gin.ReleaseMode).get(t, "/debug/pprof/").Code)
	assert.Equal(t, http.StatusOK, newTestServer(t, false, gin.DebugMode).get(t, "/debug/pprof/").Code)
}
