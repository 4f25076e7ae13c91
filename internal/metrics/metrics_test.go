package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := New()
	r.RecordRun("Bitcoin", "ok")
	r.RecordRun("Bitcoin", "ok")
	r.RecordRun("XRP", "data_unavailable")
	r.RecordLastClose("Bitcoin", 91000)
	r.RecordRSI("Bitcoin", 63.5)
	r.RecordRecommendation("Bitcoin", "HOLD")
	r.ObserveStage("fetch", time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(r.runsTotal.WithLabelValues("Bitcoin", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runsTotal.WithLabelValues("XRP", "data_unavailable")))
	assert.Equal(t, 91000.0, testutil.ToFloat64(r.lastClose.WithLabelValues("Bitcoin")))
	assert.Equal(t, 63.5, testutil.ToFloat64(r.latestRSI.WithLabelValues("Bitcoin")))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "coincast_pipeline_runs_total")
	assert.Contains(t, rec.Body.String(), "coincast_stage_duration_seconds")
}

func TestNew_Independent(t *testing.T) {
	// Each recorder owns its registry, so building two must not panic.
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
