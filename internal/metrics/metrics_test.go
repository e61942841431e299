package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_UsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/jobs/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/jobs/"+id, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/jobs/:id", "200")))
}

func TestRecordOTPDelivery(t *testing.T) {
	m := New()
	m.RecordOTPDelivery("sms", "verification", nil)
	m.RecordOTPDelivery("sms", "verification", errors.New("x"))
	m.RecordOTPDelivery("sms", "verification", errors.New("y"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OTPDeliveries.WithLabelValues("sms", "verification", "sent")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.OTPDeliveries.WithLabelValues("sms", "verification", "failed")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordOTPDelivery("email", "reset", nil)
		m.RecordNotifications("job_posted", 3)
		m.RecordApplication()
	})
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.RecordNotifications("job_posted", 2)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `jobalert_notifications_created_total{type="job_posted"} 2`))
}
