package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersExposed(t *testing.T) {
	before := testutil.ToFloat64(BookingsCreated.WithLabelValues("confirmed"))
	BookingsCreated.WithLabelValues("confirmed").Inc()
	if got := testutil.ToFloat64(BookingsCreated.WithLabelValues("confirmed")); got != before+1 {
		t.Fatalf("expected counter to increase by one, got %v -> %v", before, got)
	}
	ObservePayment(time.Now(), "success")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "padel_bookings_created_total") {
		t.Fatalf("expected booking counter in exposition output")
	}
}
