package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsMiddlewareSuccess(t *testing.T) {
	successHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	})

	server := httptest.NewServer(MetricsMiddleware(successHandler))
	defer server.Close()

	/* simulate requests */
	for i := 0; i < 3; i++ {
		resp, err := http.Post(
			server.URL+"/api/contact", "application/json",
			strings.NewReader(`{}`),
		)
		require.NoError(t, err)
		resp.Body.Close()
	}

	require.Equal(t, 3.0, testutil.ToFloat64(
		httpRequestTotal.WithLabelValues("POST", "/api/contact", "OK", "none"),
	))
	require.Equal(t, 3.0, testutil.ToFloat64(
		httpRequestSuccessTotal.WithLabelValues("POST", "/api/contact", "OK", "none"),
	))
}

func TestMetricsMiddlewareError(t *testing.T) {
	errorHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	server := httptest.NewServer(MetricsMiddleware(errorHandler))
	defer server.Close()

	for i := 0; i < 4; i++ {
		resp, err := http.Get(server.URL + "/path")
		require.NoError(t, err)
		resp.Body.Close()
	}
	resp, err := http.Get(server.URL + "/bad")
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, 4.0, testutil.ToFloat64(
		httpRequestTotal.WithLabelValues("GET", "/path", "Internal Server Error", "none"),
	))
	require.Equal(t, 4.0, testutil.ToFloat64(
		httpRequestErrorsTotal.WithLabelValues("GET", "/path", "Internal Server Error", "internal"),
	))
	require.Equal(t, 1.0, testutil.ToFloat64(
		httpRequestErrorsTotal.WithLabelValues("GET", "/bad", "Bad Request", "bad_request"),
	))
	require.Equal(t, 0.0, testutil.ToFloat64(
		httpRequestSuccessTotal.WithLabelValues("GET", "/path", "OK", "none"),
	))
}

func TestFormAndEmailCounters(t *testing.T) {
	RecordFormSubmission(FormNewsletter, OutcomeAlreadySubscribed)
	RecordFormSubmission(FormNewsletter, OutcomeAlreadySubscribed)
	require.Equal(t, 2.0, testutil.ToFloat64(
		formSubmissionsTotal.WithLabelValues(FormNewsletter, OutcomeAlreadySubscribed),
	))

	RecordStoreWrite("metrics_test_table", nil)
	RecordStoreWrite("metrics_test_table", errors.New("boom"))
	require.Equal(t, 1.0, testutil.ToFloat64(
		storeWritesTotal.WithLabelValues("metrics_test_table", "ok"),
	))
	require.Equal(t, 1.0, testutil.ToFloat64(
		storeWritesTotal.WithLabelValues("metrics_test_table", OutcomeError),
	))

	RecordEmailSend("metrics_test_template", OutcomeQueued)
	require.Equal(t, 1.0, testutil.ToFloat64(
		emailSendsTotal.WithLabelValues("metrics_test_template", OutcomeQueued),
	))
}

func TestUnroutedPathsShareLabel(t *testing.T) {
	h := MetricsMiddleware(http.NotFoundHandler())
	for _, p := range []string{"/wp-login.php", "/.env", "/admin"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", p, nil))
	}
	require.Equal(t, 3.0, testutil.ToFloat64(
		httpRequestErrorsTotal.WithLabelValues("GET", "unmatched", "Not Found", "not_found"),
	))
}
