package metrics

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	/* service metrics */
	httpRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of http requests",
		},
		[]string{"method", "path", "status", "error_type"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of http requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status", "error_type"},
	)

	httpRequestSuccessTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_success_total",
			Help: "Total number of successful http requests",
		},
		[]string{"method", "path", "status", "error_type"},
	)

	httpRequestErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_errors_total",
			Help: "Total number of failed http requests",
		},
		[]string{"method", "path", "status", "error_type"},
	)

	/* downstream metrics */
	httpClientRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_client_request_total",
			Help: "Total number of client requests",
		},
		[]string{"method", "url"},
	)

	httpClientSuccessTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_client_success_total",
			Help: "Total number of successful http client requests",
		},
		[]string{"method", "url", "status"},
	)

	httpClientErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_client_errors_total",
			Help: "Total number of http client errors"},
		[]string{"method", "url", "status"},
	)

	httpClientDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_client_duration_seconds",
			Help:    "Duration of http client calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "url", "status"},
	)

	/* form pipeline */
	formSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Form submissions by form and outcome",
		},
		[]string{"form", "outcome"},
	)

	storeWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_store_writes_total",
			Help: "Record store writes by table and outcome",
		},
		[]string{"table", "outcome"},
	)

	emailSendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_sends_total",
			Help: "Transactional email sends by template and outcome",
		},
		[]string{"template", "outcome"},
	)

	emailQueueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_queue_sends_total",
			Help: "Retried sends from the email queue by outcome",
		},
		[]string{"template", "outcome"},
	)
)

const (
	FormContact    = "contact"
	FormNewsletter = "newsletter"

	OutcomeAccepted          = "accepted"
	OutcomeHoneypot          = "honeypot"
	OutcomeInvalid           = "invalid"
	OutcomeAlreadySubscribed = "already_subscribed"
	OutcomeError             = "error"

	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
	OutcomeQueued = "queued"
)

func Initialize() {
	prometheus.MustRegister(httpRequestTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestSuccessTotal)
	prometheus.MustRegister(httpRequestErrorsTotal)

	prometheus.MustRegister(httpClientRequestTotal)
	prometheus.MustRegister(httpClientSuccessTotal)
	prometheus.MustRegister(httpClientErrorsTotal)
	prometheus.MustRegister(httpClientDuration)

	prometheus.MustRegister(formSubmissionsTotal)
	prometheus.MustRegister(storeWritesTotal)
	prometheus.MustRegister(emailSendsTotal)
	prometheus.MustRegister(emailQueueTotal)
}

type responseWriterWithStatus struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriterWithStatus) WriteHeader(code int) {
	if rw.statusCode != 0 {
		return
	}
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriterWithStatus) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}

func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		/* custom responseWriter to capture code */
		rec := &responseWriterWithStatus{ResponseWriter: w, statusCode: 0}

		next.ServeHTTP(rec, r)
		duration := time.Since(start).Seconds()
		if rec.statusCode == 0 {
			rec.statusCode = http.StatusOK
		}
		status := http.StatusText(rec.statusCode)
		path := pathLabel(r, rec.statusCode)

		httpRequestTotal.WithLabelValues(r.Method, path, status, "none").Inc()

		/* handle errors */
		if rec.statusCode >= 200 && rec.statusCode < 400 {
			httpRequestSuccessTotal.WithLabelValues(r.Method, path, status, "none").Inc()
		} else {
			errorType := classifyError(rec.statusCode)
			httpRequestErrorsTotal.WithLabelValues(r.Method, path, status, errorType).Inc()
		}

		httpRequestDuration.WithLabelValues(r.Method, path, status, "none").Observe(duration)
	})
}

/* unrouted paths share one label so scanners cannot grow the series set */
func pathLabel(r *http.Request, statusCode int) string {
	if statusCode == http.StatusNotFound {
		return "unmatched"
	}
	return r.URL.Path
}

func classifyError(statusCode int) string {
	switch {
	case statusCode == http.StatusBadRequest:
		return "bad_request"
	case statusCode == http.StatusNotFound:
		return "not_found"
	case statusCode == http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case statusCode >= 500:
		return "internal"
	default:
		log.Printf("unknown error type: %d", statusCode)
		return "unknown"
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordClientRequest(method, url string) {
	httpClientRequestTotal.WithLabelValues(method, url).Inc()
}

func RecordClientSuccess(method, url, status string) {
	httpClientSuccessTotal.WithLabelValues(method, url, status).Inc()
}

func RecordClientErrors(method, url, status string) {
	httpClientErrorsTotal.WithLabelValues(method, url, status).Inc()
}

func RecordClientDuration(method, url string, duration float64, status string) {
	httpClientDuration.WithLabelValues(method, url, status).Observe(duration)
}

func RecordFormSubmission(form, outcome string) {
	formSubmissionsTotal.WithLabelValues(form, outcome).Inc()
}

func RecordStoreWrite(table string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = OutcomeError
	}
	storeWritesTotal.WithLabelValues(table, outcome).Inc()
}

func RecordEmailSend(template, outcome string) {
	emailSendsTotal.WithLabelValues(template, outcome).Inc()
}

func RecordEmailInQueueSuccess(template string) {
	emailQueueTotal.WithLabelValues(template, OutcomeSent).Inc()
}

func RecordEmailInQueueError(template string) {
	emailQueueTotal.WithLabelValues(template, OutcomeFailed).Inc()
}
