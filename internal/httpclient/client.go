package httpclient

import (
	"net/http"
	"time"

	"github.com/solenergy/solenergy.com/internal/logging"
	"github.com/solenergy/solenergy.com/internal/metrics"
)

/* wrapper around standard client */
type Client struct {
	client *http.Client
}

func NewHttpClient(timeout time.Duration) *Client {
	return &Client{
		client: &http.Client{Timeout: timeout},
	}
}

/* sends request and returns response */
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()

	/* query strings carry filter values, keep them out of label values */
	target := req.URL.Host + req.URL.Path

	/* record downstream request */
	metrics.RecordClientRequest(req.Method, target)

	if id, ok := logging.RequestID(req.Context()); ok {
		req.Header.Set(logging.RequestIDHeader, id)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		/* record downstream error */
		metrics.RecordClientErrors(
			req.Method, target, "downstream_error",
		)
		return nil, err
	}

	/* record downstream success */
	if resp.StatusCode >= 400 {
		metrics.RecordClientErrors(
			req.Method,
			target,
			http.StatusText(resp.StatusCode),
		)
	} else {
		metrics.RecordClientSuccess(
			req.Method,
			target,
			http.StatusText(resp.StatusCode),
		)
	}

	/* record downstream call duration */
	duration := time.Since(start).Seconds()
	metrics.RecordClientDuration(
		req.Method,
		target,
		duration,
		http.StatusText(resp.StatusCode),
	)

	return resp, nil
}
