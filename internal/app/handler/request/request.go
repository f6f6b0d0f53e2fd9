package request

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/solenergy/solenergy.com/internal/analytics"
	"github.com/solenergy/solenergy.com/internal/logging"
)

/* form payloads are small; anything larger is not a real submission */
const maxBodyBytes = 64 << 10

type Request interface {
	Context() context.Context
	Logger() *log.Logger
	DecodeJSON(v any) error
	Track(event string, props map[string]any)
}

type request struct {
	r *http.Request

	logger   *log.Logger
	mixpanel *analytics.MixpanelClientWrapper
}

func NewRequest(
	r *http.Request, mixpanel *analytics.MixpanelClientWrapper,
) Request {
	return &request{r, logging.Logger(r), mixpanel}
}

func (r *request) Context() context.Context { return r.r.Context() }
func (r *request) Logger() *log.Logger       { return r.logger }

func (r *request) DecodeJSON(v any) error {
	b, err := io.ReadAll(io.LimitReader(r.r.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(b) > maxBodyBytes {
		return fmt.Errorf("body exceeds %d bytes", maxBodyBytes)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func (r *request) Track(event string, props map[string]any) {
	r.mixpanel.Track(r.r, event, props)
}
