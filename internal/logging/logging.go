package logging

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const (
	requestIDKey = contextKey("requestID")
	loggerKey    = contextKey("logger")

	RequestIDHeader = "X-Request-ID"
)

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		/* retrieve existing or make new */
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), requestID)))
	})
}

/* WithRequestID stores requestID and a logger prefixed with it in ctx. */
func WithRequestID(ctx context.Context, requestID string) context.Context {
	logger := log.New(
		log.Writer(),
		fmt.Sprintf("[%s] ", requestID),
		log.LstdFlags,
	)
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return context.WithValue(ctx, loggerKey, logger)
}

func Logger(r *http.Request) *log.Logger {
	return FromContext(r.Context())
}

func FromContext(ctx context.Context) *log.Logger {
	logger, ok := ctx.Value(loggerKey).(*log.Logger)
	if !ok {
		return log.Default()
	}
	return logger
}

func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}
