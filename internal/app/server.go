package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/solenergy/solenergy.com/internal/analytics"
	"github.com/solenergy/solenergy.com/internal/app/handler"
	"github.com/solenergy/solenergy.com/internal/app/handler/request"
	"github.com/solenergy/solenergy.com/internal/app/handler/response"
	"github.com/solenergy/solenergy.com/internal/config"
	"github.com/solenergy/solenergy.com/internal/contact"
	"github.com/solenergy/solenergy.com/internal/email"
	"github.com/solenergy/solenergy.com/internal/logging"
	"github.com/solenergy/solenergy.com/internal/metrics"
	"github.com/solenergy/solenergy.com/internal/model"
	"github.com/solenergy/solenergy.com/internal/newsletter"
	"github.com/solenergy/solenergy.com/internal/util"
)

/* RecordStore is satisfied by both *model.Store and *supabase.Client. */
type RecordStore interface {
	InsertContactSubmission(
		context.Context, model.InsertContactSubmissionParams,
	) (uuid.UUID, error)
	UpsertNewsletterSubscriber(
		context.Context, model.UpsertNewsletterSubscriberParams,
	) (model.UpsertNewsletterSubscriberRow, error)
	Ping(context.Context) error
}

type server struct {
	store    RecordStore
	mixpanel *analytics.MixpanelClientWrapper
}

/* NewRouter returns the full handler chain: logging, metrics and a
 * per-request deadline in front of the routes. */
func NewRouter(
	store RecordStore, dispatcher *email.Dispatcher,
	mixpanel *analytics.MixpanelClientWrapper, requestTimeout time.Duration,
) http.Handler {
	s := &server{store, mixpanel}

	contactService := contact.NewContactService(
		store, dispatcher, config.Config.Solenergy.OrganizationID,
	)
	newsletterService := newsletter.NewNewsletterService(
		store, dispatcher, config.Config.Solenergy.OrganizationID,
	)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handler.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handler.MethodNotAllowed)

	/* subrouters do not fall back to the root's error handlers */
	api := r.PathPrefix("/api").Subrouter()
	api.NotFoundHandler = r.NotFoundHandler
	api.MethodNotAllowedHandler = r.MethodNotAllowedHandler
	api.Use(timeoutMiddleware(requestTimeout))
	api.HandleFunc(
		"/contact", handler.AsHttp(contactService.Submit, mixpanel),
	).Methods("POST")
	api.HandleFunc(
		"/newsletter", handler.AsHttp(newsletterService.Subscribe, mixpanel),
	).Methods("POST")

	r.HandleFunc("/healthz", handler.AsHttp(s.health, mixpanel)).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	return logging.Middleware(metrics.MetricsMiddleware(r))
}

func timeoutMiddleware(d time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *server) health(r request.Request) (response.Response, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		return nil, fmt.Errorf(
			"%w: %w",
			util.CreateCustomError(
				"Record store unavailable", http.StatusServiceUnavailable,
			),
			err,
		)
	}
	return response.NewEmpty(http.StatusOK), nil
}

/* Serve listens until ctx is done and then shuts down gracefully. */
func Serve(ctx context.Context, h http.Handler) error {
	params := config.Config.Server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", params.Port),
		Handler:      h,
		ReadTimeout:  params.ReadTimeout,
		WriteTimeout: params.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("listening at http://localhost:%d...\n", params.Port)
		if err := srv.ListenAndServe(); !errors.Is(
			err, http.ErrServerClosed,
		) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), params.ShutdownTimeout,
	)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
