package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/solenergy/solenergy.com/internal/analytics"
	"github.com/solenergy/solenergy.com/internal/config"
	"github.com/solenergy/solenergy.com/internal/email"
	"github.com/solenergy/solenergy.com/internal/logging"
	"github.com/solenergy/solenergy.com/internal/model"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	contacts    []model.InsertContactSubmissionParams
	subscribers []model.UpsertNewsletterSubscriberParams
	pingErr     error
	deadline    bool
}

func (s *fakeStore) InsertContactSubmission(
	ctx context.Context, arg model.InsertContactSubmissionParams,
) (uuid.UUID, error) {
	_, s.deadline = ctx.Deadline()
	s.contacts = append(s.contacts, arg)
	return uuid.New(), nil
}

func (s *fakeStore) UpsertNewsletterSubscriber(
	_ context.Context, arg model.UpsertNewsletterSubscriberParams,
) (model.UpsertNewsletterSubscriberRow, error) {
	s.subscribers = append(s.subscribers, arg)
	return model.UpsertNewsletterSubscriberRow{ID: uuid.New(), Created: true}, nil
}

func (s *fakeStore) Ping(context.Context) error { return s.pingErr }

type fakeSender struct{ sent []email.Message }

func (s *fakeSender) Send(_ context.Context, m email.Message) error {
	s.sent = append(s.sent, m)
	return nil
}

func newTestRouter(t *testing.T, store *fakeStore, s email.Sender) http.Handler {
	prev := config.Config
	t.Cleanup(func() { config.Config = prev })
	config.Config.Solenergy.OrganizationID = "org-test"

	return NewRouter(
		store,
		email.NewDispatcher(s, nil, email.Params{
			From:  "hello@solenergy.co.za",
			Admin: "admin@solenergy.co.za",
			Site:  email.Site{Name: "Solenergy"},
		}),
		analytics.NewMixpanelClientWrapper(""),
		time.Second,
	)
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
	return w
}

func TestRoutes(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{}
	h := newTestRouter(t, store, sender)

	w := do(h, "POST", "/api/contact", `{"name":"Jane","email":"jane@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":true}`, w.Body.String())
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.NotEmpty(t, w.Header().Get(logging.RequestIDHeader))
	require.Len(t, store.contacts, 1)
	require.Equal(t, "org-test", store.contacts[0].OrganizationID)
	require.True(t, store.deadline)

	w = do(h, "POST", "/api/newsletter", `{"email":"jane@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.subscribers, 1)
	require.Len(t, sender.sent, 4)
}

func TestRequestIDIsPropagated(t *testing.T) {
	h := newTestRouter(t, &fakeStore{}, &fakeSender{})
	r := httptest.NewRequest("POST", "/api/newsletter", strings.NewReader(`{}`))
	r.Header.Set(logging.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "req-123", w.Header().Get(logging.RequestIDHeader))
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestRouter(t, &fakeStore{}, &fakeSender{})

	w := do(h, "GET", "/api/nope", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"error":"Not found"}`, w.Body.String())

	for _, path := range []string{"/api/contact", "/api/newsletter"} {
		w = do(h, "GET", path, "")
		require.Equal(t, http.StatusMethodNotAllowed, w.Code, path)
		require.JSONEq(t, `{"error":"Method not allowed"}`, w.Body.String())
	}

	w = do(h, "POST", "/healthz", "")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHealth(t *testing.T) {
	store := &fakeStore{}
	h := newTestRouter(t, store, &fakeSender{})
	require.Equal(t, http.StatusOK, do(h, "GET", "/healthz", "").Code)

	store.pingErr = errors.New("down")
	w := do(h, "GET", "/healthz", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.JSONEq(t, `{"error":"Record store unavailable"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, &fakeStore{}, &fakeSender{})
	require.Equal(t, http.StatusOK, do(h, "GET", "/metrics", "").Code)
}

func TestMissingCredential(t *testing.T) {
	store := &fakeStore{}
	h := newTestRouter(t, store, email.NewSenderFromKey(""))

	w := do(h, "POST", "/api/contact", `{"name":"Jane","email":"jane@example.com"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Empty(t, store.contacts)

	w = do(h, "POST", "/api/newsletter", `{"email":"jane@example.com"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"error":"Failed to subscribe"}`, w.Body.String())
	require.Empty(t, store.subscribers)
}
