package contact

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/solenergy/solenergy.com/internal/analytics"
	"github.com/solenergy/solenergy.com/internal/app/handler/request"
	"github.com/solenergy/solenergy.com/internal/app/handler/response"
	"github.com/solenergy/solenergy.com/internal/email"
	"github.com/solenergy/solenergy.com/internal/metrics"
	"github.com/solenergy/solenergy.com/internal/model"
	"github.com/solenergy/solenergy.com/internal/util"
)

const table = "contact_form_submissions"

type store interface {
	InsertContactSubmission(
		context.Context, model.InsertContactSubmissionParams,
	) (uuid.UUID, error)
}

type notifier interface {
	Ready() error
	SendContactConfirmation(context.Context, email.Contact)
	SendContactNotification(context.Context, email.Contact)
}

type ContactService struct {
	store          store
	notifier       notifier
	organizationID string
}

func NewContactService(
	s store, n notifier, organizationID string,
) *ContactService {
	return &ContactService{s, n, organizationID}
}

type successResponse struct {
	Success bool `json:"success"`
}

func success() (response.Response, error) {
	return response.NewJson(http.StatusOK, successResponse{Success: true})
}

/* Submit handles POST /api/contact. Only a malformed body, a missing email
 * credential or an invalid payload fail the request; storage and email
 * failures are logged and the visitor still gets success. */
func (s *ContactService) Submit(r request.Request) (response.Response, error) {
	logger := r.Logger()
	ctx := r.Context()

	/* a type mismatch still decodes the rest of the body, honeypot included */
	var p Payload
	err := r.DecodeJSON(&p)
	mismatch, isMismatch := util.TypeMismatch(err)
	if err != nil && !isMismatch {
		metrics.RecordFormSubmission(metrics.FormContact, metrics.OutcomeError)
		return nil, fmt.Errorf(
			"%w: %w",
			util.CreateCustomError(
				"Malformed request body", http.StatusInternalServerError,
			),
			err,
		)
	}
	if p.Honeypot.Filled() {
		logger.Println("contact: honeypot filled, dropping submission")
		metrics.RecordFormSubmission(metrics.FormContact, metrics.OutcomeHoneypot)
		return success()
	}
	if err := s.notifier.Ready(); err != nil {
		metrics.RecordFormSubmission(metrics.FormContact, metrics.OutcomeError)
		return nil, fmt.Errorf(
			"%w: %w",
			util.CreateCustomError(
				"Email service is not configured",
				http.StatusInternalServerError,
			),
			err,
		)
	}
	if isMismatch {
		metrics.RecordFormSubmission(metrics.FormContact, metrics.OutcomeInvalid)
		return nil, mismatch
	}
	sub, err := p.Validate()
	if err != nil {
		metrics.RecordFormSubmission(metrics.FormContact, metrics.OutcomeInvalid)
		return nil, err
	}

	s.insert(ctx, r, sub)

	s.notifier.SendContactConfirmation(ctx, sub.emailContact())
	s.notifier.SendContactNotification(ctx, sub.emailContact())

	metrics.RecordFormSubmission(metrics.FormContact, metrics.OutcomeAccepted)
	r.Track(analytics.EventContactSubmitted, map[string]any{
		"contact_pref": string(sub.ContactPref),
		"solutions":    len(sub.Solutions),
	})
	return success()
}

/* insert is best effort: losing the row is preferred over not notifying */
func (s *ContactService) insert(
	ctx context.Context, r request.Request, sub Submission,
) {
	logger := r.Logger()
	params, err := sub.insertParams(s.organizationID)
	if err != nil {
		logger.Printf("contact: metadata error: %v\n", err)
		metrics.RecordStoreWrite(table, err)
		return
	}
	id, err := s.store.InsertContactSubmission(ctx, params)
	metrics.RecordStoreWrite(table, err)
	if err != nil {
		logger.Printf("contact: insert error: %v\n", err)
		return
	}
	logger.Printf("contact: stored submission %s\n", id)
}
