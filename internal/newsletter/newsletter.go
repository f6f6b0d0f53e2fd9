package newsletter

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/solenergy/solenergy.com/internal/analytics"
	"github.com/solenergy/solenergy.com/internal/app/handler/request"
	"github.com/solenergy/solenergy.com/internal/app/handler/response"
	"github.com/solenergy/solenergy.com/internal/email"
	"github.com/solenergy/solenergy.com/internal/email/emailaddr"
	"github.com/solenergy/solenergy.com/internal/metrics"
	"github.com/solenergy/solenergy.com/internal/model"
	"github.com/solenergy/solenergy.com/internal/util"
)

const (
	table = "newsletter_subscribers"

	maxFieldLen = 200

	msgAlreadySubscribed = "Already subscribed."
	msgFailed            = "Failed to subscribe"
)

type store interface {
	UpsertNewsletterSubscriber(
		context.Context, model.UpsertNewsletterSubscriberParams,
	) (model.UpsertNewsletterSubscriberRow, error)
}

type notifier interface {
	Ready() error
	SendNewsletterWelcome(context.Context, email.Subscriber)
	SendNewsletterNotification(context.Context, email.Subscriber)
}

type NewsletterService struct {
	store          store
	notifier       notifier
	organizationID string
}

func NewNewsletterService(
	s store, n notifier, organizationID string,
) *NewsletterService {
	return &NewsletterService{s, n, organizationID}
}

type Payload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

/* validate normalizes the address and trims the optional fields */
func (p Payload) validate() (email.Subscriber, error) {
	addr := strings.TrimSpace(p.Email)
	if addr == "" {
		return email.Subscriber{}, util.CreateCustomError(
			"Email is required", http.StatusBadRequest,
		)
	}
	var reasons []string
	normalized, err := emailaddr.Normalize(addr)
	if err != nil || len(normalized) > maxFieldLen {
		reasons = append(reasons, "email is not a valid address")
	}
	sub := email.Subscriber{
		Email: normalized,
		Name:  strings.TrimSpace(p.Name),
		Phone: strings.TrimSpace(p.Phone),
	}
	if len([]rune(sub.Name)) > maxFieldLen {
		reasons = append(reasons, fmt.Sprintf(
			"name must be at most %d characters", maxFieldLen,
		))
	}
	if len([]rune(sub.Phone)) > maxFieldLen {
		reasons = append(reasons, fmt.Sprintf(
			"phone must be at most %d characters", maxFieldLen,
		))
	}
	if len(reasons) > 0 {
		return email.Subscriber{}, &util.ValidationError{Reasons: reasons}
	}
	return sub, nil
}

type subscribeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func failed(err error) error {
	return fmt.Errorf(
		"%w: %w",
		util.CreateCustomError(msgFailed, http.StatusInternalServerError),
		err,
	)
}

/* Subscribe handles POST /api/newsletter. Subscribing is idempotent: an
 * address already on the list gets "Already subscribed." and no emails. */
func (s *NewsletterService) Subscribe(
	r request.Request,
) (response.Response, error) {
	logger := r.Logger()
	ctx := r.Context()

	var p Payload
	if err := r.DecodeJSON(&p); err != nil {
		if mismatch, ok := util.TypeMismatch(err); ok {
			metrics.RecordFormSubmission(
				metrics.FormNewsletter, metrics.OutcomeInvalid,
			)
			return nil, mismatch
		}
		metrics.RecordFormSubmission(metrics.FormNewsletter, metrics.OutcomeError)
		return nil, failed(err)
	}
	sub, err := p.validate()
	if err != nil {
		metrics.RecordFormSubmission(metrics.FormNewsletter, metrics.OutcomeInvalid)
		return nil, err
	}
	if err := s.notifier.Ready(); err != nil {
		metrics.RecordFormSubmission(metrics.FormNewsletter, metrics.OutcomeError)
		return nil, failed(err)
	}

	row, err := s.store.UpsertNewsletterSubscriber(
		ctx,
		model.UpsertNewsletterSubscriberParams{
			OrganizationID: s.organizationID,
			Email:          sub.Email,
			Name:           model.NullString(sub.Name),
			Phone:          model.NullString(sub.Phone),
			Status:         model.SubscriberStatusActive,
		},
	)
	switch {
	case model.IsUniqueViolation(err):
		/* the row exists, which is the outcome the write was after */
		metrics.RecordStoreWrite(table, nil)
		logger.Printf("newsletter: %s unique violation\n", sub.Email)
		return alreadySubscribed()
	case err != nil:
		metrics.RecordStoreWrite(table, err)
		logger.Printf("newsletter: upsert error: %v\n", err)
		metrics.RecordFormSubmission(metrics.FormNewsletter, metrics.OutcomeError)
		return nil, failed(err)
	}
	metrics.RecordStoreWrite(table, nil)
	if !row.Created {
		logger.Printf("newsletter: %s already subscribed\n", sub.Email)
		return alreadySubscribed()
	}
	logger.Printf("newsletter: stored subscriber %s\n", row.ID)

	s.notifier.SendNewsletterWelcome(ctx, sub)
	s.notifier.SendNewsletterNotification(ctx, sub)

	metrics.RecordFormSubmission(metrics.FormNewsletter, metrics.OutcomeAccepted)
	r.Track(analytics.EventNewsletterSubscribed, nil)
	return response.NewJson(
		http.StatusOK, subscribeResponse{Success: true},
	)
}

func alreadySubscribed() (response.Response, error) {
	metrics.RecordFormSubmission(
		metrics.FormNewsletter, metrics.OutcomeAlreadySubscribed,
	)
	return response.NewJson(
		http.StatusOK,
		subscribeResponse{Success: true, Message: msgAlreadySubscribed},
	)
}
