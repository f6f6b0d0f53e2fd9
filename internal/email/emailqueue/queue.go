package emailqueue

import (
	"context"
	"fmt"

	"github.com/solenergy/solenergy.com/internal/email"
	"github.com/solenergy/solenergy.com/internal/model"
)

type inserter interface {
	InsertQueuedEmail(
		context.Context, model.InsertQueuedEmailParams,
	) (int32, error)
}

/* Outbox persists failed sends in queued_emails for Run to retry. */
type Outbox struct {
	q inserter
}

func NewOutbox(q inserter) *Outbox {
	return &Outbox{q}
}

func (o *Outbox) Enqueue(
	ctx context.Context, m email.Message, sendErr error,
) error {
	var lasterr string
	if sendErr != nil {
		lasterr = sendErr.Error()
	}
	if _, err := o.q.InsertQueuedEmail(
		ctx,
		model.InsertQueuedEmailParams{
			FromAddr:  m.From,
			ToAddr:    m.To,
			ReplyTo:   model.NullString(m.ReplyTo),
			Subject:   m.Subject,
			HtmlBody:  m.Html,
			TextBody:  m.Text,
			Template:  m.Template,
			LastError: model.NullString(lasterr),
		},
	); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

func message(e *model.QueuedEmail) email.Message {
	return email.Message{
		From:     e.FromAddr,
		To:       e.ToAddr,
		ReplyTo:  e.ReplyTo.String,
		Subject:  e.Subject,
		Html:     e.HtmlBody,
		Text:     e.TextBody,
		Template: e.Template,
	}
}
