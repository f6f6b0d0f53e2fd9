package emailqueue

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/solenergy/solenergy.com/internal/assert"
	"github.com/solenergy/solenergy.com/internal/email"
	"github.com/solenergy/solenergy.com/internal/metrics"
	"github.com/solenergy/solenergy.com/internal/model"
)

type Params struct {
	Period     time.Duration
	MaxRetries int32
	BatchSize  int32
}

type queue interface {
	GetTopNQueuedEmails(context.Context, int32) ([]model.QueuedEmail, error)
	MarkQueuedEmailSent(context.Context, int32) error
	IncrementQueuedEmailFailCount(
		context.Context, model.IncrementQueuedEmailFailCountParams,
	) (int32, error)
	MarkQueuedEmailFailed(context.Context, int32) error
}

/* Run retries pending emails every period until ctx is done. A failed batch
 * is logged and the next tick tries again. */
func Run(
	ctx context.Context, sender email.Sender, s *model.Store, p Params,
) error {
	if p.Period <= 0 {
		return fmt.Errorf("no period")
	}
	if p.MaxRetries <= 0 || p.BatchSize <= 0 {
		return fmt.Errorf(
			"invalid queue params: max retries %d, batch size %d",
			p.MaxRetries, p.BatchSize,
		)
	}
	ticker := time.NewTicker(p.Period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if err := s.ExecTx(
			ctx,
			func(q *model.Queries) error {
				return runbatchtx(ctx, sender, q, p)
			},
		); err != nil {
			log.Printf("email queue batch error: %v\n", err)
		}
	}
}

func runbatchtx(
	ctx context.Context, sender email.Sender, q queue, p Params,
) error {
	emails, err := q.GetTopNQueuedEmails(ctx, p.BatchSize)
	if err != nil {
		return fmt.Errorf("get top N: %w", err)
	}
	for i := range emails {
		e := &emails[i]
		if err := process(ctx, sender, e, q, p); err != nil {
			return fmt.Errorf("process %d: %w", e.ID, err)
		}
	}
	return nil
}

func process(
	ctx context.Context, sender email.Sender, e *model.QueuedEmail,
	q queue, p Params,
) error {
	senderr := sender.Send(ctx, message(e))
	if senderr == nil {
		if err := q.MarkQueuedEmailSent(ctx, e.ID); err != nil {
			return fmt.Errorf("mark sent: %w", err)
		}
		metrics.RecordEmailInQueueSuccess(e.Template)
		return nil
	}
	metrics.RecordEmailInQueueError(e.Template)
	log.Printf("queued email %d send error: %v\n", e.ID, senderr)

	count, err := q.IncrementQueuedEmailFailCount(
		ctx,
		model.IncrementQueuedEmailFailCountParams{
			ID:        e.ID,
			LastError: model.NullString(senderr.Error()),
		},
	)
	if err != nil {
		return fmt.Errorf("fail count: %w", err)
	}
	/* the row is locked for the whole batch */
	assert.Printf(
		count == e.FailCount+1,
		"queued email %d: fail count %d after %d\n",
		e.ID, count, e.FailCount,
	)
	if count >= p.MaxRetries {
		if err := q.MarkQueuedEmailFailed(ctx, e.ID); err != nil {
			return fmt.Errorf("mark failed: %w", err)
		}
		log.Printf("queued email %d failed after %d tries\n", e.ID, count)
	}
	/* successfully incrementing the count or marking as failed is a
	 * failure to send but not a failure to *try* sending */
	return nil
}
