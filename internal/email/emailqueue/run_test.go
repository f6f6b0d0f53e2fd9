package emailqueue

import (
	"context"
	"errors"
	"testing"

	"github.com/solenergy/solenergy.com/internal/email"
	"github.com/solenergy/solenergy.com/internal/model"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	emails   []model.QueuedEmail
	inserted []model.InsertQueuedEmailParams
	sent     []int32
	failed   []int32
	lasterr  map[int32]string
}

func newFakeQueue(emails ...model.QueuedEmail) *fakeQueue {
	return &fakeQueue{emails: emails, lasterr: map[int32]string{}}
}

func (q *fakeQueue) GetTopNQueuedEmails(
	_ context.Context, n int32,
) ([]model.QueuedEmail, error) {
	var pending []model.QueuedEmail
	for _, e := range q.emails {
		if e.Status == model.QueuedEmailStatusPending &&
			int32(len(pending)) < n {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

func (q *fakeQueue) find(id int32) *model.QueuedEmail {
	for i := range q.emails {
		if q.emails[i].ID == id {
			return &q.emails[i]
		}
	}
	return nil
}

func (q *fakeQueue) MarkQueuedEmailSent(_ context.Context, id int32) error {
	q.find(id).Status = model.QueuedEmailStatusSent
	q.sent = append(q.sent, id)
	return nil
}

func (q *fakeQueue) IncrementQueuedEmailFailCount(
	_ context.Context, arg model.IncrementQueuedEmailFailCountParams,
) (int32, error) {
	e := q.find(arg.ID)
	e.FailCount++
	q.lasterr[arg.ID] = arg.LastError.String
	return e.FailCount, nil
}

func (q *fakeQueue) MarkQueuedEmailFailed(_ context.Context, id int32) error {
	q.find(id).Status = model.QueuedEmailStatusFailed
	q.failed = append(q.failed, id)
	return nil
}

func (q *fakeQueue) InsertQueuedEmail(
	_ context.Context, arg model.InsertQueuedEmailParams,
) (int32, error) {
	q.inserted = append(q.inserted, arg)
	return int32(len(q.inserted)), nil
}

type fakeSender struct {
	sent []email.Message
	err  error
}

func (s *fakeSender) Send(_ context.Context, m email.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m)
	return nil
}

func pending(id int32, to string) model.QueuedEmail {
	return model.QueuedEmail{
		ID:       id,
		FromAddr: "hello@solenergy.co.za",
		ToAddr:   to,
		ReplyTo:  model.NullString("jane@example.com"),
		Subject:  "New contact request from Jane",
		HtmlBody: "<p>hi</p>",
		TextBody: "hi",
		Template: email.TemplateContactNotification,
		Status:   model.QueuedEmailStatusPending,
	}
}

var params = Params{MaxRetries: 3, BatchSize: 10}

func TestBatchSendsPending(t *testing.T) {
	q := newFakeQueue(
		pending(1, "admin@solenergy.co.za"),
		pending(2, "jane@example.com"),
	)
	s := &fakeSender{}

	require.NoError(t, runbatchtx(context.Background(), s, q, params))
	require.Equal(t, []int32{1, 2}, q.sent)
	require.Len(t, s.sent, 2)
	require.Equal(t, "admin@solenergy.co.za", s.sent[0].To)
	require.Equal(t, "jane@example.com", s.sent[0].ReplyTo)
	require.Equal(t, email.TemplateContactNotification, s.sent[0].Template)

	/* nothing left to do */
	s.sent = nil
	require.NoError(t, runbatchtx(context.Background(), s, q, params))
	require.Empty(t, s.sent)
}

func TestBatchRespectsSize(t *testing.T) {
	q := newFakeQueue(pending(1, "a@b.co"), pending(2, "c@d.co"))
	s := &fakeSender{}
	require.NoError(t, runbatchtx(
		context.Background(), s, q, Params{MaxRetries: 3, BatchSize: 1},
	))
	require.Equal(t, []int32{1}, q.sent)
}

func TestFailedSendsAreRetriedThenMarkedFailed(t *testing.T) {
	q := newFakeQueue(pending(1, "admin@solenergy.co.za"))
	s := &fakeSender{err: errors.New("provider down")}

	for i := 0; i < int(params.MaxRetries); i++ {
		require.NoError(t, runbatchtx(context.Background(), s, q, params))
	}
	require.Equal(t, int32(3), q.find(1).FailCount)
	require.Equal(t, model.QueuedEmailStatusFailed, q.find(1).Status)
	require.Equal(t, []int32{1}, q.failed)
	require.Equal(t, "provider down", q.lasterr[1])

	/* failed emails are no longer picked up */
	require.NoError(t, runbatchtx(context.Background(), s, q, params))
	require.Equal(t, int32(3), q.find(1).FailCount)
}

func TestOutboxEnqueue(t *testing.T) {
	q := newFakeQueue()
	o := NewOutbox(q)
	require.NoError(t, o.Enqueue(
		context.Background(),
		email.Message{
			From:     "hello@solenergy.co.za",
			To:       "admin@solenergy.co.za",
			Subject:  "New newsletter subscriber: jane@example.com",
			Html:     "<p>hi</p>",
			Text:     "hi",
			Template: email.TemplateNewsletterNotification,
		},
		errors.New("provider down"),
	))
	require.Len(t, q.inserted, 1)
	in := q.inserted[0]
	require.Equal(t, "admin@solenergy.co.za", in.ToAddr)
	require.False(t, in.ReplyTo.Valid)
	require.Equal(t, "provider down", in.LastError.String)
	require.Equal(t, email.TemplateNewsletterNotification, in.Template)
}

func TestRunRejectsBadParams(t *testing.T) {
	require.Error(t, Run(context.Background(), &fakeSender{}, nil, Params{}))
	require.Error(t, Run(
		context.Background(), &fakeSender{}, nil,
		Params{Period: 1, MaxRetries: 0, BatchSize: 1},
	))
}
