package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

/* Message is a fully rendered email, ready for the provider or the queue. */
type Message struct {
	From     string
	To       string
	ReplyTo  string
	Subject  string
	Html     string
	Text     string
	Template string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

var ErrNotConfigured = errors.New("email sender not configured: missing resend api key")

type resendSender struct {
	client *resend.Client
}

/* NewResendSender fails when apiKey is empty; there is no fallback key. */
func NewResendSender(apiKey string) (Sender, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	return &resendSender{resend.NewClient(apiKey)}, nil
}

func (s *resendSender) Send(ctx context.Context, m Message) error {
	req := &resend.SendEmailRequest{
		From:    m.From,
		To:      []string{m.To},
		Subject: m.Subject,
		Html:    m.Html,
		Text:    m.Text,
		ReplyTo: m.ReplyTo,
	}
	if m.Template != "" {
		req.Tags = []resend.Tag{{Name: "template", Value: m.Template}}
	}
	resp, err := s.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	if resp == nil || resp.Id == "" {
		return fmt.Errorf("resend: no message id returned")
	}
	return nil
}

/* unconfigured stands in for the provider when no key is set so the
 * service still boots; every send fails with ErrNotConfigured. */
type unconfigured struct{}

func (unconfigured) Send(context.Context, Message) error { return ErrNotConfigured }

/* NewSenderFromKey never fails; use Ready on the resulting Dispatcher to
 * learn whether sends can succeed. */
func NewSenderFromKey(apiKey string) Sender {
	s, err := NewResendSender(apiKey)
	if err != nil {
		return unconfigured{}
	}
	return s
}
