package email

import (
	"context"
	"fmt"
	"time"

	"github.com/solenergy/solenergy.com/internal/email/emailaddr"
	"github.com/solenergy/solenergy.com/internal/email/internal/emailtemplate"
	"github.com/solenergy/solenergy.com/internal/logging"
	"github.com/solenergy/solenergy.com/internal/metrics"
	"github.com/solenergy/solenergy.com/internal/model"
)

const (
	TemplateContactConfirmation    = "contact_confirmation"
	TemplateContactNotification    = "contact_notification"
	TemplateNewsletterWelcome      = "newsletter_welcome"
	TemplateNewsletterNotification = "newsletter_notification"
)

/* Outbox keeps a message whose send failed so it can be retried later. */
type Outbox interface {
	Enqueue(ctx context.Context, m Message, sendErr error) error
}

type Site struct {
	Name     string
	URL      string
	Phone    string
	WhatsApp string
}

type Params struct {
	From    string
	Admin   string
	ReplyTo string
	Site    Site
}

type Contact struct {
	Name        string
	Email       string
	Phone       string
	Message     string
	City        string
	Reason      string
	Budget      string
	ContactPref string
	Property    string
	Solutions   []string
}

type Subscriber struct {
	Email string
	Name  string
	Phone string
}

/* Dispatcher renders and sends the confirmation and notification emails.
 * Its Send methods never fail from the caller's point of view: every
 * outcome is logged and counted and a failed send is handed to the outbox
 * when one is set. */
type Dispatcher struct {
	sender Sender
	outbox Outbox
	params Params
	now    func() time.Time
}

func NewDispatcher(s Sender, outbox Outbox, p Params) *Dispatcher {
	return &Dispatcher{sender: s, outbox: outbox, params: p, now: time.Now}
}

/* Ready reports whether the underlying sender has credentials. */
func (d *Dispatcher) Ready() error {
	if _, ok := d.sender.(unconfigured); ok {
		return ErrNotConfigured
	}
	return nil
}

func (d *Dispatcher) site() emailtemplate.Site {
	return emailtemplate.Site(d.params.Site)
}

func (d *Dispatcher) contact(c Contact) emailtemplate.Contact {
	return emailtemplate.Contact{
		Site:        d.site(),
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Message:     c.Message,
		City:        c.City,
		Reason:      c.Reason,
		Budget:      c.Budget,
		ContactPref: c.ContactPref,
		Property:    c.Property,
		Solutions:   c.Solutions,
		SubmittedAt: d.now(),
	}
}

func (d *Dispatcher) subscriber(s Subscriber) emailtemplate.Subscriber {
	return emailtemplate.Subscriber{
		Site:         d.site(),
		Email:        s.Email,
		Name:         s.Name,
		Phone:        s.Phone,
		SubscribedAt: d.now(),
	}
}

func (d *Dispatcher) SendContactConfirmation(ctx context.Context, c Contact) {
	d.dispatch(
		ctx, TemplateContactConfirmation,
		emailtemplate.NewContactConfirmation(d.contact(c)),
		emailaddr.NewAddr(c.Email), d.params.ReplyTo,
	)
}

/* replies to the admin notification go straight to the submitter */
func (d *Dispatcher) SendContactNotification(ctx context.Context, c Contact) {
	d.dispatch(
		ctx, TemplateContactNotification,
		emailtemplate.NewContactNotification(d.contact(c)),
		emailaddr.NewAddr(d.params.Admin), c.Email,
	)
}

func (d *Dispatcher) SendNewsletterWelcome(ctx context.Context, s Subscriber) {
	d.dispatch(
		ctx, TemplateNewsletterWelcome,
		emailtemplate.NewNewsletterWelcome(d.subscriber(s)),
		emailaddr.NewAddr(s.Email), d.params.ReplyTo,
	)
}

func (d *Dispatcher) SendNewsletterNotification(
	ctx context.Context, s Subscriber,
) {
	d.dispatch(
		ctx, TemplateNewsletterNotification,
		emailtemplate.NewNewsletterNotification(d.subscriber(s)),
		emailaddr.NewAddr(d.params.Admin), s.Email,
	)
}

func (d *Dispatcher) dispatch(
	ctx context.Context, name string, tmpl emailtemplate.Template,
	to emailaddr.EmailAddr, replyTo string,
) {
	logger := logging.FromContext(ctx)

	m, err := d.build(name, tmpl, to, replyTo)
	if err != nil {
		logger.Printf("%s: render error: %v\n", name, err)
		metrics.RecordEmailSend(name, metrics.OutcomeFailed)
		return
	}
	if err := d.sender.Send(ctx, m); err != nil {
		logger.Printf("%s to %s failed: %v\n", name, to.Email(), err)
		metrics.RecordEmailSend(name, metrics.OutcomeFailed)
		d.enqueue(ctx, m, err)
		return
	}
	logger.Printf("%s sent to %s\n", name, to.Email())
	metrics.RecordEmailSend(name, metrics.OutcomeSent)
}

func (d *Dispatcher) enqueue(ctx context.Context, m Message, sendErr error) {
	if d.outbox == nil {
		return
	}
	logger := logging.FromContext(ctx)
	/* the request may be about to time out; the outbox write must not */
	if err := d.outbox.Enqueue(
		context.WithoutCancel(ctx), m, sendErr,
	); err != nil {
		logger.Printf("%s: enqueue error: %v\n", m.Template, err)
		return
	}
	logger.Printf("%s to %s queued for retry\n", m.Template, m.To)
	metrics.RecordEmailSend(m.Template, metrics.OutcomeQueued)
}

func (d *Dispatcher) build(
	name string, tmpl emailtemplate.Template, to emailaddr.EmailAddr,
	replyTo string,
) (Message, error) {
	html, err := tmpl.Render(model.EmailModeHtml)
	if err != nil {
		return Message{}, fmt.Errorf("html: %w", err)
	}
	text, err := tmpl.Render(model.EmailModePlaintext)
	if err != nil {
		return Message{}, fmt.Errorf("plaintext: %w", err)
	}
	return Message{
		From:     d.params.From,
		To:       to.Addr(),
		ReplyTo:  replyTo,
		Subject:  tmpl.Subject(),
		Html:     html,
		Text:     text,
		Template: name,
	}, nil
}
