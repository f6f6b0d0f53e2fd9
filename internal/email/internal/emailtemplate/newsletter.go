package emailtemplate

import (
	"fmt"
	"time"

	"github.com/solenergy/solenergy.com/internal/model"
)

type Subscriber struct {
	Site         Site
	Email        string
	Name         string
	Phone        string
	SubscribedAt time.Time
}

func (s Subscriber) Submitted() string {
	return s.SubscribedAt.UTC().Format("2 Jan 2006, 15:04 MST")
}

type newsletterWelcome struct{ Subscriber }

func NewNewsletterWelcome(s Subscriber) Template {
	return &newsletterWelcome{s}
}

func (t *newsletterWelcome) Subject() string {
	return fmt.Sprintf(
		"Welcome to the %s newsletter", SingleLine(t.Site.Name),
	)
}

func (t *newsletterWelcome) Render(mode model.EmailMode) (string, error) {
	return render(
		mode, newsletterWelcomeHtml, newsletterWelcomeText, t.Subscriber,
	)
}

type newsletterNotification struct{ Subscriber }

func NewNewsletterNotification(s Subscriber) Template {
	return &newsletterNotification{s}
}

func (t *newsletterNotification) Subject() string {
	return SingleLine(fmt.Sprintf("New newsletter subscriber: %s", t.Email))
}

func (t *newsletterNotification) Render(mode model.EmailMode) (string, error) {
	return render(
		mode, newsletterNotificationHtml, newsletterNotificationText,
		t.Subscriber,
	)
}

const newsletterWelcomeHtml = `{{ define "content" }}
              <h2 style="margin: 0 0 16px; font-size: 20px; color: #14532d;">Welcome{{ if .Name }}, {{ .Name }}{{ end }}!</h2>
              <p style="margin: 0 0 16px;">Thank you for subscribing to the {{ .Site.Name }} newsletter.</p>
              <p style="margin: 0 0 8px;">You can look forward to:</p>
              <ul style="margin: 0 0 24px; padding-left: 20px;">
                <li>Practical tips for cutting your electricity bill</li>
                <li>News on solar, battery storage and backup power</li>
                <li>Case studies from our latest installations</li>
              </ul>
              <p style="margin: 0 0 24px;"><a href="{{ .Site.URL }}" style="display: inline-block; padding: 10px 18px; background-color: #14532d; color: #ffffff; text-decoration: none; border-radius: 6px;">Visit our website</a></p>
              <p style="margin: 0;">The {{ .Site.Name }} team</p>
{{ end }}`

const newsletterWelcomeText = `{{ define "content" -}}
Welcome{{ if .Name }}, {{ .Name }}{{ end }}!

Thank you for subscribing to the {{ .Site.Name }} newsletter.

You can look forward to:
- Practical tips for cutting your electricity bill
- News on solar, battery storage and backup power
- Case studies from our latest installations

The {{ .Site.Name }} team
{{- end }}`

const newsletterNotificationHtml = `{{ define "content" }}
              <h2 style="margin: 0 0 8px; font-size: 20px; color: #14532d;">New newsletter subscriber</h2>
              <p style="margin: 0 0 24px; font-size: 13px; color: #6b7280;">Subscribed {{ .Submitted }}</p>
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="font-size: 14px;">
                <tr><td style="padding: 6px 0; color: #6b7280; width: 40%;">Email</td><td style="padding: 6px 0; font-weight: 600;">{{ .Email }}</td></tr>
                {{- if .Name }}
                <tr><td style="padding: 6px 0; color: #6b7280;">Name</td><td style="padding: 6px 0;">{{ .Name }}</td></tr>
                {{- end }}
                {{- if .Phone }}
                <tr><td style="padding: 6px 0; color: #6b7280;">Phone</td><td style="padding: 6px 0;">{{ .Phone }}</td></tr>
                {{- end }}
              </table>
{{ end }}`

const newsletterNotificationText = `{{ define "content" -}}
New newsletter subscriber
Subscribed {{ .Submitted }}

Email: {{ .Email }}
{{- if .Name }}
Name: {{ .Name }}
{{- end }}
{{- if .Phone }}
Phone: {{ .Phone }}
{{- end }}
{{- end }}`
