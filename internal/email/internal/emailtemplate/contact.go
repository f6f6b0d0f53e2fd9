package emailtemplate

import (
	"fmt"
	htmltemplate "html/template"
	"time"

	"github.com/solenergy/solenergy.com/internal/model"
)

/* Contact is a validated contact submission as the templates see it. Empty
 * strings are absent fields and their rows are left out. */
type Contact struct {
	Site        Site
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
	SubmittedAt time.Time
}

/* plain string: html/template still filters and escapes it inside href */
func (c Contact) ReplyLink() string { return "mailto:" + c.Email }

func (c Contact) CallLink() htmltemplate.URL     { return callLink(c.Phone) }
func (c Contact) WhatsAppLink() htmltemplate.URL { return whatsAppLink(c.Phone) }

func (c Contact) Submitted() string {
	return c.SubmittedAt.UTC().Format("2 Jan 2006, 15:04 MST")
}

type contactConfirmation struct{ Contact }

func NewContactConfirmation(c Contact) Template {
	return &contactConfirmation{c}
}

func (t *contactConfirmation) Subject() string {
	return fmt.Sprintf("Thank you for contacting %s", SingleLine(t.Site.Name))
}

func (t *contactConfirmation) Render(mode model.EmailMode) (string, error) {
	return render(
		mode, contactConfirmationHtml, contactConfirmationText, t.Contact,
	)
}

type contactNotification struct{ Contact }

func NewContactNotification(c Contact) Template {
	return &contactNotification{c}
}

func (t *contactNotification) Subject() string {
	return SingleLine(fmt.Sprintf("New contact request from %s", t.Name))
}

func (t *contactNotification) Render(mode model.EmailMode) (string, error) {
	return render(
		mode, contactNotificationHtml, contactNotificationText, t.Contact,
	)
}

const contactConfirmationHtml = `{{ define "content" }}
              <h2 style="margin: 0 0 16px; font-size: 20px; color: #14532d;">Thank you, {{ .Name }}!</h2>
              <p style="margin: 0 0 16px;">We have received your request and one of our energy consultants will be in touch shortly{{ if .ContactPref }} by {{ prefLabel .ContactPref }}{{ end }}.</p>
              <p style="margin: 0 0 8px; font-weight: 600;">Here is a summary of what you sent us:</p>
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="margin: 0 0 24px; font-size: 14px;">
                <tr><td style="padding: 6px 0; color: #6b7280; width: 40%;">Name</td><td style="padding: 6px 0;">{{ .Name }}</td></tr>
                <tr><td style="padding: 6px 0; color: #6b7280;">Email</td><td style="padding: 6px 0;">{{ .Email }}</td></tr>
                {{- if .Phone }}
                <tr><td style="padding: 6px 0; color: #6b7280;">Phone</td><td style="padding: 6px 0;">{{ .Phone }}</td></tr>
                {{- end }}
                {{- if .City }}
                <tr><td style="padding: 6px 0; color: #6b7280;">City</td><td style="padding: 6px 0;">{{ .City }}</td></tr>
                {{- end }}
                {{- if .Property }}
                <tr><td style="padding: 6px 0; color: #6b7280;">Property type</td><td style="padding: 6px 0;">{{ .Property }}</td></tr>
                {{- end }}
                {{- if .Solutions }}
                <tr><td style="padding: 6px 0; color: #6b7280;">Solutions of interest</td><td style="padding: 6px 0;">{{ join .Solutions ", " }}</td></tr>
                {{- end }}
                {{- if .Reason }}
                <tr><td style="padding: 6px 0; color: #6b7280;">Reason</td><td style="padding: 6px 0;">{{ .Reason }}</td></tr>
                {{- end }}
                {{- if .Budget }}
                <tr><td style="padding: 6px 0; color: #6b7280;">Budget</td><td style="padding: 6px 0;">{{ .Budget }}</td></tr>
                {{- end }}
              </table>
              {{- if .Message }}
              <p style="margin: 0 0 8px; font-weight: 600;">Your message</p>
              <p style="margin: 0 0 24px; padding: 16px; background-color: #f4f7f2; border-left: 4px solid #facc15; white-space: pre-wrap;">{{ .Message }}</p>
              {{- end }}
              <p style="margin: 0 0 16px;">While you wait, take a look at our recent installations on <a href="{{ .Site.URL }}" style="color: #14532d;">our website</a>.</p>
              <p style="margin: 0;">Warm regards,<br>The {{ .Site.Name }} team</p>
{{ end }}`

const contactConfirmationText = `{{ define "content" -}}
Thank you, {{ .Name }}!

We have received your request and one of our energy consultants will be in touch shortly{{ if .ContactPref }} by {{ prefLabel .ContactPref }}{{ end }}.

Here is a summary of what you sent us:

Name: {{ .Name }}
Email: {{ .Email }}
{{- if .Phone }}
Phone: {{ .Phone }}
{{- end }}
{{- if .City }}
City: {{ .City }}
{{- end }}
{{- if .Property }}
Property type: {{ .Property }}
{{- end }}
{{- if .Solutions }}
Solutions of interest: {{ join .Solutions ", " }}
{{- end }}
{{- if .Reason }}
Reason: {{ .Reason }}
{{- end }}
{{- if .Budget }}
Budget: {{ .Budget }}
{{- end }}
{{- if .Message }}

Your message:
{{ .Message }}
{{- end }}

Warm regards,
The {{ .Site.Name }} team
{{- end }}`

const contactNotificationHtml = `{{ define "content" }}
              <h2 style="margin: 0 0 8px; font-size: 20px; color: #14532d;">New contact request</h2>
              <p style="margin: 0 0 24px; font-size: 13px; color: #6b7280;">Received {{ .Submitted }}</p>
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="margin: 0 0 24px; font-size: 14px;">
                <tr><td style="padding: 6px 0; color: #6b7280; width: 40%;">Name</td><td style="padding: 6px 0; font-weight: 600;">{{ .Name }}</td></tr>
                <tr><td style="padding: 6px 0; color: #6b7280;">Email</td><td style="padding: 6px 0;"><a href="{{ .ReplyLink }}" style="color: #14532d;">{{ .Email }}</a></td></tr>
                {{- if .Phone }}
                <tr><td style="padding: 6px 0; color: #6b7280;">Phone</td><td style="padding: 6px 0;">{{ .Phone }}</td></tr>
                {{- end }}
                {{- if .ContactPref }}
                <tr><td style="padding: 6px 0; color: #6b7280;">Preferred contact</td><td style="padding: 6px 0;">{{ prefLabel .ContactPref }}</td></tr>
                {{- end }}
                {{- if .City }}
                <tr><td style="padding: 6px 0; color: #6b7280;">City</td><td style="padding: 6px 0;">{{ .City }}</td></tr>
                {{- end }}
                {{- if .Property }}
                <tr><td style="padding: 6px 0; color: #6b7280;">Property type</td><td style="padding: 6px 0;">{{ .Property }}</td></tr>
                {{- end }}
                {{- if .Solutions }}
                <tr><td style="padding: 6px 0; color: #6b7280;">Solutions</td><td style="padding: 6px 0;">{{ join .Solutions ", " }}</td></tr>
                {{- end }}
                {{- if .Reason }}
                <tr><td style="padding: 6px 0; color: #6b7280;">Reason</td><td style="padding: 6px 0;">{{ .Reason }}</td></tr>
                {{- end }}
                {{- if .Budget }}
                <tr><td style="padding: 6px 0; color: #6b7280;">Budget</td><td style="padding: 6px 0;">{{ .Budget }}</td></tr>
                {{- end }}
              </table>
              {{- if .Message }}
              <p style="margin: 0 0 8px; font-weight: 600;">Message</p>
              <p style="margin: 0 0 24px; padding: 16px; background-color: #f4f7f2; border-left: 4px solid #14532d; white-space: pre-wrap;">{{ .Message }}</p>
              {{- end }}
              <p style="margin: 0;">
                <a href="{{ .ReplyLink }}" style="display: inline-block; margin: 0 8px 8px 0; padding: 10px 18px; background-color: #14532d; color: #ffffff; text-decoration: none; border-radius: 6px;">Reply by email</a>
                {{- if .Phone }}
                <a href="{{ .CallLink }}" style="display: inline-block; margin: 0 8px 8px 0; padding: 10px 18px; background-color: #facc15; color: #14532d; text-decoration: none; border-radius: 6px;">Call</a>
                <a href="{{ .WhatsAppLink }}" style="display: inline-block; margin: 0 8px 8px 0; padding: 10px 18px; background-color: #25d366; color: #ffffff; text-decoration: none; border-radius: 6px;">WhatsApp</a>
                {{- end }}
              </p>
{{ end }}`

const contactNotificationText = `{{ define "content" -}}
New contact request
Received {{ .Submitted }}

Name: {{ .Name }}
Email: {{ .Email }}
{{- if .Phone }}
Phone: {{ .Phone }}
{{- end }}
{{- if .ContactPref }}
Preferred contact: {{ prefLabel .ContactPref }}
{{- end }}
{{- if .City }}
City: {{ .City }}
{{- end }}
{{- if .Property }}
Property type: {{ .Property }}
{{- end }}
{{- if .Solutions }}
Solutions: {{ join .Solutions ", " }}
{{- end }}
{{- if .Reason }}
Reason: {{ .Reason }}
{{- end }}
{{- if .Budget }}
Budget: {{ .Budget }}
{{- end }}
{{- if .Message }}

Message:
{{ .Message }}
{{- end }}

Reply: mailto:{{ .Email }}
{{- if .Phone }}
Call: {{ .CallLink }}
WhatsApp: {{ .WhatsAppLink }}
{{- end }}
{{- end }}`
