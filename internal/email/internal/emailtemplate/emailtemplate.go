package emailtemplate

import (
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"unicode"

	"github.com/solenergy/solenergy.com/internal/model"
)

type Template interface {
	Subject() string
	Render(model.EmailMode) (string, error)
}

/* Site is the brand block shown in every email. */
type Site struct {
	Name     string
	URL      string
	Phone    string
	WhatsApp string
}

func (s Site) WhatsAppLink() htmltemplate.URL { return whatsAppLink(s.WhatsApp) }
func (s Site) CallLink() htmltemplate.URL     { return callLink(s.Phone) }

var funcs = map[string]any{
	"join":      strings.Join,
	"prefLabel": prefLabel,
}

/* Every HTML body is rendered through html/template, so submitted values
 * are escaped wherever they land. Bodies define "content" inside the
 * layout. */
func exechtml(body string, data any) (string, error) {
	tmpl, err := htmltemplate.New("layout").Funcs(funcs).Parse(layoutHtml)
	if err != nil {
		return "", fmt.Errorf("cannot parse layout: %w", err)
	}
	if _, err := tmpl.Parse(body); err != nil {
		return "", fmt.Errorf("cannot parse: %w", err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("cannot execute: %w", err)
	}
	return b.String(), nil
}

func exectext(body string, data any) (string, error) {
	tmpl, err := texttemplate.New("layout").Funcs(funcs).Parse(layoutPlaintext)
	if err != nil {
		return "", fmt.Errorf("cannot parse layout: %w", err)
	}
	if _, err := tmpl.Parse(body); err != nil {
		return "", fmt.Errorf("cannot parse: %w", err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("cannot execute: %w", err)
	}
	return b.String(), nil
}

func render(mode model.EmailMode, html, text string, data any) (string, error) {
	switch mode {
	case model.EmailModeHtml:
		return exechtml(html, data)
	case model.EmailModePlaintext:
		return exectext(text, data)
	default:
		return "", fmt.Errorf("unknown email mode: %q", mode)
	}
}

/* SingleLine strips line breaks so a submitted value can be used in a
 * header such as Subject. */
func SingleLine(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == '\r' || r == '\n'
	}), " ")
}

func prefLabel(pref string) string {
	switch pref {
	case "email":
		return "Email"
	case "phone":
		return "Phone call"
	case "whatsapp":
		return "WhatsApp"
	default:
		return pref
	}
}

func digits(phone string, keepPlus bool) string {
	var b strings.Builder
	for i, r := range phone {
		if unicode.IsDigit(r) || (keepPlus && i == 0 && r == '+') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

/* Links below are built from digits only, which is why they may be marked
 * as trusted URLs; html/template would otherwise reject the tel: scheme. */
func callLink(phone string) htmltemplate.URL {
	d := digits(strings.TrimSpace(phone), true)
	if d == "" || d == "+" {
		return ""
	}
	return htmltemplate.URL("tel:" + d)
}

func whatsAppLink(phone string) htmltemplate.URL {
	d := digits(phone, false)
	if d == "" {
		return ""
	}
	return htmltemplate.URL("https://wa.me/" + d)
}

const layoutHtml = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{ .Site.Name }}</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f4f7f2;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f4f7f2;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 600px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 28px 32px; background-color: #14532d; border-radius: 8px 8px 0 0; text-align: center;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #facc15;">{{ .Site.Name }}</h1>
              <p style="margin: 6px 0 0; font-size: 13px; color: #d9f99d;">Clean energy solutions</p>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px; font-size: 15px; color: #1f2937; line-height: 1.6;">
{{ template "content" . }}
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px; font-size: 12px; color: #6b7280; text-align: center;">
              <p style="margin: 0 0 6px;"><a href="{{ .Site.URL }}" style="color: #14532d;">{{ .Site.URL }}</a></p>
              {{- if .Site.Phone }}
              <p style="margin: 0 0 6px;">Call us: <a href="{{ .Site.CallLink }}" style="color: #14532d;">{{ .Site.Phone }}</a></p>
              {{- end }}
              {{- if .Site.WhatsApp }}
              <p style="margin: 0;">WhatsApp: <a href="{{ .Site.WhatsAppLink }}" style="color: #14532d;">{{ .Site.WhatsApp }}</a></p>
              {{- end }}
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

const layoutPlaintext = `{{ template "content" . }}

---
{{ .Site.Name }}
{{ .Site.URL }}
{{- if .Site.Phone }}
Call us: {{ .Site.Phone }}
{{- end }}
{{- if .Site.WhatsApp }}
WhatsApp: {{ .Site.WhatsApp }}
{{- end }}
`
