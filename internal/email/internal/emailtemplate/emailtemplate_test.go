package emailtemplate

import (
	"testing"
	"time"

	"github.com/solenergy/solenergy.com/internal/model"
	"github.com/stretchr/testify/require"
)

var site = Site{Name: "Solenergy", URL: "https://solenergy.co.za"}

func jane() Contact {
	return Contact{
		Site:        site,
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		Message:     "Interested in solar",
		Solutions:   []string{"Solar Panels"},
		SubmittedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func renderBoth(t *testing.T, tmpl Template) (string, string) {
	html, err := tmpl.Render(model.EmailModeHtml)
	require.NoError(t, err)
	text, err := tmpl.Render(model.EmailModePlaintext)
	require.NoError(t, err)
	return html, text
}

func TestContactConfirmationOmitsAbsentRows(t *testing.T) {
	html, text := renderBoth(t, NewContactConfirmation(jane()))
	for _, body := range []string{html, text} {
		require.Contains(t, body, "Jane Doe")
		require.Contains(t, body, "Solar Panels")
		require.Contains(t, body, "Interested in solar")
		require.NotContains(t, body, "Phone")
		require.NotContains(t, body, "City")
		require.NotContains(t, body, "Budget")
	}

	c := jane()
	c.Phone = "082 123 4567"
	html, text = renderBoth(t, NewContactConfirmation(c))
	require.Contains(t, html, "Phone")
	require.Contains(t, html, "082 123 4567")
	require.Contains(t, text, "Phone: 082 123 4567")
}

func TestContactTemplatesEscapeSubmittedValues(t *testing.T) {
	c := jane()
	c.Name = `<script>alert("x")</script>`
	c.Message = `<a href="https://evil.example">click</a>`

	for _, tmpl := range []Template{
		NewContactConfirmation(c), NewContactNotification(c),
	} {
		html, err := tmpl.Render(model.EmailModeHtml)
		require.NoError(t, err)
		require.NotContains(t, html, "<script>")
		require.NotContains(t, html, `<a href="https://evil.example">`)
		require.Contains(t, html, "&lt;script&gt;")
	}
}

func TestContactNotificationQuickLinks(t *testing.T) {
	c := jane()
	html, _ := renderBoth(t, NewContactNotification(c))
	require.Contains(t, html, `href="mailto:jane@example.com"`)
	require.NotContains(t, html, "tel:")
	require.NotContains(t, html, "wa.me")

	c.Phone = "+27 82 123 4567"
	c.ContactPref = "whatsapp"
	html, text := renderBoth(t, NewContactNotification(c))
	require.Contains(t, html, `href="tel:&#43;27821234567"`)
	require.Contains(t, html, `href="https://wa.me/27821234567"`)
	require.Contains(t, html, "WhatsApp")
	require.Contains(t, text, "Call: tel:+27821234567")
	require.Contains(t, text, "Preferred contact: WhatsApp")
}

func TestSubjectsAreSingleLine(t *testing.T) {
	c := jane()
	c.Name = "Jane\r\nBcc: victim@example.com"
	require.Equal(
		t,
		"New contact request from Jane Bcc: victim@example.com",
		NewContactNotification(c).Subject(),
	)
	require.Equal(
		t,
		"Thank you for contacting Solenergy",
		NewContactConfirmation(c).Subject(),
	)
}

func TestNewsletterTemplates(t *testing.T) {
	s := Subscriber{Site: site, Email: "jane@example.com"}
	html, text := renderBoth(t, NewNewsletterWelcome(s))
	require.Contains(t, html, "Welcome!")
	require.Contains(t, text, "Welcome!")

	s.Name = "Jane"
	html, _ = renderBoth(t, NewNewsletterWelcome(s))
	require.Contains(t, html, "Welcome, Jane!")

	html, text = renderBoth(t, NewNewsletterNotification(s))
	require.Contains(t, html, "jane@example.com")
	require.Contains(t, text, "Name: Jane")
	require.NotContains(t, text, "Phone")
	require.Equal(
		t,
		"New newsletter subscriber: jane@example.com",
		NewNewsletterNotification(s).Subject(),
	)
}

func TestFooter(t *testing.T) {
	s := Subscriber{
		Site: Site{
			Name: "Solenergy", URL: "https://solenergy.co.za",
			Phone: "010 500 1234", WhatsApp: "+27 82 000 1111",
		},
		Email: "jane@example.com",
	}
	html, text := renderBoth(t, NewNewsletterWelcome(s))
	require.Contains(t, html, `href="tel:0105001234"`)
	require.Contains(t, html, `href="https://wa.me/27820001111"`)
	require.Contains(t, text, "Call us: 010 500 1234")
	require.Contains(t, text, "WhatsApp: +27 82 000 1111")
}

func TestUnknownMode(t *testing.T) {
	_, err := NewNewsletterWelcome(Subscriber{Site: site}).Render("pdf")
	require.Error(t, err)
}
