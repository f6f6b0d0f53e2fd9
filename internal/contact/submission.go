package contact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/solenergy/solenergy.com/internal/email"
	"github.com/solenergy/solenergy.com/internal/email/emailaddr"
	"github.com/solenergy/solenergy.com/internal/model"
	"github.com/solenergy/solenergy.com/internal/util"
)

const (
	maxMessageLen = 5000
	maxFieldLen   = 200
)

type ContactPref string

const (
	ContactPrefEmail    ContactPref = "email"
	ContactPrefPhone    ContactPref = "phone"
	ContactPrefWhatsApp ContactPref = "whatsapp"
)

func parseContactPref(s string) (ContactPref, bool) {
	switch p := ContactPref(strings.ToLower(s)); p {
	case ContactPrefEmail, ContactPrefPhone, ContactPrefWhatsApp:
		return p, true
	default:
		return "", false
	}
}

/* solutions accepts a single string or a list of strings. Any other value
 * is kept as invalid so the rest of the body still decodes. */
type solutions struct {
	list    []string
	invalid bool
}

func (s *solutions) UnmarshalJSON(b []byte) error {
	*s = solutions{}
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		s.list = []string{one}
		return nil
	}
	if err := json.Unmarshal(b, &s.list); err != nil {
		s.list, s.invalid = nil, true
	}
	return nil
}

/* honeypot is any JSON value; it counts as filled unless it is null,
 * false, zero or the empty string. */
type honeypot struct {
	raw json.RawMessage
}

func (h *honeypot) UnmarshalJSON(b []byte) error {
	h.raw = append(h.raw[:0], b...)
	return nil
}

func (h honeypot) Filled() bool {
	switch v := strings.TrimSpace(string(h.raw)); v {
	case "", "null", "false", "0", `""`:
		return false
	default:
		var s string
		if json.Unmarshal(h.raw, &s) == nil {
			return s != ""
		}
		return true
	}
}

/* Payload is the contact form body as submitted. */
type Payload struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Message     string    `json:"message"`
	City        string    `json:"city"`
	Reason      string    `json:"reason"`
	Budget      string    `json:"budget"`
	ContactPref string    `json:"contact_pref"`
	Property    string    `json:"property"`
	Solutions   solutions `json:"solutions"`
	Honeypot    honeypot  `json:"hp"`
}

/* Submission is a Payload that passed validation. Optional fields are ""
 * when absent. */
type Submission struct {
	Name        string
	Email       string
	Phone       string
	Message     string
	City        string
	Reason      string
	Budget      string
	ContactPref ContactPref
	Property    string
	Solutions   []string
}

/* Validate returns the Submission for p, or a *util.ValidationError listing
 * every problem found. */
func (p Payload) Validate() (Submission, error) {
	var reasons []string
	field := func(name, value string, max int) string {
		value = strings.TrimSpace(value)
		if utf8.RuneCountInString(value) > max {
			reasons = append(reasons, fmt.Sprintf(
				"%s must be at most %d characters", name, max,
			))
		}
		return value
	}

	s := Submission{
		Name:     field("name", p.Name, maxFieldLen),
		Phone:    field("phone", p.Phone, maxFieldLen),
		Message:  field("message", p.Message, maxMessageLen),
		City:     field("city", p.City, maxFieldLen),
		Reason:   field("reason", p.Reason, maxFieldLen),
		Budget:   field("budget", p.Budget, maxFieldLen),
		Property: field("property", p.Property, maxFieldLen),
	}
	if s.Name == "" {
		reasons = append(reasons, "name is required")
	}

	switch addr := strings.TrimSpace(p.Email); {
	case addr == "":
		reasons = append(reasons, "email is required")
	case utf8.RuneCountInString(addr) > maxFieldLen:
		reasons = append(reasons, fmt.Sprintf(
			"email must be at most %d characters", maxFieldLen,
		))
	default:
		normalized, err := emailaddr.Normalize(addr)
		if err != nil {
			reasons = append(reasons, "email is not a valid address")
		}
		s.Email = normalized
	}

	if pref := strings.TrimSpace(p.ContactPref); pref != "" {
		parsed, ok := parseContactPref(pref)
		if !ok {
			reasons = append(reasons, fmt.Sprintf(
				"contact_pref must be one of %s, %s or %s",
				ContactPrefEmail, ContactPrefPhone, ContactPrefWhatsApp,
			))
		}
		s.ContactPref = parsed
	}

	if p.Solutions.invalid {
		reasons = append(reasons, "solutions must be a string or a list of strings")
	}
	for _, sol := range p.Solutions.list {
		if sol = field("solutions", sol, maxFieldLen); sol != "" {
			s.Solutions = append(s.Solutions, sol)
		}
	}

	if len(reasons) > 0 {
		return Submission{}, &util.ValidationError{Reasons: reasons}
	}
	return s, nil
}

func (s Submission) Metadata() model.ContactMetadata {
	return model.ContactMetadata{
		Property:  s.Property,
		Solutions: s.Solutions,
	}
}

func (s Submission) insertParams(
	organizationID string,
) (model.InsertContactSubmissionParams, error) {
	metadata, err := json.Marshal(s.Metadata())
	if err != nil {
		return model.InsertContactSubmissionParams{}, err
	}
	return model.InsertContactSubmissionParams{
		OrganizationID: organizationID,
		Name:           s.Name,
		Email:          s.Email,
		Phone:          model.NullString(s.Phone),
		Message:        model.NullString(s.Message),
		City:           model.NullString(s.City),
		Reason:         model.NullString(s.Reason),
		Budget:         model.NullString(s.Budget),
		ContactPref:    model.NullString(string(s.ContactPref)),
		Status:         model.ContactStatusNew,
		Metadata:       metadata,
	}, nil
}

func (s Submission) emailContact() email.Contact {
	return email.Contact{
		Name:        s.Name,
		Email:       s.Email,
		Phone:       s.Phone,
		Message:     s.Message,
		City:        s.City,
		Reason:      s.Reason,
		Budget:      s.Budget,
		ContactPref: string(s.ContactPref),
		Property:    s.Property,
		Solutions:   s.Solutions,
	}
}
