package emailaddr

import (
	"fmt"
	"net/mail"
	"strings"
)

type EmailAddr interface {
	Addr() string
	Email() string
}

type addr struct {
	name, email string
}

func NewAddr(email string) EmailAddr            { return &addr{"", email} }
func NewNamedAddr(name, email string) EmailAddr { return &addr{name, email} }

/* Parse accepts "a@b.co" or "Name <a@b.co>". */
func Parse(s string) (EmailAddr, error) {
	a, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid email address %q: %w", s, err)
	}
	return &addr{a.Name, a.Address}, nil
}

/* Normalize returns the bare, lowercased address of s. */
func Normalize(s string) (string, error) {
	a, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	if a.Name != "" {
		return "", fmt.Errorf("display name not allowed")
	}
	return strings.ToLower(a.Address), nil
}

func (a *addr) Addr() string {
	if len(a.name) > 0 {
		return fmt.Sprintf("%s <%s>", a.name, a.email)
	}
	return a.email
}

func (a *addr) Email() string { return a.email }
