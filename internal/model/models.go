package model

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ContactStatus string

const (
	ContactStatusNew        ContactStatus = "new"
	ContactStatusInProgress ContactStatus = "in_progress"
	ContactStatusResolved   ContactStatus = "resolved"
	ContactStatusSpam       ContactStatus = "spam"
)

type SubscriberStatus string

const (
	SubscriberStatusActive SubscriberStatus = "active"
)

type QueuedEmailStatus string

const (
	QueuedEmailStatusPending QueuedEmailStatus = "pending"
	QueuedEmailStatusSent    QueuedEmailStatus = "sent"
	QueuedEmailStatusFailed  QueuedEmailStatus = "failed"
)

type EmailMode string

const (
	EmailModeHtml      EmailMode = "html"
	EmailModePlaintext EmailMode = "plaintext"
)

/* ContactMetadata holds the submitted fields outside the fixed columns. */
type ContactMetadata struct {
	Property  string   `json:"property,omitempty"`
	Solutions []string `json:"solutions,omitempty"`
}

type ContactFormSubmission struct {
	ID             uuid.UUID
	OrganizationID string
	Name           string
	Email          string
	Phone          sql.NullString
	Message        sql.NullString
	City           sql.NullString
	Reason         sql.NullString
	Budget         sql.NullString
	ContactPref    sql.NullString
	Status         ContactStatus
	Metadata       json.RawMessage
	CreatedAt      time.Time
}

type NewsletterSubscriber struct {
	ID             uuid.UUID
	OrganizationID string
	Email          string
	Name           sql.NullString
	Phone          sql.NullString
	Status         SubscriberStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type QueuedEmail struct {
	ID        int32
	FromAddr  string
	ToAddr    string
	ReplyTo   sql.NullString
	Subject   string
	HtmlBody  string
	TextBody  string
	Template  string
	Status    QueuedEmailStatus
	FailCount int32
	LastError sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

/* NullString maps "" to NULL. */
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
