package model

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
)

const insertContactSubmission = `-- name: InsertContactSubmission :one
INSERT INTO contact_form_submissions (
	organization_id, name, email, phone, message, city, reason, budget,
	contact_pref, status, metadata
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id
`

type InsertContactSubmissionParams struct {
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
}

func (q *Queries) InsertContactSubmission(ctx context.Context, arg InsertContactSubmissionParams) (uuid.UUID, error) {
	row := q.db.QueryRowContext(ctx, insertContactSubmission,
		arg.OrganizationID,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.Message,
		arg.City,
		arg.Reason,
		arg.Budget,
		arg.ContactPref,
		arg.Status,
		[]byte(arg.Metadata),
	)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}
