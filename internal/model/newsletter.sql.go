package model

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

/* Optional columns are only overwritten when the new value is present. */
const upsertNewsletterSubscriber = `-- name: UpsertNewsletterSubscriber :one
INSERT INTO newsletter_subscribers (organization_id, email, name, phone, status)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (organization_id, email) DO UPDATE
SET
	name = COALESCE(EXCLUDED.name, newsletter_subscribers.name),
	phone = COALESCE(EXCLUDED.phone, newsletter_subscribers.phone),
	status = EXCLUDED.status,
	updated_at = now()
RETURNING id, (xmax = 0) AS created
`

type UpsertNewsletterSubscriberParams struct {
	OrganizationID string
	Email          string
	Name           sql.NullString
	Phone          sql.NullString
	Status         SubscriberStatus
}

type UpsertNewsletterSubscriberRow struct {
	ID      uuid.UUID
	Created bool
}

func (q *Queries) UpsertNewsletterSubscriber(ctx context.Context, arg UpsertNewsletterSubscriberParams) (UpsertNewsletterSubscriberRow, error) {
	row := q.db.QueryRowContext(ctx, upsertNewsletterSubscriber,
		arg.OrganizationID,
		arg.Email,
		arg.Name,
		arg.Phone,
		arg.Status,
	)
	var i UpsertNewsletterSubscriberRow
	err := row.Scan(&i.ID, &i.Created)
	return i, err
}
