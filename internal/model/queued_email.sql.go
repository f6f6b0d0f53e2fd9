package model

import (
	"context"
	"database/sql"
)

const insertQueuedEmail = `-- name: InsertQueuedEmail :one
INSERT INTO queued_emails (
	from_addr, to_addr, reply_to, subject, html_body, text_body, template,
	last_error
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id
`

type InsertQueuedEmailParams struct {
	FromAddr  string
	ToAddr    string
	ReplyTo   sql.NullString
	Subject   string
	HtmlBody  string
	TextBody  string
	Template  string
	LastError sql.NullString
}

func (q *Queries) InsertQueuedEmail(ctx context.Context, arg InsertQueuedEmailParams) (int32, error) {
	row := q.db.QueryRowContext(ctx, insertQueuedEmail,
		arg.FromAddr,
		arg.ToAddr,
		arg.ReplyTo,
		arg.Subject,
		arg.HtmlBody,
		arg.TextBody,
		arg.Template,
		arg.LastError,
	)
	var id int32
	err := row.Scan(&id)
	return id, err
}

const getTopNQueuedEmails = `-- name: GetTopNQueuedEmails :many
SELECT id, from_addr, to_addr, reply_to, subject, html_body, text_body,
	template, status, fail_count, last_error, created_at, updated_at
FROM queued_emails
WHERE status = 'pending'
ORDER BY id
LIMIT $1
FOR UPDATE SKIP LOCKED
`

func (q *Queries) GetTopNQueuedEmails(ctx context.Context, limit int32) ([]QueuedEmail, error) {
	rows, err := q.db.QueryContext(ctx, getTopNQueuedEmails, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []QueuedEmail
	for rows.Next() {
		var i QueuedEmail
		if err := rows.Scan(
			&i.ID,
			&i.FromAddr,
			&i.ToAddr,
			&i.ReplyTo,
			&i.Subject,
			&i.HtmlBody,
			&i.TextBody,
			&i.Template,
			&i.Status,
			&i.FailCount,
			&i.LastError,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const markQueuedEmailSent = `-- name: MarkQueuedEmailSent :exec
UPDATE queued_emails
SET status = 'sent', updated_at = now()
WHERE id = $1
`

func (q *Queries) MarkQueuedEmailSent(ctx context.Context, id int32) error {
	_, err := q.db.ExecContext(ctx, markQueuedEmailSent, id)
	return err
}

const incrementQueuedEmailFailCount = `-- name: IncrementQueuedEmailFailCount :one
UPDATE queued_emails
SET fail_count = fail_count + 1, last_error = $2, updated_at = now()
WHERE id = $1
RETURNING fail_count
`

type IncrementQueuedEmailFailCountParams struct {
	ID        int32
	LastError sql.NullString
}

func (q *Queries) IncrementQueuedEmailFailCount(ctx context.Context, arg IncrementQueuedEmailFailCountParams) (int32, error) {
	row := q.db.QueryRowContext(ctx, incrementQueuedEmailFailCount,
		arg.ID, arg.LastError,
	)
	var failCount int32
	err := row.Scan(&failCount)
	return failCount, err
}

const markQueuedEmailFailed = `-- name: MarkQueuedEmailFailed :exec
UPDATE queued_emails
SET status = 'failed', updated_at = now()
WHERE id = $1
`

func (q *Queries) MarkQueuedEmailFailed(ctx context.Context, id int32) error {
	_, err := q.db.ExecContext(ctx, markQueuedEmailFailed, id)
	return err
}
