package supabase

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/solenergy/solenergy.com/internal/httpclient"
	"github.com/solenergy/solenergy.com/internal/model"
	"github.com/solenergy/solenergy.com/internal/util"
)

const (
	restPath = "/rest/v1"

	tableContactSubmissions   = "contact_form_submissions"
	tableNewsletterSubscriber = "newsletter_subscribers"

	pgUniqueViolation = "23505"
)

/* Client is a record store backed by a hosted PostgREST endpoint. It
 * satisfies the same store interfaces as model.Store. */
type Client struct {
	http    *httpclient.Client
	baseURL string
	key     string
}

func NewClient(c *httpclient.Client, baseURL, serviceKey string) *Client {
	return &Client{
		http:    c,
		baseURL: strings.TrimRight(baseURL, "/") + restPath,
		key:     serviceKey,
	}
}

/* Error is the PostgREST error body. */
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *Error) Error() string {
	return fmt.Sprintf(
		"postgrest %d (code %s): %s", e.Status, e.Code, e.Message,
	)
}

func (e *Error) Unwrap() error {
	if e.Code == pgUniqueViolation {
		return model.ErrUniqueViolation
	}
	return nil
}

type contactRow struct {
	OrganizationID string          `json:"organization_id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          *string         `json:"phone"`
	Message        *string         `json:"message"`
	City           *string         `json:"city"`
	Reason         *string         `json:"reason"`
	Budget         *string         `json:"budget"`
	ContactPref    *string         `json:"contact_pref"`
	Status         string          `json:"status"`
	Metadata       json.RawMessage `json:"metadata"`
}

/* optional columns are left out of the payload entirely when absent */
type subscriberRow struct {
	OrganizationID string  `json:"organization_id,omitempty"`
	Email          string  `json:"email,omitempty"`
	Name           *string `json:"name,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Status         string  `json:"status"`
	UpdatedAt      string  `json:"updated_at,omitempty"`
}

type idRow struct {
	ID uuid.UUID `json:"id"`
}

func ptr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func (c *Client) InsertContactSubmission(
	ctx context.Context, arg model.InsertContactSubmissionParams,
) (uuid.UUID, error) {
	metadata := arg.Metadata
	if len(metadata) == 0 {
		metadata = json.RawMessage(`{}`)
	}
	var rows []idRow
	if err := c.do(
		ctx, http.MethodPost, tableContactSubmissions, nil,
		"return=representation",
		contactRow{
			OrganizationID: arg.OrganizationID,
			Name:           arg.Name,
			Email:          arg.Email,
			Phone:          ptr(arg.Phone),
			Message:        ptr(arg.Message),
			City:           ptr(arg.City),
			Reason:         ptr(arg.Reason),
			Budget:         ptr(arg.Budget),
			ContactPref:    ptr(arg.ContactPref),
			Status:         string(arg.Status),
			Metadata:       metadata,
		},
		&rows,
	); err != nil {
		return uuid.Nil, err
	}
	if len(rows) != 1 {
		return uuid.Nil, fmt.Errorf("insert returned %d rows", len(rows))
	}
	return rows[0].ID, nil
}

/* UpsertNewsletterSubscriber inserts, ignoring a conflict on
 * (organization_id, email); when the insert was ignored the existing row is
 * patched so re-subscribing reactivates it and refreshes optional fields. */
func (c *Client) UpsertNewsletterSubscriber(
	ctx context.Context, arg model.UpsertNewsletterSubscriberParams,
) (model.UpsertNewsletterSubscriberRow, error) {
	var inserted []idRow
	if err := c.do(
		ctx, http.MethodPost, tableNewsletterSubscriber,
		map[string]string{"on_conflict": "organization_id,email"},
		"resolution=ignore-duplicates,return=representation",
		subscriberRow{
			OrganizationID: arg.OrganizationID,
			Email:          arg.Email,
			Name:           ptr(arg.Name),
			Phone:          ptr(arg.Phone),
			Status:         string(arg.Status),
		},
		&inserted,
	); err != nil {
		return model.UpsertNewsletterSubscriberRow{}, fmt.Errorf(
			"insert: %w", err,
		)
	}
	if len(inserted) == 1 {
		return model.UpsertNewsletterSubscriberRow{
			ID: inserted[0].ID, Created: true,
		}, nil
	}

	var updated []idRow
	if err := c.do(
		ctx, http.MethodPatch, tableNewsletterSubscriber,
		map[string]string{
			"organization_id": "eq." + arg.OrganizationID,
			"email":           "eq." + arg.Email,
		},
		"return=representation",
		subscriberRow{
			Name:      ptr(arg.Name),
			Phone:     ptr(arg.Phone),
			Status:    string(arg.Status),
			UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
		},
		&updated,
	); err != nil {
		return model.UpsertNewsletterSubscriberRow{}, fmt.Errorf(
			"update: %w", err,
		)
	}
	if len(updated) != 1 {
		return model.UpsertNewsletterSubscriberRow{}, fmt.Errorf(
			"update matched %d rows", len(updated),
		)
	}
	return model.UpsertNewsletterSubscriberRow{
		ID: updated[0].ID, Created: false,
	}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "", nil, "", nil, nil)
}

func (c *Client) do(
	ctx context.Context, method, table string, query map[string]string,
	prefer string, body, out any,
) error {
	b := util.NewRequestBuilder(ctx, method, c.baseURL+"/"+table).
		WithHeader("apikey", c.key).
		WithHeader("Authorization", "Bearer "+c.key).
		WithHeader("Accept", "application/json")
	if prefer != "" {
		b.WithHeader("Prefer", prefer)
	}
	for k, v := range query {
		b.WithQueryParam(k, v)
	}
	if body != nil {
		var err error
		if b, err = b.WithJSON(body); err != nil {
			return err
		}
	}
	req, err := b.Build()
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if resp.StatusCode >= 400 {
		perr := &Error{Status: resp.StatusCode}
		if jerr := json.Unmarshal(raw, perr); jerr != nil {
			perr.Message = string(raw)
		}
		return perr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
