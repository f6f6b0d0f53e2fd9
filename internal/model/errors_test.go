package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	require.False(t, IsUniqueViolation(nil))
	require.False(t, IsUniqueViolation(errors.New("connection refused")))

	pqerr := &pq.Error{
		Code:       "23505",
		Constraint: "unique_subscriber_per_organization",
	}
	require.True(t, IsUniqueViolation(pqerr))
	require.True(t, IsUniqueViolation(fmt.Errorf("upsert: %w", pqerr)))
	require.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))

	require.True(t, IsUniqueViolation(
		fmt.Errorf("rest: %w", ErrUniqueViolation),
	))
}

func TestNullString(t *testing.T) {
	require.False(t, NullString("").Valid)
	ns := NullString("0821234567")
	require.True(t, ns.Valid)
	require.Equal(t, "0821234567", ns.String)
}
