package emailaddr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddr(t *testing.T) {
	require.Equal(t, "jane@example.com", NewAddr("jane@example.com").Addr())
	require.Equal(
		t,
		"Solenergy <hello@solenergy.co.za>",
		NewNamedAddr("Solenergy", "hello@solenergy.co.za").Addr(),
	)
}

func TestParse(t *testing.T) {
	a, err := Parse("Solenergy <hello@solenergy.co.za>")
	require.NoError(t, err)
	require.Equal(t, "hello@solenergy.co.za", a.Email())
	require.Equal(t, "Solenergy <hello@solenergy.co.za>", a.Addr())

	_, err = Parse("not an address")
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	e, err := Normalize("  Jane@Example.COM ")
	require.NoError(t, err)
	require.Equal(t, "jane@example.com", e)

	for _, bad := range []string{"", "jane", "jane@", "Jane <jane@example.com>"} {
		_, err := Normalize(bad)
		require.Error(t, err, bad)
	}
}
