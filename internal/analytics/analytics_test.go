package analytics

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mixpanel/mixpanel-go"
	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/contact", nil)
	r.RemoteAddr = "10.0.0.7:51234"
	require.Equal(t, "10.0.0.7", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	require.Equal(t, "203.0.113.9", ClientIP(r))
}

func TestHashIp(t *testing.T) {
	a, err := HashIp("203.0.113.9")
	require.NoError(t, err)
	require.Len(t, a, 64)

	b, err := HashIp("203.0.113.9")
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := HashIp("203.0.113.10")
	require.NoError(t, err)
	require.NotEqual(t, a, c)

	_, err = HashIp("not-an-ip")
	require.Error(t, err)
}

func TestDisabledWrapperIsNoop(t *testing.T) {
	m := NewMixpanelClientWrapper("")
	require.False(t, m.Enabled())
	require.NotPanics(t, func() {
		m.Track(
			httptest.NewRequest("POST", "/api/newsletter", nil),
			EventNewsletterSubscribed, nil,
		)
	})

	var nilwrapper *MixpanelClientWrapper
	require.False(t, nilwrapper.Enabled())
}

func TestTrack(t *testing.T) {
	m := NewMixpanelClientWrapper("test-token")
	require.True(t, m.Enabled())

	events := make(chan *mixpanel.Event, 1)
	m.send = func(_ context.Context, e []*mixpanel.Event) error {
		events <- e[0]
		return nil
	}

	r := httptest.NewRequest("POST", "/api/contact", nil)
	r.RemoteAddr = "203.0.113.9:4000"
	m.Track(r, EventContactSubmitted, map[string]any{"contact_pref": "email"})

	select {
	case e := <-events:
		want, err := HashIp("203.0.113.9")
		require.NoError(t, err)
		require.Equal(t, EventContactSubmitted, e.Name)
		require.Equal(t, want, e.Properties["distinct_id"])
		require.Equal(t, "email", e.Properties["contact_pref"])
		require.Equal(t, "/api/contact", e.Properties["url"])
	case <-time.After(2 * time.Second):
		t.Fatal("event not sent")
	}
}
