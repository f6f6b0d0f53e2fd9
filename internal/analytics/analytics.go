package analytics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mixpanel/mixpanel-go"
	"github.com/solenergy/solenergy.com/internal/logging"
)

const (
	EventContactSubmitted     = "ContactSubmitted"
	EventNewsletterSubscribed = "NewsletterSubscribed"

	trackTimeout = 5 * time.Second
)

type MixpanelClientWrapper struct {
	client *mixpanel.ApiClient
	send   func(context.Context, []*mixpanel.Event) error
}

/* NewMixpanelClientWrapper returns a wrapper whose Track is a no-op when
 * token is empty. */
func NewMixpanelClientWrapper(token string) *MixpanelClientWrapper {
	if token == "" {
		return &MixpanelClientWrapper{}
	}
	client := mixpanel.NewApiClient(token)
	return &MixpanelClientWrapper{client: client, send: client.Track}
}

func (m *MixpanelClientWrapper) Enabled() bool {
	return m != nil && m.send != nil
}

/* Track emits event in the background; failures are only logged. Visitors
 * are identified by a hash of their IP address. */
func (m *MixpanelClientWrapper) Track(
	r *http.Request, event string, props map[string]any,
) {
	if !m.Enabled() {
		return
	}
	logger := logging.Logger(r)
	e, err := m.event(r, event, props)
	if err != nil {
		logger.Printf("analytics: %v\n", err)
		return
	}
	ctx := context.WithoutCancel(r.Context())
	go func() {
		ctx, cancel := context.WithTimeout(ctx, trackTimeout)
		defer cancel()
		if err := m.send(ctx, []*mixpanel.Event{e}); err != nil {
			logger.Printf("Error emitting analytics: %v\n", err)
		}
	}()
}

func (m *MixpanelClientWrapper) event(
	r *http.Request, event string, props map[string]any,
) (*mixpanel.Event, error) {
	distinctID, err := HashIp(ClientIP(r))
	if err != nil {
		return nil, fmt.Errorf("distinct id: %w", err)
	}
	all := map[string]any{
		"url":        r.URL.Path,
		"time":       time.Now().Unix(),
		"$insert_id": uuid.New().String(),
	}
	for k, v := range props {
		all[k] = v
	}
	return m.client.NewEvent(event, distinctID, all), nil
}

/* ClientIP prefers the first X-Forwarded-For hop over RemoteAddr. */
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func HashIp(ip string) (string, error) {
	parsedIp := net.ParseIP(ip)
	if parsedIp == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}
	hash := sha256.Sum256(parsedIp)
	return hex.EncodeToString(hash[:]), nil
}
