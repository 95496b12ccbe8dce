package domain

import (
	"context"
	"errors"
	"time"
)

var ErrProvisioning = errors.New("provisioning_failed")

// WatchLink is a named URL granting time-limited viewing access.
type WatchLink struct {
	Label      string     `json:"label"`
	URL        string     `json:"url"`
	PlaybackID string     `json:"playback_id,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// Provisioner mints a time-boxed signed playback credential for one stream.
// Failures degrade to a missing link; they never abort an order.
type Provisioner interface {
	MintLink(ctx context.Context, label, streamID string, expiresAt time.Time) (*WatchLink, error)
}

// NoOpProvisioner stands in when no signing key is configured. Every mint
// fails, which the order pipeline treats as a skipped link.
type NoOpProvisioner struct{}

func (NoOpProvisioner) MintLink(ctx context.Context, label, streamID string, expiresAt time.Time) (*WatchLink, error) {
	return nil, ErrProvisioning
}
