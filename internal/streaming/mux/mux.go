package mux

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dakshina-arts/boxoffice/internal/clock"
	"github.com/dakshina-arts/boxoffice/internal/streaming/domain"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type Config struct {
	// SigningKeyID is the Mux signing key id carried in the token header.
	SigningKeyID string
	// SigningPrivateKey is the base64-encoded PEM private key Mux issues with
	// the signing key.
	SigningPrivateKey string
	// WatchBaseURL is the viewer page links point at.
	WatchBaseURL string
}

type Provisioner struct {
	keyID        string
	privateKey   *rsa.PrivateKey
	watchBaseURL string
	clock        clock.Clock
	log          *zap.Logger
}

func NewProvisioner(cfg Config, clk clock.Clock, log *zap.Logger) (*Provisioner, error) {
	if cfg.SigningKeyID == "" || cfg.SigningPrivateKey == "" {
		return nil, errors.New("mux signing key configuration is required")
	}

	pem, err := base64.StdEncoding.DecodeString(cfg.SigningPrivateKey)
	if err != nil {
		// Allow raw PEM as well; Mux hands the key out base64-encoded.
		pem = []byte(cfg.SigningPrivateKey)
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("parse mux signing key: %w", err)
	}

	return &Provisioner{
		keyID:        cfg.SigningKeyID,
		privateKey:   key,
		watchBaseURL: strings.TrimSuffix(cfg.WatchBaseURL, "/"),
		clock:        clk,
		log:          log.Named("streaming.mux"),
	}, nil
}

// MintLink signs a playback token scoped to one stream and bounded by
// expiresAt. The remaining duration must be positive; callers skip units whose
// access window has already closed.
func (p *Provisioner) MintLink(ctx context.Context, label, streamID string, expiresAt time.Time) (*domain.WatchLink, error) {
	_ = ctx

	if streamID == "" {
		return nil, domain.ErrProvisioning
	}
	if !expiresAt.After(p.clock.Now()) {
		return nil, domain.ErrProvisioning
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub": streamID,
		"aud": "v",
		"exp": expiresAt.Unix(),
	})
	token.Header["kid"] = p.keyID

	signed, err := token.SignedString(p.privateKey)
	if err != nil {
		p.log.Error("failed to sign playback token",
			zap.String("stream_id", streamID),
			zap.Error(err),
		)
		return nil, domain.ErrProvisioning
	}

	expiry := expiresAt
	return &domain.WatchLink{
		Label:      label,
		URL:        fmt.Sprintf("%s/%s?token=%s", p.watchBaseURL, streamID, url.QueryEscape(signed)),
		PlaybackID: streamID,
		ExpiresAt:  &expiry,
	}, nil
}
