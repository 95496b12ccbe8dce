package mux

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dakshina-arts/boxoffice/internal/clock"
	"github.com/dakshina-arts/boxoffice/internal/streaming/domain"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func testSigningKey(t *testing.T) (string, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	block := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	return base64.StdEncoding.EncodeToString(block), key
}

func TestMintLinkSignsScopedToken(t *testing.T) {
	encoded, key := testSigningKey(t)
	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	clk := clock.NewFakeClock(now)

	p, err := NewProvisioner(Config{
		SigningKeyID:      "signing-key-1",
		SigningPrivateKey: encoded,
		WatchBaseURL:      "https://dakshina-arts.com/watch/",
	}, clk, zap.NewNop())
	if err != nil {
		t.Fatalf("new provisioner: %v", err)
	}

	expiry := now.Add(8 * time.Hour)
	link, err := p.MintLink(context.Background(), "Livestream", "pb123", expiry)
	if err != nil {
		t.Fatalf("mint link: %v", err)
	}
	if link.PlaybackID != "pb123" || link.Label != "Livestream" {
		t.Fatalf("unexpected link: %+v", link)
	}
	if !strings.HasPrefix(link.URL, "https://dakshina-arts.com/watch/pb123?token=") {
		t.Fatalf("unexpected url: %s", link.URL)
	}

	parsed, err := url.Parse(link.URL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	raw := parsed.Query().Get("token")

	token, err := jwt.Parse(raw, func(tok *jwt.Token) (any, error) {
		return &key.PublicKey, nil
	}, jwt.WithAudience("v"), jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil || !token.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if token.Header["kid"] != "signing-key-1" {
		t.Fatalf("missing signing key id header: %v", token.Header)
	}

	claims := token.Claims.(jwt.MapClaims)
	if claims["sub"] != "pb123" {
		t.Fatalf("token not scoped to stream: %v", claims)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || !exp.Time.Equal(expiry.Truncate(time.Second)) {
		t.Fatalf("unexpected expiry: %v (%v)", exp, err)
	}
}

func TestMintLinkRejectsClosedWindow(t *testing.T) {
	encoded, _ := testSigningKey(t)
	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	clk := clock.NewFakeClock(now)

	p, err := NewProvisioner(Config{
		SigningKeyID:      "signing-key-1",
		SigningPrivateKey: encoded,
		WatchBaseURL:      "https://dakshina-arts.com/watch",
	}, clk, zap.NewNop())
	if err != nil {
		t.Fatalf("new provisioner: %v", err)
	}

	if _, err := p.MintLink(context.Background(), "Livestream", "pb123", now); err != domain.ErrProvisioning {
		t.Fatalf("expected provisioning failure for zero remaining duration, got %v", err)
	}
	if _, err := p.MintLink(context.Background(), "Livestream", "pb123", now.Add(-time.Hour)); err != domain.ErrProvisioning {
		t.Fatalf("expected provisioning failure for past expiry, got %v", err)
	}
	if _, err := p.MintLink(context.Background(), "Livestream", "", now.Add(time.Hour)); err != domain.ErrProvisioning {
		t.Fatalf("expected provisioning failure for empty stream id, got %v", err)
	}
}
