package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	paymentdomain "github.com/dakshina-arts/boxoffice/internal/payment/domain"
	"go.uber.org/zap"
)

type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.razorpay.com/v1"
	}
	cfg.BaseURL = base

	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
		log:  log.Named("payment.razorpay"),
	}
}

// Sign computes the gateway's payment confirmation signature: HMAC-SHA256 over
// "orderID|paymentID" keyed with the key secret, lowercase hex.
func Sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares a claimed signature against the recomputed one in
// constant time. False on mismatch; a forged confirmation is a valid outcome.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	expected := Sign(orderID, paymentID, secret)
	return hmac.Equal([]byte(signature), []byte(expected))
}

func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(orderID, paymentID, signature, c.cfg.KeySecret)
}

type orderPayload struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Status   string            `json:"status"`
	Notes    json.RawMessage   `json:"notes"`
}

type errorPayload struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func (c *Client) CreateOrder(ctx context.Context, params paymentdomain.CreateOrderParams) (*paymentdomain.GatewayOrder, error) {
	body := map[string]any{
		"amount":   params.Amount,
		"currency": params.Currency,
		"receipt":  params.Receipt,
		"notes":    params.Notes,
	}

	var payload orderPayload
	if err := c.do(ctx, http.MethodPost, "/orders", body, &payload); err != nil {
		return nil, err
	}
	return decodeOrder(payload), nil
}

func (c *Client) FetchOrder(ctx context.Context, orderID string) (*paymentdomain.GatewayOrder, error) {
	var payload orderPayload
	if err := c.do(ctx, http.MethodGet, "/orders/"+orderID, nil, &payload); err != nil {
		return nil, err
	}
	return decodeOrder(payload), nil
}

func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*paymentdomain.GatewayPayment, error) {
	var payment paymentdomain.GatewayPayment
	if err := c.do(ctx, http.MethodGet, "/payments/"+paymentID, nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("gateway request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return paymentdomain.ErrGateway
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return paymentdomain.ErrGateway
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var gwErr errorPayload
		_ = json.Unmarshal(raw, &gwErr)
		c.log.Warn("gateway rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("code", gwErr.Error.Code),
			zap.String("description", gwErr.Error.Description),
		)
		return paymentdomain.ErrGateway
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return paymentdomain.ErrGateway
	}
	return nil
}

// decodeOrder normalizes the notes bag. The gateway returns notes as an object
// of strings when present and as an empty array when not.
func decodeOrder(payload orderPayload) *paymentdomain.GatewayOrder {
	notes := map[string]string{}
	if len(payload.Notes) > 0 {
		var typed map[string]string
		if err := json.Unmarshal(payload.Notes, &typed); err == nil {
			notes = typed
		}
	}
	return &paymentdomain.GatewayOrder{
		ID:       payload.ID,
		Amount:   payload.Amount,
		Currency: payload.Currency,
		Receipt:  payload.Receipt,
		Status:   payload.Status,
		Notes:    notes,
	}
}
