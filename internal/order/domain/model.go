package domain

import (
	"context"
	"errors"
	"time"

	catalogdomain "github.com/dakshina-arts/boxoffice/internal/catalog/domain"
	paymentdomain "github.com/dakshina-arts/boxoffice/internal/payment/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrInvalidRequest        = errors.New("invalid_request")
	ErrMissingPaymentDetails = errors.New("missing_payment_details")
	ErrInvalidSignature      = errors.New("invalid_signature")

	// ErrInconsistentState means the gateway's own records are missing the
	// purchase context we wrote at creation time. Money may have moved; the
	// order needs manual reconciliation.
	ErrInconsistentState = errors.New("inconsistent_state")
	ErrItemNotFound      = errors.New("item_not_found")

	// ErrAlreadyProcessed means this payment id was verified before. Callers
	// treat it as success without repeating side effects.
	ErrAlreadyProcessed = errors.New("already_processed")
)

// Order is the immutable record of a completed purchase. ItemID holds the
// item's external code (event uid or workshop slug) as an opaque string.
type Order struct {
	ID             int64                  `gorm:"primaryKey" json:"id"`
	UserEmail      string                 `gorm:"not null" json:"user_email"`
	ItemType       catalogdomain.ItemType `gorm:"not null" json:"item_type"`
	ItemID         string                 `gorm:"not null" json:"item_id"`
	PaymentID      string                 `gorm:"not null;uniqueIndex" json:"payment_id"`
	GatewayOrderID string                 `gorm:"not null" json:"gateway_order_id"`
	TierName       string                 `gorm:"not null" json:"tier_name"`
	Quantity       int                    `gorm:"not null" json:"quantity"`
	WatchLinks     datatypes.JSON         `gorm:"not null;default:'[]'" json:"watch_links"`
	CreatedAt      time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Order) TableName() string { return "orders" }

// CreateOrderRequest asks the gateway for an intent to pay. Exactly one of
// the event/workshop identifiers must be set.
type CreateOrderRequest struct {
	Amount   int64  `json:"amount" binding:"required"`
	TierName string `json:"tierName" binding:"required"`
	Quantity int    `json:"quantity"`

	EventID      *int64 `json:"eventId,omitempty"`
	EventUID     string `json:"eventUid,omitempty"`
	WorkshopID   *int64 `json:"workshopId,omitempty"`
	WorkshopSlug string `json:"workshopSlug,omitempty"`

	UserName     string `json:"userName,omitempty"`
	UserQuestion string `json:"userQuestion,omitempty"`
}

// VerifyRequest is the client-reported payment confirmation.
type VerifyRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	FindByPaymentID(ctx context.Context, db *gorm.DB, paymentID string) (*Order, error)
	ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]Order, error)
}

type Service interface {
	// Create registers a gateway order carrying the purchase context in its
	// notes and returns the gateway's representation verbatim.
	Create(ctx context.Context, req CreateOrderRequest) (*paymentdomain.GatewayOrder, error)

	// Verify runs the post-payment pipeline: signature, authoritative facts,
	// inventory, access provisioning, recording, notification.
	Verify(ctx context.Context, req VerifyRequest) error

	// Recent lists the latest recorded orders, newest first, for operational
	// reconciliation against gateway records.
	Recent(ctx context.Context, limit int) ([]Order, error)
}
