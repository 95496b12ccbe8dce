package domain

import (
	"context"
	"errors"

	catalogdomain "github.com/dakshina-arts/boxoffice/internal/catalog/domain"
	"gorm.io/gorm"
)

var (
	ErrTierNotFound    = errors.New("tier_not_found")
	ErrSoldOut         = errors.New("sold_out")
	ErrInvalidQuantity = errors.New("invalid_quantity")
)

// Ledger owns the tickets-sold counters. IncrementSold applies a conditional
// increment so the capacity bound is enforced by the storage engine and
// concurrent purchases against the same tier cannot oversell or lose updates.
// Callers pass the handle so the increment can join a wider transaction.
type Ledger interface {
	IncrementSold(ctx context.Context, db *gorm.DB, itemType catalogdomain.ItemType, itemID int64, tierName string, quantity int) (*catalogdomain.TicketTier, error)
}
