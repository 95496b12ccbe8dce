package repository

import (
	"context"
	"errors"

	catalogdomain "github.com/dakshina-arts/boxoffice/internal/catalog/domain"
	"github.com/dakshina-arts/boxoffice/internal/inventory/domain"
	"gorm.io/gorm"
)

type Ledger struct{}

func New() domain.Ledger {
	return &Ledger{}
}

func (l *Ledger) IncrementSold(ctx context.Context, db *gorm.DB, itemType catalogdomain.ItemType, itemID int64, tierName string, quantity int) (*catalogdomain.TicketTier, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	res := db.WithContext(ctx).Exec(
		`UPDATE ticket_tiers
		 SET tickets_sold = tickets_sold + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE item_type = ? AND item_id = ? AND name = ?
		   AND tickets_sold + ? <= capacity`,
		quantity,
		itemType,
		itemID,
		tierName,
		quantity,
	)
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		// The guard rejected the update: the tier is either missing or full.
		var tier catalogdomain.TicketTier
		err := db.WithContext(ctx).
			Where("item_type = ? AND item_id = ? AND name = ?", itemType, itemID, tierName).
			First(&tier).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrTierNotFound
			}
			return nil, err
		}
		return &tier, domain.ErrSoldOut
	}

	var tier catalogdomain.TicketTier
	err := db.WithContext(ctx).
		Where("item_type = ? AND item_id = ? AND name = ?", itemType, itemID, tierName).
		First(&tier).Error
	if err != nil {
		return nil, err
	}
	return &tier, nil
}
