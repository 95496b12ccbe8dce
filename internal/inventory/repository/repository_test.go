package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	catalogdomain "github.com/dakshina-arts/boxoffice/internal/catalog/domain"
	"github.com/dakshina-arts/boxoffice/internal/inventory/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLedger(t *testing.T) (domain.Ledger, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalogdomain.TicketTier{}))

	return New(), db
}

func seedTier(t *testing.T, db *gorm.DB, capacity int) catalogdomain.TicketTier {
	t.Helper()
	tier := catalogdomain.TicketTier{
		ItemType: catalogdomain.ItemTypeEvent,
		ItemID:   1,
		Name:     "General",
		Price:    50000,
		Capacity: capacity,
	}
	require.NoError(t, db.Create(&tier).Error)
	return tier
}

func TestIncrementSoldSequentialNeverExceedsCapacity(t *testing.T) {
	ledger, db := newLedger(t)
	seedTier(t, db, 5)

	sold := 0
	for i := 0; i < 8; i++ {
		tier, err := ledger.IncrementSold(context.Background(), db, catalogdomain.ItemTypeEvent, 1, "General", 1)
		if err == nil {
			sold++
			assert.LessOrEqual(t, tier.TicketsSold, tier.Capacity)
			continue
		}
		assert.ErrorIs(t, err, domain.ErrSoldOut)
	}

	assert.Equal(t, 5, sold)

	var tier catalogdomain.TicketTier
	require.NoError(t, db.First(&tier, "name = ?", "General").Error)
	assert.Equal(t, 5, tier.TicketsSold)
}

func TestIncrementSoldBatchRejectedWhenOverCapacity(t *testing.T) {
	ledger, db := newLedger(t)
	seedTier(t, db, 5)

	for i := 0; i < 2; i++ {
		_, err := ledger.IncrementSold(context.Background(), db, catalogdomain.ItemTypeEvent, 1, "General", 2)
		require.NoError(t, err)
	}

	// 4 sold; a batch of 2 would land at 6 and must be rejected whole.
	tier, err := ledger.IncrementSold(context.Background(), db, catalogdomain.ItemTypeEvent, 1, "General", 2)
	assert.ErrorIs(t, err, domain.ErrSoldOut)
	require.NotNil(t, tier)
	assert.Equal(t, 4, tier.TicketsSold)

	// The last single seat is still sellable.
	tier, err = ledger.IncrementSold(context.Background(), db, catalogdomain.ItemTypeEvent, 1, "General", 1)
	require.NoError(t, err)
	assert.Equal(t, 5, tier.TicketsSold)
}

func TestIncrementSoldUnknownTier(t *testing.T) {
	ledger, db := newLedger(t)
	seedTier(t, db, 5)

	_, err := ledger.IncrementSold(context.Background(), db, catalogdomain.ItemTypeEvent, 1, "Balcony", 1)
	assert.ErrorIs(t, err, domain.ErrTierNotFound)

	_, err = ledger.IncrementSold(context.Background(), db, catalogdomain.ItemTypeWorkshop, 1, "General", 1)
	assert.ErrorIs(t, err, domain.ErrTierNotFound)
}

func TestIncrementSoldCaseSensitiveName(t *testing.T) {
	ledger, db := newLedger(t)
	seedTier(t, db, 5)

	_, err := ledger.IncrementSold(context.Background(), db, catalogdomain.ItemTypeEvent, 1, "general", 1)
	assert.ErrorIs(t, err, domain.ErrTierNotFound)
}

func TestIncrementSoldRolledBackWithTransaction(t *testing.T) {
	ledger, db := newLedger(t)
	seedTier(t, db, 5)

	sentinel := errors.New("abort")
	err := db.Transaction(func(tx *gorm.DB) error {
		tier, err := ledger.IncrementSold(context.Background(), tx, catalogdomain.ItemTypeEvent, 1, "General", 2)
		require.NoError(t, err)
		assert.Equal(t, 2, tier.TicketsSold)
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	var tier catalogdomain.TicketTier
	require.NoError(t, db.First(&tier, "name = ?", "General").Error)
	assert.Equal(t, 0, tier.TicketsSold)
}

func TestIncrementSoldInvalidQuantity(t *testing.T) {
	ledger, db := newLedger(t)
	seedTier(t, db, 5)

	_, err := ledger.IncrementSold(context.Background(), db, catalogdomain.ItemTypeEvent, 1, "General", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = ledger.IncrementSold(context.Background(), db, catalogdomain.ItemTypeEvent, 1, "General", -3)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}
