package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dakshina-arts/boxoffice/internal/catalog/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Production{},
		&domain.Solo{},
		&domain.Event{},
		&domain.Workshop{},
		&domain.SessionDetail{},
		&domain.TicketTier{},
	))
	return db
}

func TestResolveEventByUID(t *testing.T) {
	db := newTestDB(t)
	repo := Provide()

	production := domain.Production{Title: "Dashavatara", Slug: "dashavatara"}
	require.NoError(t, db.Create(&production).Error)
	event := domain.Event{
		UID:          "evt-1",
		Date:         time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC),
		Venue:        "Main Hall",
		ProductionID: &production.ID,
	}
	require.NoError(t, db.Create(&event).Error)
	require.NoError(t, db.Create(&domain.TicketTier{
		ItemType: domain.ItemTypeEvent, ItemID: event.ID, Name: "Balcony", Price: 70000, Capacity: 40,
	}).Error)
	require.NoError(t, db.Create(&domain.TicketTier{
		ItemType: domain.ItemTypeEvent, ItemID: event.ID, Name: "Stalls", Price: 40000, Capacity: 120,
	}).Error)

	item, err := repo.ResolveEventByUID(context.Background(), db, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ItemTypeEvent, item.Type)
	assert.Equal(t, "Dashavatara", item.Title())
	assert.Equal(t, "Main Hall", item.Venue())

	// Tiers come back cheapest first.
	require.Len(t, item.Tiers, 2)
	assert.Equal(t, "Stalls", item.Tiers[0].Name)

	byID, err := repo.ResolveEventByID(context.Background(), db, event.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Code(), byID.Code())

	_, err = repo.ResolveEventByUID(context.Background(), db, "evt-missing")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestResolveEventRejectsBrokenWorkLink(t *testing.T) {
	db := newTestDB(t)
	repo := Provide()

	// Neither production nor solo attached.
	require.NoError(t, db.Create(&domain.Event{
		UID:  "evt-orphan",
		Date: time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC),
	}).Error)

	_, err := repo.ResolveEventByUID(context.Background(), db, "evt-orphan")
	assert.ErrorIs(t, err, domain.ErrDataIntegrity)

	production := domain.Production{Title: "P", Slug: "p"}
	solo := domain.Solo{Title: "S", Slug: "s"}
	require.NoError(t, db.Create(&production).Error)
	require.NoError(t, db.Create(&solo).Error)
	require.NoError(t, db.Create(&domain.Event{
		UID:          "evt-both",
		Date:         time.Date(2026, 6, 2, 19, 0, 0, 0, time.UTC),
		ProductionID: &production.ID,
		SoloID:       &solo.ID,
	}).Error)

	_, err = repo.ResolveEventByUID(context.Background(), db, "evt-both")
	assert.ErrorIs(t, err, domain.ErrDataIntegrity)
}

func TestResolveWorkshopNormalizesSlug(t *testing.T) {
	db := newTestDB(t)
	repo := Provide()

	workshop := domain.Workshop{
		Slug:      "abhinaya-intensive",
		Title:     "Abhinaya Intensive",
		StartDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&workshop).Error)
	require.NoError(t, db.Create(&domain.SessionDetail{
		WorkshopID: workshop.ID,
		StartsAt:   workshop.EndDate,
		EndsAt:     workshop.EndDate.Add(2 * time.Hour),
		Topic:      "Later",
	}).Error)
	require.NoError(t, db.Create(&domain.SessionDetail{
		WorkshopID: workshop.ID,
		StartsAt:   workshop.StartDate,
		EndsAt:     workshop.StartDate.Add(2 * time.Hour),
		Topic:      "Earlier",
	}).Error)

	item, err := repo.ResolveWorkshopBySlug(context.Background(), db, "Abhinaya Intensive")
	require.NoError(t, err)
	assert.Equal(t, domain.ItemTypeWorkshop, item.Type)

	// Sessions come back in schedule order regardless of insert order.
	require.Len(t, item.Workshop.Sessions, 2)
	assert.Equal(t, "Earlier", item.Workshop.Sessions[0].Topic)

	assert.Equal(t, "Workshop", item.Venue())
}
