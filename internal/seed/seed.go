package seed

import (
	"context"
	"errors"
	"time"

	catalogdomain "github.com/dakshina-arts/boxoffice/internal/catalog/domain"
	"github.com/dakshina-arts/boxoffice/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnsureDemoCatalog seeds a small bookable catalog for local development so
// the order pipeline has something to sell. No-op when any event exists.
func EnsureDemoCatalog(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&catalogdomain.Event{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		production := catalogdomain.Production{Title: "Dashavatara", Slug: "dashavatara"}
		if err := tx.Create(&production).Error; err != nil {
			return err
		}

		event := catalogdomain.Event{
			UID:             "evt-dashavatara-demo",
			Date:            time.Now().UTC().Add(30 * 24 * time.Hour),
			Venue:           "Demo Auditorium",
			ProductionID:    &production.ID,
			MuxLivestreamID: "demo-playback-id",
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		workshop := catalogdomain.Workshop{
			Slug:      "nattuvangam-basics",
			Title:     "Nattuvangam Basics",
			StartDate: time.Now().UTC().Add(14 * 24 * time.Hour),
			EndDate:   time.Now().UTC().Add(16 * 24 * time.Hour),
		}
		if err := tx.Create(&workshop).Error; err != nil {
			return err
		}

		sessions := []catalogdomain.SessionDetail{
			{
				WorkshopID:      workshop.ID,
				StartsAt:        workshop.StartDate,
				EndsAt:          workshop.StartDate.Add(2 * time.Hour),
				Topic:           "Sollukattu",
				MuxLivestreamID: "demo-ws-playback-1",
				ZoomLink:        "https://zoom.us/j/000000000",
			},
			{
				WorkshopID: workshop.ID,
				StartsAt:   workshop.EndDate,
				EndsAt:     workshop.EndDate.Add(2 * time.Hour),
				Topic:      "Talam Practice",
				ZoomLink:   "https://zoom.us/j/000000001",
			},
		}
		for i := range sessions {
			if err := tx.Create(&sessions[i]).Error; err != nil {
				return err
			}
		}

		tiers := []catalogdomain.TicketTier{
			{ItemType: catalogdomain.ItemTypeEvent, ItemID: event.ID, Name: "General", Price: 50000, Capacity: 200},
			{ItemType: catalogdomain.ItemTypeEvent, ItemID: event.ID, Name: "Online", Price: 30000, Capacity: 1000, IsOnlineAccess: true},
			{ItemType: catalogdomain.ItemTypeWorkshop, ItemID: workshop.ID, Name: "Participant", Price: 250000, Capacity: 25, IsZoomAccess: true},
			{ItemType: catalogdomain.ItemTypeWorkshop, ItemID: workshop.ID, Name: "Observer", Price: 100000, Capacity: 200, IsOnlineAccess: true},
		}
		for i := range tiers {
			if err := tx.Create(&tiers[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

var Module = fx.Module("seed",
	fx.Invoke(func(cfg config.Config, db *gorm.DB, log *zap.Logger) {
		if cfg.Environment != "development" {
			return
		}
		if err := EnsureDemoCatalog(db); err != nil {
			log.Warn("demo catalog seed failed", zap.Error(err))
		}
	}),
)
