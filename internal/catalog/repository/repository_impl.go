package repository

import (
	"context"
	"errors"

	"github.com/dakshina-arts/boxoffice/internal/catalog/domain"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ResolveEventByUID(ctx context.Context, db *gorm.DB, uid string) (*domain.BookableItem, error) {
	return r.resolveEvent(ctx, db, "uid = ?", uid)
}

func (r *repo) ResolveEventByID(ctx context.Context, db *gorm.DB, id int64) (*domain.BookableItem, error) {
	return r.resolveEvent(ctx, db, "id = ?", id)
}

func (r *repo) resolveEvent(ctx context.Context, db *gorm.DB, query string, arg any) (*domain.BookableItem, error) {
	var event domain.Event
	err := db.WithContext(ctx).
		Preload("Production").
		Preload("Solo").
		Where(query, arg).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}

	// Exactly one linked artistic work per event. Anything else is broken
	// content, not a condition the pipeline recovers from.
	if (event.Production == nil) == (event.Solo == nil) {
		return nil, domain.ErrDataIntegrity
	}

	tiers, err := r.loadTiers(ctx, db, domain.ItemTypeEvent, event.ID)
	if err != nil {
		return nil, err
	}

	return &domain.BookableItem{
		Type:  domain.ItemTypeEvent,
		Event: &event,
		Tiers: tiers,
	}, nil
}

func (r *repo) ResolveWorkshopBySlug(ctx context.Context, db *gorm.DB, rawSlug string) (*domain.BookableItem, error) {
	return r.resolveWorkshop(ctx, db, "slug = ?", slug.Make(rawSlug))
}

func (r *repo) ResolveWorkshopByID(ctx context.Context, db *gorm.DB, id int64) (*domain.BookableItem, error) {
	return r.resolveWorkshop(ctx, db, "id = ?", id)
}

func (r *repo) resolveWorkshop(ctx context.Context, db *gorm.DB, query string, arg any) (*domain.BookableItem, error) {
	var workshop domain.Workshop
	err := db.WithContext(ctx).
		Preload("Sessions", func(db *gorm.DB) *gorm.DB {
			return db.Order("starts_at asc")
		}).
		Where(query, arg).
		First(&workshop).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}

	tiers, err := r.loadTiers(ctx, db, domain.ItemTypeWorkshop, workshop.ID)
	if err != nil {
		return nil, err
	}

	return &domain.BookableItem{
		Type:     domain.ItemTypeWorkshop,
		Workshop: &workshop,
		Tiers:    tiers,
	}, nil
}

func (r *repo) loadTiers(ctx context.Context, db *gorm.DB, itemType domain.ItemType, itemID int64) ([]domain.TicketTier, error) {
	var tiers []domain.TicketTier
	err := db.WithContext(ctx).
		Where("item_type = ? AND item_id = ?", itemType, itemID).
		Order("price asc, id asc").
		Find(&tiers).Error
	if err != nil {
		return nil, err
	}
	return tiers, nil
}
