package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrItemNotFound = errors.New("item_not_found")

	// ErrDataIntegrity means an event row violates the production-XOR-solo
	// invariant. Content administration owns the fix; the pipeline only reports it.
	ErrDataIntegrity = errors.New("data_integrity")
)

type Repository interface {
	ResolveEventByUID(ctx context.Context, db *gorm.DB, uid string) (*BookableItem, error)
	ResolveEventByID(ctx context.Context, db *gorm.DB, id int64) (*BookableItem, error)
	ResolveWorkshopBySlug(ctx context.Context, db *gorm.DB, slug string) (*BookableItem, error)
	ResolveWorkshopByID(ctx context.Context, db *gorm.DB, id int64) (*BookableItem, error)
}
