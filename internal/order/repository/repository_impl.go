package repository

import (
	"context"
	"errors"

	"github.com/dakshina-arts/boxoffice/internal/order/domain"
	"gorm.io/gorm"
)

type Repository struct{}

func New() domain.Repository {
	return &Repository{}
}

func (r *Repository) Insert(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Create(order).Error
}

func (r *Repository) FindByPaymentID(ctx context.Context, db *gorm.DB, paymentID string) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *Repository) ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	var orders []domain.Order
	err := db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
