package orderstore

import (
	"context"
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderStore implements the OrderStore port using GORM.
type GormOrderStore struct {
	db *gorm.DB
}

// NewGormOrderStore creates a new GORM-backed order store.
func NewGormOrderStore(db *gorm.DB) (*GormOrderStore, error) {
	if db == nil {
		return nil, errs.NewValueIsRequiredError("db")
	}

	return &GormOrderStore{db: db}, nil
}

// Get retrieves a fresh snapshot of an assignment row by id.
func (s *GormOrderStore) Get(ctx context.Context, id string) (*order.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errs.NewValueIsRequiredError("id")
	}

	var dto AssignedOrderDTO
	if err := s.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("assigned order", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllAssigned retrieves snapshots of every assignment row.
func (s *GormOrderStore) GetAllAssigned(ctx context.Context) ([]*order.Order, error) {
	var dtos []AssignedOrderDTO
	if err := s.db.WithContext(ctx).Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// UpdateStatus sets the status of an assignment row. The status is written
// in its normalized form.
func (s *GormOrderStore) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	result := s.db.WithContext(ctx).
		Model(&AssignedOrderDTO{}).
		Where("id = ?", id).
		Update("order_status", status.String())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("assigned order", id)
	}

	return nil
}

// Delete removes an assignment row. Deleting an absent row succeeds, so a
// cleanup retry after a partial completion stays idempotent.
func (s *GormOrderStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&AssignedOrderDTO{}).Error
}
