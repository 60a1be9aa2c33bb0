// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Item model.
package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dida1024/AideX/internal/domain"
)

// CreateItem inserts a new item row owned by ownerID.
func CreateItem(ctx context.Context, db *gorm.DB, ownerID, title, description string, isPublic bool) (*domain.Item, error) {
	it := &domain.Item{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		IsPublic:    isPublic,
		OwnerID:     ownerID,
	}
	return it, db.WithContext(ctx).Create(it).Error
}

// GetItem fetches an item by id, returning (nil, nil) when absent.
func GetItem(ctx context.Context, db *gorm.DB, id string) (*domain.Item, error) {
	var it domain.Item
	err := db.WithContext(ctx).Where("id = ?", id).First(&it).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// CountItems returns the number of items visible to the scope: all items for
// superusers (empty ownerID), otherwise only the owner's.
func CountItems(ctx context.Context, db *gorm.DB, ownerID string) (int64, error) {
	var total int64
	q := db.WithContext(ctx).Model(&domain.Item{})
	if ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	err := q.Count(&total).Error
	return total, err
}

// ListItemsPage returns a paginated slice ordered (CreatedAt ASC, ID ASC),
// scoped like CountItems.
func ListItemsPage(ctx context.Context, db *gorm.DB, ownerID string, offset, limit int) ([]domain.Item, error) {
	var out []domain.Item
	q := db.WithContext(ctx).Order("created_at ASC, id ASC")
	if ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	err := q.Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// SaveItem persists all mutated fields of an existing item.
func SaveItem(ctx context.Context, db *gorm.DB, it *domain.Item) error {
	return db.WithContext(ctx).Save(it).Error
}

// DeleteItem soft-deletes an item by id.
func DeleteItem(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Item{}).Error
}
