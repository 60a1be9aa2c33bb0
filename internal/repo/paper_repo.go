// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Paper model.
package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dida1024/AideX/internal/domain"
)

// CreatePaper inserts a new paper row owned by ownerID.
func CreatePaper(ctx context.Context, db *gorm.DB, ownerID, fileName, url string, isProcess bool) (*domain.Paper, error) {
	p := &domain.Paper{
		ID:        uuid.NewString(),
		FileName:  fileName,
		URL:       url,
		IsProcess: isProcess,
		OwnerID:   ownerID,
	}
	return p, db.WithContext(ctx).Create(p).Error
}

// GetPaper fetches a paper by id, returning (nil, nil) when absent.
func GetPaper(ctx context.Context, db *gorm.DB, id string) (*domain.Paper, error) {
	var p domain.Paper
	err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CountPapers returns the number of papers in scope: all papers for
// superusers (empty ownerID), otherwise only the owner's.
func CountPapers(ctx context.Context, db *gorm.DB, ownerID string) (int64, error) {
	var total int64
	q := db.WithContext(ctx).Model(&domain.Paper{})
	if ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	err := q.Count(&total).Error
	return total, err
}

// ListPapersPage returns a paginated slice ordered (CreatedAt ASC, ID ASC),
// scoped like CountPapers.
func ListPapersPage(ctx context.Context, db *gorm.DB, ownerID string, offset, limit int) ([]domain.Paper, error) {
	var out []domain.Paper
	q := db.WithContext(ctx).Order("created_at ASC, id ASC")
	if ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	err := q.Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}
