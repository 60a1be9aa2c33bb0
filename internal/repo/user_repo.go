// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// Lookups return (nil, nil) when no row matches; callers decide which
// business error a missing user maps to.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dida1024/AideX/internal/domain"
)

// CreateUser inserts a new user row with a generated UUID.
func CreateUser(ctx context.Context, db *gorm.DB, email, fullName, hashedPassword string, isActive, isSuperuser bool) (*domain.User, error) {
	u := &domain.User{
		ID:             uuid.NewString(),
		Email:          email,
		FullName:       fullName,
		HashedPassword: hashedPassword,
		IsActive:       isActive,
		IsSuperuser:    isSuperuser,
	}
	return u, db.WithContext(ctx).Create(u).Error
}

// GetUser fetches a user by id.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches a user by email.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CountUsers returns the total number of users.
func CountUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error
	return total, err
}

// ListUsersPage returns a paginated slice ordered (CreatedAt ASC, ID ASC).
func ListUsersPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.User, error) {
	var out []domain.User
	err := db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// SaveUser persists all mutated fields of an existing user.
func SaveUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	return db.WithContext(ctx).Save(u).Error
}

// TouchLastLogin stamps the user's last successful credential login.
func TouchLastLogin(ctx context.Context, db *gorm.DB, id string, at time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}

// DeleteUser soft-deletes a user and cascades to their items and papers in
// one transaction.
func DeleteUser(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", id).Delete(&domain.Item{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", id).Delete(&domain.Paper{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.User{}).Error
	})
}
