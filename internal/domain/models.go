// Package domain defines the persistence models for users, items, and
// research papers. These types are mapped with GORM and form the core data
// layer of the application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account holder (the principal all requests act as).
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Email: unique login identifier; indexed for lookup at login time.
//   - FullName: optional display name.
//   - HashedPassword: bcrypt hash; never serialized.
//   - IsActive: deactivated users fail authentication even with a valid token.
//   - IsSuperuser: grants access to administrative endpoints.
//   - LastLogin: updated on each successful credential login.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type User struct {
	ID             string         `json:"id"           gorm:"type:char(36);primaryKey"`
	Email          string         `json:"email"        gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	FullName       string         `json:"full_name"    gorm:"type:varchar(255)"`
	HashedPassword string         `json:"-"            gorm:"type:varchar(255);not null"`
	IsActive       bool           `json:"is_active"    gorm:"not null;default:true;index"`
	IsSuperuser    bool           `json:"is_superuser" gorm:"not null;default:false"`
	LastLogin      *time.Time     `json:"last_login,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-"            gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Item represents a user-owned record with optional public visibility.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Title / Description: user-provided content.
//   - IsPublic: whether the item is listed for other users.
//   - OwnerID: foreign key to the owning user (indexed).
//   - Owner: FK association, ensures cascade delete/update.
type Item struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	Title       string         `json:"title"       gorm:"type:varchar(255);not null"`
	Description string         `json:"description" gorm:"type:varchar(512)"`
	IsPublic    bool           `json:"is_public"   gorm:"not null;default:true;index"`
	OwnerID     string         `json:"owner_id"    gorm:"type:char(36);not null;index:idx_owner_items"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"           gorm:"index"`

	// Owner is the account that created the item. Items are cascade-deleted
	// if their owner is removed.
	Owner User `json:"-" gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Item.
func (Item) TableName() string { return "items" }

// Paper represents an uploaded research-paper file. The binary content lives
// on disk (see storage.FileStore); the row keeps the metadata and the public
// download URL.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - FileName: display name chosen at upload time.
//   - URL: public download URL generated after the file is persisted.
//   - IsProcess: whether the paper is queued for content processing.
//   - OwnerID: foreign key to the uploading user (indexed).
type Paper struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	FileName  string         `json:"file_name"  gorm:"type:varchar(255);not null"`
	URL       string         `json:"url"        gorm:"type:varchar(512)"`
	IsProcess bool           `json:"is_process" gorm:"not null;default:true;index"`
	OwnerID   string         `json:"owner_id"   gorm:"type:char(36);not null;index:idx_owner_papers"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`

	// Owner is the uploading account. Papers are cascade-deleted if their
	// owner is removed.
	Owner User `json:"-" gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Paper.
func (Paper) TableName() string { return "papers" }
