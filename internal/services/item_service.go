// Package services – ItemService
//
// CRUD over user-owned items. Access control is layered strictly: a missing
// item is reported before ownership is considered, so ItemNotFound always
// wins over PermissionDenied for absent ids.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/dida1024/AideX/internal/authz"
	"github.com/dida1024/AideX/internal/bizerr"
	"github.com/dida1024/AideX/internal/domain"
	"github.com/dida1024/AideX/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ItemService coordinates item persistence and the ownership policy.
type ItemService struct {
	DB *gorm.DB
}

// ItemUpdate carries optional item mutations; nil fields are left as-is.
type ItemUpdate struct {
	Title       *string
	Description *string
	IsPublic    *bool
}

// Create inserts a new item owned by the acting user.
func (s *ItemService) Create(ctx context.Context, actor *domain.User, title, description string, isPublic bool) (*domain.Item, error) {
	tr := otel.Tracer("services/ItemService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("user.id", actor.ID)),
	)
	defer span.End()

	return repo.CreateItem(ctx, s.DB, actor.ID, strings.TrimSpace(title), description, isPublic)
}

// Get returns an item visible to the actor.
//
// Errors: ItemNotFound, then PermissionDenied.
func (s *ItemService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Item, error) {
	it, err := s.fetch(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return it, nil
}

// ListPage returns a page of items and the total count. Superusers see every
// item; everyone else only their own.
func (s *ItemService) ListPage(ctx context.Context, actor *domain.User, page, pageSize int) ([]domain.Item, int64, error) {
	tr := otel.Tracer("services/ItemService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("user.id", actor.ID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	scope := actor.ID
	if actor.IsSuperuser {
		scope = ""
	}

	total, err := repo.CountItems(ctx, s.DB, scope)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Item{}, 0, nil
	}
	items, err := repo.ListItemsPage(ctx, s.DB, scope, (page-1)*pageSize, pageSize)
	return items, total, err
}

// Update mutates an item the actor may edit.
//
// Errors: ItemNotFound, PermissionDenied.
func (s *ItemService) Update(ctx context.Context, actor *domain.User, id string, upd ItemUpdate) (*domain.Item, error) {
	tr := otel.Tracer("services/ItemService")
	ctx, span := tr.Start(ctx, "Update",
		trace.WithAttributes(
			attribute.String("user.id", actor.ID),
			attribute.String("item.id", id),
		),
	)
	defer span.End()

	it, err := s.fetch(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if upd.Title != nil {
		it.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		it.Description = *upd.Description
	}
	if upd.IsPublic != nil {
		it.IsPublic = *upd.IsPublic
	}
	if err := repo.SaveItem(ctx, s.DB, it); err != nil {
		return nil, err
	}
	return it, nil
}

// Delete removes an item the actor may edit.
//
// Errors: ItemNotFound, PermissionDenied.
func (s *ItemService) Delete(ctx context.Context, actor *domain.User, id string) error {
	tr := otel.Tracer("services/ItemService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(
			attribute.String("user.id", actor.ID),
			attribute.String("item.id", id),
		),
	)
	defer span.End()

	if _, err := s.fetch(ctx, actor, id); err != nil {
		return err
	}
	return repo.DeleteItem(ctx, s.DB, id)
}

// fetch loads an item and applies the existence-then-ownership ordering.
func (s *ItemService) fetch(ctx context.Context, actor *domain.User, id string) (*domain.Item, error) {
	it, err := repo.GetItem(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, bizerr.New(bizerr.ItemNotFound)
	}
	if err := authz.RequireSelfOrSuperuser(actor, it.OwnerID); err != nil {
		return nil, err
	}
	return it, nil
}
