// Item HTTP handlers.
//
// This file exposes REST endpoints for item resources:
//   - GET    /items       (list, paginated)
//   - POST   /items       (create)
//   - GET    /items/{id}
//   - PUT    /items/{id}
//   - DELETE /items/{id}
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dida1024/AideX/internal/domain"
	"github.com/dida1024/AideX/internal/http/middleware"
	"github.com/dida1024/AideX/internal/services"
	"github.com/dida1024/AideX/internal/utils"
)

// ItemService defines item lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ItemService interface {
	// Create inserts a new item owned by the actor.
	Create(ctx context.Context, actor *domain.User, title, description string, isPublic bool) (*domain.Item, error)
	// Get returns an item visible to the actor.
	Get(ctx context.Context, actor *domain.User, id string) (*domain.Item, error)
	// ListPage returns a page of items visible to the actor and the total count.
	ListPage(ctx context.Context, actor *domain.User, page, pageSize int) ([]domain.Item, int64, error)
	// Update mutates an item the actor may edit.
	Update(ctx context.Context, actor *domain.User, id string, upd services.ItemUpdate) (*domain.Item, error)
	// Delete removes an item the actor may edit.
	Delete(ctx context.Context, actor *domain.User, id string) error
}

//
// DTOs
//

// CreateItemRequest is the JSON payload for creating an item.
type CreateItemRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=255" example:"Survey notes"`
	Description string `json:"description" binding:"max=512"`
	IsPublic    *bool  `json:"is_public"`
}

// UpdateItemRequest is the JSON payload for updating an item; omitted fields
// are left unchanged.
type UpdateItemRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=512"`
	IsPublic    *bool   `json:"is_public"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

//
// Handlers
//

// ListItems godoc
// @ID          listItems
// @Summary     List items (paginated)
// @Description Returns a page of items: all items for superusers, own items otherwise.
// @Tags        Items
// @Produce     json
// @Security    BearerAuth
//
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.Envelope{data=handlers.PaginatedData}
// @Router      /items [get]
func (h *Handlers) ListItems(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	page, pageSize := clampPagination(c)
	items, total, err := h.items.ListPage(c.Request.Context(), actor, page, pageSize)
	if err != nil {
		failBiz(c, err)
		return
	}
	paginated(c, items, total, page, pageSize)
}

// CreateItem godoc
// @ID          createItem
// @Summary     Create an item
// @Tags        Items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.CreateItemRequest  true  "New item"
//
// @Success     201  {object}  handlers.Envelope{data=domain.Item}
// @Failure     400  {object}  handlers.Envelope  "Malformed body"
// @Router      /items [post]
func (h *Handlers) CreateItem(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "title is required (1-255 chars)")
		return
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	it, err := h.items.Create(c.Request.Context(), actor, req.Title, req.Description, isPublic)
	if err != nil {
		failBiz(c, err)
		return
	}
	created(c, it)
}

// GetItem godoc
// @ID          getItem
// @Summary     Get an item by id
// @Tags        Items
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Item ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.Envelope{data=domain.Item}
// @Failure     400  {object}  handlers.Envelope  "Malformed id"
// @Router      /items/{id} [get]
func (h *Handlers) GetItem(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		badRequest(c, "item id must be a UUID")
		return
	}
	it, err := h.items.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		failBiz(c, err)
		return
	}
	ok(c, it)
}

// UpdateItem godoc
// @ID          updateItem
// @Summary     Update an item
// @Tags        Items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string                      true  "Item ID (UUID)"  format(uuid)
// @Param       body  body  handlers.UpdateItemRequest  true  "Item changes"
//
// @Success     200  {object}  handlers.Envelope{data=domain.Item}
// @Failure     400  {object}  handlers.Envelope  "Malformed request"
// @Router      /items/{id} [put]
func (h *Handlers) UpdateItem(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		badRequest(c, "item id must be a UUID")
		return
	}
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	it, err := h.items.Update(c.Request.Context(), middleware.CurrentUser(c), id, services.ItemUpdate{
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		failBiz(c, err)
		return
	}
	ok(c, it)
}

// DeleteItem godoc
// @ID          deleteItem
// @Summary     Delete an item
// @Tags        Items
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Item ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.Envelope
// @Failure     400  {object}  handlers.Envelope  "Malformed id"
// @Router      /items/{id} [delete]
func (h *Handlers) DeleteItem(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		badRequest(c, "item id must be a UUID")
		return
	}
	if err := h.items.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		failBiz(c, err)
		return
	}
	ok(c, "Item deleted successfully")
}
