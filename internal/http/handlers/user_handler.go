// User HTTP handlers.
//
// This file exposes REST endpoints for user accounts:
//   - GET    /users               (superuser, paginated)
//   - POST   /users               (superuser create)
//   - POST   /users/signup        (self-service, unauthenticated)
//   - GET    /users/me            (current profile)
//   - PATCH  /users/me            (update own profile)
//   - PATCH  /users/me/password   (change own password)
//   - DELETE /users/me            (delete own account)
//   - GET    /users/{id}          (self or superuser)
//   - PATCH  /users/{id}          (superuser)
//   - DELETE /users/{id}          (superuser)
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dida1024/AideX/internal/authz"
	"github.com/dida1024/AideX/internal/http/middleware"
	"github.com/dida1024/AideX/internal/services"
)

//
// DTOs
//

// SignupRequest is the JSON payload for self-service registration.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"max=255" example:"Ada Lovelace"`
}

// CreateUserRequest is the JSON payload for the administrative create.
type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FullName    string `json:"full_name" binding:"max=255"`
	IsActive    *bool  `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

// UpdateMeRequest is the JSON payload for updating one's own profile.
type UpdateMeRequest struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	FullName *string `json:"full_name" binding:"omitempty,max=255"`
}

// UpdateUserRequest is the JSON payload for the administrative update.
type UpdateUserRequest struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	FullName    *string `json:"full_name" binding:"omitempty,max=255"`
	Password    *string `json:"password" binding:"omitempty,min=8"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
}

// UpdatePasswordRequest is the JSON payload for changing one's own password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

//
// Handlers
//

// ListUsers godoc
// @ID          listUsers
// @Summary     List users (superuser, paginated)
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
//
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.Envelope{data=handlers.PaginatedData}
// @Router      /users [get]
func (h *Handlers) ListUsers(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if err := authz.RequireSuperuser(actor); err != nil {
		failBiz(c, err)
		return
	}
	page, pageSize := clampPagination(c)
	items, total, err := h.users.ListPage(c.Request.Context(), page, pageSize)
	if err != nil {
		failBiz(c, err)
		return
	}
	paginated(c, items, total, page, pageSize)
}

// CreateUser godoc
// @ID          createUser
// @Summary     Create a user (superuser)
// @Tags        Users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.CreateUserRequest  true  "New account"
//
// @Success     201  {object}  handlers.Envelope{data=domain.User}
// @Failure     400  {object}  handlers.Envelope  "Malformed body"
// @Router      /users [post]
func (h *Handlers) CreateUser(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if err := authz.RequireSuperuser(actor); err != nil {
		failBiz(c, err)
		return
	}
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password (min 8 chars) are required")
		return
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	u, err := h.users.Create(c.Request.Context(), req.Email, req.Password, req.FullName, isActive, req.IsSuperuser)
	if err != nil {
		failBiz(c, err)
		return
	}
	created(c, u)
}

// Signup godoc
// @ID          signup
// @Summary     Register a new account
// @Tags        Users
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SignupRequest  true  "Signup payload"
//
// @Success     201  {object}  handlers.Envelope{data=domain.User}
// @Failure     400  {object}  handlers.Envelope  "Malformed body"
// @Router      /users/signup [post]
func (h *Handlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password (min 8 chars) are required")
		return
	}
	u, err := h.users.Register(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		failBiz(c, err)
		return
	}
	created(c, u)
}

// Me godoc
// @ID          me
// @Summary     Get own profile
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  handlers.Envelope{data=domain.User}
// @Router      /users/me [get]
func (h *Handlers) Me(c *gin.Context) {
	ok(c, middleware.CurrentUser(c))
}

// UpdateMe godoc
// @ID          updateMe
// @Summary     Update own profile
// @Tags        Users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.UpdateMeRequest  true  "Profile changes"
//
// @Success     200  {object}  handlers.Envelope{data=domain.User}
// @Failure     400  {object}  handlers.Envelope  "Malformed body"
// @Router      /users/me [patch]
func (h *Handlers) UpdateMe(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	u, err := h.users.Update(c.Request.Context(), actor.ID, services.UserUpdate{
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		failBiz(c, err)
		return
	}
	ok(c, u)
}

// UpdateMyPassword godoc
// @ID          updateMyPassword
// @Summary     Change own password
// @Tags        Users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.UpdatePasswordRequest  true  "Password change"
//
// @Success     200  {object}  handlers.Envelope
// @Failure     400  {object}  handlers.Envelope  "Malformed body"
// @Router      /users/me/password [patch]
func (h *Handlers) UpdateMyPassword(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "current_password and new_password (min 8 chars) are required")
		return
	}
	if err := h.users.UpdatePassword(c.Request.Context(), actor, req.CurrentPassword, req.NewPassword); err != nil {
		failBiz(c, err)
		return
	}
	ok(c, "Password updated successfully")
}

// DeleteMe godoc
// @ID          deleteMe
// @Summary     Delete own account
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  handlers.Envelope
// @Router      /users/me [delete]
func (h *Handlers) DeleteMe(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if err := h.users.DeleteMe(c.Request.Context(), actor); err != nil {
		failBiz(c, err)
		return
	}
	ok(c, "User deleted successfully")
}

// GetUser godoc
// @ID          getUser
// @Summary     Get a user by id (self or superuser)
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "User ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.Envelope{data=domain.User}
// @Failure     400  {object}  handlers.Envelope  "Malformed id"
// @Router      /users/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		badRequest(c, "user id must be a UUID")
		return
	}
	actor := middleware.CurrentUser(c)
	if id == actor.ID {
		ok(c, actor)
		return
	}
	// Resolve the target before the role check, so an absent id reads as
	// "not found" rather than "forbidden" regardless of who asks.
	u, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		failBiz(c, err)
		return
	}
	if err := authz.RequireSuperuser(actor); err != nil {
		failBiz(c, err)
		return
	}
	ok(c, u)
}

// UpdateUser godoc
// @ID          updateUser
// @Summary     Update a user (superuser)
// @Tags        Users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string                      true  "User ID (UUID)"  format(uuid)
// @Param       body  body  handlers.UpdateUserRequest  true  "Account changes"
//
// @Success     200  {object}  handlers.Envelope{data=domain.User}
// @Failure     400  {object}  handlers.Envelope  "Malformed request"
// @Router      /users/{id} [patch]
func (h *Handlers) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		badRequest(c, "user id must be a UUID")
		return
	}
	actor := middleware.CurrentUser(c)
	if err := authz.RequireSuperuser(actor); err != nil {
		failBiz(c, err)
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	u, err := h.users.Update(c.Request.Context(), id, services.UserUpdate{
		Email:       req.Email,
		FullName:    req.FullName,
		Password:    req.Password,
		IsActive:    req.IsActive,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		failBiz(c, err)
		return
	}
	ok(c, u)
}

// DeleteUser godoc
// @ID          deleteUser
// @Summary     Delete a user (superuser)
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "User ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.Envelope
// @Failure     400  {object}  handlers.Envelope  "Malformed id"
// @Router      /users/{id} [delete]
func (h *Handlers) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		badRequest(c, "user id must be a UUID")
		return
	}
	actor := middleware.CurrentUser(c)
	if err := authz.RequireSuperuser(actor); err != nil {
		failBiz(c, err)
		return
	}
	if err := h.users.Delete(c.Request.Context(), actor, id); err != nil {
		failBiz(c, err)
		return
	}
	ok(c, "User deleted successfully")
}
