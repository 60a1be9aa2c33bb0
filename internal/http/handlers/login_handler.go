// Login HTTP handlers.
//
// This file exposes the credential endpoints:
//   - POST /login/access-token       (OAuth2-style password form login)
//   - POST /login/test-token         (verify a bearer token)
//   - POST /password-recovery/{email}
//   - POST /reset-password
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into response envelopes.
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/dida1024/AideX/internal/domain"
	"github.com/dida1024/AideX/internal/http/middleware"
	"github.com/dida1024/AideX/internal/services"
)

//
// Service contracts (context-aware)
//

// UserService defines the account operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type UserService interface {
	// Register creates a regular active account (signup).
	Register(ctx context.Context, email, password, fullName string) (*domain.User, error)
	// Create inserts an account with explicit flags (admin).
	Create(ctx context.Context, email, password, fullName string, isActive, isSuperuser bool) (*domain.User, error)
	// Get returns the user with the given id.
	Get(ctx context.Context, id string) (*domain.User, error)
	// ListPage returns a page of users and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.User, int64, error)
	// Update applies a profile mutation to the target user.
	Update(ctx context.Context, targetID string, upd services.UserUpdate) (*domain.User, error)
	// UpdatePassword changes the actor's own password.
	UpdatePassword(ctx context.Context, actor *domain.User, current, next string) error
	// Authenticate checks email+password credentials for login.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	// DeleteMe removes the actor's own account.
	DeleteMe(ctx context.Context, actor *domain.User) error
	// Delete removes a target account (admin).
	Delete(ctx context.Context, actor *domain.User, targetID string) error
	// RecoverPassword issues and mails a reset token.
	RecoverPassword(ctx context.Context, email string) error
	// ResetPassword verifies a reset token and replaces the password.
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// TokenIssuer signs access tokens for authenticated principals.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

//
// DTOs
//

// LoginRequest is the form payload for password login.
type LoginRequest struct {
	// Username is the account email (OAuth2 password-flow field name).
	Username string `form:"username" binding:"required" example:"user@example.com"`
	Password string `form:"password" binding:"required" example:"changethis"`
}

// TokenData is the `data` payload returned by a successful login.
type TokenData struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
}

// ResetPasswordRequest is the JSON payload for completing password recovery.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

//
// Handlers
//

// LoginAccessToken godoc
// @ID          loginAccessToken
// @Summary     Log in with email and password
// @Description Exchanges form credentials for a bearer access token.
// @Tags        Login
// @Accept      x-www-form-urlencoded
// @Produce     json
//
// @Param       username  formData  string  true  "Account email"
// @Param       password  formData  string  true  "Password"
//
// @Success     200  {object}  handlers.Envelope{data=handlers.TokenData}
// @Failure     400  {object}  handlers.Envelope  "Malformed form"
// @Router      /login/access-token [post]
func (h *Handlers) LoginAccessToken(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "username and password are required")
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		failBiz(c, err)
		return
	}
	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		failBiz(c, err)
		return
	}
	ok(c, TokenData{AccessToken: token, TokenType: "bearer"})
}

// TestToken godoc
// @ID          testToken
// @Summary     Verify the presented bearer token
// @Description Returns the authenticated user when the token is valid.
// @Tags        Login
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  handlers.Envelope{data=domain.User}
// @Router      /login/test-token [post]
func (h *Handlers) TestToken(c *gin.Context) {
	ok(c, middleware.CurrentUser(c))
}

// PasswordRecovery godoc
// @ID          passwordRecovery
// @Summary     Start password recovery
// @Description Sends a password-reset token to the given address.
// @Tags        Login
// @Produce     json
//
// @Param       email  path  string  true  "Account email"
//
// @Success     200  {object}  handlers.Envelope
// @Router      /password-recovery/{email} [post]
func (h *Handlers) PasswordRecovery(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		badRequest(c, "email is required")
		return
	}
	if err := h.users.RecoverPassword(c.Request.Context(), email); err != nil {
		failBiz(c, err)
		return
	}
	ok(c, "Password recovery email sent")
}

// ResetPassword godoc
// @ID          resetPassword
// @Summary     Complete password recovery
// @Description Verifies the reset token and sets a new password.
// @Tags        Login
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.ResetPasswordRequest  true  "Reset payload"
//
// @Success     200  {object}  handlers.Envelope
// @Failure     400  {object}  handlers.Envelope  "Malformed body"
// @Router      /reset-password [post]
func (h *Handlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "token and new_password (min 8 chars) are required")
		return
	}
	if err := h.users.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		failBiz(c, err)
		return
	}
	ok(c, "Password updated successfully")
}
