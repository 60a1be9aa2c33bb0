// Package services – UserService
//
// This file implements UserService, the application-level component that owns
// the account lifecycle: self-service signup, administrative CRUD, credential
// login, password change and recovery, and first-superuser seeding.
//
// Every predictable failure surfaces as a *bizerr.Error; the HTTP layer
// translates those into envelopes without inspecting anything else.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// the acting and target user identifiers.
package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dida1024/AideX/internal/auth"
	"github.com/dida1024/AideX/internal/authz"
	"github.com/dida1024/AideX/internal/bizerr"
	"github.com/dida1024/AideX/internal/domain"
	"github.com/dida1024/AideX/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// UserService coordinates account persistence, credential checks, and the
// notifications they trigger.
type UserService struct {
	DB     *gorm.DB
	Issuer *auth.TokenIssuer
	Mailer EmailSender
}

// UserUpdate carries optional profile mutations; nil fields are left as-is.
type UserUpdate struct {
	Email    *string
	FullName *string
	Password *string

	// Admin-only flags; ignored on self-service updates.
	IsActive    *bool
	IsSuperuser *bool
}

// Register creates a regular active account (self-service signup).
//
// Errors: UserExists when the email is taken, UserCreateFail when the insert
// fails for any other reason.
func (s *UserService) Register(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "Register",
		trace.WithAttributes(attribute.String("user.email", email)),
	)
	defer span.End()

	return s.create(ctx, email, password, fullName, true, false)
}

// Create inserts an account with explicit flags (administrative path).
func (s *UserService) Create(ctx context.Context, email, password, fullName string, isActive, isSuperuser bool) (*domain.User, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("user.email", email)),
	)
	defer span.End()

	return s.create(ctx, email, password, fullName, isActive, isSuperuser)
}

func (s *UserService) create(ctx context.Context, email, password, fullName string, isActive, isSuperuser bool) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, bizerr.New(bizerr.UserExists)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, bizerr.New(bizerr.UserCreateFail)
	}
	u, err := repo.CreateUser(ctx, s.DB, email, fullName, hash, isActive, isSuperuser)
	if err != nil {
		return nil, bizerr.New(bizerr.UserCreateFail)
	}

	if s.Mailer != nil {
		// Delivery failures must not fail the signup.
		_ = s.Mailer.SendAccountCreated(ctx, u.Email)
	}
	return u, nil
}

// Get returns the user with the given id.
//
// Errors: UserNotFound.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, bizerr.New(bizerr.UserNotFound)
	}
	return u, nil
}

// ListPage returns a page of users and the total count.
func (s *UserService) ListPage(ctx context.Context, page, pageSize int) ([]domain.User, int64, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
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

	total, err := repo.CountUsers(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.User{}, 0, nil
	}
	items, err := repo.ListUsersPage(ctx, s.DB, (page-1)*pageSize, pageSize)
	return items, total, err
}

// Update applies a profile mutation to the target user.
//
// Errors: UserNotFound when the target is absent, UserExists when the new
// email already belongs to another account.
func (s *UserService) Update(ctx context.Context, targetID string, upd UserUpdate) (*domain.User, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "Update",
		trace.WithAttributes(attribute.String("user.id", targetID)),
	)
	defer span.End()

	u, err := repo.GetUser(ctx, s.DB, targetID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, bizerr.New(bizerr.UserNotFound)
	}

	if upd.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*upd.Email))
		if email != u.Email {
			other, err := repo.GetUserByEmail(ctx, s.DB, email)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != u.ID {
				return nil, bizerr.New(bizerr.UserExists)
			}
			u.Email = email
		}
	}
	if upd.FullName != nil {
		u.FullName = strings.TrimSpace(*upd.FullName)
	}
	if upd.Password != nil {
		hash, err := auth.HashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		u.HashedPassword = hash
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	if upd.IsSuperuser != nil {
		u.IsSuperuser = *upd.IsSuperuser
	}

	if err := repo.SaveUser(ctx, s.DB, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdatePassword changes the acting user's own password after verifying the
// current one.
//
// Errors: IncorrectPassword, PasswordSame.
func (s *UserService) UpdatePassword(ctx context.Context, actor *domain.User, current, next string) error {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "UpdatePassword",
		trace.WithAttributes(attribute.String("user.id", actor.ID)),
	)
	defer span.End()

	if !auth.VerifyPassword(actor.HashedPassword, current) {
		return bizerr.New(bizerr.IncorrectPassword)
	}
	if current == next {
		return bizerr.New(bizerr.PasswordSame)
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	actor.HashedPassword = hash
	return repo.SaveUser(ctx, s.DB, actor)
}

// Authenticate checks email+password credentials for login and stamps
// LastLogin on success.
//
// Errors: UserEmailOrPasswordFail (unknown email or wrong password, kept
// indistinguishable), UserNotActive.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "Authenticate",
		trace.WithAttributes(attribute.String("user.email", email)),
	)
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !auth.VerifyPassword(u.HashedPassword, password) {
		return nil, bizerr.New(bizerr.UserEmailOrPasswordFail)
	}
	if !u.IsActive {
		return nil, bizerr.New(bizerr.UserNotActive)
	}

	now := time.Now().UTC()
	if err := repo.TouchLastLogin(ctx, s.DB, u.ID, now); err != nil {
		return nil, err
	}
	u.LastLogin = &now
	return u, nil
}

// DeleteMe removes the acting user's own account, cascading their items and
// papers.
//
// Errors: SuperCanNotDeleteSelf for superusers.
func (s *UserService) DeleteMe(ctx context.Context, actor *domain.User) error {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "DeleteMe",
		trace.WithAttributes(attribute.String("user.id", actor.ID)),
	)
	defer span.End()

	if err := authz.GuardSelfDelete(actor, actor.ID); err != nil {
		return err
	}
	return repo.DeleteUser(ctx, s.DB, actor.ID)
}

// Delete removes a target account (administrative path). A superuser may
// delete anyone but themselves.
//
// Errors: UserNotFound, SuperCanNotDeleteSelf.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, targetID string) error {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(
			attribute.String("user.id", actor.ID),
			attribute.String("target.id", targetID),
		),
	)
	defer span.End()

	target, err := repo.GetUser(ctx, s.DB, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return bizerr.New(bizerr.UserNotFound)
	}
	if err := authz.GuardSelfDelete(actor, targetID); err != nil {
		return err
	}
	return repo.DeleteUser(ctx, s.DB, targetID)
}

// RecoverPassword issues a reset token for the address and mails it.
//
// Errors: UserNotFound when no account has this email.
func (s *UserService) RecoverPassword(ctx context.Context, email string) error {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "RecoverPassword",
		trace.WithAttributes(attribute.String("user.email", email)),
	)
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		return err
	}
	if u == nil {
		return bizerr.New(bizerr.UserNotFound)
	}
	token, err := s.Issuer.IssueResetToken(u.Email)
	if err != nil {
		return err
	}
	if s.Mailer != nil {
		return s.Mailer.SendPasswordReset(ctx, u.Email, token)
	}
	return nil
}

// ResetPassword verifies a reset token and replaces the account password.
//
// Errors: AuthFail (bad token), UserNotFound, UserNotActive.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "ResetPassword")
	defer span.End()

	email, err := s.Issuer.VerifyResetToken(token)
	if err != nil {
		return err
	}
	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		return err
	}
	if u == nil {
		return bizerr.New(bizerr.UserNotFound)
	}
	if !u.IsActive {
		return bizerr.New(bizerr.UserNotActive)
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.HashedPassword = hash
	return repo.SaveUser(ctx, s.DB, u)
}

// EnsureSuperuser seeds the first superuser account when it does not exist
// yet. Called once at startup; a blank password skips seeding.
func (s *UserService) EnsureSuperuser(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	existing, err := repo.GetUserByEmail(ctx, s.DB, strings.ToLower(email))
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = repo.CreateUser(ctx, s.DB, strings.ToLower(email), "", hash, true, true)
	return err
}
