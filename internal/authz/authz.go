// Package authz implements the authorization policy: pure decision functions
// over an authenticated principal. It never touches the database; callers
// resolve the target resource first so that existence checks precede
// ownership checks, and ownership checks precede role checks.
package authz

import (
	"github.com/dida1024/AideX/internal/bizerr"
	"github.com/dida1024/AideX/internal/domain"
)

// RequireSuperuser returns PermissionDenied unless u is a superuser.
func RequireSuperuser(u *domain.User) error {
	if u == nil || !u.IsSuperuser {
		return bizerr.New(bizerr.PermissionDenied)
	}
	return nil
}

// RequireSelfOrSuperuser returns PermissionDenied unless u owns the resource
// (u.ID == ownerID) or is a superuser.
func RequireSelfOrSuperuser(u *domain.User, ownerID string) error {
	if u == nil {
		return bizerr.New(bizerr.PermissionDenied)
	}
	if u.ID == ownerID || u.IsSuperuser {
		return nil
	}
	return bizerr.New(bizerr.PermissionDenied)
}

// GuardSelfDelete rejects superusers deleting their own account. The check is
// purely on identity; it does not count remaining administrators, so a
// superuser may still delete a different superuser.
func GuardSelfDelete(actor *domain.User, targetID string) error {
	if actor != nil && actor.IsSuperuser && actor.ID == targetID {
		return bizerr.New(bizerr.SuperCanNotDeleteSelf)
	}
	return nil
}
