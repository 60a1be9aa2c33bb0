package authz

import (
	"testing"

	"github.com/dida1024/AideX/internal/bizerr"
	"github.com/dida1024/AideX/internal/domain"
)

func user(id string, super bool) *domain.User {
	return &domain.User{ID: id, IsActive: true, IsSuperuser: super}
}

func TestRequireSuperuser(t *testing.T) {
	if err := RequireSuperuser(user("u1", true)); err != nil {
		t.Fatalf("superuser rejected: %v", err)
	}
	if err := RequireSuperuser(user("u1", false)); !bizerr.IsKind(err, bizerr.PermissionDenied) {
		t.Fatalf("regular user: got %v, want PermissionDenied", err)
	}
	if err := RequireSuperuser(nil); !bizerr.IsKind(err, bizerr.PermissionDenied) {
		t.Fatalf("nil user: got %v, want PermissionDenied", err)
	}
}

func TestRequireSelfOrSuperuser_TruthTable(t *testing.T) {
	cases := []struct {
		name    string
		actor   *domain.User
		ownerID string
		allowed bool
	}{
		{"owner", user("u1", false), "u1", true},
		{"superuser not owner", user("admin", true), "u1", true},
		{"superuser owner", user("u1", true), "u1", true},
		{"stranger", user("u2", false), "u1", false},
		{"nil actor", nil, "u1", false},
	}
	for _, tc := range cases {
		err := RequireSelfOrSuperuser(tc.actor, tc.ownerID)
		if tc.allowed && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.allowed && !bizerr.IsKind(err, bizerr.PermissionDenied) {
			t.Fatalf("%s: got %v, want PermissionDenied", tc.name, err)
		}
	}
}

func TestGuardSelfDelete_Asymmetry(t *testing.T) {
	// Superuser deleting self is blocked.
	if err := GuardSelfDelete(user("u1", true), "u1"); !bizerr.IsKind(err, bizerr.SuperCanNotDeleteSelf) {
		t.Fatalf("superuser self-delete: got %v, want SuperCanNotDeleteSelf", err)
	}
	// Superuser deleting a different superuser is allowed; there is no
	// last-admin counting.
	if err := GuardSelfDelete(user("u1", true), "u2"); err != nil {
		t.Fatalf("superuser deleting other: %v", err)
	}
	// Regular users may delete themselves.
	if err := GuardSelfDelete(user("u1", false), "u1"); err != nil {
		t.Fatalf("regular self-delete: %v", err)
	}
	if err := GuardSelfDelete(nil, "u1"); err != nil {
		t.Fatalf("nil actor: %v", err)
	}
}
