package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dida1024/AideX/internal/bizerr"
	"github.com/dida1024/AideX/internal/domain"
	"github.com/dida1024/AideX/internal/services"
)

func userRouter(actor *domain.User, h *Handlers) *gin.Engine {
	return newAuthedRouter(actor, func(g *gin.RouterGroup) {
		g.GET("/users", h.ListUsers)
		g.POST("/users", h.CreateUser)
		g.GET("/users/me", h.Me)
		g.PATCH("/users/me", h.UpdateMe)
		g.PATCH("/users/me/password", h.UpdateMyPassword)
		g.DELETE("/users/me", h.DeleteMe)
		g.GET("/users/:id", h.GetUser)
		g.PATCH("/users/:id", h.UpdateUser)
		g.DELETE("/users/:id", h.DeleteUser)
	})
}

func TestListUsers_SuperuserOnly(t *testing.T) {
	h := newHandlers(stubUserSvc{}, stubItemSvc{}, stubPaperSvc{}, stubIssuer{}, nil)

	w := doJSON(userRouter(regularUser(), h), http.MethodGet, "/users", "")
	if code, _, _ := mustEnvelope(t, w, http.StatusOK); code != 10202 {
		t.Fatalf("regular list code=%d", code)
	}

	svc := stubUserSvc{listPage: func(_ context.Context, page, pageSize int) ([]domain.User, int64, error) {
		if page != 3 || pageSize != 15 {
			t.Fatalf("pagination not forwarded: %d/%d", page, pageSize)
		}
		return []domain.User{{ID: "u1"}}, 31, nil
	}}
	h = newHandlers(svc, stubItemSvc{}, stubPaperSvc{}, stubIssuer{}, nil)
	w = doJSON(userRouter(superUser(), h), http.MethodGet, "/users?page=3&page_size=15", "")
	_, _, data := mustEnvelope(t, w, http.StatusOK)
	page := data.(map[string]any)
	if page["total"] != float64(31) || page["page"] != float64(3) || page["page_size"] != float64(15) {
		t.Fatalf("page payload: %#v", page)
	}
}

func TestCreateUser_Admin(t *testing.T) {
	// Non-superuser is refused before the body is read.
	h := newHandlers(stubUserSvc{}, stubItemSvc{}, stubPaperSvc{}, stubIssuer{}, nil)
	w := doJSON(userRouter(regularUser(), h), http.MethodPost, "/users", `{"email":"x@b.com","password":"password1"}`)
	if code, _, _ := mustEnvelope(t, w, http.StatusOK); code != 10202 {
		t.Fatalf("regular create code=%d", code)
	}

	// Malformed body -> 400.
	w = doJSON(userRouter(superUser(), h), http.MethodPost, "/users", `{"email":"not-an-email"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad body -> %d", w.Code)
	}

	// Success -> 201; is_active defaults to true.
	var gotActive, gotSuper bool
	svc := stubUserSvc{create: func(_ context.Context, email, _, _ string, isActive, isSuperuser bool) (*domain.User, error) {
		gotActive, gotSuper = isActive, isSuperuser
		return &domain.User{ID: otherUserID, Email: email, IsActive: isActive}, nil
	}}
	h = newHandlers(svc, stubItemSvc{}, stubPaperSvc{}, stubIssuer{}, nil)
	w = doJSON(userRouter(superUser(), h), http.MethodPost, "/users", `{"email":"x@b.com","password":"password1","is_superuser":true}`)
	if code, _, _ := mustEnvelope(t, w, http.StatusCreated); code != 201 {
		t.Fatalf("create code=%d", code)
	}
	if !gotActive || !gotSuper {
		t.Fatalf("flags: active=%v super=%v", gotActive, gotSuper)
	}

	// Duplicate email -> HTTP 200 with the business code.
	svc = stubUserSvc{create: func(context.Context, string, string, string, bool, bool) (*domain.User, error) {
		return nil, bizerr.New(bizerr.UserExists)
	}}
	h = newHandlers(svc, stubItemSvc{}, stubPaperSvc{}, stubIssuer{}, nil)
	w = doJSON(userRouter(superUser(), h), http.MethodPost, "/users", `{"email":"x@b.com","password":"password1"}`)
	if code, _, _ := mustEnvelope(t, w, http.StatusOK); code != 10104 {
		t.Fatalf("duplicate code=%d", code)
	}
}

func TestSignup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newHandlers(stubUserSvc{}, stubItemSvc{}, stubPaperSvc{}, stubIssuer{}, nil)
	r := gin.New()
	r.POST("/users/signup", h.Signup)

	// Password below the minimum -> 400.
	w := doJSON(r, http.MethodPost, "/users/signup", `{"email":"a@b.com","password":"short"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("short password -> %d", w.Code)
	}

	w = doJSON(r, http.MethodPost, "/users/signup", `{"email":"a@b.com","password":"password1","full_name":"Ada"}`)
	_, _, data := mustEnvelope(t, w, http.StatusCreated)
	u := data.(map[string]any)
	if u["email"] != "a@b.com" || u["full_name"] != "Ada" {
		t.Fatalf("signup payload: %#v", u)
	}
}

func TestMeAndUpdateMe(t *testing.T) {
	actor := regularUser()

	var target string
	var got services.UserUpdate
	svc := stubUserSvc{update: func(_ context.Context, targetID string, upd services.UserUpdate) (*domain.User, error) {
		target, got = targetID, upd
		return actor, nil
	}}
	h := newHandlers(svc, stubItemSvc{}, stubPaperSvc{}, stubIssuer{}, nil)
	r := userRouter(actor, h)

	w := doJSON(r, http.MethodGet, "/users/me", "")
	_, _, data := mustEnvelope(t, w, http.StatusOK)
	if data.(map[string]any)["id"] != actor.ID {
		t.Fatalf("me payload: %#v", data)
	}

	w = doJSON(r, http.MethodPatch, "/users/me", `{"full_name":"New Name"}`)
	mustEnvelope(t, w, http.StatusOK)
	if target != actor.ID {
		t.Fatalf("self update targeted %q", target)
	}
	if got.FullName == nil || *got.FullName != "New Name" || got.Email != nil {
		t.Fatalf("update fields: %+v", got)
	}
	// The self-service path never carries admin flags.
	if got.IsActive != nil || got.IsSuperuser != nil {
		t.Fatalf("admin flags leaked into self update: %+v", got)
	}
}

func TestUpdateMyPassword(t *testing.T) {
	actor := regularUser()
	svc := stubUserSvc{updatePassword: func(_ context.Context, _ *domain.User, current, _ string) error {
		if current != "password1" {
			return bizerr.New(bizerr.IncorrectPassword)
		}
		return nil
	}}
	h := newHandlers(svc, stubItemSvc{}, stubPaperSvc{}, stubIssuer{}, nil)
	r := userRouter(actor, h)

	w := doJSON(r, http.MethodPatch, "/users/me/password", `{"current_password":"wrong","new_password":"password2"}`)
	if code, _, _ := mustEnvelope(t, w, http.StatusOK); code != 10106 {
		t.Fatalf("wrong current code=%d", code)
	}

	w = doJSON(r, http.MethodPatch, "/users/me/password", `{"current_password":"password1","new_password":"password2"}`)
	if code, _, _ := mustEnvelope(t, w, http.StatusOK); code != 200 {
		t.Fatalf("change code=%d", code)
	}
}

func TestDeleteMe_SuperuserRefused(t *testing.T) {
	svc := stubUserSvc{deleteMe: func(_ context.Context, actor *domain.User) error {
		if actor.IsSuperuser {
			return bizerr.New(bizerr.SuperCanNotDeleteSelf)
		}
		return nil
	}}
	h := newHandlers(svc, stubItemSvc{}, stubPaperSvc{}, stubIssuer{}, nil)

	w := doJSON(userRouter(superUser(), h), http.MethodDelete, "/users/me", "")
	if code, _, _ := mustEnvelope(t, w, http.StatusOK); code != 10204 {
		t.Fatalf("superuser self delete code=%d", code)
	}

	w = doJSON(userRouter(regularUser(), h), http.MethodDelete, "/users/me", "")
	if code, _, _ := mustEnvelope(t, w, http.StatusOK); code != 200 {
		t.Fatalf("regular self delete code=%d", code)
	}
}

func TestGetUser(t *testing.T) {
	called := false
	svc := stubUserSvc{get: func(_ context.Context, id string) (*domain.User, error) {
		called = true
		if id == otherUserID {
			return &domain.User{ID: id, Email: "other@b.com", IsActive: true}, nil
		}
		return nil, bizerr.New(bizerr.UserNotFound)
	}}
	h := newHandlers(svc, stubItemSvc{}, stubPaperSvc{}, stubIssuer{}, nil)

	// Malformed id -> 400.
	w := doJSON(userRouter(regularUser(), h), http.MethodGet, "/users/not-a-uuid", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id -> %d", w.Code)
	}

	// Own id short-circuits without touching the service.
	w = doJSON(userRouter(regularUser(), h), http.MethodGet, "/users/"+regularUserID, "")
	_, _, data := mustEnvelope(t, w, http.StatusOK)
	if data.(map[string]any)["id"] != regularUserID {
		t.Fatalf("self read payload: %#v", data)
	}
	if called {
		t.Fatalf("self read hit the service")
	}

	// Another user's id requires superuser.
	w = doJSON(userRouter(regularUser(), h), http.MethodGet, "/users/"+otherUserID, "")
	if code, _, _ := mustEnvelope(t, w, http.StatusOK); code != 10202 {
		t.Fatalf("foreign read code=%d", code)
	}

	// An absent id reads as not-found before the role check, for regular
	// users and superusers alike.
	const absentID = "55555555-5555-4555-8555-555555555555"
	w = doJSON(userRouter(regularUser(), h), http.MethodGet, "/users/"+absentID, "")
	if code, _, _ := mustEnvelope(t, w, http.StatusOK); code != 10101 {
		t.Fatalf("absent id as regular user code=%d, want 10101", code)
	}
	w = doJSON(userRouter(superUser(), h), http.MethodGet, "/users/"+absentID, "")
	if code, _, _ := mustEnvelope(t, w, http.StatusOK); code != 10101 {
		t.Fatalf("absent id as superuser code=%d, want 10101", code)
	}
	w = doJSON(userRouter(superUser(), h), http.MethodGet, "/users/"+otherUserID, "")
	_, _, data = mustEnvelope(t, w, http.StatusOK)
	if data.(map[string]any)["email"] != "other@b.com" {
		t.Fatalf("admin read payload: %#v", data)
	}
}

func TestUpdateAndDeleteUser_Admin(t *testing.T) {
	var deleted string
	svc := stubUserSvc{
		update: func(_ context.Context, targetID string, upd services.UserUpdate) (*domain.User, error) {
			if upd.IsSuperuser == nil || !*upd.IsSuperuser {
				t.Fatalf("admin flag not forwarded: %+v", upd)
			}
			return &domain.User{ID: targetID, IsActive: true, IsSuperuser: true}, nil
		},
		deleteUser: func(_ context.Context, _ *domain.User, targetID string) error {
			deleted = targetID
			return nil
		},
	}
	h := newHandlers(svc, stubItemSvc{}, stubPaperSvc{}, stubIssuer{}, nil)

	// Both admin endpoints refuse regular users.
	w := doJSON(userRouter(regularUser(), h), http.MethodPatch, "/users/"+otherUserID, `{"is_superuser":true}`)
	if code, _, _ := mustEnvelope(t, w, http.StatusOK); code != 10202 {
		t.Fatalf("regular update code=%d", code)
	}
	w = doJSON(userRouter(regularUser(), h), http.MethodDelete, "/users/"+otherUserID, "")
	if code, _, _ := mustEnvelope(t, w, http.StatusOK); code != 10202 {
		t.Fatalf("regular delete code=%d", code)
	}

	w = doJSON(userRouter(superUser(), h), http.MethodPatch, "/users/"+otherUserID, `{"is_superuser":true}`)
	if code, _, _ := mustEnvelope(t, w, http.StatusOK); code != 200 {
		t.Fatalf("admin update code=%d", code)
	}
	w = doJSON(userRouter(superUser(), h), http.MethodDelete, "/users/"+otherUserID, "")
	if code, _, _ := mustEnvelope(t, w, http.StatusOK); code != 200 {
		t.Fatalf("admin delete code=%d", code)
	}
	if deleted != otherUserID {
		t.Fatalf("delete target: %q", deleted)
	}
}
