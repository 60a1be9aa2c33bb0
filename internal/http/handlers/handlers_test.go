package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dida1024/AideX/internal/domain"
	"github.com/dida1024/AideX/internal/http/middleware"
	"github.com/dida1024/AideX/internal/services"
	"github.com/dida1024/AideX/internal/storage"
)

// ---------- principals ----------

const (
	regularUserID = "11111111-1111-4111-8111-111111111111"
	superUserID   = "22222222-2222-4222-8222-222222222222"
	otherUserID   = "33333333-3333-4333-8333-333333333333"
)

func regularUser() *domain.User {
	return &domain.User{ID: regularUserID, Email: "user@b.com", IsActive: true}
}

func superUser() *domain.User {
	return &domain.User{ID: superUserID, Email: "admin@b.com", IsActive: true, IsSuperuser: true}
}

// stubAuthn satisfies middleware.UserAuthenticator with a canned principal.
type stubAuthn struct{ u *domain.User }

func (s stubAuthn) Authenticate(context.Context, string) (*domain.User, error) {
	return s.u, nil
}

// newAuthedRouter mounts the real auth gate in front of the registered routes
// so handlers read the principal the same way they do in production.
func newAuthedRouter(actor *domain.User, register func(g *gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("", middleware.RequireUser(stubAuthn{u: actor}))
	register(g)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer test-token")
	r.ServeHTTP(w, req)
	return w
}

// envelope decodes the uniform {code, message, data} body and fails the test
// when any field is missing.
func envelope(t *testing.T, w *httptest.ResponseRecorder) (code int, message string, data any) {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("envelope json: %v body=%s", err, w.Body.String())
	}
	f, ok := body["code"].(float64)
	if !ok {
		t.Fatalf("envelope missing code: %s", w.Body.String())
	}
	msg, _ := body["message"].(string)
	data, ok = body["data"]
	if !ok {
		t.Fatalf("envelope missing data: %s", w.Body.String())
	}
	return int(f), msg, data
}

var errBoom = errors.New("boom")

// ---------- service stubs ----------

// stubUserSvc implements UserService with overridable behavior per method.
type stubUserSvc struct {
	register       func(ctx context.Context, email, password, fullName string) (*domain.User, error)
	create         func(ctx context.Context, email, password, fullName string, isActive, isSuperuser bool) (*domain.User, error)
	get            func(ctx context.Context, id string) (*domain.User, error)
	listPage       func(ctx context.Context, page, pageSize int) ([]domain.User, int64, error)
	update         func(ctx context.Context, targetID string, upd services.UserUpdate) (*domain.User, error)
	updatePassword func(ctx context.Context, actor *domain.User, current, next string) error
	authenticate   func(ctx context.Context, email, password string) (*domain.User, error)
	deleteMe       func(ctx context.Context, actor *domain.User) error
	deleteUser     func(ctx context.Context, actor *domain.User, targetID string) error
	recover        func(ctx context.Context, email string) error
	reset          func(ctx context.Context, token, newPassword string) error
}

func (s stubUserSvc) Register(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	if s.register != nil {
		return s.register(ctx, email, password, fullName)
	}
	return &domain.User{ID: otherUserID, Email: email, FullName: fullName, IsActive: true}, nil
}

func (s stubUserSvc) Create(ctx context.Context, email, password, fullName string, isActive, isSuperuser bool) (*domain.User, error) {
	if s.create != nil {
		return s.create(ctx, email, password, fullName, isActive, isSuperuser)
	}
	return &domain.User{ID: otherUserID, Email: email, FullName: fullName, IsActive: isActive, IsSuperuser: isSuperuser}, nil
}

func (s stubUserSvc) Get(ctx context.Context, id string) (*domain.User, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return &domain.User{ID: id, Email: "found@b.com", IsActive: true}, nil
}

func (s stubUserSvc) ListPage(ctx context.Context, page, pageSize int) ([]domain.User, int64, error) {
	if s.listPage != nil {
		return s.listPage(ctx, page, pageSize)
	}
	return []domain.User{}, 0, nil
}

func (s stubUserSvc) Update(ctx context.Context, targetID string, upd services.UserUpdate) (*domain.User, error) {
	if s.update != nil {
		return s.update(ctx, targetID, upd)
	}
	return &domain.User{ID: targetID, IsActive: true}, nil
}

func (s stubUserSvc) UpdatePassword(ctx context.Context, actor *domain.User, current, next string) error {
	if s.updatePassword != nil {
		return s.updatePassword(ctx, actor, current, next)
	}
	return nil
}

func (s stubUserSvc) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if s.authenticate != nil {
		return s.authenticate(ctx, email, password)
	}
	return &domain.User{ID: regularUserID, Email: email, IsActive: true}, nil
}

func (s stubUserSvc) DeleteMe(ctx context.Context, actor *domain.User) error {
	if s.deleteMe != nil {
		return s.deleteMe(ctx, actor)
	}
	return nil
}

func (s stubUserSvc) Delete(ctx context.Context, actor *domain.User, targetID string) error {
	if s.deleteUser != nil {
		return s.deleteUser(ctx, actor, targetID)
	}
	return nil
}

func (s stubUserSvc) RecoverPassword(ctx context.Context, email string) error {
	if s.recover != nil {
		return s.recover(ctx, email)
	}
	return nil
}

func (s stubUserSvc) ResetPassword(ctx context.Context, token, newPassword string) error {
	if s.reset != nil {
		return s.reset(ctx, token, newPassword)
	}
	return nil
}

// stubItemSvc implements ItemService with overridable behavior per method.
type stubItemSvc struct {
	create   func(ctx context.Context, actor *domain.User, title, description string, isPublic bool) (*domain.Item, error)
	get      func(ctx context.Context, actor *domain.User, id string) (*domain.Item, error)
	listPage func(ctx context.Context, actor *domain.User, page, pageSize int) ([]domain.Item, int64, error)
	update   func(ctx context.Context, actor *domain.User, id string, upd services.ItemUpdate) (*domain.Item, error)
	del      func(ctx context.Context, actor *domain.User, id string) error
}

func (s stubItemSvc) Create(ctx context.Context, actor *domain.User, title, description string, isPublic bool) (*domain.Item, error) {
	if s.create != nil {
		return s.create(ctx, actor, title, description, isPublic)
	}
	return &domain.Item{ID: "i1", Title: title, Description: description, IsPublic: isPublic, OwnerID: actor.ID}, nil
}

func (s stubItemSvc) Get(ctx context.Context, actor *domain.User, id string) (*domain.Item, error) {
	if s.get != nil {
		return s.get(ctx, actor, id)
	}
	return &domain.Item{ID: id, Title: "t", OwnerID: actor.ID}, nil
}

func (s stubItemSvc) ListPage(ctx context.Context, actor *domain.User, page, pageSize int) ([]domain.Item, int64, error) {
	if s.listPage != nil {
		return s.listPage(ctx, actor, page, pageSize)
	}
	return []domain.Item{}, 0, nil
}

func (s stubItemSvc) Update(ctx context.Context, actor *domain.User, id string, upd services.ItemUpdate) (*domain.Item, error) {
	if s.update != nil {
		return s.update(ctx, actor, id, upd)
	}
	return &domain.Item{ID: id, OwnerID: actor.ID}, nil
}

func (s stubItemSvc) Delete(ctx context.Context, actor *domain.User, id string) error {
	if s.del != nil {
		return s.del(ctx, actor, id)
	}
	return nil
}

// stubPaperSvc implements PaperService with overridable behavior per method.
type stubPaperSvc struct {
	listPage func(ctx context.Context, actor *domain.User, page, pageSize int) ([]domain.Paper, int64, error)
	upload   func(ctx context.Context, actor *domain.User, fileName, contentType string, content io.Reader, isProcess bool) (*domain.Paper, error)
}

func (s stubPaperSvc) ListPage(ctx context.Context, actor *domain.User, page, pageSize int) ([]domain.Paper, int64, error) {
	if s.listPage != nil {
		return s.listPage(ctx, actor, page, pageSize)
	}
	return []domain.Paper{}, 0, nil
}

func (s stubPaperSvc) Upload(ctx context.Context, actor *domain.User, fileName, contentType string, content io.Reader, isProcess bool) (*domain.Paper, error) {
	if s.upload != nil {
		return s.upload(ctx, actor, fileName, contentType, content, isProcess)
	}
	return &domain.Paper{ID: "p1", FileName: fileName, OwnerID: actor.ID, IsProcess: isProcess}, nil
}

// stubIssuer implements TokenIssuer.
type stubIssuer struct {
	token string
	err   error
}

func (s stubIssuer) Issue(string) (string, error) { return s.token, s.err }

// stubChatSvc implements ChatCompleter.
type stubChatSvc struct {
	chat func(ctx context.Context, strategy, prompt string) (string, error)
}

func (s stubChatSvc) Chat(ctx context.Context, strategy, prompt string) (string, error) {
	if s.chat != nil {
		return s.chat(ctx, strategy, prompt)
	}
	return "reply", nil
}

// newHandlers builds a Handlers with all-stub services; override per test.
func newHandlers(users UserService, items ItemService, papers PaperService, tokens TokenIssuer, chat ChatCompleter) *Handlers {
	return New(users, items, papers, tokens, chat, storage.FileStore{Dir: ""})
}
