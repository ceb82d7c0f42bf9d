package application

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	"github.com/oksasatya/go-identity-service/internal/domain/service"
)

func init() {
	entity.HashCost = bcrypt.MinCost
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type storedUser struct {
	username, email, password string
	deleted, admin            bool
}

func buildUser(t *testing.T, s storedUser) *entity.User {
	t.Helper()
	id := entity.NewUserID()
	u := entity.NewUser(entity.UserProps{
		Username:    entity.NewUserName(s.username).Value(),
		Email:       entity.NewUserEmail(s.email).Value(),
		Credential:  entity.NewUserCredential(s.password).Value(),
		Scope:       entity.NewUserScope("profile email").Value(),
		IsDeleted:   s.deleted,
		IsAdminUser: s.admin,
	}, &id)
	require.True(t, u.IsSuccess(), u.Error())
	return u.Value()
}

// fakeRepo is an in-memory UserRepository that records calls.
type fakeRepo struct {
	mu        sync.Mutex
	users     map[string]*entity.User
	calls     []string
	existsErr error
	saveOK    bool
	saveErr   error
	deleteOK  bool
	markOK    bool
}

func newFakeRepo(users ...*entity.User) *fakeRepo {
	r := &fakeRepo{users: map[string]*entity.User{}, saveOK: true, deleteOK: true, markOK: true}
	for _, u := range users {
		r.users[u.Username().Value()] = u
	}
	return r
}

func (r *fakeRepo) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *fakeRepo) Exists(ctx context.Context, username, email string) (*entity.User, error) {
	r.record("exists")
	if r.existsErr != nil {
		return nil, r.existsErr
	}
	if u, ok := r.users[username]; ok {
		return u, nil
	}
	if email != "" {
		for _, u := range r.users {
			if u.Email().Value() == email {
				return u, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeRepo) Save(ctx context.Context, u *entity.User) (bool, error) {
	r.record("save")
	if r.saveErr != nil || !r.saveOK {
		return false, r.saveErr
	}
	r.users[u.Username().Value()] = u
	return true, nil
}

func (r *fakeRepo) MarkUserForDeletion(ctx context.Context, u *entity.User) (bool, error) {
	r.record("mark")
	return r.markOK, nil
}

func (r *fakeRepo) Delete(ctx context.Context, u *entity.User) (bool, error) {
	r.record("delete")
	if r.deleteOK {
		delete(r.users, u.Username().Value())
	}
	return r.deleteOK, nil
}

// mockTokens is a testify mock of TokenService.
type mockTokens struct{ mock.Mock }

func (m *mockTokens) GetAccessToken(ctx context.Context, username, password, scope string) (*entity.AccessToken, bool) {
	args := m.Called(username, password, scope)
	tok, _ := args.Get(0).(*entity.AccessToken)
	return tok, args.Bool(1)
}

func (m *mockTokens) HasExpired(ctx context.Context, username string, token entity.AccessToken) (entity.AccessToken, error) {
	args := m.Called(username, token)
	return args.Get(0).(entity.AccessToken), args.Error(1)
}

func (m *mockTokens) RevokeTokens(ctx context.Context, username string) error {
	return m.Called(username).Error(0)
}

func (m *mockTokens) StoredToken(ctx context.Context, username string) (*entity.AccessToken, error) {
	args := m.Called(username)
	tok, _ := args.Get(0).(*entity.AccessToken)
	return tok, args.Error(1)
}

// fakeAuthClient stands in for the authorization server.
type fakeAuthClient struct {
	now        time.Time
	grantErr   error
	refreshErr error
	revokeErr  error
	grants     int
	refreshes  int
	revokes    int
	issued     entity.AccessToken
	refreshed  entity.AccessToken
}

func (c *fakeAuthClient) GetToken(ctx context.Context, username, password, scope string) (service.TokenHandle, error) {
	c.grants++
	if c.grantErr != nil {
		return nil, c.grantErr
	}
	return &fakeHandle{c: c, tok: c.issued}, nil
}

func (c *fakeAuthClient) CreateToken(t entity.AccessToken) service.TokenHandle {
	return &fakeHandle{c: c, tok: t}
}

type fakeHandle struct {
	c   *fakeAuthClient
	tok entity.AccessToken
}

func (h *fakeHandle) Token() entity.AccessToken { return h.tok }

func (h *fakeHandle) Expired(window time.Duration) bool {
	return h.tok.ExpiresWithin(window, h.c.now)
}

func (h *fakeHandle) Refresh(ctx context.Context) (service.TokenHandle, error) {
	h.c.refreshes++
	if h.c.refreshErr != nil {
		return nil, h.c.refreshErr
	}
	return &fakeHandle{c: h.c, tok: h.c.refreshed}, nil
}

func (h *fakeHandle) RevokeAll(ctx context.Context) error {
	h.c.revokes++
	return h.c.revokeErr
}

func (h *fakeHandle) Revoke(ctx context.Context, kind service.TokenKind) error {
	return h.RevokeAll(ctx)
}

// fakeSessions is an in-memory TokenSessionRepository.
type fakeSessions struct {
	data    map[string][]byte
	writes  int
	failErr error
}

func newFakeSessions() *fakeSessions { return &fakeSessions{data: map[string][]byte{}} }

func (s *fakeSessions) UpdateSession(ctx context.Context, username string, token []byte) (bool, error) {
	if s.failErr != nil {
		return false, s.failErr
	}
	s.writes++
	s.data[username] = token
	return true, nil
}

func (s *fakeSessions) GetSession(ctx context.Context, username string) ([]byte, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	return s.data[username], nil
}
