package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/talhabinhussain/fullstack-todo-app/internal/application/auth"
	"github.com/talhabinhussain/fullstack-todo-app/internal/domain"
	domerrors "github.com/talhabinhussain/fullstack-todo-app/internal/domain/errors"
	infraauth "github.com/talhabinhussain/fullstack-todo-app/internal/infrastructure/auth"
	"github.com/talhabinhussain/fullstack-todo-app/internal/infrastructure/http/handlers"
	"github.com/talhabinhussain/fullstack-todo-app/internal/infrastructure/http/middleware"
	"github.com/talhabinhussain/fullstack-todo-app/internal/infrastructure/security"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return domerrors.ErrEmailTaken
	}
	m.users[user.Email] = user
	return nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[email], nil
}

func (m *memUserRepo) GetByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

type memTaskRepo struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (m *memTaskRepo) Create(_ context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *task
	m.tasks[task.ID.UUID] = &cp
	return nil
}

func (m *memTaskRepo) ListByOwner(_ context.Context, ownerID domain.UserID) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []*domain.Task
	for _, t := range m.tasks {
		if t.UserID == ownerID {
			cp := *t
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (m *memTaskRepo) GetByIDAndOwner(_ context.Context, id domain.TaskID, ownerID domain.UserID) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id.UUID]
	if !ok || t.UserID != ownerID {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *memTaskRepo) Update(_ context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.tasks[task.ID.UUID]
	if !ok || existing.UserID != task.UserID {
		return domerrors.ErrTaskNotFound
	}
	cp := *task
	m.tasks[task.ID.UUID] = &cp
	return nil
}

func (m *memTaskRepo) DeleteByIDAndOwner(_ context.Context, id domain.TaskID, ownerID domain.UserID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id.UUID]
	if !ok || t.UserID != ownerID {
		return false, nil
	}
	delete(m.tasks, id.UUID)
	return true, nil
}

type testServer struct {
	router http.Handler
	issuer *infraauth.TokenIssuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zerolog.Nop()
	issuer, err := infraauth.NewTokenIssuer("test-secret", "HS256")
	require.NoError(t, err)
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	userRepo := newMemUserRepo()
	taskRepo := newMemTaskRepo()

	router := NewRouter(RouterConfig{
		AuthHandler:  handlers.NewAuthHandler(auth.NewRegister(userRepo, hasher, issuer, 0), auth.NewLogin(userRepo, hasher, issuer, 0), log),
		TasksHandler: handlers.NewTasksHandler(taskRepo, log),
		RequireAuth:  middleware.NewAuthenticator(issuer).Handler,
		RequireOwner: middleware.RequireOwner,
		Log:          log,
	})
	return &testServer{router: router, issuer: issuer}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, r)
	return rec
}

// registerUser registers an account and returns the token and subject id.
func (s *testServer) registerUser(t *testing.T, email, password string) (token, userID string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", `{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "bearer", resp.TokenType)
	identity, err := s.issuer.Validate(resp.AccessToken)
	require.NoError(t, err)
	return resp.AccessToken, identity.SubjectID
}

type taskBody struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	IsCompleted bool    `json:"is_completed"`
	UserID      string  `json:"user_id"`
}

func decodeTask(t *testing.T, rec *httptest.ResponseRecorder) taskBody {
	t.Helper()
	var task taskBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	return task
}

func TestRegisterLoginAndTaskLifecycle(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.registerUser(t, "a@x.com", "pw123456")

	// login with the same credentials also yields a token
	rec := s.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"a@x.com","password":"pw123456"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	// create
	rec = s.do(t, http.MethodPost, "/api/"+userID+"/tasks/", token, `{"title":"buy milk"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decodeTask(t, rec)
	assert.Equal(t, "buy milk", task.Title)
	assert.False(t, task.IsCompleted)
	assert.Equal(t, userID, task.UserID)
	assert.Nil(t, task.Description)

	// list
	rec = s.do(t, http.MethodGet, "/api/"+userID+"/tasks/", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []taskBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	// toggle completion
	rec = s.do(t, http.MethodPatch, "/api/"+userID+"/tasks/"+task.ID+"/complete", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeTask(t, rec).IsCompleted)

	// partial update with empty body changes nothing
	rec = s.do(t, http.MethodPut, "/api/"+userID+"/tasks/"+task.ID+"/", token, `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeTask(t, rec)
	assert.Equal(t, "buy milk", updated.Title)
	assert.True(t, updated.IsCompleted)

	// partial update of a single field leaves the rest untouched
	rec = s.do(t, http.MethodPut, "/api/"+userID+"/tasks/"+task.ID+"/", token, `{"description":"from the corner shop"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated = decodeTask(t, rec)
	assert.Equal(t, "buy milk", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "from the corner shop", *updated.Description)

	// delete, then reads answer 404
	rec = s.do(t, http.MethodDelete, "/api/"+userID+"/tasks/"+task.ID+"/", token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/"+userID+"/tasks/"+task.ID+"/", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	s := newTestServer(t)
	s.registerUser(t, "a@x.com", "pw123456")

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", `{"email":"a@x.com","password":"pw123456"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterInvalidPassword(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", `{"email":"a@x.com","password":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	long := strings.Repeat("a", 73)
	rec = s.do(t, http.MethodPost, "/api/auth/register", "", `{"email":"b@x.com","password":"`+long+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "72 bytes")
}

func TestLoginFailuresShareOneMessage(t *testing.T) {
	s := newTestServer(t)
	s.registerUser(t, "a@x.com", "pw123456")

	wrongPassword := s.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"a@x.com","password":"nope1234"}`)
	unknownEmail := s.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"b@x.com","password":"pw123456"}`)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Equal(t, "Bearer", wrongPassword.Header().Get("WWW-Authenticate"))
}

func TestOwnerIsolation(t *testing.T) {
	s := newTestServer(t)
	tokenA, userA := s.registerUser(t, "a@x.com", "pw123456")
	tokenB, userB := s.registerUser(t, "b@x.com", "pw123456")

	rec := s.do(t, http.MethodPost, "/api/"+userA+"/tasks/", tokenA, `{"title":"secret plan"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	taskA := decodeTask(t, rec)

	// B using A's user_id in the path is forbidden outright.
	rec = s.do(t, http.MethodGet, "/api/"+userA+"/tasks/", tokenB, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// B supplying A's task id under B's own user_id reads as not found,
	// same as a task that never existed.
	rec = s.do(t, http.MethodGet, "/api/"+userB+"/tasks/"+taskA.ID+"/", tokenB, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodDelete, "/api/"+userB+"/tasks/"+taskA.ID+"/", tokenB, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// A still sees the task.
	rec = s.do(t, http.MethodGet, "/api/"+userA+"/tasks/"+taskA.ID+"/", tokenA, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTaskRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t)
	_, userID := s.registerUser(t, "a@x.com", "pw123456")

	rec := s.do(t, http.MethodGet, "/api/"+userID+"/tasks/", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	rec = s.do(t, http.MethodGet, "/api/"+userID+"/tasks/", "garbage-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMalformedTaskID(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.registerUser(t, "a@x.com", "pw123456")

	rec := s.do(t, http.MethodGet, "/api/"+userID+"/tasks/not-a-uuid/", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskValidation(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.registerUser(t, "a@x.com", "pw123456")

	rec := s.do(t, http.MethodPost, "/api/"+userID+"/tasks/", token, `{"title":""}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "title")

	long := strings.Repeat("x", 101)
	rec = s.do(t, http.MethodPost, "/api/"+userID+"/tasks/", token, `{"title":"`+long+`"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTokenExpiryInvalidatesAccess(t *testing.T) {
	s := newTestServer(t)
	_, userID := s.registerUser(t, "a@x.com", "pw123456")

	expired, err := s.issuer.Issue(userID, "a@x.com", time.Nanosecond)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	rec := s.do(t, http.MethodGet, "/api/"+userID+"/tasks/", expired, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
