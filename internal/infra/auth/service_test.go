package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/conecta-lead/internal/entity"
	"golang.org/x/crypto/bcrypt"
)

// memSessions é um SessionStore em memória.
type memSessions struct {
	byID   map[string]string
	byUser map[string][]string
}

func newMemSessions() *memSessions {
	return &memSessions{byID: map[string]string{}, byUser: map[string][]string{}}
}

func (m *memSessions) Save(_ context.Context, sessionID, userID string, _ time.Duration) error {
	m.byID[sessionID] = userID
	m.byUser[userID] = append(m.byUser[userID], sessionID)
	return nil
}

func (m *memSessions) UserID(_ context.Context, sessionID string) (string, error) {
	uid, ok := m.byID[sessionID]
	if !ok {
		return "", errSessionNotFound
	}
	return uid, nil
}

func (m *memSessions) Delete(_ context.Context, sessionID string) error {
	delete(m.byID, sessionID)
	return nil
}

func (m *memSessions) DeleteByUser(_ context.Context, userID string) error {
	for _, id := range m.byUser[userID] {
		delete(m.byID, id)
	}
	delete(m.byUser, userID)
	return nil
}

// memUsers é um UserStore em memória.
type memUsers struct {
	users map[string]*entity.User
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return entity.ErrEmailAlreadyExists
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return entity.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

var testSecret = []byte("segredo-de-teste")

func newTestService(t *testing.T) (*Service, *memUsers, *memSessions) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &memUsers{users: map[string]*entity.User{
		"user-1": {ID: "user-1", Email: "ana@example.com", PasswordHash: string(hash), Role: entity.RoleClient},
	}}
	sessions := newMemSessions()
	return NewService(users, sessions, Config{Secret: testSecret}), users, sessions
}

// ============ TESTES DE LOGIN ============

func TestSignIn_Success(t *testing.T) {
	svc, _, sessions := newTestService(t)
	var events []entity.SessionEvent
	svc.OnSessionChange(func(event entity.SessionEvent, who entity.Identity) {
		events = append(events, event)
		assert.Equal(t, "user-1", who.ID)
	})

	session, err := svc.SignIn(context.Background(), " ana@example.com ", "senha123")

	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.Equal(t, entity.RoleClient, session.User.Role)
	assert.Equal(t, "user-1", sessions.byID[session.ID])
	assert.Equal(t, []entity.SessionEvent{entity.SignedIn}, events)
	assert.WithinDuration(t, time.Now().Add(DefaultSessionTTL), session.ExpiresAt, time.Minute)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SignIn(context.Background(), "ana@example.com", "errada")
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)

	_, err = svc.SignIn(context.Background(), "ninguem@example.com", "senha123")
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)
}

// ============ TESTES DE SESSÃO ============

func TestCurrentUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	session, err := svc.SignIn(context.Background(), "ana@example.com", "senha123")
	require.NoError(t, err)

	who, err := svc.CurrentUser(context.Background(), session.AccessToken)

	require.NoError(t, err)
	assert.Equal(t, "user-1", who.ID)
	assert.Equal(t, "ana@example.com", who.Email)
}

func TestCurrentUser_NoSession(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CurrentUser(context.Background(), "")
	assert.ErrorIs(t, err, entity.ErrNoSession)

	_, err = svc.CurrentUser(context.Background(), "nao-e-jwt")
	assert.ErrorIs(t, err, entity.ErrNoSession)
}

func TestCurrentUser_ExpiredToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	session, err := svc.SignIn(context.Background(), "ana@example.com", "senha123")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(DefaultSessionTTL + time.Hour) }

	_, err = svc.CurrentUser(context.Background(), session.AccessToken)
	assert.ErrorIs(t, err, entity.ErrNoSession)
}

func TestCurrentUser_WrongSecret(t *testing.T) {
	svc, _, _ := newTestService(t)
	forged, err := generateToken("s-1", &entity.User{ID: "user-1"}, []byte("outro"), time.Now().Add(time.Hour), time.Now())
	require.NoError(t, err)

	_, err = svc.CurrentUser(context.Background(), forged)
	assert.ErrorIs(t, err, entity.ErrNoSession)
}

func TestCurrentUser_RejectsOtherAlgorithms(t *testing.T) {
	svc, _, _ := newTestService(t)
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "s-1", Subject: "user-1"},
	})
	unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.CurrentUser(context.Background(), unsigned)
	assert.ErrorIs(t, err, entity.ErrNoSession)
}

func TestSignOut(t *testing.T) {
	svc, _, sessions := newTestService(t)
	session, err := svc.SignIn(context.Background(), "ana@example.com", "senha123")
	require.NoError(t, err)
	var last entity.SessionEvent
	svc.OnSessionChange(func(event entity.SessionEvent, _ entity.Identity) { last = event })

	require.NoError(t, svc.SignOut(context.Background(), session.AccessToken))

	assert.Empty(t, sessions.byID)
	assert.Equal(t, entity.SignedOut, last)
	_, err = svc.CurrentUser(context.Background(), session.AccessToken)
	assert.ErrorIs(t, err, entity.ErrNoSession)

	// token lixo não é erro
	assert.NoError(t, svc.SignOut(context.Background(), "lixo"))
}

// ============ TESTES DE USUÁRIOS ============

func TestCreateUser_AndSignIn(t *testing.T) {
	svc, _, _ := newTestService(t)

	u, err := svc.CreateUser(context.Background(), " Bia@Example.com ", "outra123", entity.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, "bia@example.com", u.Email)

	_, err = svc.SignIn(context.Background(), "bia@example.com", "outra123")
	assert.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), "bia@example.com", "x12345", entity.RoleClient)
	assert.True(t, errors.Is(err, entity.ErrEmailAlreadyExists))
}

func TestUpdatePassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	require.NoError(t, svc.UpdatePassword(context.Background(), "user-1", "novaSenha"))

	_, err := svc.SignIn(context.Background(), "ana@example.com", "senha123")
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)
	_, err = svc.SignIn(context.Background(), "ana@example.com", "novaSenha")
	assert.NoError(t, err)
}

func TestDeleteUser_DropsSessions(t *testing.T) {
	svc, users, _ := newTestService(t)
	session, err := svc.SignIn(context.Background(), "ana@example.com", "senha123")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), "user-1"))

	assert.Empty(t, users.users)
	_, err = svc.CurrentUser(context.Background(), session.AccessToken)
	assert.ErrorIs(t, err, entity.ErrNoSession)
}
