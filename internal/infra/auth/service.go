package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xavierca1/conecta-lead/internal/entity"
	"golang.org/x/crypto/bcrypt"
)

const DefaultSessionTTL = 12 * time.Hour

type UserStore interface {
	Create(ctx context.Context, u *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
}

type Config struct {
	Secret     []byte
	SessionTTL time.Duration
}

// Service é o serviço de autenticação: credenciais no Postgres, sessões
// no Redis e access tokens JWT.
type Service struct {
	users    UserStore
	sessions SessionStore
	cfg      Config
	now      func() time.Time

	mu        sync.RWMutex
	listeners []func(event entity.SessionEvent, who entity.Identity)
}

func NewService(users UserStore, sessions SessionStore, cfg Config) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	return &Service{users: users, sessions: sessions, cfg: cfg, now: time.Now}
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*entity.Session, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, entity.ErrInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(s.cfg.SessionTTL)
	sessionID := uuid.New().String()

	token, err := generateToken(sessionID, user, s.cfg.Secret, expiresAt, now)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sessionID, user.ID, s.cfg.SessionTTL); err != nil {
		return nil, err
	}

	who := user.Identity()
	s.emit(entity.SignedIn, who)
	log.Info().Str("user_id", user.ID).Msg("🔑 login realizado")

	return &entity.Session{
		ID:          sessionID,
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        who,
	}, nil
}

// SignOut derruba a sessão do token. Token inválido ou já expirado não é
// erro: não há sessão para encerrar.
func (s *Service) SignOut(ctx context.Context, accessToken string) error {
	claims, err := parseToken(accessToken, s.cfg.Secret, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		return err
	}
	s.emit(entity.SignedOut, entity.Identity{ID: claims.Subject, Email: claims.Email, Role: claims.Role})
	return nil
}

func (s *Service) CurrentUser(ctx context.Context, accessToken string) (*entity.Identity, error) {
	if accessToken == "" {
		return nil, entity.ErrNoSession
	}
	claims, err := parseToken(accessToken, s.cfg.Secret, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, entity.ErrNoSession
	}

	uid, err := s.sessions.UserID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, errSessionNotFound) {
			return nil, entity.ErrNoSession
		}
		return nil, err
	}
	if uid != claims.Subject {
		return nil, entity.ErrNoSession
	}

	user, err := s.users.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.ErrNoSession
		}
		return nil, err
	}
	who := user.Identity()
	return &who, nil
}

// OnSessionChange registra um callback para os eventos de login/logout.
func (s *Service) OnSessionChange(fn func(event entity.SessionEvent, who entity.Identity)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Service) emit(event entity.SessionEvent, who entity.Identity) {
	s.mu.RLock()
	listeners := append([]func(entity.SessionEvent, entity.Identity){}, s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(event, who)
	}
}

func (s *Service) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, string(hash))
}

func (s *Service) CreateUser(ctx context.Context, email, password string, role entity.Role) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("⚠️ falha ao derrubar sessões do usuário")
	}
	return s.users.Delete(ctx, userID)
}
