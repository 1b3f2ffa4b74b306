package entity

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Identity é o usuário autenticado.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role,omitempty"`
}

// LooksLikeAdmin reproduz a regra legada: qualquer e-mail contendo
// "admin" era tratado como administrador.
func (i Identity) LooksLikeAdmin() bool {
	return strings.Contains(strings.ToLower(i.Email), "admin")
}

// User é a linha da tabela de autenticação.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}

type Session struct {
	ID          string    `json:"id"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        Identity  `json:"user"`
}

type SessionEvent string

const (
	SignedIn  SessionEvent = "SIGNED_IN"
	SignedOut SessionEvent = "SIGNED_OUT"
)
