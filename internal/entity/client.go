package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ClientStatus é o vocabulário único de status do cliente (tenant).
type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
	ClientExpired  ClientStatus = "expired"
)

// ParseClientStatus aceita tanto o vocabulário em inglês quanto o legado
// em português (ativo/inativo/vencido).
func ParseClientStatus(s string) (ClientStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active", "ativo":
		return ClientActive, nil
	case "inactive", "inativo":
		return ClientInactive, nil
	case "expired", "vencido":
		return ClientExpired, nil
	}
	return "", ErrInvalidStatus
}

// Restricted indica que o acesso ao painel deve ser bloqueado.
func (s ClientStatus) Restricted() bool {
	return s == ClientInactive || s == ClientExpired
}

// Client é o tenant: a empresa que contrata o ConectaLead.
type Client struct {
	ID                string       `json:"id"`
	UserID            string       `json:"user_id"`
	Name              string       `json:"name"`
	Email             string       `json:"email"`
	Plan              PlanTier     `json:"plan"`
	BillingDay        int          `json:"billing_day"`
	Status            ClientStatus `json:"status"`
	WhatsApp          string       `json:"whatsapp"`
	BillingMessage    string       `json:"billing_message"`
	AutomationEnabled bool         `json:"automation_enabled"`
	WebhookToken      string       `json:"webhook_token"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

func NewClient(userID, name, email string, plan PlanTier, billingDay int, whatsapp string) (*Client, error) {
	c := &Client{
		ID:           uuid.New().String(),
		UserID:       userID,
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Plan:         plan,
		BillingDay:   billingDay,
		Status:       ClientActive,
		WhatsApp:     whatsapp,
		WebhookToken: uuid.New().String(),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.Email == "" {
		return errors.New("email is required")
	}
	if c.BillingDay < 1 || c.BillingDay > 28 {
		return errors.New("billing_day must be between 1 and 28")
	}
	if !c.Plan.Valid() {
		return errors.New("plan is invalid")
	}
	return nil
}

// ClientFilter é o predicado usado na listagem administrativa.
type ClientFilter struct {
	Status ClientStatus
	Search string
}
