package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Lead struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id"`
	ColumnID    string    `json:"column_id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Interest    string    `json:"interest"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	HasFollowup bool      `json:"has_followup"` // derivado, nunca persistido
	Labels      []Label   `json:"labels,omitempty"`
}

func NewLead(clientID, columnID, name, phone, interest, notes string) (*Lead, error) {
	l := &Lead{
		ID:        uuid.New().String(),
		ClientID:  clientID,
		ColumnID:  columnID,
		Name:      strings.TrimSpace(name),
		Phone:     strings.TrimSpace(phone),
		Interest:  strings.TrimSpace(interest),
		Notes:     notes,
		CreatedAt: time.Now(),
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Lead) Validate() error {
	if l.ClientID == "" {
		return errors.New("client_id é obrigatório")
	}
	if l.ColumnID == "" {
		return errors.New("column_id é obrigatório")
	}
	if l.Name == "" {
		return errors.New("name é obrigatório")
	}
	return nil
}

// LeadPatch carrega apenas os campos alterados numa edição inline.
type LeadPatch struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Interest *string `json:"interest,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

func (p LeadPatch) Apply(l *Lead) {
	if p.Name != nil {
		l.Name = strings.TrimSpace(*p.Name)
	}
	if p.Phone != nil {
		l.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Interest != nil {
		l.Interest = strings.TrimSpace(*p.Interest)
	}
	if p.Notes != nil {
		l.Notes = *p.Notes
	}
}
