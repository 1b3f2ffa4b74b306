package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type FollowupStatus string

const (
	FollowupScheduled FollowupStatus = "scheduled"
	FollowupSent      FollowupStatus = "sent"
	FollowupFailed    FollowupStatus = "failed"
	FollowupCancelled FollowupStatus = "cancelled"
)

func ParseFollowupStatus(s string) (FollowupStatus, error) {
	switch FollowupStatus(strings.ToLower(strings.TrimSpace(s))) {
	case FollowupScheduled:
		return FollowupScheduled, nil
	case FollowupSent:
		return FollowupSent, nil
	case FollowupFailed:
		return FollowupFailed, nil
	case FollowupCancelled:
		return FollowupCancelled, nil
	}
	return "", ErrInvalidStatus
}

// Followup é uma mensagem de WhatsApp agendada. O envio é feito fora
// deste serviço.
type Followup struct {
	ID          string         `json:"id"`
	LeadID      string         `json:"lead_id"`
	LeadName    string         `json:"lead_name,omitempty"`
	Message     string         `json:"message"`
	ScheduledAt time.Time      `json:"scheduled_at"`
	Status      FollowupStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
}

func NewFollowup(leadID, message string, scheduledAt, now time.Time) (*Followup, error) {
	if leadID == "" {
		return nil, errors.New("lead_id é obrigatório")
	}
	if strings.TrimSpace(message) == "" {
		return nil, errors.New("message é obrigatória")
	}
	if !scheduledAt.After(now) {
		return nil, errors.New("scheduled_at deve estar no futuro")
	}
	return &Followup{
		ID:          uuid.New().String(),
		LeadID:      leadID,
		Message:     message,
		ScheduledAt: scheduledAt,
		Status:      FollowupScheduled,
		CreatedAt:   now,
	}, nil
}
