package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/conecta-lead/internal/entity"
	"github.com/xavierca1/conecta-lead/internal/infra/integration/workflow"
	"github.com/xavierca1/conecta-lead/internal/infra/queue"
)

type ClientRepository interface {
	Create(ctx context.Context, c *entity.Client) error
	FindByID(ctx context.Context, id string) (*entity.Client, error)
	FindByUserID(ctx context.Context, userID string) (*entity.Client, error)
	FindByWebhookToken(ctx context.Context, token string) (*entity.Client, error)
	List(ctx context.Context, filter entity.ClientFilter) ([]entity.Client, error)
	Update(ctx context.Context, c *entity.Client) error
	Delete(ctx context.Context, id string) error
}

type ColumnRepository interface {
	ListByClient(ctx context.Context, clientID string) ([]entity.Column, error)
	Create(ctx context.Context, c *entity.Column) error
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

type LeadRepository interface {
	ListByClient(ctx context.Context, clientID string) ([]entity.Lead, error)
	Create(ctx context.Context, l *entity.Lead) error
	Update(ctx context.Context, l *entity.Lead) error
	UpdateColumn(ctx context.Context, id, columnID string) error
	Delete(ctx context.Context, id string) error
}

type LabelRepository interface {
	ListByClient(ctx context.Context, clientID string) ([]entity.Label, error)
	Create(ctx context.Context, l *entity.Label) error
	Delete(ctx context.Context, id string) error
	Assign(ctx context.Context, leadID, labelID string) error
	Unassign(ctx context.Context, leadID, labelID string) error
	ListAssignments(ctx context.Context, leadIDs []string) ([]entity.LeadLabel, error)
}

type FollowupRepository interface {
	LeadIDsWithStatus(ctx context.Context, clientID string, status entity.FollowupStatus) ([]string, error)
	ListByClient(ctx context.Context, clientID string) ([]entity.Followup, error)
	Create(ctx context.Context, f *entity.Followup) error
	// UpdateStatus troca from por to; ErrStatusChanged se o follow-up já saiu de from.
	UpdateStatus(ctx context.Context, id string, from, to entity.FollowupStatus) error
}

type PaymentRepository interface {
	List(ctx context.Context, filter entity.PaymentFilter) ([]entity.Payment, error)
	Create(ctx context.Context, p *entity.Payment) error
	MarkPaid(ctx context.Context, id string, paidAt time.Time) error
}

// Gateway agrupa os repositórios por tabela do backend remoto.
type Gateway struct {
	Clients   ClientRepository
	Columns   ColumnRepository
	Leads     LeadRepository
	Labels    LabelRepository
	Followups FollowupRepository
	Payments  PaymentRepository
}

type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*entity.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	CurrentUser(ctx context.Context, accessToken string) (*entity.Identity, error)
	OnSessionChange(fn func(event entity.SessionEvent, who entity.Identity))
	UpdatePassword(ctx context.Context, userID, newPassword string) error
	CreateUser(ctx context.Context, email, password string, role entity.Role) (*entity.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

type FollowupPublisher interface {
	PublishFollowup(ctx context.Context, payload queue.FollowupPayload) error
}

type EmailService interface {
	SendWelcome(to, name, loginURL, tempPassword string) error
}

type WhatsAppGateway interface {
	QRCode(ctx context.Context, session string) (*workflow.QRCode, error)
	Status(ctx context.Context, session string) (workflow.SessionStatus, error)
}
