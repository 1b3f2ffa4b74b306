package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xavierca1/conecta-lead/internal/entity"
)

// ClientAdminService reúne as telas administrativas de clientes.
type ClientAdminService struct {
	Clients      ClientRepository
	Columns      ColumnRepository
	Auth         AuthService
	EmailService EmailService
	LoginURL     string
}

func NewClientAdminService(
	clients ClientRepository,
	columns ColumnRepository,
	auth AuthService,
	emailService EmailService,
	loginURL string,
) *ClientAdminService {
	return &ClientAdminService{
		Clients:      clients,
		Columns:      columns,
		Auth:         auth,
		EmailService: emailService,
		LoginURL:     loginURL,
	}
}

func (uc *ClientAdminService) List(ctx context.Context, filter entity.ClientFilter) ([]entity.Client, error) {
	clients, err := uc.Clients.List(ctx, filter)
	if err != nil {
		return nil, remoteError("DATABASE_ERROR", "erro ao listar clientes", err)
	}
	return clients, nil
}

func (uc *ClientAdminService) Get(ctx context.Context, id string) (*entity.Client, error) {
	return uc.Clients.FindByID(ctx, id)
}

// Provision cria o usuário de acesso, o cliente e as colunas padrão. Se
// alguma etapa falhar, as anteriores são desfeitas.
func (uc *ClientAdminService) Provision(ctx context.Context, input ProvisionClientInput) (*entity.Client, error) {
	if err := validationFailed(ValidateProvisionInput(input)); err != nil {
		return nil, err
	}

	var (
		user   *entity.User
		client *entity.Client
	)

	txn := NewTransaction()

	txn.AddOperation("create_user", func(ctx context.Context) error {
		u, err := uc.Auth.CreateUser(ctx, input.Email, input.Password, entity.RoleClient)
		if err != nil {
			return err
		}
		user = u

		c, err := entity.NewClient(u.ID, input.Name, input.Email, input.Plan, input.BillingDay, input.WhatsApp)
		if err != nil {
			return err
		}
		client = c
		return nil
	}, func(ctx context.Context) error {
		return uc.Auth.DeleteUser(ctx, user.ID)
	})

	txn.AddOperation("create_client", func(ctx context.Context) error {
		return uc.Clients.Create(ctx, client)
	}, func(ctx context.Context) error {
		return uc.Clients.Delete(ctx, client.ID)
	})

	txn.AddOperation("seed_columns", func(ctx context.Context) error {
		for _, col := range entity.DefaultColumns(client.ID) {
			if err := uc.Columns.Create(ctx, col); err != nil {
				return err
			}
		}
		return nil
	}, nil)

	if err := txn.Execute(ctx); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return nil, &DomainError{Code: "EMAIL_EXISTS", Message: entity.ErrEmailAlreadyExists.Error()}
		}
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to provision client: " + err.Error(),
			Err:     err,
		}
	}

	log.Info().Str("client_id", client.ID).Str("email", client.Email).Msg("🚀 cliente provisionado")

	if uc.EmailService != nil {
		go func(to, name string) {
			if err := uc.EmailService.SendWelcome(to, name, uc.LoginURL, input.Password); err != nil {
				log.Warn().Err(err).Str("email", to).Msg("⚠️ falha ao enviar e-mail de boas-vindas")
			}
		}(client.Email, client.Name)
	}

	return client, nil
}

type ClientPatch struct {
	Name              *string          `json:"name,omitempty"`
	Plan              *entity.PlanTier `json:"plan,omitempty"`
	BillingDay        *int             `json:"billing_day,omitempty"`
	Status            *string          `json:"status,omitempty"`
	WhatsApp          *string          `json:"whatsapp,omitempty"`
	BillingMessage    *string          `json:"billing_message,omitempty"`
	AutomationEnabled *bool            `json:"automation_enabled,omitempty"`
}

// Update aplica a edição administrativa, incluindo a configuração de
// cobrança automática (dia, mensagem e flag).
func (uc *ClientAdminService) Update(ctx context.Context, id string, patch ClientPatch) (*entity.Client, error) {
	client, err := uc.Clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		client.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Plan != nil {
		client.Plan = *patch.Plan
	}
	if patch.BillingDay != nil {
		client.BillingDay = *patch.BillingDay
	}
	if patch.Status != nil {
		st, err := entity.ParseClientStatus(*patch.Status)
		if err != nil {
			return nil, &DomainError{Code: "VALIDATION_ERROR", Message: "status deve ser active, inactive ou expired"}
		}
		client.Status = st
	}
	if patch.WhatsApp != nil {
		client.WhatsApp = strings.TrimSpace(*patch.WhatsApp)
	}
	if patch.BillingMessage != nil {
		client.BillingMessage = *patch.BillingMessage
	}
	if patch.AutomationEnabled != nil {
		client.AutomationEnabled = *patch.AutomationEnabled
	}

	if err := client.Validate(); err != nil {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: err.Error()}
	}

	client.UpdatedAt = time.Now()
	if err := uc.Clients.Update(ctx, client); err != nil {
		return nil, remoteError("DATABASE_ERROR", "erro ao atualizar cliente", err)
	}
	return client, nil
}

// Delete remove o cliente com colunas, leads, etiquetas, follow-ups e
// pagamentos, e por fim o usuário de acesso. Irreversível.
func (uc *ClientAdminService) Delete(ctx context.Context, id string) error {
	client, err := uc.Clients.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.Clients.Delete(ctx, client.ID); err != nil {
		return remoteError("DATABASE_ERROR", "erro ao excluir cliente", err)
	}

	if client.UserID != "" {
		if err := uc.Auth.DeleteUser(ctx, client.UserID); err != nil {
			log.Error().Err(err).Str("user_id", client.UserID).Msg("❌ cliente excluído, mas usuário de acesso permaneceu")
		}
	}

	log.Warn().Str("client_id", client.ID).Str("email", client.Email).Msg("🗑️ cliente excluído")
	return nil
}

type PaymentInput struct {
	ClientID       string    `json:"client_id"`
	AmountCents    int64     `json:"amount_cents"`
	Type           string    `json:"type"`
	ReferenceMonth string    `json:"reference_month"`
	DueDate        time.Time `json:"due_date"`
}

// PaymentAdminService registra cobranças e baixas feitas pelo admin.
type PaymentAdminService struct {
	Payments PaymentRepository
	Clients  ClientRepository
}

func NewPaymentAdminService(payments PaymentRepository, clients ClientRepository) *PaymentAdminService {
	return &PaymentAdminService{Payments: payments, Clients: clients}
}

func (uc *PaymentAdminService) Register(ctx context.Context, input PaymentInput) (*entity.Payment, error) {
	var errs []ValidationError
	if input.AmountCents <= 0 {
		errs = append(errs, ValidationError{"amount_cents", "must be positive"})
	}
	if _, err := time.Parse("2006-01", input.ReferenceMonth); err != nil {
		errs = append(errs, ValidationError{"reference_month", "must be YYYY-MM"})
	}
	if input.DueDate.IsZero() {
		errs = append(errs, ValidationError{"due_date", "is required"})
	}
	if err := validationFailed(errs); err != nil {
		return nil, err
	}

	client, err := uc.Clients.FindByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}

	kind := strings.ToUpper(strings.TrimSpace(input.Type))
	if kind == "" {
		kind = "MENSALIDADE"
	}
	p := &entity.Payment{
		ID:             uuid.New().String(),
		ClientID:       client.ID,
		ClientName:     client.Name,
		AmountCents:    input.AmountCents,
		Type:           kind,
		ReferenceMonth: input.ReferenceMonth,
		DueDate:        input.DueDate,
		Status:         entity.PaymentPending,
		CreatedAt:      time.Now(),
	}
	if err := uc.Payments.Create(ctx, p); err != nil {
		return nil, remoteError("DATABASE_ERROR", "erro ao registrar pagamento", err)
	}
	return p, nil
}

func (uc *PaymentAdminService) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	return uc.Payments.MarkPaid(ctx, id, paidAt)
}
