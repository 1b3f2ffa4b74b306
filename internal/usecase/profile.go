package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/xavierca1/conecta-lead/internal/entity"
)

type ProfileService struct {
	Clients ClientRepository
	Auth    AuthService
}

func NewProfileService(clients ClientRepository, auth AuthService) *ProfileService {
	return &ProfileService{Clients: clients, Auth: auth}
}

type ProfileInput struct {
	Name              *string `json:"name,omitempty"`
	WhatsApp          *string `json:"whatsapp,omitempty"`
	BillingMessage    *string `json:"billing_message,omitempty"`
	AutomationEnabled *bool   `json:"automation_enabled,omitempty"`
}

// UpdateProfile aplica a edição feita pelo próprio cliente. Plano, status
// e dia de cobrança só mudam pelo admin.
func (uc *ProfileService) UpdateProfile(ctx context.Context, store *Store, input ProfileInput) (*entity.Client, error) {
	current := store.Client()
	if current == nil {
		return nil, entity.ErrNoTenant
	}

	updated := *current
	var errs []ValidationError
	if input.Name != nil {
		updated.Name = strings.TrimSpace(*input.Name)
		if updated.Name == "" {
			errs = append(errs, ValidationError{"name", "is required"})
		}
	}
	if input.WhatsApp != nil {
		updated.WhatsApp = strings.TrimSpace(*input.WhatsApp)
		if updated.WhatsApp != "" && !isValidPhoneNumber(updated.WhatsApp) {
			errs = append(errs, ValidationError{"whatsapp", "must be a valid phone number"})
		}
	}
	if input.BillingMessage != nil {
		updated.BillingMessage = *input.BillingMessage
	}
	if input.AutomationEnabled != nil {
		updated.AutomationEnabled = *input.AutomationEnabled
	}
	if err := validationFailed(errs); err != nil {
		return nil, err
	}

	updated.UpdatedAt = time.Now()
	if err := uc.Clients.Update(ctx, &updated); err != nil {
		return nil, remoteError("DATABASE_ERROR", "erro ao salvar perfil", err)
	}

	*current = updated
	return current, nil
}

func (uc *ProfileService) ChangePassword(ctx context.Context, store *Store, password, confirmation string) error {
	who := store.Identity()
	if who == nil {
		return entity.ErrNoSession
	}
	if err := validationFailed(ValidatePasswordChange(password, confirmation)); err != nil {
		return err
	}
	if err := uc.Auth.UpdatePassword(ctx, who.ID, password); err != nil {
		return remoteError("AUTH_ERROR", "erro ao atualizar senha", err)
	}
	return nil
}
