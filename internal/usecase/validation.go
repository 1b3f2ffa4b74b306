package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/xavierca1/conecta-lead/internal/entity"
)

const minPasswordLen = 6

var nonDigit = regexp.MustCompile(`\D`)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// validationFailed converte a lista de erros num DomainError único.
func validationFailed(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return &DomainError{
		Code:    "VALIDATION_ERROR",
		Message: "validation failed: " + strings.Join(parts, ", "),
	}
}

type LeadInput struct {
	ColumnID string `json:"column_id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Interest string `json:"interest"`
	Notes    string `json:"notes"`
}

func ValidateLeadInput(input LeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(input.Name) > 200 {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.ColumnID) == "" {
		errors = append(errors, ValidationError{"column_id", "is required"})
	}

	if input.Phone != "" && !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	return errors
}

type ProvisionClientInput struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Password   string          `json:"password"`
	Plan       entity.PlanTier `json:"plan"`
	BillingDay int             `json:"billing_day"`
	WhatsApp   string          `json:"whatsapp"`
}

func ValidateProvisionInput(input ProvisionClientInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(input.Name) < 3 {
		errors = append(errors, ValidationError{"name", "must have at least 3 characters"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if len(input.Password) < minPasswordLen {
		errors = append(errors, ValidationError{"password", fmt.Sprintf("must have at least %d characters", minPasswordLen)})
	}

	if !input.Plan.Valid() {
		errors = append(errors, ValidationError{"plan", "must be basic, pro or premium"})
	}

	if input.BillingDay < 1 || input.BillingDay > 28 {
		errors = append(errors, ValidationError{"billing_day", "must be between 1 and 28"})
	}

	if input.WhatsApp != "" && !isValidPhoneNumber(input.WhatsApp) {
		errors = append(errors, ValidationError{"whatsapp", "must be a valid phone number"})
	}

	return errors
}

func ValidatePasswordChange(password, confirmation string) []ValidationError {
	var errors []ValidationError

	if len(password) < minPasswordLen {
		errors = append(errors, ValidationError{"password", fmt.Sprintf("must have at least %d characters", minPasswordLen)})
	}
	if password != confirmation {
		errors = append(errors, ValidationError{"confirmation", "does not match password"})
	}

	return errors
}

// isValidPhoneNumber aceita telefones brasileiros com ou sem DDI.
func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigit.ReplaceAllString(phone, "")
	return len(cleaned) >= 10 && len(cleaned) <= 13
}
