package entity

// PlanTier é o plano contratado pelo cliente.
type PlanTier string

const (
	PlanBasic   PlanTier = "basic"
	PlanPro     PlanTier = "pro"
	PlanPremium PlanTier = "premium"
)

func (p PlanTier) Valid() bool {
	switch p {
	case PlanBasic, PlanPro, PlanPremium:
		return true
	}
	return false
}
