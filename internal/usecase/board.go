package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/xavierca1/conecta-lead/internal/entity"
)

// FetchColumnsAndLeads carrega o quadro do cliente. Sem clientID usa o
// cliente resolvido da sessão. O estado anterior nunca é descartado quando
// a carga não acontece: um admin sem clientID só gera log e retorna nil,
// enquanto uma conta sem cliente vinculado (StateTenantUnbound) retorna
// entity.ErrNoTenant, que os handlers respondem com 403 NO_TENANT.
func (s *Store) FetchColumnsAndLeads(ctx context.Context, clientID string) error {
	tenantID, err := s.tenantID(clientID)
	if err != nil {
		return err
	}
	if tenantID == "" {
		log.Warn().Str("state", s.state.String()).Msg("⚠️ nenhum cliente para carregar o quadro")
		return nil
	}

	// 1. Colunas ordenadas
	columns, err := s.gw.Columns.ListByClient(ctx, tenantID)
	if err != nil {
		log.Error().Err(err).Str("client_id", tenantID).Msg("❌ erro ao buscar colunas")
		return remoteError("LOAD_FAILED", "erro ao buscar colunas", err)
	}

	// 2. Leads com follow-up agendado
	scheduled, err := s.gw.Followups.LeadIDsWithStatus(ctx, tenantID, entity.FollowupScheduled)
	if err != nil {
		log.Error().Err(err).Str("client_id", tenantID).Msg("❌ erro ao buscar follow-ups")
		return remoteError("LOAD_FAILED", "erro ao buscar follow-ups", err)
	}
	pending := make(map[string]bool, len(scheduled))
	for _, id := range scheduled {
		pending[id] = true
	}

	// 3. Todos os leads do cliente
	leads, err := s.gw.Leads.ListByClient(ctx, tenantID)
	if err != nil {
		log.Error().Err(err).Str("client_id", tenantID).Msg("❌ erro ao buscar leads")
		return remoteError("LOAD_FAILED", "erro ao buscar leads", err)
	}

	labels, err := s.loadLabels(ctx, tenantID, leads)
	if err != nil {
		log.Error().Err(err).Str("client_id", tenantID).Msg("❌ erro ao buscar etiquetas")
		return remoteError("LOAD_FAILED", "erro ao buscar etiquetas", err)
	}

	for i := range leads {
		leads[i].HasFollowup = pending[leads[i].ID]
		leads[i].Labels = labels[leads[i].ID]
	}

	s.columns = columns
	s.leads = leads
	s.partition()
	return nil
}

func (s *Store) loadLabels(ctx context.Context, tenantID string, leads []entity.Lead) (map[string][]entity.Label, error) {
	out := make(map[string][]entity.Label)
	if len(leads) == 0 || s.gw.Labels == nil {
		return out, nil
	}

	all, err := s.gw.Labels.ListByClient(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]entity.Label, len(all))
	for _, l := range all {
		byID[l.ID] = l
	}

	ids := make([]string, 0, len(leads))
	for _, l := range leads {
		ids = append(ids, l.ID)
	}
	assignments, err := s.gw.Labels.ListAssignments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, a := range assignments {
		if label, ok := byID[a.LabelID]; ok {
			out[a.LeadID] = append(out[a.LeadID], label)
		}
	}
	return out, nil
}

// partition redistribui os leads entre as colunas pelo column_id. Um lead
// aparece em no máximo uma coluna.
func (s *Store) partition() {
	byColumn := make(map[string][]entity.Lead, len(s.columns))
	for _, l := range s.leads {
		byColumn[l.ColumnID] = append(byColumn[l.ColumnID], l)
	}
	for i := range s.columns {
		leads := byColumn[s.columns[i].ID]
		if leads == nil {
			leads = []entity.Lead{}
		}
		s.columns[i].Leads = leads
	}
}

func (s *Store) findLead(id string) int {
	for i := range s.leads {
		if s.leads[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) hasColumn(id string) bool {
	for _, c := range s.columns {
		if c.ID == id {
			return true
		}
	}
	return false
}

// MoveLead move o lead para outra coluna. A mudança local é aplicada antes
// da escrita remota e desfeita se ela falhar.
func (s *Store) MoveLead(ctx context.Context, leadID, columnID string) error {
	idx := s.findLead(leadID)
	if idx < 0 {
		return entity.ErrNotFound
	}
	if !s.hasColumn(columnID) {
		return &DomainError{Code: "COLUMN_NOT_FOUND", Message: "coluna de destino não pertence ao quadro"}
	}

	previous := s.leads[idx].ColumnID
	if previous == columnID {
		return nil
	}

	s.leads[idx].ColumnID = columnID
	s.partition()

	if err := s.gw.Leads.UpdateColumn(ctx, leadID, columnID); err != nil {
		s.leads[idx].ColumnID = previous
		s.partition()
		log.Error().Err(err).Str("lead_id", leadID).Str("column_id", columnID).Msg("❌ erro ao mover lead, revertendo")
		return remoteError("MOVE_FAILED", "não foi possível mover o lead", err)
	}

	log.Debug().Str("lead_id", leadID).Str("from", previous).Str("to", columnID).Msg("lead movido")
	return nil
}

func (s *Store) AddLead(ctx context.Context, input LeadInput) (*entity.Lead, error) {
	if err := validationFailed(ValidateLeadInput(input)); err != nil {
		return nil, err
	}
	tenantID, err := s.tenantID("")
	if err != nil {
		return nil, err
	}
	if !s.hasColumn(input.ColumnID) {
		return nil, &DomainError{Code: "COLUMN_NOT_FOUND", Message: "coluna não pertence ao quadro"}
	}

	lead, err := entity.NewLead(tenantID, input.ColumnID, input.Name, input.Phone, input.Interest, input.Notes)
	if err != nil {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: err.Error()}
	}

	if err := s.gw.Leads.Create(ctx, lead); err != nil {
		log.Error().Err(err).Msg("❌ erro ao criar lead")
		return nil, remoteError("DATABASE_ERROR", "erro ao criar lead", err)
	}

	s.leads = append(s.leads, *lead)
	s.partition()
	return lead, nil
}

func (s *Store) UpdateLead(ctx context.Context, leadID string, patch entity.LeadPatch) (*entity.Lead, error) {
	idx := s.findLead(leadID)
	if idx < 0 {
		return nil, entity.ErrNotFound
	}

	updated := s.leads[idx]
	patch.Apply(&updated)
	if err := updated.Validate(); err != nil {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: err.Error()}
	}

	if err := s.gw.Leads.Update(ctx, &updated); err != nil {
		log.Error().Err(err).Str("lead_id", leadID).Msg("❌ erro ao atualizar lead")
		return nil, remoteError("DATABASE_ERROR", "erro ao atualizar lead", err)
	}

	s.leads[idx] = updated
	s.partition()
	return &updated, nil
}

func (s *Store) DeleteLead(ctx context.Context, leadID string) error {
	idx := s.findLead(leadID)
	if idx < 0 {
		return entity.ErrNotFound
	}

	if err := s.gw.Leads.Delete(ctx, leadID); err != nil {
		log.Error().Err(err).Str("lead_id", leadID).Msg("❌ erro ao excluir lead")
		return remoteError("DATABASE_ERROR", "erro ao excluir lead", err)
	}

	s.leads = append(s.leads[:idx], s.leads[idx+1:]...)
	s.partition()
	return nil
}

func (s *Store) AddLabel(ctx context.Context, leadID, labelID string) error {
	idx := s.findLead(leadID)
	if idx < 0 {
		return entity.ErrNotFound
	}
	for _, l := range s.leads[idx].Labels {
		if l.ID == labelID {
			return nil
		}
	}

	label, err := s.findLabel(ctx, labelID)
	if err != nil {
		return err
	}

	if err := s.gw.Labels.Assign(ctx, leadID, labelID); err != nil {
		log.Error().Err(err).Str("lead_id", leadID).Msg("❌ erro ao adicionar etiqueta")
		return remoteError("DATABASE_ERROR", "erro ao adicionar etiqueta", err)
	}

	s.leads[idx].Labels = append(s.leads[idx].Labels, *label)
	s.partition()
	return nil
}

func (s *Store) RemoveLabel(ctx context.Context, leadID, labelID string) error {
	idx := s.findLead(leadID)
	if idx < 0 {
		return entity.ErrNotFound
	}

	if err := s.gw.Labels.Unassign(ctx, leadID, labelID); err != nil {
		log.Error().Err(err).Str("lead_id", leadID).Msg("❌ erro ao remover etiqueta")
		return remoteError("DATABASE_ERROR", "erro ao remover etiqueta", err)
	}

	kept := s.leads[idx].Labels[:0]
	for _, l := range s.leads[idx].Labels {
		if l.ID != labelID {
			kept = append(kept, l)
		}
	}
	s.leads[idx].Labels = kept
	s.partition()
	return nil
}

func (s *Store) findLabel(ctx context.Context, labelID string) (*entity.Label, error) {
	tenantID := s.leadsTenant()
	labels, err := s.gw.Labels.ListByClient(ctx, tenantID)
	if err != nil {
		return nil, remoteError("DATABASE_ERROR", "erro ao buscar etiquetas", err)
	}
	for _, l := range labels {
		if l.ID == labelID {
			return &l, nil
		}
	}
	return nil, fmt.Errorf("etiqueta %s: %w", labelID, entity.ErrNotFound)
}

// leadsTenant é o cliente dono do quadro carregado.
func (s *Store) leadsTenant() string {
	if len(s.columns) > 0 {
		return s.columns[0].ClientID
	}
	if s.client != nil {
		return s.client.ID
	}
	return ""
}

// Lead devolve uma cópia do lead carregado no quadro.
func (s *Store) Lead(id string) (entity.Lead, bool) {
	idx := s.findLead(id)
	if idx < 0 {
		return entity.Lead{}, false
	}
	return s.leads[idx], true
}

func (s *Store) markFollowup(leadID string, scheduled bool) {
	if idx := s.findLead(leadID); idx >= 0 {
		s.leads[idx].HasFollowup = scheduled
		s.partition()
	}
}
