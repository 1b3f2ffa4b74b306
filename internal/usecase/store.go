package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/xavierca1/conecta-lead/internal/entity"
)

// SessionState é o estado de resolução da identidade.
type SessionState int

const (
	StateUnresolved SessionState = iota
	StateNoUser
	StateAdmin
	StateTenantBound
	StateTenantUnbound
)

func (s SessionState) String() string {
	switch s {
	case StateNoUser:
		return "no_user"
	case StateAdmin:
		return "admin"
	case StateTenantBound:
		return "tenant_bound"
	case StateTenantUnbound:
		return "tenant_unbound"
	}
	return "unresolved"
}

type StoreOptions struct {
	// LegacyAdminEmailMatch trata contas sem papel cujo e-mail contém
	// "admin" como administradoras.
	LegacyAdminEmailMatch bool
}

// Store guarda a identidade, o cliente resolvido e o quadro carregado de
// uma sessão. Não é seguro para uso concorrente: existe uma instância por
// requisição autenticada.
type Store struct {
	gw   Gateway
	auth AuthService
	opts StoreOptions

	state    SessionState
	identity *entity.Identity
	client   *entity.Client

	columns []entity.Column
	leads   []entity.Lead
}

func NewStore(gw Gateway, auth AuthService, opts StoreOptions) *Store {
	return &Store{gw: gw, auth: auth, opts: opts, state: StateUnresolved}
}

func (s *Store) State() SessionState { return s.state }
func (s *Store) Identity() *entity.Identity { return s.identity }
func (s *Store) Client() *entity.Client { return s.client }
func (s *Store) IsAdmin() bool { return s.state == StateAdmin }
func (s *Store) Columns() []entity.Column { return s.columns }
func (s *Store) Leads() []entity.Lead { return s.leads }

// ResolveIdentity busca o usuário da sessão e vincula o cliente.
func (s *Store) ResolveIdentity(ctx context.Context, accessToken string) error {
	s.state = StateUnresolved

	who, err := s.auth.CurrentUser(ctx, accessToken)
	if err != nil {
		s.clear()
		if errors.Is(err, entity.ErrNoSession) {
			return nil
		}
		return err
	}

	s.Bind(ctx, *who)
	return nil
}

// Bind resolve uma identidade já autenticada: administradora ou vinculada
// a um cliente. Falha na busca do cliente deixa a identidade sem vínculo.
func (s *Store) Bind(ctx context.Context, who entity.Identity) {
	s.identity = &who
	s.client = nil

	if s.isAdminIdentity(who) {
		s.state = StateAdmin
		return
	}

	client, err := s.gw.Clients.FindByUserID(ctx, who.ID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", who.ID).Msg("⚠️ cliente não encontrado para o usuário")
		s.state = StateTenantUnbound
		return
	}

	s.client = client
	s.state = StateTenantBound
}

func (s *Store) isAdminIdentity(who entity.Identity) bool {
	switch who.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleClient:
		return false
	}

	if s.opts.LegacyAdminEmailMatch && who.LooksLikeAdmin() {
		log.Warn().Str("email", who.Email).Msg("⚠️ conta sem papel tratada como admin pela regra legada do e-mail")
		return true
	}
	return false
}

// HandleSessionEvent aplica os eventos de login/logout do serviço de
// autenticação à máquina de estados.
func (s *Store) HandleSessionEvent(ctx context.Context, event entity.SessionEvent, who *entity.Identity) {
	switch event {
	case entity.SignedOut:
		s.clear()
	case entity.SignedIn:
		s.state = StateUnresolved
		if who != nil {
			s.Bind(ctx, *who)
		}
	}
}

// Logout encerra a sessão remota e limpa todo o estado local, mesmo que a
// chamada remota falhe.
func (s *Store) Logout(ctx context.Context, accessToken string) {
	if err := s.auth.SignOut(ctx, accessToken); err != nil {
		log.Error().Err(err).Msg("❌ falha ao encerrar sessão remota")
	}
	s.clear()
}

func (s *Store) clear() {
	s.state = StateNoUser
	s.identity = nil
	s.client = nil
	s.columns = nil
	s.leads = nil
}

// tenantID devolve o cliente alvo de uma operação. Admins podem informar
// qualquer cliente; os demais só enxergam o próprio.
func (s *Store) tenantID(requested string) (string, error) {
	if s.state == StateAdmin {
		return requested, nil
	}
	if s.client == nil {
		return "", entity.ErrNoTenant
	}
	if requested != "" && requested != s.client.ID {
		return "", entity.ErrForbidden
	}
	return s.client.ID, nil
}
