package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/conecta-lead/internal/entity"
	"github.com/xavierca1/conecta-lead/internal/infra/integration/workflow"
	"github.com/xavierca1/conecta-lead/internal/infra/queue"
)

// MockClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, c *entity.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) FindByID(ctx context.Context, id string) (*entity.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Client), args.Error(1)
}

func (m *MockClientRepository) FindByUserID(ctx context.Context, userID string) (*entity.Client, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Client), args.Error(1)
}

func (m *MockClientRepository) FindByWebhookToken(ctx context.Context, token string) (*entity.Client, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Client), args.Error(1)
}

func (m *MockClientRepository) List(ctx context.Context, filter entity.ClientFilter) ([]entity.Client, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, c *entity.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockColumnRepository
type MockColumnRepository struct {
	mock.Mock
}

func (m *MockColumnRepository) ListByClient(ctx context.Context, clientID string) ([]entity.Column, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Column), args.Error(1)
}

func (m *MockColumnRepository) Create(ctx context.Context, c *entity.Column) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockColumnRepository) Rename(ctx context.Context, id, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *MockColumnRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) ListByClient(ctx context.Context, clientID string) ([]entity.Lead, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLeadRepository) Update(ctx context.Context, l *entity.Lead) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLeadRepository) UpdateColumn(ctx context.Context, id, columnID string) error {
	args := m.Called(ctx, id, columnID)
	return args.Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLabelRepository
type MockLabelRepository struct {
	mock.Mock
}

func (m *MockLabelRepository) ListByClient(ctx context.Context, clientID string) ([]entity.Label, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Label), args.Error(1)
}

func (m *MockLabelRepository) Create(ctx context.Context, l *entity.Label) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLabelRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLabelRepository) Assign(ctx context.Context, leadID, labelID string) error {
	args := m.Called(ctx, leadID, labelID)
	return args.Error(0)
}

func (m *MockLabelRepository) Unassign(ctx context.Context, leadID, labelID string) error {
	args := m.Called(ctx, leadID, labelID)
	return args.Error(0)
}

func (m *MockLabelRepository) ListAssignments(ctx context.Context, leadIDs []string) ([]entity.LeadLabel, error) {
	args := m.Called(ctx, leadIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LeadLabel), args.Error(1)
}

// MockFollowupRepository
type MockFollowupRepository struct {
	mock.Mock
}

func (m *MockFollowupRepository) LeadIDsWithStatus(ctx context.Context, clientID string, status entity.FollowupStatus) ([]string, error) {
	args := m.Called(ctx, clientID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFollowupRepository) ListByClient(ctx context.Context, clientID string) ([]entity.Followup, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Followup), args.Error(1)
}

func (m *MockFollowupRepository) Create(ctx context.Context, f *entity.Followup) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFollowupRepository) UpdateStatus(ctx context.Context, id string, from, to entity.FollowupStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

// MockPaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) List(ctx context.Context, filter entity.PaymentFilter) ([]entity.Payment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *entity.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	args := m.Called(ctx, id, paidAt)
	return args.Error(0)
}

// MockAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*entity.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, accessToken string) (*entity.Identity, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Identity), args.Error(1)
}

func (m *MockAuthService) OnSessionChange(fn func(event entity.SessionEvent, who entity.Identity)) {
	m.Called(fn)
}

func (m *MockAuthService) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	args := m.Called(ctx, userID, newPassword)
	return args.Error(0)
}

func (m *MockAuthService) CreateUser(ctx context.Context, email, password string, role entity.Role) (*entity.User, error) {
	args := m.Called(ctx, email, password, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthService) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockFollowupPublisher
type MockFollowupPublisher struct {
	mock.Mock
}

func (m *MockFollowupPublisher) PublishFollowup(ctx context.Context, payload queue.FollowupPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendWelcome(to, name, loginURL, tempPassword string) error {
	args := m.Called(to, name, loginURL, tempPassword)
	return args.Error(0)
}

// MockWhatsAppGateway
type MockWhatsAppGateway struct {
	mock.Mock
}

func (m *MockWhatsAppGateway) QRCode(ctx context.Context, session string) (*workflow.QRCode, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.QRCode), args.Error(1)
}

func (m *MockWhatsAppGateway) Status(ctx context.Context, session string) (workflow.SessionStatus, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(workflow.SessionStatus), args.Error(1)
}

// fixture monta um Gateway com mocks e um Store já vinculado a um cliente.
type fixture struct {
	clients   *MockClientRepository
	columns   *MockColumnRepository
	leads     *MockLeadRepository
	labels    *MockLabelRepository
	followups *MockFollowupRepository
	payments  *MockPaymentRepository
	auth      *MockAuthService
	store     *Store
	client    *entity.Client
}

func newFixture() *fixture {
	f := &fixture{
		clients:   new(MockClientRepository),
		columns:   new(MockColumnRepository),
		leads:     new(MockLeadRepository),
		labels:    new(MockLabelRepository),
		followups: new(MockFollowupRepository),
		payments:  new(MockPaymentRepository),
		auth:      new(MockAuthService),
	}
	f.store = NewStore(f.gateway(), f.auth, StoreOptions{LegacyAdminEmailMatch: true})
	return f
}

func (f *fixture) gateway() Gateway {
	return Gateway{
		Clients:   f.clients,
		Columns:   f.columns,
		Leads:     f.leads,
		Labels:    f.labels,
		Followups: f.followups,
		Payments:  f.payments,
	}
}

// bindTenant vincula o Store ao cliente "client-1".
func (f *fixture) bindTenant(status entity.ClientStatus) {
	f.client = &entity.Client{ID: "client-1", UserID: "user-1", Name: "Acme", Email: "acme@example.com", Status: status}
	f.clients.On("FindByUserID", mock.Anything, "user-1").Return(f.client, nil).Once()
	f.store.Bind(context.Background(), entity.Identity{ID: "user-1", Email: "acme@example.com", Role: entity.RoleClient})
}

// board prepara os mocks do carregamento do quadro com duas colunas.
func (f *fixture) board(leads []entity.Lead, scheduled []string) []entity.Column {
	columns := []entity.Column{
		{ID: "col-1", ClientID: "client-1", Name: "Novos leads", Order: 0},
		{ID: "col-2", ClientID: "client-1", Name: "Fechado", Order: 1},
	}
	f.columns.On("ListByClient", mock.Anything, "client-1").Return(columns, nil)
	f.followups.On("LeadIDsWithStatus", mock.Anything, "client-1", entity.FollowupScheduled).Return(scheduled, nil)
	f.leads.On("ListByClient", mock.Anything, "client-1").Return(leads, nil)
	f.labels.On("ListByClient", mock.Anything, "client-1").Return([]entity.Label{}, nil)
	f.labels.On("ListAssignments", mock.Anything, mock.Anything).Return([]entity.LeadLabel{}, nil)
	return columns
}

func sampleLeads() []entity.Lead {
	return []entity.Lead{
		{ID: "lead-1", ClientID: "client-1", ColumnID: "col-1", Name: "Ana", Phone: "11988887777"},
		{ID: "lead-2", ClientID: "client-1", ColumnID: "col-1", Name: "Bruno"},
		{ID: "lead-3", ClientID: "client-1", ColumnID: "col-2", Name: "Carla"},
	}
}
