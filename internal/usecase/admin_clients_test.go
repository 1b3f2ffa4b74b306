package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/conecta-lead/internal/entity"
	"github.com/xavierca1/conecta-lead/internal/infra/integration/workflow"
)

func provisionInput() ProvisionClientInput {
	return ProvisionClientInput{
		Name:       "Clínica Sorriso",
		Email:      "Contato@Sorriso.com",
		Password:   "senha123",
		Plan:       entity.PlanBasic,
		BillingDay: 5,
	}
}

// welcomeSpy registra o envio assíncrono do e-mail de boas-vindas.
type welcomeSpy struct {
	sent chan string
}

func (s *welcomeSpy) SendWelcome(to, name, loginURL, tempPassword string) error {
	s.sent <- to
	return nil
}

// ============ TESTES DE PROVISIONAMENTO ============

func TestProvision_Success(t *testing.T) {
	clients, columns, auth := new(MockClientRepository), new(MockColumnRepository), new(MockAuthService)
	spy := &welcomeSpy{sent: make(chan string, 1)}
	svc := NewClientAdminService(clients, columns, auth, spy, "https://app.conectalead.com/login")

	auth.On("CreateUser", mock.Anything, "Contato@Sorriso.com", "senha123", entity.RoleClient).
		Return(&entity.User{ID: "user-1", Email: "contato@sorriso.com", Role: entity.RoleClient}, nil)
	clients.On("Create", mock.Anything, mock.AnythingOfType("*entity.Client")).Return(nil)
	columns.On("Create", mock.Anything, mock.AnythingOfType("*entity.Column")).Return(nil)

	client, err := svc.Provision(context.Background(), provisionInput())

	require.NoError(t, err)
	assert.Equal(t, "user-1", client.UserID)
	assert.Equal(t, "contato@sorriso.com", client.Email)
	assert.Equal(t, entity.ClientActive, client.Status)
	assert.NotEmpty(t, client.WebhookToken)
	columns.AssertNumberOfCalls(t, "Create", len(entity.DefaultColumns(client.ID)))

	select {
	case to := <-spy.sent:
		assert.Equal(t, "contato@sorriso.com", to)
	case <-time.After(time.Second):
		t.Fatal("e-mail de boas-vindas não enviado")
	}
}

func TestProvision_EmailExists(t *testing.T) {
	clients, columns, auth := new(MockClientRepository), new(MockColumnRepository), new(MockAuthService)
	svc := NewClientAdminService(clients, columns, auth, nil, "")
	auth.On("CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, entity.ErrEmailAlreadyExists)

	_, err := svc.Provision(context.Background(), provisionInput())

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "EMAIL_EXISTS", de.Code)
	clients.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	auth.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
}

func TestProvision_ClientFailureRemovesUser(t *testing.T) {
	clients, columns, auth := new(MockClientRepository), new(MockColumnRepository), new(MockAuthService)
	svc := NewClientAdminService(clients, columns, auth, nil, "")
	auth.On("CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&entity.User{ID: "user-1"}, nil)
	clients.On("Create", mock.Anything, mock.Anything).Return(errors.New("db"))
	auth.On("DeleteUser", mock.Anything, "user-1").Return(nil)

	_, err := svc.Provision(context.Background(), provisionInput())

	var te *TechnicalError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "DATABASE_ERROR", te.Code)
	auth.AssertExpectations(t)
	clients.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestProvision_SeedFailureRollsBackEverything(t *testing.T) {
	clients, columns, auth := new(MockClientRepository), new(MockColumnRepository), new(MockAuthService)
	svc := NewClientAdminService(clients, columns, auth, nil, "")
	auth.On("CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&entity.User{ID: "user-1"}, nil)
	clients.On("Create", mock.Anything, mock.Anything).Return(nil)
	columns.On("Create", mock.Anything, mock.Anything).Return(errors.New("db"))
	clients.On("Delete", mock.Anything, mock.Anything).Return(nil)
	auth.On("DeleteUser", mock.Anything, "user-1").Return(nil)

	_, err := svc.Provision(context.Background(), provisionInput())

	assert.True(t, IsTechnicalError(err))
	clients.AssertNumberOfCalls(t, "Delete", 1)
	auth.AssertNumberOfCalls(t, "DeleteUser", 1)
}

func TestProvision_InvalidInput(t *testing.T) {
	auth := new(MockAuthService)
	svc := NewClientAdminService(nil, nil, auth, nil, "")
	input := provisionInput()
	input.Password = "123"

	_, err := svc.Provision(context.Background(), input)

	assert.True(t, IsDomainError(err))
	auth.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// ============ TESTES DE EDIÇÃO E EXCLUSÃO ============

func TestUpdateClient_StatusAlias(t *testing.T) {
	clients := new(MockClientRepository)
	svc := NewClientAdminService(clients, nil, nil, nil, "")
	clients.On("FindByID", mock.Anything, "c1").
		Return(&entity.Client{ID: "c1", Name: "Acme", Email: "a@a.com", Plan: entity.PlanPro, BillingDay: 10, Status: entity.ClientActive}, nil)
	clients.On("Update", mock.Anything, mock.Anything).Return(nil)
	status := "vencido"
	day := 15

	client, err := svc.Update(context.Background(), "c1", ClientPatch{Status: &status, BillingDay: &day})

	require.NoError(t, err)
	assert.Equal(t, entity.ClientExpired, client.Status)
	assert.Equal(t, 15, client.BillingDay)
}

func TestUpdateClient_InvalidBillingDay(t *testing.T) {
	clients := new(MockClientRepository)
	svc := NewClientAdminService(clients, nil, nil, nil, "")
	clients.On("FindByID", mock.Anything, "c1").
		Return(&entity.Client{ID: "c1", Name: "Acme", Email: "a@a.com", Plan: entity.PlanPro, BillingDay: 10}, nil)
	day := 30

	_, err := svc.Update(context.Background(), "c1", ClientPatch{BillingDay: &day})

	assert.True(t, IsDomainError(err))
	clients.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteClient_UserFailureIsLogged(t *testing.T) {
	clients, auth := new(MockClientRepository), new(MockAuthService)
	svc := NewClientAdminService(clients, nil, auth, nil, "")
	clients.On("FindByID", mock.Anything, "c1").Return(&entity.Client{ID: "c1", UserID: "user-1"}, nil)
	clients.On("Delete", mock.Anything, "c1").Return(nil)
	auth.On("DeleteUser", mock.Anything, "user-1").Return(errors.New("redis"))

	assert.NoError(t, svc.Delete(context.Background(), "c1"))
	auth.AssertExpectations(t)
}

func TestDeleteClient_NotFound(t *testing.T) {
	clients := new(MockClientRepository)
	svc := NewClientAdminService(clients, nil, nil, nil, "")
	clients.On("FindByID", mock.Anything, "x").Return(nil, entity.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), "x"), entity.ErrNotFound)
}

// ============ TESTES DE PAGAMENTOS ============

func TestRegisterPayment(t *testing.T) {
	payments, clients := new(MockPaymentRepository), new(MockClientRepository)
	svc := NewPaymentAdminService(payments, clients)
	clients.On("FindByID", mock.Anything, "c1").Return(&entity.Client{ID: "c1", Name: "Acme"}, nil)
	payments.On("Create", mock.Anything, mock.AnythingOfType("*entity.Payment")).Return(nil)

	p, err := svc.Register(context.Background(), PaymentInput{
		ClientID:       "c1",
		AmountCents:    9900,
		ReferenceMonth: "2024-06",
		DueDate:        time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, "MENSALIDADE", p.Type)
	assert.Equal(t, entity.PaymentPending, p.Status)
	assert.Equal(t, "Acme", p.ClientName)
}

func TestRegisterPayment_Invalid(t *testing.T) {
	svc := NewPaymentAdminService(new(MockPaymentRepository), new(MockClientRepository))

	_, err := svc.Register(context.Background(), PaymentInput{ClientID: "c1", AmountCents: 0, ReferenceMonth: "06/2024"})

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Message, "amount_cents")
	assert.Contains(t, de.Message, "reference_month")
	assert.Contains(t, de.Message, "due_date")
}

func TestMarkPaid_DefaultsToNow(t *testing.T) {
	payments := new(MockPaymentRepository)
	svc := NewPaymentAdminService(payments, nil)
	payments.On("MarkPaid", mock.Anything, "p1", mock.MatchedBy(func(at time.Time) bool { return !at.IsZero() })).Return(nil)

	require.NoError(t, svc.MarkPaid(context.Background(), "p1", time.Time{}))
	payments.AssertExpectations(t)
}

// ============ TESTES DO WHATSAPP ============

func TestWhatsAppService_NoTenant(t *testing.T) {
	f := newFixture()
	svc := NewWhatsAppService(new(MockWhatsAppGateway), 0)

	_, err := svc.QRCode(context.Background(), f.store)
	assert.ErrorIs(t, err, entity.ErrNoTenant)
	_, err = svc.Status(context.Background(), f.store)
	assert.ErrorIs(t, err, entity.ErrNoTenant)
	assert.Equal(t, DefaultPollInterval, svc.PollInterval)
}

func TestWhatsAppService_QRCode(t *testing.T) {
	f := newFixture()
	f.bindTenant(entity.ClientActive)
	gw := new(MockWhatsAppGateway)
	gw.On("QRCode", mock.Anything, "conectalead-client-1").Return(&workflow.QRCode{Image: "data:image/png;base64,AAA"}, nil)

	qr, err := NewWhatsAppService(gw, 0).QRCode(context.Background(), f.store)

	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AAA", qr.Image)
}

func TestWhatsAppService_StatusFailure(t *testing.T) {
	f := newFixture()
	f.bindTenant(entity.ClientActive)
	gw := new(MockWhatsAppGateway)
	gw.On("Status", mock.Anything, "conectalead-client-1").Return(workflow.SessionStatus(""), fmt.Errorf("timeout"))

	_, err := NewWhatsAppService(gw, 0).Status(context.Background(), f.store)

	var te *TechnicalError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "INTEGRATION_ERROR", te.Code)
}

func TestWhatsAppService_PollStopsWhenConnected(t *testing.T) {
	gw := new(MockWhatsAppGateway)
	gw.On("Status", mock.Anything, "conectalead-c1").Return(workflow.StatusPending, nil).Once()
	gw.On("Status", mock.Anything, "conectalead-c1").Return(workflow.SessionStatus(""), errors.New("falha")).Once()
	gw.On("Status", mock.Anything, "conectalead-c1").Return(workflow.StatusConnected, nil).Once()
	svc := NewWhatsAppService(gw, time.Millisecond)

	var seen []workflow.SessionStatus
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	svc.Poll(ctx, &entity.Client{ID: "c1"}, func(s workflow.SessionStatus) { seen = append(seen, s) })

	assert.Equal(t, []workflow.SessionStatus{workflow.StatusPending, workflow.StatusConnected}, seen)
	gw.AssertNumberOfCalls(t, "Status", 3)
}

func TestWhatsAppService_PollStopsOnCancel(t *testing.T) {
	gw := new(MockWhatsAppGateway)
	gw.On("Status", mock.Anything, mock.Anything).Return(workflow.StatusPending, nil)
	svc := NewWhatsAppService(gw, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		svc.Poll(ctx, &entity.Client{ID: "c1"}, func(workflow.SessionStatus) {})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Poll não respeitou o cancelamento")
	}
}
