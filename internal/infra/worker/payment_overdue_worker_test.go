package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/conecta-lead/internal/infra/database"
)

// MockOverdueMarker - Mock para o repositório de pagamentos
type MockOverdueMarker struct {
	mock.Mock
}

func (m *MockOverdueMarker) MarkOverdue(ctx context.Context, now time.Time) ([]database.OverduePayment, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.OverduePayment), args.Error(1)
}

func TestMarkOverdue(t *testing.T) {
	now := time.Date(2024, 6, 11, 8, 0, 0, 0, time.UTC)

	t.Run("Cobranças vencidas disparam o callback", func(t *testing.T) {
		marker := new(MockOverdueMarker)
		marker.On("MarkOverdue", mock.Anything, now).Return([]database.OverduePayment{
			{ID: "p1", ClientID: "c1", DueDate: now.AddDate(0, 0, -1)},
			{ID: "p2", ClientID: "c2", DueDate: now.AddDate(0, 0, -3)},
		}, nil)

		reported := 0
		w := NewPaymentOverdueWorker(marker, func(n int) { reported += n })
		w.now = func() time.Time { return now }

		assert.Equal(t, 2, w.markOverdue(context.Background()))
		assert.Equal(t, 2, reported)
	})

	t.Run("Nada vencido não chama o callback", func(t *testing.T) {
		marker := new(MockOverdueMarker)
		marker.On("MarkOverdue", mock.Anything, now).Return([]database.OverduePayment{}, nil)

		called := false
		w := NewPaymentOverdueWorker(marker, func(int) { called = true })
		w.now = func() time.Time { return now }

		assert.Zero(t, w.markOverdue(context.Background()))
		assert.False(t, called)
	})

	t.Run("Erro do banco é só logado", func(t *testing.T) {
		marker := new(MockOverdueMarker)
		marker.On("MarkOverdue", mock.Anything, now).Return(nil, errors.New("db"))

		w := NewPaymentOverdueWorker(marker, nil)
		w.now = func() time.Time { return now }

		assert.Zero(t, w.markOverdue(context.Background()))
	})
}

func TestStart_StopsOnCancel(t *testing.T) {
	marker := new(MockOverdueMarker)
	marker.On("MarkOverdue", mock.Anything, mock.Anything).Return([]database.OverduePayment{}, nil)
	w := NewPaymentOverdueWorker(marker, nil)
	w.tickInterval = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker não encerrou")
	}
	marker.AssertCalled(t, "MarkOverdue", mock.Anything, mock.Anything)
}
