package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
)

type MockAbandonedLeadSource struct {
	mock.Mock
}

func (m *MockAbandonedLeadSource) ClaimAbandoned(ctx context.Context, window time.Duration) ([]entity.AbandonedLead, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.AbandonedLead), args.Error(1)
}

type MockReminderMailer struct {
	mock.Mock
}

func (m *MockReminderMailer) SendCheckoutReminder(to, name string) error {
	args := m.Called(to, name)
	return args.Error(0)
}

func TestReminderWorkerSendsOneEmailPerAbandonedLead(t *testing.T) {
	source := new(MockAbandonedLeadSource)
	mailer := new(MockReminderMailer)

	createdAt := time.Now().Add(-30 * time.Hour)
	source.On("ClaimAbandoned", mock.Anything, 24*time.Hour).Return([]entity.AbandonedLead{
		{Email: "ana@clinica.com", Name: "Ana Paula", CreatedAt: createdAt},
		{Email: "bia@clinica.com", Name: "", CreatedAt: createdAt},
	}, nil)

	mailer.On("SendCheckoutReminder", "ana@clinica.com", "Ana Paula").Return(nil)
	mailer.On("SendCheckoutReminder", "bia@clinica.com", "").Return(nil)

	w := NewReminderWorker(source, mailer)
	w.remindAbandoned(context.Background())

	source.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

// TestReminderWorkerMailFailureDoesNotBlockOthers - falha num envio não
// derruba a varredura: os demais leads ainda recebem o lembrete.
func TestReminderWorkerMailFailureDoesNotBlockOthers(t *testing.T) {
	source := new(MockAbandonedLeadSource)
	mailer := new(MockReminderMailer)

	source.On("ClaimAbandoned", mock.Anything, mock.Anything).Return([]entity.AbandonedLead{
		{Email: "ana@clinica.com", Name: "Ana Paula"},
		{Email: "bia@clinica.com", Name: "Bia"},
	}, nil)

	mailer.On("SendCheckoutReminder", "ana@clinica.com", "Ana Paula").Return(errors.New("smtp fora"))
	mailer.On("SendCheckoutReminder", "bia@clinica.com", "Bia").Return(nil)

	w := NewReminderWorker(source, mailer)
	w.remindAbandoned(context.Background())

	mailer.AssertNumberOfCalls(t, "SendCheckoutReminder", 2)
}

func TestReminderWorkerQueryFailureSendsNothing(t *testing.T) {
	source := new(MockAbandonedLeadSource)
	mailer := new(MockReminderMailer)

	source.On("ClaimAbandoned", mock.Anything, mock.Anything).Return(nil, errors.New("coluna inexistente"))

	w := NewReminderWorker(source, mailer)
	w.remindAbandoned(context.Background())

	mailer.AssertNotCalled(t, "SendCheckoutReminder", mock.Anything, mock.Anything)
	assert.True(t, source.AssertExpectations(t))
}
