package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
	"github.com/dmatosb/protocolo-estetica/internal/infra/integration/asaas"
	"github.com/dmatosb/protocolo-estetica/internal/infra/queue"
	"github.com/dmatosb/protocolo-estetica/internal/usecase"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) MarkPaid(ctx context.Context, email string, paidAt time.Time) (bool, error) {
	args := m.Called(ctx, email, paidAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) MarkAccountCreated(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// MockPaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateCharge(input asaas.CreateChargeInput) (*asaas.ChargeOutput, error) {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asaas.ChargeOutput), args.Error(1)
}

func (m *MockPaymentGateway) GetChargeStatus(chargeID string) (bool, error) {
	args := m.Called(chargeID)
	return args.Bool(0), args.Error(1)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishAccess(ctx context.Context, payload queue.AccessPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// ============ TESTES ============

// TestConfirmPaymentPublishesAccessOnce - a chamada que vira o pagou
// publica exatamente um evento de acesso na fila.
func TestConfirmPaymentPublishesAccessOnce(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockGateway := new(MockPaymentGateway)
	mockQueue := new(MockQueueProducer)

	mockLeads.On("MarkPaid", ctx, "ana@clinica.com", mock.Anything).Return(true, nil)
	mockLeads.On("FindByEmail", ctx, "ana@clinica.com").Return(&entity.Lead{
		Email: "ana@clinica.com",
		Name:  "Ana Paula",
		Paid:  true,
	}, nil)
	mockQueue.On("PublishAccess", ctx, mock.MatchedBy(func(p queue.AccessPayload) bool {
		return p.Email == "ana@clinica.com" && p.ChargeID == "pay_123" && p.Origin == "PAYMENT_CONFIRMED"
	})).Return(nil)

	uc := usecase.NewConfirmPaymentUseCase(mockLeads, mockGateway, mockQueue)

	err := uc.Confirm(ctx, "ana@clinica.com", "pay_123")

	assert.NoError(t, err)
	mockQueue.AssertNumberOfCalls(t, "PublishAccess", 1)
}

// TestConfirmPaymentRepeatedIsNoOp - segunda confirmação (outra via
// chegou primeiro) não republica nem recarrega o lead.
func TestConfirmPaymentRepeatedIsNoOp(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockGateway := new(MockPaymentGateway)
	mockQueue := new(MockQueueProducer)

	mockLeads.On("MarkPaid", ctx, "ana@clinica.com", mock.Anything).Return(false, nil)

	uc := usecase.NewConfirmPaymentUseCase(mockLeads, mockGateway, mockQueue)

	err := uc.Confirm(ctx, "ana@clinica.com", "pay_123")

	assert.NoError(t, err)
	mockLeads.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	mockQueue.AssertNotCalled(t, "PublishAccess", mock.Anything, mock.Anything)
}

// TestVerifyAndConfirmWithoutChargeID - sem cobrança ativa o usuário
// precisa refazer o checkout; erro de domínio, não técnico.
func TestVerifyAndConfirmWithoutChargeID(t *testing.T) {
	uc := usecase.NewConfirmPaymentUseCase(new(MockLeadRepository), new(MockPaymentGateway), new(MockQueueProducer))

	paid, err := uc.VerifyAndConfirm(context.Background(), "ana@clinica.com", "")

	assert.False(t, paid)
	assert.True(t, usecase.IsDomainError(err))
}

func TestVerifyAndConfirmGatewayError(t *testing.T) {
	mockGateway := new(MockPaymentGateway)
	mockGateway.On("GetChargeStatus", "pay_123").Return(false, errors.New("timeout"))

	uc := usecase.NewConfirmPaymentUseCase(new(MockLeadRepository), mockGateway, new(MockQueueProducer))

	paid, err := uc.VerifyAndConfirm(context.Background(), "ana@clinica.com", "pay_123")

	assert.False(t, paid)
	assert.True(t, usecase.IsTechnicalError(err))
}

// TestVerifyAndConfirmStillPending - cobrança ainda não paga: nem toca
// no banco.
func TestVerifyAndConfirmStillPending(t *testing.T) {
	mockLeads := new(MockLeadRepository)
	mockGateway := new(MockPaymentGateway)
	mockGateway.On("GetChargeStatus", "pay_123").Return(false, nil)

	uc := usecase.NewConfirmPaymentUseCase(mockLeads, mockGateway, new(MockQueueProducer))

	paid, err := uc.VerifyAndConfirm(context.Background(), "ana@clinica.com", "pay_123")

	assert.False(t, paid)
	assert.NoError(t, err)
	mockLeads.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
}

// TestConfirmPaymentQueueFailureNotFatal - o pagou já virou no banco; a
// fila fora do ar não pode desfazer a confirmação.
func TestConfirmPaymentQueueFailureNotFatal(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockQueue := new(MockQueueProducer)

	mockLeads.On("MarkPaid", ctx, "ana@clinica.com", mock.Anything).Return(true, nil)
	mockLeads.On("FindByEmail", ctx, "ana@clinica.com").Return(&entity.Lead{Email: "ana@clinica.com"}, nil)
	mockQueue.On("PublishAccess", ctx, mock.Anything).Return(errors.New("broker down"))

	uc := usecase.NewConfirmPaymentUseCase(mockLeads, new(MockPaymentGateway), mockQueue)

	err := uc.Confirm(ctx, "ana@clinica.com", "pay_123")

	assert.NoError(t, err)
}
