package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
	"github.com/dmatosb/protocolo-estetica/internal/infra/integration/asaas"
	"github.com/dmatosb/protocolo-estetica/internal/usecase"
)

// MockLocalState
type MockLocalState struct {
	mock.Mock
}

func (m *MockLocalState) SavePersonalData(name, cpf, phone, email string) error {
	args := m.Called(name, cpf, phone, email)
	return args.Error(0)
}

func (m *MockLocalState) SaveChargeID(chargeID string) error {
	args := m.Called(chargeID)
	return args.Error(0)
}

func (m *MockLocalState) SetAccessGranted(granted bool) error {
	args := m.Called(granted)
	return args.Error(0)
}

func (m *MockLocalState) PersonalData() (name, cpf, phone, email string) {
	args := m.Called()
	return args.String(0), args.String(1), args.String(2), args.String(3)
}

func (m *MockLocalState) ChargeID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockLocalState) AccessGranted() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockLocalState) Clear() error {
	args := m.Called()
	return args.Error(0)
}

func validChargeInput(method entity.PaymentMethod) usecase.CreateChargeInput {
	return usecase.CreateChargeInput{
		Name:   "Ana Paula",
		Email:  "ana@clinica.com",
		CPF:    "529.982.247-25",
		Phone:  "(11) 99999-9999",
		Method: method,
	}
}

func TestCreateChargePixSuccess(t *testing.T) {
	mockGateway := new(MockPaymentGateway)
	mockLocal := new(MockLocalState)

	mockGateway.On("CreateCharge", mock.MatchedBy(func(input asaas.CreateChargeInput) bool {
		return input.BillingType == "PIX" &&
			input.ValueCents == 4900 &&
			input.CpfCnpj == "52998224725" &&
			input.ExternalReference == "ana@clinica.com"
	})).Return(&asaas.ChargeOutput{
		ID:           "pay_123",
		PixQRCode:    "data:image/png;base64,iVBOR...",
		PixCopyPaste: "00020126580014br.gov.bcb.pix",
	}, nil)

	mockLocal.On("SavePersonalData", "Ana Paula", "529.982.247-25", "(11) 99999-9999", "ana@clinica.com").Return(nil)
	mockLocal.On("SaveChargeID", "pay_123").Return(nil)

	uc := usecase.NewCreateChargeUseCase(mockGateway, mockLocal)

	charge, err := uc.Execute(context.Background(), validChargeInput(entity.MethodPix))

	assert.NoError(t, err)
	assert.Equal(t, "pay_123", charge.ID)
	assert.Equal(t, 49.0, charge.Amount())
	assert.NotEmpty(t, charge.PixCopyPaste)
	mockLocal.AssertExpectations(t)
}

func TestCreateChargeCardUsesInvoice(t *testing.T) {
	mockGateway := new(MockPaymentGateway)
	mockLocal := new(MockLocalState)

	mockGateway.On("CreateCharge", mock.MatchedBy(func(input asaas.CreateChargeInput) bool {
		return input.BillingType == "CREDIT_CARD"
	})).Return(&asaas.ChargeOutput{
		ID:         "pay_456",
		InvoiceURL: "https://sandbox.asaas.com/i/pay_456",
	}, nil)

	mockLocal.On("SavePersonalData", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockLocal.On("SaveChargeID", "pay_456").Return(nil)

	uc := usecase.NewCreateChargeUseCase(mockGateway, mockLocal)

	charge, err := uc.Execute(context.Background(), validChargeInput(entity.MethodCard))

	assert.NoError(t, err)
	assert.Equal(t, entity.MethodCard, charge.Method)
	assert.NotEmpty(t, charge.InvoiceURL)
}

// TestCreateChargeGatewayFailure - falha no gateway vira PaymentError
// (retry inline no checkout) e nada é cacheado localmente.
func TestCreateChargeGatewayFailure(t *testing.T) {
	mockGateway := new(MockPaymentGateway)
	mockLocal := new(MockLocalState)

	mockGateway.On("CreateCharge", mock.Anything).Return(nil, errors.New("asaas 500"))

	uc := usecase.NewCreateChargeUseCase(mockGateway, mockLocal)

	charge, err := uc.Execute(context.Background(), validChargeInput(entity.MethodPix))

	assert.Nil(t, charge)
	assert.True(t, usecase.IsPaymentError(err))
	mockLocal.AssertNotCalled(t, "SaveChargeID", mock.Anything)
}

func TestCreateChargeInvalidInput(t *testing.T) {
	mockGateway := new(MockPaymentGateway)

	uc := usecase.NewCreateChargeUseCase(mockGateway, new(MockLocalState))

	input := validChargeInput(entity.MethodPix)
	input.CPF = "111.111.111-11" // dígitos repetidos: inválido

	charge, err := uc.Execute(context.Background(), input)

	assert.Nil(t, charge)
	assert.True(t, usecase.IsDomainError(err))
	mockGateway.AssertNotCalled(t, "CreateCharge", mock.Anything)
}
