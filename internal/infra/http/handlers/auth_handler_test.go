package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
	"github.com/dmatosb/protocolo-estetica/internal/infra/http/handlers"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignInWithPassword(ctx context.Context, email, password string) (*entity.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockAuthService) SendRecoveryEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthService) SetSession(accessToken string) error {
	args := m.Called(accessToken)
	return args.Error(0)
}

func (m *MockAuthService) UpdatePassword(ctx context.Context, newPassword string) error {
	args := m.Called(ctx, newPassword)
	return args.Error(0)
}

func (m *MockAuthService) ResendSignupConfirmation(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func postJSON(t *testing.T, handlerFn http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	handlerFn(rec, req)
	return rec
}

// ============ TESTES ============

func TestLoginSuccess(t *testing.T) {
	mockAuth := new(MockAuthService)
	mockAuth.On("SignInWithPassword", mock.Anything, "ana@clinica.com", "senha-forte-1").Return(
		&entity.Session{Email: "ana@clinica.com", AccessToken: "jwt-abc"}, nil,
	)

	handler := handlers.NewAuthHandler(mockAuth)
	rec := postJSON(t, handler.HandleLogin, `{"email": "ana@clinica.com", "senha": "senha-forte-1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "jwt-abc")
}

// TestLoginBadCredentialsTranslated - erro do GoTrue chega traduzido
// para o usuário, nunca a mensagem crua em inglês.
func TestLoginBadCredentialsTranslated(t *testing.T) {
	mockAuth := new(MockAuthService)
	mockAuth.On("SignInWithPassword", mock.Anything, "ana@clinica.com", "errada").Return(
		nil, errors.New("Invalid login credentials"),
	)

	handler := handlers.NewAuthHandler(mockAuth)
	rec := postJSON(t, handler.HandleLogin, `{"email": "ana@clinica.com", "senha": "errada"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email ou senha incorretos.")
}

func TestLoginMissingFields(t *testing.T) {
	handler := handlers.NewAuthHandler(new(MockAuthService))
	rec := postJSON(t, handler.HandleLogin, `{"email": "ana@clinica.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestRecoveryMasksFailures - falha no envio não vaza se a conta
// existe: a resposta é a mesma em qualquer caso.
func TestRecoveryMasksFailures(t *testing.T) {
	mockAuth := new(MockAuthService)
	mockAuth.On("SendRecoveryEmail", mock.Anything, "ana@clinica.com").Return(errors.New("user not found"))

	handler := handlers.NewAuthHandler(mockAuth)
	rec := postJSON(t, handler.HandleSendRecovery, `{"email": "ana@clinica.com"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"enviado":true`)
}

func TestUpdatePasswordHappyPath(t *testing.T) {
	mockAuth := new(MockAuthService)
	mockAuth.On("SetSession", "token-do-link").Return(nil)
	mockAuth.On("UpdatePassword", mock.Anything, "senha-nova-123").Return(nil)

	handler := handlers.NewAuthHandler(mockAuth)
	rec := postJSON(t, handler.HandleUpdatePassword,
		`{"access_token": "token-do-link", "senha": "senha-nova-123", "confirmacao": "senha-nova-123"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockAuth.AssertCalled(t, "UpdatePassword", mock.Anything, "senha-nova-123")
}

func TestUpdatePasswordMismatch(t *testing.T) {
	mockAuth := new(MockAuthService)
	handler := handlers.NewAuthHandler(mockAuth)

	rec := postJSON(t, handler.HandleUpdatePassword,
		`{"access_token": "token-do-link", "senha": "senha-nova-123", "confirmacao": "outra"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockAuth.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything)
}

// TestUpdatePasswordBadToken - token de recuperação que não parseia não
// vira sessão: 401 e a senha não muda.
func TestUpdatePasswordBadToken(t *testing.T) {
	mockAuth := new(MockAuthService)
	mockAuth.On("SetSession", "podre").Return(errors.New("token inválido"))

	handler := handlers.NewAuthHandler(mockAuth)
	rec := postJSON(t, handler.HandleUpdatePassword,
		`{"access_token": "podre", "senha": "senha-nova-123", "confirmacao": "senha-nova-123"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockAuth.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything)
}

func TestResendConfirmation(t *testing.T) {
	mockAuth := new(MockAuthService)
	mockAuth.On("ResendSignupConfirmation", mock.Anything, "ana@clinica.com").Return(nil)

	handler := handlers.NewAuthHandler(mockAuth)
	rec := postJSON(t, handler.HandleResendConfirmation, `{"email": "ana@clinica.com"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockAuth.AssertExpectations(t)
}
