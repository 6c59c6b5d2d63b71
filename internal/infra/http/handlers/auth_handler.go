package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
	"github.com/dmatosb/protocolo-estetica/internal/usecase"
)

// AuthService é o que a camada HTTP precisa do serviço de identidade:
// login por senha, o ciclo de recuperação (email → token do link →
// senha nova) e o reenvio da confirmação de cadastro.
type AuthService interface {
	SignInWithPassword(ctx context.Context, email, password string) (*entity.Session, error)
	SendRecoveryEmail(ctx context.Context, email string) error
	SetSession(accessToken string) error
	UpdatePassword(ctx context.Context, newPassword string) error
	ResendSignupConfirmation(ctx context.Context, email string) error
}

type AuthHandler struct {
	Auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type LoginResponse struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"access_token,omitempty"`
	Message     string `json:"message,omitempty"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, LoginResponse{Message: "Informe email e senha."})
		return
	}

	session, err := h.Auth.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, LoginResponse{Message: usecase.Translate(err.Error())})
		return
	}
	if session == nil || !session.Valid() {
		writeJSON(w, http.StatusUnauthorized, LoginResponse{Message: "Email ou senha incorretos."})
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Success: true, AccessToken: session.AccessToken})
}

type RecoveryRequest struct {
	Email string `json:"email"`
}

// HandleSendRecovery dispara o email de redefinição de senha. A
// resposta é a mesma exista a conta ou não, igual ao magic link: nada
// de vazar cadastro por aqui.
func (h *AuthHandler) HandleSendRecovery(w http.ResponseWriter, r *http.Request) {
	var req RecoveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}

	if err := h.Auth.SendRecoveryEmail(r.Context(), req.Email); err != nil {
		log.Printf("⚠️ Falha ao enviar recuperação para %s: %v", req.Email, err)
	}

	writeJSON(w, http.StatusOK, map[string]bool{"enviado": true})
}

type UpdatePasswordRequest struct {
	AccessToken     string `json:"access_token"`
	Password        string `json:"senha"`
	ConfirmPassword string `json:"confirmacao"`
}

// HandleUpdatePassword aplica a senha nova da tela redefinir-senha. O
// access_token vem do link de recuperação que o usuário abriu.
func (h *AuthHandler) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, LoginResponse{Message: "JSON inválido"})
		return
	}

	if errs := usecase.ValidatePassword(req.Password, req.ConfirmPassword); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, LoginResponse{Message: errs[0].Message})
		return
	}

	if err := h.Auth.SetSession(req.AccessToken); err != nil {
		writeJSON(w, http.StatusUnauthorized, LoginResponse{Message: "Link de recuperação inválido ou expirado."})
		return
	}

	if err := h.Auth.UpdatePassword(r.Context(), req.Password); err != nil {
		writeJSON(w, http.StatusBadRequest, LoginResponse{Message: usecase.Translate(err.Error())})
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Success: true})
}

// HandleResendConfirmation reenvia o email de confirmação de cadastro
// para quem criou a conta e não recebeu o link.
func (h *AuthHandler) HandleResendConfirmation(w http.ResponseWriter, r *http.Request) {
	var req RecoveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}

	if err := h.Auth.ResendSignupConfirmation(r.Context(), req.Email); err != nil {
		log.Printf("⚠️ Falha ao reenviar confirmação para %s: %v", req.Email, err)
	}

	writeJSON(w, http.StatusOK, map[string]bool{"enviado": true})
}
