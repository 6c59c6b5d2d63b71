package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
)

// OtpSender manda o magic link de login.
type OtpSender interface {
	SignInWithOtp(ctx context.Context, email string) error
}

// AccessHandler expõe o flag pagou do lead e o login por magic link de
// quem já comprou.
type AccessHandler struct {
	Leads entity.LeadRepositoryInterface
	Otp   OtpSender
}

func NewAccessHandler(leads entity.LeadRepositoryInterface, otp OtpSender) *AccessHandler {
	return &AccessHandler{Leads: leads, Otp: otp}
}

func (h *AccessHandler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}

	lead, err := h.Leads.FindByEmail(r.Context(), email)
	if err != nil {
		http.Error(w, "Erro ao consultar lead", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if lead == nil {
		json.NewEncoder(w).Encode(map[string]bool{"encontrado": false, "pagou": false})
		return
	}

	json.NewEncoder(w).Encode(map[string]bool{
		"encontrado": true,
		"pagou":      lead.Paid,
	})
}

type MagicLinkRequest struct {
	Email string `json:"email"`
}

// HandleSendMagicLink só manda o link se o lead pagou: email
// desconhecido ou sem compra recebe a mesma resposta, sem vazar se o
// cadastro existe.
func (h *AccessHandler) HandleSendMagicLink(w http.ResponseWriter, r *http.Request) {
	var req MagicLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}

	lead, err := h.Leads.FindByEmail(r.Context(), req.Email)
	if err != nil {
		http.Error(w, "Erro ao consultar lead", http.StatusInternalServerError)
		return
	}

	if lead != nil && lead.Paid {
		if err := h.Otp.SignInWithOtp(r.Context(), req.Email); err != nil {
			http.Error(w, "Erro ao enviar link de acesso", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"enviado": true})
}
