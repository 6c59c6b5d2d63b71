package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dmatosb/protocolo-estetica/internal/usecase"
)

// AccountHandler cria a conta do comprador depois do pagamento
// confirmado (tela criar-conta).
type AccountHandler struct {
	CreateUC *usecase.CreateAccountUseCase
}

func NewAccountHandler(uc *usecase.CreateAccountUseCase) *AccountHandler {
	return &AccountHandler{CreateUC: uc}
}

type CreateAccountResponse struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"access_token,omitempty"`
	Message     string `json:"message,omitempty"`
}

func (h *AccountHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateAccountInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, CreateAccountResponse{Message: "JSON inválido"})
		return
	}

	session, err := h.CreateUC.Execute(r.Context(), input)
	if err != nil {
		status := http.StatusInternalServerError
		if usecase.IsDomainError(err) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, CreateAccountResponse{Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, CreateAccountResponse{
		Success:     true,
		AccessToken: session.AccessToken,
	})
}
