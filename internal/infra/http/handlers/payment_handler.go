package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dmatosb/protocolo-estetica/internal/infra/http/middleware"
	"github.com/dmatosb/protocolo-estetica/internal/usecase"
)

// PaymentHandler atende o polling de 5s e o botão "já paguei". As duas
// vias caem no mesmo VerifyAndConfirm idempotente.
type PaymentHandler struct {
	ConfirmUC *usecase.ConfirmPaymentUseCase
}

func NewPaymentHandler(uc *usecase.ConfirmPaymentUseCase) *PaymentHandler {
	return &PaymentHandler{ConfirmUC: uc}
}

type VerifyPaymentRequest struct {
	ChargeID string `json:"cobrancaId"`
	Email    string `json:"email"`
}

type VerifyPaymentResponse struct {
	Paid  bool   `json:"pago"`
	Error string `json:"error,omitempty"`
}

func (h *PaymentHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, VerifyPaymentResponse{Error: "JSON inválido"})
		return
	}

	paid, err := h.ConfirmUC.VerifyAndConfirm(r.Context(), req.Email, req.ChargeID)
	if err != nil {
		status := http.StatusInternalServerError
		if usecase.IsDomainError(err) {
			status = http.StatusBadRequest
		}
		if usecase.IsTechnicalError(err) {
			middleware.RecordIntegrationError("asaas")
		}
		writeJSON(w, status, VerifyPaymentResponse{Error: err.Error()})
		return
	}

	if paid {
		middleware.RecordPayment("poll", "confirmed")
	}

	writeJSON(w, http.StatusOK, VerifyPaymentResponse{Paid: paid})
}
