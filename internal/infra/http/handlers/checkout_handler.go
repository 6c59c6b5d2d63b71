package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dmatosb/protocolo-estetica/internal/infra/http/middleware"
	"github.com/dmatosb/protocolo-estetica/internal/usecase"
)

// CheckoutHandler cria a cobrança (PIX ou cartão) no gateway.
// Falha aqui volta inline para o checkout, com retry do lado do cliente.
type CheckoutHandler struct {
	CreateChargeUC *usecase.CreateChargeUseCase
}

func NewCheckoutHandler(uc *usecase.CreateChargeUseCase) *CheckoutHandler {
	return &CheckoutHandler{CreateChargeUC: uc}
}

func (h *CheckoutHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateChargeInput

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, usecase.CreateChargeOutput{Success: false})
		return
	}

	charge, err := h.CreateChargeUC.Execute(r.Context(), input)
	if err != nil {
		status := http.StatusInternalServerError
		if usecase.IsDomainError(err) {
			status = http.StatusBadRequest
		}
		if usecase.IsPaymentError(err) {
			status = http.StatusBadGateway
			middleware.RecordIntegrationError("asaas")
		}
		writeJSON(w, status, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusCreated, usecase.CreateChargeOutput{
		Success:      true,
		ChargeID:     charge.ID,
		Amount:       charge.Amount(),
		PixQRCode:    charge.PixQRCode,
		PixCopyPaste: charge.PixCopyPaste,
		InvoiceURL:   charge.InvoiceURL,
	})
}
