package handlers

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/dmatosb/protocolo-estetica/internal/infra/http/middleware"
	"github.com/dmatosb/protocolo-estetica/internal/infra/integration/asaas"
	"github.com/dmatosb/protocolo-estetica/internal/usecase"
)

// WebhookHandler recebe as notificações de pagamento do gateway. O
// externalReference da cobrança carrega o email do lead, então o
// webhook fecha o ciclo pelo mesmo caminho idempotente do polling.
type WebhookHandler struct {
	ConfirmUC *usecase.ConfirmPaymentUseCase
}

func NewWebhookHandler(uc *usecase.ConfirmPaymentUseCase) *WebhookHandler {
	return &WebhookHandler{ConfirmUC: uc}
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Bad request", 400)
		return
	}

	if !authenticatedWebhook(r, body) {
		log.Printf("⚠️ Webhook rejeitado: assinatura inválida (ip %s)", getClientIP(r))
		http.Error(w, "invalid_signature", http.StatusUnauthorized)
		return
	}

	var event asaas.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "Bad JSON", 400)
		return
	}

	if event.Event != "PAYMENT_RECEIVED" && event.Event != "PAYMENT_CONFIRMED" {
		w.WriteHeader(200)
		return
	}

	email := event.Payment.ExternalReference
	if email == "" {
		log.Printf("❌ Webhook sem externalReference (payment %s)", event.Payment.ID)
		w.WriteHeader(200)
		return
	}

	if err := h.ConfirmUC.Confirm(r.Context(), email, event.Payment.ID); err != nil {
		log.Printf("❌ Erro ao confirmar via webhook: %v", err)
		w.WriteHeader(500)
		return
	}

	middleware.RecordPayment("webhook", "confirmed")
	middleware.RecordAccessGranted()
	w.WriteHeader(200)
}

// authenticatedWebhook valida a origem da notificação: ou o token fixo
// que o Asaas manda em asaas-access-token, ou sha256(body+secret) em
// X-Asaas-Signature. Sem ASAAS_WEBHOOK_SECRET configurado a checagem é
// desligada (ambiente local, sem webhook real).
func authenticatedWebhook(r *http.Request, body []byte) bool {
	secret := os.Getenv("ASAAS_WEBHOOK_SECRET")
	if secret == "" {
		return true
	}

	if token := r.Header.Get("asaas-access-token"); token != "" {
		return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
	}

	signature := r.Header.Get("X-Asaas-Signature")
	if signature == "" {
		return false
	}

	hash := sha256.Sum256([]byte(string(body) + secret))
	expected := fmt.Sprintf("%x", hash)
	return subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) == 1
}
