package usecase

import (
	"context"
	"log"
	"time"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
	"github.com/dmatosb/protocolo-estetica/internal/infra/queue"
)

// ConfirmPaymentUseCase é o único caminho de confirmação de pagamento.
// O poller de 5s, o botão "já paguei" e o webhook do gateway desembocam
// todos aqui, e o handler precisa ser idempotente: a transição
// false→true do pagou no banco é o guarda — efeitos colaterais (fila,
// email) só disparam na chamada que fez a virada.
type ConfirmPaymentUseCase struct {
	Leads   entity.LeadRepositoryInterface
	Gateway PaymentGateway
	Queue   QueueProducerInterface
}

func NewConfirmPaymentUseCase(
	leads entity.LeadRepositoryInterface,
	gateway PaymentGateway,
	producer QueueProducerInterface,
) *ConfirmPaymentUseCase {
	return &ConfirmPaymentUseCase{Leads: leads, Gateway: gateway, Queue: producer}
}

// VerifyAndConfirm consulta o gateway e, se a cobrança estiver paga,
// aplica a confirmação. Retorna se o pagamento está confirmado.
func (uc *ConfirmPaymentUseCase) VerifyAndConfirm(ctx context.Context, email, chargeID string) (bool, error) {
	if chargeID == "" {
		return false, &DomainError{Code: "CHARGE_NOT_FOUND", Message: "id da cobrança não encontrado, refaça o checkout"}
	}

	paid, err := uc.Gateway.GetChargeStatus(chargeID)
	if err != nil {
		return false, &TechnicalError{Code: "GATEWAY_ERROR", Message: "erro ao consultar pagamento: " + err.Error()}
	}
	if !paid {
		return false, nil
	}

	return true, uc.Confirm(ctx, email, chargeID)
}

// Confirm aplica os efeitos de um pagamento já verificado (poll manual,
// tick do timer ou webhook). Chamadas repetidas são no-op.
func (uc *ConfirmPaymentUseCase) Confirm(ctx context.Context, email, chargeID string) error {
	changed, err := uc.Leads.MarkPaid(ctx, email, time.Now())
	if err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: "falha ao marcar lead como pago: " + err.Error()}
	}

	if !changed {
		// Já estava pago: outra via confirmou primeiro. Nada a refazer.
		return nil
	}

	lead, err := uc.Leads.FindByEmail(ctx, email)
	if err != nil {
		log.Printf("⚠️ Pago marcado, mas falha ao recarregar lead %s: %v", email, err)
		lead = &entity.Lead{Email: email}
	}

	payload := queue.AccessPayload{
		Email:    lead.Email,
		Name:     lead.Name,
		ChargeID: chargeID,
		Origin:   "PAYMENT_CONFIRMED",
	}

	if err := uc.Queue.PublishAccess(ctx, payload); err != nil {
		// Pago no banco mas fila fora: o acesso já está garantido pelo
		// flag, o email de confirmação fica devendo. Só loga.
		log.Printf("⚠️ CRITICAL: pagamento confirmado mas falha na fila: %v", err)
		return nil
	}

	log.Printf("✅ Pagamento confirmado para %s (cobrança %s)", email, chargeID)
	return nil
}
