package usecase

import (
	"context"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
	"github.com/dmatosb/protocolo-estetica/internal/infra/integration/asaas"
	"github.com/dmatosb/protocolo-estetica/internal/infra/queue"
)

// SessionService é o contrato com o serviço de identidade (Supabase Auth).
type SessionService interface {
	CurrentSession(ctx context.Context) (*entity.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*entity.Session, error)
	SignUp(ctx context.Context, email, password string) (*entity.Session, error)
	SignOut(ctx context.Context) error
	SendRecoveryEmail(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, newPassword string) error
}

type PaymentGateway interface {
	CreateCharge(input asaas.CreateChargeInput) (*asaas.ChargeOutput, error)
	GetChargeStatus(chargeID string) (bool, error)
}

type QueueProducerInterface interface {
	PublishAccess(ctx context.Context, payload queue.AccessPayload) error
}
