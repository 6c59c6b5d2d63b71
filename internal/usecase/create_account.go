package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
)

// CreateAccountUseCase roda depois do pagamento confirmado: o comprador
// define a senha, a conta nasce no serviço de identidade e o lead é
// marcado com conta_criada.
type CreateAccountUseCase struct {
	Sessions SessionService
	Leads    entity.LeadRepositoryInterface
}

func NewCreateAccountUseCase(sessions SessionService, leads entity.LeadRepositoryInterface) *CreateAccountUseCase {
	return &CreateAccountUseCase{Sessions: sessions, Leads: leads}
}

func (uc *CreateAccountUseCase) Execute(ctx context.Context, input CreateAccountInput) (*entity.Session, error) {
	if validationErrors := ValidatePassword(input.Password, input.ConfirmPassword); len(validationErrors) > 0 {
		return nil, &DomainError{Code: "INVALID_PASSWORD", Message: Translate(validationErrors[0].Message)}
	}

	session, err := uc.Sessions.SignUp(ctx, input.Email, input.Password)
	if err != nil {
		if strings.Contains(err.Error(), "already registered") {
			return nil, &DomainError{Code: "ALREADY_REGISTERED", Message: "Este email já possui uma conta. Por favor, faça login."}
		}
		return nil, &DomainError{Code: "SIGNUP_FAILED", Message: Translate(err.Error())}
	}

	// Best-effort: a conta existe, o flag no lead é registro auxiliar.
	if err := uc.Leads.MarkAccountCreated(ctx, input.Email); err != nil {
		log.Printf("⚠️ Conta criada mas falha ao marcar lead %s: %v", input.Email, err)
	}

	// O signUp nem sempre devolve sessão ativa (depende da confirmação
	// de email estar ligada). Força o login para garantir.
	if session == nil || !session.Valid() {
		session, err = uc.Sessions.SignInWithPassword(ctx, input.Email, input.Password)
		if err != nil {
			return nil, &DomainError{Code: "SIGNIN_FAILED", Message: Translate(err.Error())}
		}
	}

	return session, nil
}
