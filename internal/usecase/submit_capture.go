package usecase

import (
	"context"
	"log"
	"net/mail"
	"time"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
	"github.com/dmatosb/protocolo-estetica/internal/scoring"
)

// SubmitCaptureUseCase roda na transição capture→result: calcula a
// estimativa uma única vez e grava o lead com entradas e resultado.
type SubmitCaptureUseCase struct {
	Leads entity.LeadRepositoryInterface
}

func NewSubmitCaptureUseCase(leads entity.LeadRepositoryInterface) *SubmitCaptureUseCase {
	return &SubmitCaptureUseCase{Leads: leads}
}

func (uc *SubmitCaptureUseCase) Execute(ctx context.Context, input SubmitCaptureInput) (*entity.CalculationResult, error) {
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, &DomainError{Code: "INVALID_EMAIL", Message: "email inválido"}
	}

	result := scoring.Calculate(input.Answers)

	now := time.Now()
	lead := &entity.Lead{
		Email: input.Email,
		Name:  input.Name,
		Phone: input.Phone,

		ContactsPerMonth: scoring.ResolveContacts(input.Answers.ContactsRange),
		ContactsManual:   input.Answers.ContactsRange.Manual,
		AverageTicket:    scoring.ResolveTicket(input.Answers.TicketRange),
		TicketManual:     input.Answers.TicketRange.Manual,
		ConversionRate:   result.CurrentRate,
		ConversionManual: input.Answers.ConversionRate.Manual,
		ResponseTime:     string(input.Answers.ResponseTime),

		MonthlyLoss: result.MonthlyLoss,
		AnnualLoss:  result.AnnualLoss,
		MainProblem: string(result.MainProblem),

		UpdatedAt: now,
	}

	// Persistência best-effort: a estimativa nunca fica presa atrás de
	// um soluço no banco. Falha aqui só vira log.
	if err := uc.Leads.Upsert(ctx, lead); err != nil {
		log.Printf("⚠️ Falha ao salvar lead %s (seguindo para o resultado): %v", input.Email, err)
	}

	return &result, nil
}
