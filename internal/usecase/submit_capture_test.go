package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
	"github.com/dmatosb/protocolo-estetica/internal/usecase"
)

func quizAnswers() entity.QuizAnswers {
	return entity.QuizAnswers{
		ContactsRange:  entity.BucketAnswer("50_100"),
		TicketRange:    entity.BucketAnswer("300_500"),
		ConversionRate: entity.BucketAnswer("cada_10"),
		ResponseTime:   entity.ResponseOver2H,
	}
}

func TestSubmitCaptureCalculatesAndSavesLead(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockLeads.On("Upsert", ctx, mock.MatchedBy(func(lead *entity.Lead) bool {
		return lead.Email == "ana@clinica.com" &&
			lead.ContactsPerMonth == 75 &&
			lead.AverageTicket == 400 &&
			lead.MonthlyLoss == 3000 &&
			lead.AnnualLoss == 36000 &&
			lead.MainProblem == "tempo_resposta"
	})).Return(nil)

	uc := usecase.NewSubmitCaptureUseCase(mockLeads)

	result, err := uc.Execute(ctx, usecase.SubmitCaptureInput{
		Email:   "ana@clinica.com",
		Name:    "Ana Paula",
		Answers: quizAnswers(),
	})

	assert.NoError(t, err)
	assert.Equal(t, 3000.0, result.MonthlyLoss)
	assert.Equal(t, 36000.0, result.AnnualLoss)
	mockLeads.AssertExpectations(t)
}

func TestSubmitCaptureInvalidEmail(t *testing.T) {
	mockLeads := new(MockLeadRepository)
	uc := usecase.NewSubmitCaptureUseCase(mockLeads)

	result, err := uc.Execute(context.Background(), usecase.SubmitCaptureInput{
		Email:   "nao-é-email",
		Answers: quizAnswers(),
	})

	assert.Nil(t, result)
	assert.True(t, usecase.IsDomainError(err))
	mockLeads.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

// TestSubmitCaptureRepositoryFailureStillReturnsResult - o lead não
// gravar é problema nosso, não do usuário: o resultado sai mesmo assim.
func TestSubmitCaptureRepositoryFailureStillReturnsResult(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockLeads.On("Upsert", ctx, mock.Anything).Return(errors.New("db down"))

	uc := usecase.NewSubmitCaptureUseCase(mockLeads)

	result, err := uc.Execute(ctx, usecase.SubmitCaptureInput{
		Email:   "ana@clinica.com",
		Answers: quizAnswers(),
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, 3000.0, result.MonthlyLoss)
}
