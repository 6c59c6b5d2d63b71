package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
)

// Cenário clássico: taxa atual empata com a potencial e o clamp entra.
func TestCalculateClampWhenCurrentMeetsPotential(t *testing.T) {
	answers := entity.QuizAnswers{
		ContactsRange:  entity.BucketAnswer("50_100"),  // média 75
		TicketRange:    entity.BucketAnswer("300_500"), // média 400
		ConversionRate: entity.BucketAnswer("cada_10"), // 0.10
		ResponseTime:   entity.ResponseOver2H,          // potencial 0.10
	}

	result := Calculate(answers)

	assert.InDelta(t, 0.10, result.CurrentRate, 0.0001)
	assert.InDelta(t, 0.20, result.PotentialRate, 0.0001, "clamp deve forçar atual + 0.10 exato")
	assert.InDelta(t, 3000.0, result.MonthlyLoss, 0.01)
	assert.InDelta(t, 36000.0, result.AnnualLoss, 0.01)
	assert.Equal(t, entity.ProblemResponseTime, result.MainProblem)
}

func TestCalculateManualInputs(t *testing.T) {
	answers := entity.QuizAnswers{
		ContactsRange:  entity.ManualAnswer(20),
		TicketRange:    entity.ManualAnswer(1000),
		ConversionRate: entity.ManualAnswer(5), // 1 a cada 5 = 0.20
		ResponseTime:   entity.ResponseUnder5Min,
	}

	result := Calculate(answers)

	assert.InDelta(t, 0.20, result.CurrentRate, 0.0001)
	assert.InDelta(t, 0.40, result.PotentialRate, 0.0001)
	assert.InDelta(t, 4000.0, result.MonthlyLoss, 0.01)
	// 0.20 não é < 0.20, então cai no default tempo_resposta
	assert.Equal(t, entity.ProblemResponseTime, result.MainProblem)
}

// Entrada malformada nunca pode gerar erro: buckets desconhecidos
// resolvem para os defaults documentados.
func TestCalculateUnknownBucketsFallBack(t *testing.T) {
	answers := entity.QuizAnswers{
		ContactsRange:  entity.BucketAnswer("faixa_que_nao_existe"),
		TicketRange:    entity.BucketAnswer("???"),
		ConversionRate: entity.BucketAnswer("corrompido"),
		ResponseTime:   entity.ResponseTime("whatever"),
	}

	result := Calculate(answers)

	assert.InDelta(t, 0.03, result.CurrentRate, 0.0001)
	assert.Zero(t, result.MonthlyLoss)
	assert.Zero(t, result.AnnualLoss)
	assert.Greater(t, result.PotentialRate, result.CurrentRate)
}

func TestCalculateManualConversionZeroOrNegative(t *testing.T) {
	for _, n := range []float64{0, -3} {
		answers := entity.QuizAnswers{
			ContactsRange:  entity.ManualAnswer(100),
			TicketRange:    entity.ManualAnswer(500),
			ConversionRate: entity.ManualAnswer(n),
			ResponseTime:   entity.Response5To30Min,
		}

		result := Calculate(answers)

		assert.Zero(t, result.CurrentRate)
		assert.InDelta(t, 0.30, result.PotentialRate, 0.0001)
	}
}

func TestCalculateMainProblemLackOfProcess(t *testing.T) {
	answers := entity.QuizAnswers{
		ContactsRange:  entity.BucketAnswer("30_50"),
		TicketRange:    entity.BucketAnswer("150_300"),
		ConversionRate: entity.BucketAnswer("cada_20"), // 0.05 < 0.20
		ResponseTime:   entity.ResponseUnder5Min,
	}

	result := Calculate(answers)

	assert.Equal(t, entity.ProblemLackOfProcess, result.MainProblem)
}

// Tempo de resposta ruim domina a classificação, independente das taxas.
func TestCalculateSlowResponseAlwaysWinsClassification(t *testing.T) {
	for _, rt := range []entity.ResponseTime{entity.ResponseOver2H, entity.ResponseDependeDia} {
		answers := entity.QuizAnswers{
			ContactsRange:  entity.BucketAnswer("mais_200"),
			TicketRange:    entity.BucketAnswer("acima_2000"),
			ConversionRate: entity.BucketAnswer("cada_30_mais"), // 0.03, bem abaixo de 0.20
			ResponseTime:   rt,
		}

		result := Calculate(answers)

		assert.Equal(t, entity.ProblemResponseTime, result.MainProblem)
	}
}

// Propriedades que valem para qualquer combinação de entrada.
func TestCalculateInvariants(t *testing.T) {
	buckets := []entity.Answer{
		entity.BucketAnswer("menos_30"),
		entity.BucketAnswer("invalido"),
		entity.ManualAnswer(0),
		entity.ManualAnswer(999),
	}
	conversions := []entity.Answer{
		entity.BucketAnswer("cada_3"),
		entity.BucketAnswer("cada_30_mais"),
		entity.BucketAnswer("lixo"),
		entity.ManualAnswer(1), // taxa 1.0, força clamp acima de qualquer potencial
		entity.ManualAnswer(0),
	}
	times := []entity.ResponseTime{
		entity.ResponseUnder5Min,
		entity.Response5To30Min,
		entity.Response30MinTo2H,
		entity.ResponseOver2H,
		entity.ResponseDependeDia,
		entity.ResponseTime("desconhecido"),
	}

	for _, c := range buckets {
		for _, tk := range buckets {
			for _, conv := range conversions {
				for _, rt := range times {
					result := Calculate(entity.QuizAnswers{
						ContactsRange:  c,
						TicketRange:    tk,
						ConversionRate: conv,
						ResponseTime:   rt,
					})

					assert.GreaterOrEqual(t, result.MonthlyLoss, 0.0)
					assert.InDelta(t, result.MonthlyLoss*12, result.AnnualLoss, 0.0001)
					assert.Greater(t, result.PotentialRate, result.CurrentRate,
						"potencial sempre estritamente maior que a atual")
				}
			}
		}
	}
}

func TestClampIsExactlyCurrentPlusTenPoints(t *testing.T) {
	// Manual "1 a cada 2" = 0.50, acima de qualquer potencial da tabela.
	answers := entity.QuizAnswers{
		ContactsRange:  entity.ManualAnswer(10),
		TicketRange:    entity.ManualAnswer(100),
		ConversionRate: entity.ManualAnswer(2),
		ResponseTime:   entity.ResponseUnder5Min,
	}

	result := Calculate(answers)

	assert.InDelta(t, 0.50, result.CurrentRate, 0.0001)
	assert.InDelta(t, 0.60, result.PotentialRate, 0.0001)
}
