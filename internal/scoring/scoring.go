// Package scoring calcula a estimativa de perda financeira a partir das
// respostas do quiz. É puro e total: entrada desconhecida cai em um
// default documentado, nunca em erro — o funil não pode travar por
// causa de resposta malformada.
package scoring

import "github.com/dmatosb/protocolo-estetica/internal/entity"

// Médias fixas de cada faixa de contatos/mês.
var contactAverages = map[string]float64{
	"menos_30": 20,
	"30_50":    40,
	"50_100":   75,
	"100_200":  150,
	"mais_200": 250,
}

// Médias fixas de cada faixa de ticket médio (R$).
var ticketAverages = map[string]float64{
	"ate_150":    100,
	"150_300":    225,
	"300_500":    400,
	"500_1000":   750,
	"1000_2000":  1500,
	"acima_2000": 2500,
}

// Taxa de conversão por faixa ("fecha 1 a cada N contatos").
var conversionRates = map[string]float64{
	"cada_3":       0.33,
	"cada_5":       0.20,
	"cada_10":      0.10,
	"cada_15":      0.07,
	"cada_20":      0.05,
	"cada_30_mais": 0.03,
}

const (
	defaultConversionRate = 0.03
	defaultPotentialRate  = 0.10

	// Quando a taxa atual já alcança a potencial, o resultado precisa
	// continuar mostrando margem de melhora. Regra de negócio, não de
	// segurança numérica: o offset de +0.10 e o piso de 0.05 fazem
	// parte da paridade do cálculo.
	clampOffset = 0.10
	gapFloor    = 0.05
)

// ResolveContacts resolve o número de contatos/mês: valor manual direto,
// senão a média da faixa. Faixa desconhecida resolve para 0.
func ResolveContacts(a entity.Answer) float64 {
	if a.Manual {
		return a.Value
	}
	return contactAverages[a.Bucket]
}

// ResolveTicket resolve o ticket médio pelo mesmo padrão.
func ResolveTicket(a entity.Answer) float64 {
	if a.Manual {
		return a.Value
	}
	return ticketAverages[a.Bucket]
}

// ResolveCurrentRate resolve a taxa de conversão atual. Valor manual N é
// lido como "1 venda a cada N contatos"; N <= 0 vira taxa 0. Faixa
// desconhecida cai no default de 3%.
func ResolveCurrentRate(a entity.Answer) float64 {
	if a.Manual {
		if a.Value > 0 {
			return 1 / a.Value
		}
		return 0
	}
	if rate, ok := conversionRates[a.Bucket]; ok {
		return rate
	}
	return defaultConversionRate
}

// PotentialRate é a taxa alcançável dado o tempo de resposta hoje.
func PotentialRate(rt entity.ResponseTime) float64 {
	switch rt {
	case entity.ResponseUnder5Min:
		return 0.40
	case entity.Response5To30Min:
		return 0.30
	case entity.Response30MinTo2H:
		return 0.20
	case entity.ResponseOver2H, entity.ResponseDependeDia:
		return 0.10
	default:
		return defaultPotentialRate
	}
}

// Calculate transforma as respostas do quiz no resultado financeiro.
func Calculate(a entity.QuizAnswers) entity.CalculationResult {
	contacts := ResolveContacts(a.ContactsRange)
	ticket := ResolveTicket(a.TicketRange)
	currentRate := ResolveCurrentRate(a.ConversionRate)
	potentialRate := PotentialRate(a.ResponseTime)

	if currentRate >= potentialRate {
		potentialRate = currentRate + clampOffset
	}

	gap := potentialRate - currentRate
	if gap <= 0 {
		// Não deveria acontecer depois do clamp, mas o piso garante.
		gap = gapFloor
	}

	monthlyLoss := contacts * ticket * gap
	annualLoss := monthlyLoss * 12

	mainProblem := entity.ProblemResponseTime
	if a.ResponseTime == entity.ResponseOver2H || a.ResponseTime == entity.ResponseDependeDia {
		mainProblem = entity.ProblemResponseTime
	} else if currentRate < 0.20 {
		mainProblem = entity.ProblemLackOfProcess
	}

	return entity.CalculationResult{
		MonthlyLoss:   monthlyLoss,
		AnnualLoss:    annualLoss,
		CurrentRate:   currentRate,
		PotentialRate: potentialRate,
		MainProblem:   mainProblem,
	}
}
