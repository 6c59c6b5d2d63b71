package entity

// Answer é um campo do quiz que pode vir de duas formas:
// um bucket nomeado (ex: "50_100") ou um valor exato digitado pelo usuário.
type Answer struct {
	Bucket string
	Value  float64
	Manual bool
}

// BucketAnswer monta uma resposta por faixa nomeada.
func BucketAnswer(bucket string) Answer {
	return Answer{Bucket: bucket}
}

// ManualAnswer monta uma resposta com valor exato digitado.
func ManualAnswer(value float64) Answer {
	return Answer{Value: value, Manual: true}
}

type ResponseTime string

const (
	ResponseUnder5Min  ResponseTime = "menos_5min"
	Response5To30Min   ResponseTime = "5_30min"
	Response30MinTo2H  ResponseTime = "30min_2h"
	ResponseOver2H     ResponseTime = "mais_2h"
	ResponseDependeDia ResponseTime = "depende"
)

type QuizAnswers struct {
	ContactsRange  Answer
	TicketRange    Answer
	ConversionRate Answer
	ResponseTime   ResponseTime
}

type MainProblem string

const (
	ProblemResponseTime  MainProblem = "tempo_resposta"
	ProblemLackOfProcess MainProblem = "falta_processo"
)

// CalculationResult é imutável depois de calculado.
type CalculationResult struct {
	MonthlyLoss   float64     `json:"perda_mensal"`
	AnnualLoss    float64     `json:"perda_anual"`
	CurrentRate   float64     `json:"taxa_atual"`
	PotentialRate float64     `json:"taxa_potencial"`
	MainProblem   MainProblem `json:"problema_principal"`
}
