package entity

import (
	"context"
	"time"
)

// Lead representa um prospecto ao longo de toda a vida do funil.
// A chave de conflito é o email: o mesmo lead pode refazer o quiz
// várias vezes e o registro acumula, nunca duplica.
type Lead struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`

	// Entradas do quiz (valor resolvido + flag de digitação manual)
	ContactsPerMonth float64 `json:"contatos_mes"`
	ContactsManual   bool    `json:"contatos_mes_manual"`
	AverageTicket    float64 `json:"ticket_medio"`
	TicketManual     bool    `json:"ticket_medio_manual"`
	ConversionRate   float64 `json:"taxa_conversao"`
	ConversionManual bool    `json:"taxa_conversao_manual"`
	ResponseTime     string  `json:"tempo_resposta"`

	// Resultado calculado
	MonthlyLoss float64 `json:"perda_mensal"`
	AnnualLoss  float64 `json:"perda_anual"`
	MainProblem string  `json:"problema_principal"`

	// Estado do funil. "pagou" é a fonte de verdade do acesso.
	Paid           bool       `json:"pagou"`
	PaidAt         *time.Time `json:"data_pagamento,omitempty"`
	AccountCreated bool       `json:"conta_criada"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LeadRepositoryInterface interface {
	Upsert(ctx context.Context, lead *Lead) error
	FindByEmail(ctx context.Context, email string) (*Lead, error)

	// MarkPaid seta pagou=true uma única vez. Retorna true apenas na
	// chamada que fez a transição false→true; chamadas repetidas
	// retornam false sem alterar nada.
	MarkPaid(ctx context.Context, email string, paidAt time.Time) (bool, error)

	MarkAccountCreated(ctx context.Context, email string) error
}

// AbandonedLead é a projeção mínima de um lead que calculou a perda mas
// não pagou, usada pelo lembrete de checkout abandonado.
type AbandonedLead struct {
	Email     string
	Name      string
	CreatedAt time.Time
}
