package database

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/lib/pq"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Upsert grava o lead com conflito na chave email: refazer o quiz
// atualiza o registro existente em vez de duplicar. Campos de contato
// vazios não apagam o que já estava salvo.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (
			email, name, phone,
			contatos_mes, contatos_mes_manual,
			ticket_medio, ticket_medio_manual,
			taxa_conversao, taxa_conversao_manual,
			tempo_resposta,
			perda_mensal, perda_anual, problema_principal,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		ON CONFLICT (email)
		DO UPDATE SET
			name = COALESCE(EXCLUDED.name, leads.name),
			phone = COALESCE(EXCLUDED.phone, leads.phone),
			contatos_mes = EXCLUDED.contatos_mes,
			contatos_mes_manual = EXCLUDED.contatos_mes_manual,
			ticket_medio = EXCLUDED.ticket_medio,
			ticket_medio_manual = EXCLUDED.ticket_medio_manual,
			taxa_conversao = EXCLUDED.taxa_conversao,
			taxa_conversao_manual = EXCLUDED.taxa_conversao_manual,
			tempo_resposta = EXCLUDED.tempo_resposta,
			perda_mensal = EXCLUDED.perda_mensal,
			perda_anual = EXCLUDED.perda_anual,
			problema_principal = EXCLUDED.problema_principal,
			updated_at = NOW()
		RETURNING id, created_at, updated_at, pagou, conta_criada
	`

	err := r.DB.QueryRowContext(
		ctx,
		query,
		lead.Email,
		nullString(lead.Name),
		nullString(lead.Phone),
		lead.ContactsPerMonth,
		lead.ContactsManual,
		lead.AverageTicket,
		lead.TicketManual,
		lead.ConversionRate,
		lead.ConversionManual,
		lead.ResponseTime,
		lead.MonthlyLoss,
		lead.AnnualLoss,
		lead.MainProblem,
	).Scan(
		&lead.ID,
		&lead.CreatedAt,
		&lead.UpdatedAt,
		&lead.Paid,
		&lead.AccountCreated,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return entity.ErrEmailAlreadyExists
		}
		log.Printf("❌ Erro crítico no banco (upsert lead): %v", err)
		return err
	}

	return nil
}

func (r *LeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	query := `
		SELECT id, email, COALESCE(name, ''), COALESCE(phone, ''),
		       contatos_mes, contatos_mes_manual,
		       ticket_medio, ticket_medio_manual,
		       taxa_conversao, taxa_conversao_manual,
		       COALESCE(tempo_resposta, ''),
		       perda_mensal, perda_anual, COALESCE(problema_principal, ''),
		       pagou, data_pagamento, conta_criada,
		       created_at, updated_at
		FROM leads
		WHERE email = $1
	`

	lead := &entity.Lead{}
	var paidAt sql.NullTime

	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&lead.ID, &lead.Email, &lead.Name, &lead.Phone,
		&lead.ContactsPerMonth, &lead.ContactsManual,
		&lead.AverageTicket, &lead.TicketManual,
		&lead.ConversionRate, &lead.ConversionManual,
		&lead.ResponseTime,
		&lead.MonthlyLoss, &lead.AnnualLoss, &lead.MainProblem,
		&lead.Paid, &paidAt, &lead.AccountCreated,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if paidAt.Valid {
		lead.PaidAt = &paidAt.Time
	}

	return lead, nil
}

// MarkPaid vira pagou=true exatamente uma vez. O WHERE pagou = false é
// o guarda de idempotência: a segunda chamada não afeta linha nenhuma
// e retorna false, e quem chamou sabe que não deve reemitir efeitos.
func (r *LeadRepository) MarkPaid(ctx context.Context, email string, paidAt time.Time) (bool, error) {
	query := `
		UPDATE leads
		SET pagou = true, data_pagamento = $2, updated_at = NOW()
		WHERE email = $1 AND pagou = false
	`

	result, err := r.DB.ExecContext(ctx, query, email, paidAt)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// ClaimAbandoned marca como lembrados os leads sem pagamento mais
// velhos que a janela e devolve cada um exatamente uma vez: o flag
// lembrete_enviado vira no mesmo UPDATE que seleciona as linhas.
func (r *LeadRepository) ClaimAbandoned(ctx context.Context, window time.Duration) ([]entity.AbandonedLead, error) {
	query := `
		UPDATE leads
		SET lembrete_enviado = true, updated_at = NOW()
		WHERE
			pagou = false
			AND lembrete_enviado = false
			AND created_at < NOW() - ($1 * INTERVAL '1 minute')
		RETURNING email, COALESCE(name, ''), created_at
	`

	rows, err := r.DB.QueryContext(ctx, query, int64(window.Minutes()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claimed []entity.AbandonedLead
	for rows.Next() {
		var lead entity.AbandonedLead
		if err := rows.Scan(&lead.Email, &lead.Name, &lead.CreatedAt); err != nil {
			return nil, err
		}
		claimed = append(claimed, lead)
	}

	return claimed, rows.Err()
}

func (r *LeadRepository) MarkAccountCreated(ctx context.Context, email string) error {
	query := `
		UPDATE leads
		SET conta_criada = true, updated_at = NOW()
		WHERE email = $1
	`

	result, err := r.DB.ExecContext(ctx, query, email)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrLeadNotFound
	}

	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
