package worker

import (
	"context"
	"log"
	"time"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
)

type ReminderMailer interface {
	SendCheckoutReminder(to, name string) error
}

// AbandonedLeadSource entrega cada lead abandonado uma única vez;
// a marcação mora no mesmo comando que seleciona.
type AbandonedLeadSource interface {
	ClaimAbandoned(ctx context.Context, window time.Duration) ([]entity.AbandonedLead, error)
}

// ReminderWorker recupera leads que calcularam a perda mas abandonaram
// o checkout, enviando um único lembrete por email.
type ReminderWorker struct {
	leads          AbandonedLeadSource
	mailer         ReminderMailer
	abandonoWindow time.Duration
	tickInterval   time.Duration
}

func NewReminderWorker(leads AbandonedLeadSource, mailer ReminderMailer) *ReminderWorker {
	return &ReminderWorker{
		leads:          leads,
		mailer:         mailer,
		abandonoWindow: 24 * time.Hour,   // lembrete após 24h sem pagar
		tickInterval:   15 * time.Minute, // Roda a cada 15 min
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	log.Println("🕒 Reminder Worker iniciado (24h window)")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.remindAbandoned(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Reminder Worker encerrado")
			return
		case <-ticker.C:
			w.remindAbandoned(ctx)
		}
	}
}

func (w *ReminderWorker) remindAbandoned(ctx context.Context) {
	leads, err := w.leads.ClaimAbandoned(ctx, w.abandonoWindow)
	if err != nil {
		log.Printf("❌ Erro ao buscar leads abandonados: %v", err)
		return
	}

	sentCount := 0
	for _, lead := range leads {
		if err := w.mailer.SendCheckoutReminder(lead.Email, lead.Name); err != nil {
			log.Printf("⚠️ Falha ao enviar lembrete para %s: %v", lead.Email, err)
			continue
		}

		elapsed := time.Since(lead.CreatedAt)
		log.Printf("📧 Lembrete enviado: lead=%s elapsed=%s",
			lead.Email, elapsed.Round(time.Minute))
		sentCount++
	}

	if sentCount > 0 {
		log.Printf("✅ %d lembrete(s) de checkout enviados", sentCount)
	}
}
