package funnel

import (
	"context"
	"log"
	"time"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
)

// sessionOutcome é o resultado consolidado da checagem de boot:
// sessão + flag pagou do lead, ou erro de transporte.
type sessionOutcome struct {
	session *entity.Session
	paid    bool
	err     error
}

// Boot roda a checagem de sessão do carregamento inicial. Marcadores de
// URL (link de recuperação, confirmação de cadastro) têm prioridade e
// nem consultam o serviço. O restante corre contra o timeout: estourou,
// a tela vai para erro-sessao com retry — nunca spinner infinito, nunca
// fallback silencioso.
func (m *Machine) Boot(ctx context.Context, hints BootHints) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.beginSessionCheckLocked(ctx, hints)
}

func (m *Machine) beginSessionCheckLocked(ctx context.Context, hints BootHints) {
	if hints.PasswordRecovery {
		m.screen = entity.ScreenResetPassword
		return
	}
	if hints.SignupConfirmation {
		m.screen = entity.ScreenAccountCreation
		return
	}

	m.sessionGen++
	gen := m.sessionGen
	m.screen = entity.ScreenSessionChecking

	outcomeCh := make(chan sessionOutcome, 1)

	// A consulta roda sem o deadline do timer: no timeout a resposta
	// tardia continua chegando no canal, mas o guarda de geração em
	// applySessionOutcome a descarta em vez de sobrescrever uma tela
	// para a qual o usuário já navegou.
	lookupCtx := context.WithoutCancel(ctx)
	go func() {
		outcomeCh <- m.lookupSession(lookupCtx)
	}()

	go func() {
		timer := time.NewTimer(m.deps.SessionTimeout)
		defer timer.Stop()

		select {
		case outcome := <-outcomeCh:
			m.applySessionOutcome(ctx, gen, outcome)
		case <-timer.C:
			m.sessionTimedOut(gen)
			// Consome a resolução tardia; o guarda a torna inofensiva.
			outcome := <-outcomeCh
			m.applySessionOutcome(ctx, gen, outcome)
		}
	}()
}

func (m *Machine) lookupSession(ctx context.Context) sessionOutcome {
	session, err := m.deps.Sessions.CurrentSession(ctx)
	if err != nil {
		return sessionOutcome{err: err}
	}
	if session == nil || !session.Valid() {
		return sessionOutcome{}
	}

	lead, err := m.deps.Leads.FindByEmail(ctx, session.Email)
	if err != nil {
		return sessionOutcome{err: err}
	}

	return sessionOutcome{
		session: session,
		paid:    lead != nil && lead.Paid,
	}
}

func (m *Machine) sessionTimedOut(gen int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.sessionGen || m.screen != entity.ScreenSessionChecking {
		return
	}

	log.Printf("⚠️ Checagem de sessão estourou %s", m.deps.SessionTimeout)
	m.screen = entity.ScreenSessionError
}

// applySessionOutcome só toca no estado se esta checagem ainda é a
// corrente e a tela ainda é a de verificação. Resultado velho (timeout
// já disparou, retry já começou, usuário navegou) é descartado.
func (m *Machine) applySessionOutcome(ctx context.Context, gen int, outcome sessionOutcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.sessionGen || m.screen != entity.ScreenSessionChecking {
		return
	}

	switch {
	case outcome.err != nil:
		log.Printf("❌ Checagem de sessão falhou: %v", outcome.err)
		m.screen = entity.ScreenSessionError

	case outcome.session == nil:
		m.restoreLocalLocked(ctx)

	case outcome.paid:
		m.email = outcome.session.Email
		if m.deps.Local != nil {
			if err := m.deps.Local.SetAccessGranted(true); err != nil {
				log.Printf("⚠️ Falha ao gravar flag local de acesso: %v", err)
			}
		}
		m.screen = entity.ScreenDashboard

	default:
		// Sessão válida sem pagamento: derruba por segurança.
		m.forceSignOutLocked(ctx)
	}
}

// restoreLocalLocked retoma um fluxo interrompido a partir do cache
// local: cobrança pendente volta direto para a tela de pagamento com o
// polling ligado; só dados pessoais salvos viram prefill do checkout.
// O cache nunca concede acesso — isso é o pagou do lead no banco.
func (m *Machine) restoreLocalLocked(ctx context.Context) {
	if m.deps.Local == nil {
		m.screen = entity.ScreenLanding
		return
	}

	name, cpf, phone, email := m.deps.Local.PersonalData()
	if email != "" {
		m.email = email
		m.person = personalData{name: name, cpf: cpf, phone: phone}
	}

	chargeID := m.deps.Local.ChargeID()
	if chargeID == "" || email == "" {
		m.screen = entity.ScreenLanding
		return
	}

	log.Printf("🕒 Retomando verificação da cobrança %s para %s", chargeID, email)
	m.charge = &entity.Charge{ID: chargeID}
	m.screen = entity.ScreenPaymentPending
	m.startPaymentWatchLocked(ctx)
}
