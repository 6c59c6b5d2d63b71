// Package funnel implementa a máquina de estados do funil: a sequência
// quiz → captura → resultado → checkout → pagamento → conta → dashboard,
// mais os saltos fora de banda (checagem de sessão no boot, eventos de
// auth, polling de pagamento). Todo estado mutável pertence à máquina e
// só muda dentro dos handlers de evento.
package funnel

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
	"github.com/dmatosb/protocolo-estetica/internal/usecase"
)

var (
	ErrInvalidTransition = errors.New("evento não permitido na tela atual")

	// Violações de invariante: telas que exigem dado presente.
	ErrMissingResult  = errors.New("tela de resultado sem cálculo feito")
	ErrMissingCharge  = errors.New("tela de pagamento sem cobrança criada")
	ErrMissingAnswers = errors.New("captura sem respostas do quiz")

	// Retornado pela verificação manual quando o gateway ainda não viu
	// o pagamento. Não é falha: o usuário tenta de novo.
	ErrPaymentNotIdentified = errors.New("pagamento ainda não identificado")

	// Teto de sessões simultâneas do registro de funis.
	ErrRegistryFull = errors.New("limite de sessões de funil atingido")
)

const (
	defaultSessionTimeout = 8 * time.Second
	defaultPollInterval   = 5 * time.Second
	defaultRevealDelay    = 1500 * time.Millisecond
)

// CaptureService calcula o resultado e grava o lead (best-effort).
type CaptureService interface {
	Execute(ctx context.Context, input usecase.SubmitCaptureInput) (*entity.CalculationResult, error)
}

// ChargeService cria a cobrança no gateway.
type ChargeService interface {
	Execute(ctx context.Context, input usecase.CreateChargeInput) (*entity.Charge, error)
}

// PaymentChecker verifica e confirma o pagamento de forma idempotente.
type PaymentChecker interface {
	VerifyAndConfirm(ctx context.Context, email, chargeID string) (bool, error)
}

// LeadReader é só a leitura do pagou, usada na checagem de sessão.
type LeadReader interface {
	FindByEmail(ctx context.Context, email string) (*entity.Lead, error)
}

type Deps struct {
	Sessions usecase.SessionService
	Leads    LeadReader
	Capture  CaptureService
	Charges  ChargeService
	Payments PaymentChecker
	Local    usecase.LocalState

	// Tunáveis; zero usa os defaults.
	SessionTimeout time.Duration
	PollInterval   time.Duration
	RevealDelay    time.Duration
}

// BootHints são os marcadores que a URL pode carregar no boot
// (links de email de recuperação de senha e confirmação de cadastro).
type BootHints struct {
	PasswordRecovery   bool
	SignupConfirmation bool
}

type personalData struct {
	name  string
	cpf   string
	phone string
}

// Machine é o controlador do funil. Uma instância por sessão de uso;
// os campos são privados e só mudam dentro de Dispatch e do boot.
type Machine struct {
	mu sync.Mutex

	screen  entity.Screen
	answers *entity.QuizAnswers
	result  *entity.CalculationResult
	email   string
	person  personalData
	charge  *entity.Charge

	// Geração da checagem de sessão: resultado atrasado de uma checagem
	// abandonada carrega uma geração antiga e é descartado.
	sessionGen int

	// Geração do vigia de pagamento: sair e voltar da tela de pagamento
	// mata o vigia antigo.
	pollGen int

	deps Deps
}

func NewMachine(deps Deps) *Machine {
	if deps.SessionTimeout <= 0 {
		deps.SessionTimeout = defaultSessionTimeout
	}
	if deps.PollInterval <= 0 {
		deps.PollInterval = defaultPollInterval
	}
	if deps.RevealDelay == 0 {
		deps.RevealDelay = defaultRevealDelay
	} else if deps.RevealDelay < 0 {
		// Negativo desliga a pausa (útil em teste).
		deps.RevealDelay = 0
	}

	return &Machine{
		screen: entity.ScreenLanding,
		deps:   deps,
	}
}

// Current devolve a tela atual.
func (m *Machine) Current() entity.Screen {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.screen
}

// Result devolve o cálculo da sessão atual, se já existe.
func (m *Machine) Result() *entity.CalculationResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}

// Charge devolve a cobrança ativa, se já existe.
func (m *Machine) Charge() *entity.Charge {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.charge
}

// Prefill devolve os dados pessoais para preencher o formulário do
// checkout: os da sessão atual ou, para quem volta depois de um reload,
// os da última tentativa salva no cache local.
func (m *Machine) Prefill() (name, cpf, phone, email string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.person.name != "" || m.email != "" {
		return m.person.name, m.person.cpf, m.person.phone, m.email
	}
	if m.deps.Local != nil {
		return m.deps.Local.PersonalData()
	}
	return "", "", "", ""
}

// Dispatch processa um evento. Transição inválida devolve
// ErrInvalidTransition sem tocar no estado.
func (m *Machine) Dispatch(ctx context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch e := ev.(type) {
	case StartQuiz:
		return m.require(entity.ScreenLanding, entity.ScreenQuiz)

	case QuizCompleted:
		if m.screen != entity.ScreenQuiz {
			return ErrInvalidTransition
		}
		answers := e.Answers
		m.answers = &answers
		m.screen = entity.ScreenCapture
		return nil

	case CaptureSubmitted:
		return m.handleCapture(ctx, e)

	case CheckoutRequested:
		if m.screen != entity.ScreenResult {
			return ErrInvalidTransition
		}
		if m.result == nil {
			return ErrMissingResult
		}
		m.screen = entity.ScreenCheckoutData
		return nil

	case CheckoutDataEntered:
		if m.screen != entity.ScreenCheckoutData {
			return ErrInvalidTransition
		}
		if errs := usecase.ValidatePersonalData(e.Name, e.CPF, e.Phone, m.email); len(errs) > 0 {
			return errs[0]
		}
		m.person = personalData{name: e.Name, cpf: e.CPF, phone: e.Phone}
		m.screen = entity.ScreenCheckoutMethod
		return nil

	case PaymentChosen:
		return m.handlePaymentChosen(ctx, e)

	case PaymentTick:
		return m.handlePaymentCheck(ctx, false)

	case ManualPaymentCheck:
		return m.handlePaymentCheck(ctx, true)

	case PasswordSet:
		return m.require(entity.ScreenAccountCreation, entity.ScreenDashboard)

	case PasswordResetDone:
		return m.require(entity.ScreenResetPassword, entity.ScreenDashboard)

	case OpenModule:
		if m.screen != entity.ScreenDashboard || !e.Module.IsDashboardModule() {
			return ErrInvalidTransition
		}
		m.screen = e.Module
		return nil

	case Back:
		return m.handleBack()

	case SignOutRequested:
		m.signOutLocked(ctx)
		return nil

	case AuthStateChanged:
		return m.handleAuthEvent(ctx, e)

	case RetrySessionCheck:
		if m.screen != entity.ScreenSessionError {
			return ErrInvalidTransition
		}
		m.beginSessionCheckLocked(ctx, BootHints{})
		return nil

	case ResetSession:
		if m.screen != entity.ScreenSessionError {
			return ErrInvalidTransition
		}
		m.signOutLocked(ctx)
		return nil

	default:
		return fmt.Errorf("evento desconhecido %T", ev)
	}
}

// require faz uma transição simples de uma tela exata para outra.
func (m *Machine) require(from, to entity.Screen) error {
	if m.screen != from {
		return ErrInvalidTransition
	}
	m.screen = to
	return nil
}

func (m *Machine) handleBack() error {
	switch {
	case m.screen == entity.ScreenQuiz:
		m.screen = entity.ScreenLanding
	case m.screen == entity.ScreenCapture:
		m.screen = entity.ScreenQuiz
	case m.screen == entity.ScreenCheckoutData:
		m.screen = entity.ScreenResult
	case m.screen == entity.ScreenCheckoutMethod:
		m.screen = entity.ScreenCheckoutData
	case m.screen.IsDashboardModule():
		m.screen = entity.ScreenDashboard
	default:
		return ErrInvalidTransition
	}
	return nil
}

func (m *Machine) handleCapture(ctx context.Context, e CaptureSubmitted) error {
	if m.screen != entity.ScreenCapture {
		return ErrInvalidTransition
	}
	if m.answers == nil {
		return ErrMissingAnswers
	}

	result, err := m.deps.Capture.Execute(ctx, usecase.SubmitCaptureInput{
		Email:   e.Email,
		Name:    e.Name,
		Phone:   e.Phone,
		Answers: *m.answers,
	})
	if err != nil {
		// Só validação chega aqui; persistência é best-effort lá dentro.
		return err
	}

	m.email = e.Email
	m.result = result

	// Pausa de revelação: puro ritmo de UX, não é espera de cálculo.
	if m.deps.RevealDelay > 0 {
		time.Sleep(m.deps.RevealDelay)
	}

	m.screen = entity.ScreenResult
	return nil
}

func (m *Machine) handlePaymentChosen(ctx context.Context, e PaymentChosen) error {
	if m.screen != entity.ScreenCheckoutMethod {
		return ErrInvalidTransition
	}

	charge, err := m.deps.Charges.Execute(ctx, usecase.CreateChargeInput{
		Name:   m.person.name,
		Email:  m.email,
		CPF:    m.person.cpf,
		Phone:  m.person.phone,
		Method: e.Method,
	})
	if err != nil {
		// Falha de cobrança fica na tela com retry, sem transição.
		return err
	}

	m.charge = charge
	m.screen = entity.ScreenPaymentPending
	m.startPaymentWatchLocked(ctx)
	return nil
}

// startPaymentWatchLocked liga o polling de status da cobrança. O vigia
// morre sozinho quando a tela muda ou quando outro vigia o substitui.
func (m *Machine) startPaymentWatchLocked(ctx context.Context) {
	m.pollGen++
	gen := m.pollGen

	// O vigia sobrevive ao request que o criou.
	watchCtx := context.WithoutCancel(ctx)

	go func() {
		ticker := time.NewTicker(m.deps.PollInterval)
		defer ticker.Stop()

		for range ticker.C {
			if !m.watchAlive(gen) {
				return
			}
			m.Dispatch(watchCtx, PaymentTick{})
		}
	}()
}

func (m *Machine) watchAlive(gen int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return gen == m.pollGen && m.screen == entity.ScreenPaymentPending
}

// handlePaymentCheck é o handler único de confirmação: o tick de 5s e o
// botão manual caem aqui, e a idempotência mora no VerifyAndConfirm
// (guardada pelo pagou persistido, não por flag de loading).
func (m *Machine) handlePaymentCheck(ctx context.Context, manual bool) error {
	if m.screen != entity.ScreenPaymentPending {
		if manual {
			return ErrInvalidTransition
		}
		// Tick atrasado depois que a tela mudou: ignora.
		return nil
	}
	if m.charge == nil {
		return ErrMissingCharge
	}

	paid, err := m.deps.Payments.VerifyAndConfirm(ctx, m.email, m.charge.ID)
	if err != nil {
		if manual {
			return err
		}
		log.Printf("⚠️ Poll de pagamento falhou (tenta no próximo tick): %v", err)
		return nil
	}
	if !paid {
		if manual {
			return ErrPaymentNotIdentified
		}
		return nil
	}

	if m.deps.Local != nil {
		if err := m.deps.Local.SetAccessGranted(true); err != nil {
			log.Printf("⚠️ Falha ao gravar flag local de acesso: %v", err)
		}
		// Cobrança encerrada: um próximo boot não tem o que retomar.
		if err := m.deps.Local.SaveChargeID(""); err != nil {
			log.Printf("⚠️ Falha ao limpar cobrança local: %v", err)
		}
	}
	m.screen = entity.ScreenAccountCreation
	return nil
}

func (m *Machine) handleAuthEvent(ctx context.Context, e AuthStateChanged) error {
	switch e.Event {
	case entity.AuthSignedOut:
		m.clearLocalFlagsLocked()
		m.screen = entity.ScreenLanding
		return nil

	case entity.AuthPasswordRecovery:
		m.screen = entity.ScreenResetPassword
		return nil

	case entity.AuthSignedIn:
		if e.Session == nil || !e.Session.Valid() {
			return nil
		}
		lead, err := m.deps.Leads.FindByEmail(ctx, e.Session.Email)
		if err != nil {
			log.Printf("⚠️ Login ok mas falha ao checar lead: %v", err)
			return nil
		}
		if lead != nil && lead.Paid {
			if m.deps.Local != nil {
				m.deps.Local.SetAccessGranted(true)
			}
			m.screen = entity.ScreenDashboard
			return nil
		}
		// Logado sem ter pago: derruba a sessão por segurança.
		m.forceSignOutLocked(ctx)
		return nil

	default:
		return nil
	}
}

// signOutLocked é o logout explícito: encerra a sessão, limpa os flags
// locais e volta para a landing. Chamar com o mutex em mãos.
func (m *Machine) signOutLocked(ctx context.Context) {
	if err := m.deps.Sessions.SignOut(ctx); err != nil {
		log.Printf("⚠️ Falha no sign-out (seguindo para landing): %v", err)
	}
	m.clearLocalFlagsLocked()
	m.screen = entity.ScreenLanding
}

// forceSignOutLocked derruba uma sessão que não deveria existir
// (logado sem pagar). Best-effort, em background.
func (m *Machine) forceSignOutLocked(ctx context.Context) {
	go func() {
		if err := m.deps.Sessions.SignOut(context.WithoutCancel(ctx)); err != nil {
			log.Printf("⚠️ Falha no sign-out forçado: %v", err)
		}
	}()
	m.clearLocalFlagsLocked()
	m.screen = entity.ScreenLanding
}

func (m *Machine) clearLocalFlagsLocked() {
	if m.deps.Local == nil {
		return
	}
	if err := m.deps.Local.Clear(); err != nil {
		log.Printf("⚠️ Falha ao limpar estado local: %v", err)
	}
}
