package funnel

import "github.com/dmatosb/protocolo-estetica/internal/entity"

// Event é o tipo soma dos eventos aceitos pela máquina. Tudo que muda
// de tela — navegação do usuário, tick do poller, evento de auth —
// entra pelo mesmo Dispatch.
type Event interface {
	event()
}

// Navegação do caminho feliz.
type (
	// landing → quiz
	StartQuiz struct{}

	// quiz → capture
	QuizCompleted struct {
		Answers entity.QuizAnswers
	}

	// capture → result. Dispara o cálculo e o upsert best-effort do lead.
	CaptureSubmitted struct {
		Email string
		Name  string
		Phone string
	}

	// result → checkout
	CheckoutRequested struct{}

	// Etapa 1 do checkout: dados pessoais validados, avança para a
	// escolha de método. Validação falha = erro inline, sem transição.
	CheckoutDataEntered struct {
		Name  string
		CPF   string
		Phone string
	}

	// Etapa 2: cria a cobrança no gateway e vai para pagamento-pendente.
	PaymentChosen struct {
		Method entity.PaymentMethod
	}

	// Tick do poller de 5s sobre o status da cobrança.
	PaymentTick struct{}

	// Botão "já fiz o pagamento".
	ManualPaymentCheck struct{}

	// criar-conta → dashboard, senha definida e sessão ativa.
	PasswordSet struct{}

	// redefinir-senha → dashboard
	PasswordResetDone struct{}

	// dashboard → módulo de conteúdo
	OpenModule struct {
		Module entity.Screen
	}

	// Volta de um módulo para o dashboard, do checkout para o resultado,
	// do quiz para a landing.
	Back struct{}

	// Logout explícito do usuário.
	SignOutRequested struct{}
)

// Eventos fora de banda, vindos do serviço de auth a qualquer momento.
type (
	AuthStateChanged struct {
		Event   entity.AuthEvent
		Session *entity.Session
	}

	// Tela de erro de sessão: tentar de novo ou zerar tudo.
	RetrySessionCheck struct{}
	ResetSession      struct{}
)

func (StartQuiz) event()           {}
func (QuizCompleted) event()       {}
func (CaptureSubmitted) event()    {}
func (CheckoutRequested) event()   {}
func (CheckoutDataEntered) event() {}
func (PaymentChosen) event()       {}
func (PaymentTick) event()         {}
func (ManualPaymentCheck) event()  {}
func (PasswordSet) event()         {}
func (PasswordResetDone) event()   {}
func (OpenModule) event()          {}
func (Back) event()                {}
func (SignOutRequested) event()    {}
func (AuthStateChanged) event()    {}
func (RetrySessionCheck) event()   {}
func (ResetSession) event()        {}
