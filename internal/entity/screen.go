package entity

// Screen é o conjunto de estados da máquina do funil.
// Exatamente uma tela é "a atual" por vez.
type Screen string

const (
	ScreenLanding         Screen = "landing"
	ScreenQuiz            Screen = "quiz"
	ScreenCapture         Screen = "capture"
	ScreenResult          Screen = "result"
	ScreenCheckoutData    Screen = "checkout"
	ScreenCheckoutMethod  Screen = "checkout-metodo"
	ScreenPaymentPending  Screen = "pagamento-pendente"
	ScreenAccountCreation Screen = "criar-conta"
	ScreenResetPassword   Screen = "redefinir-senha"
	ScreenDashboard       Screen = "dashboard"

	// Módulos de conteúdo dentro do dashboard
	ScreenProtocolSteps   Screen = "7-passos"
	ScreenScriptGenerator Screen = "gerador"
	ScreenNicheExamples   Screen = "exemplos"
	ScreenAIOffer         Screen = "secretaria-ia"

	// Pseudo-estados do boot
	ScreenSessionChecking Screen = "verificando-sessao"
	ScreenSessionError    Screen = "erro-sessao"
)

// IsDashboardModule diz se a tela é um sub-módulo de conteúdo,
// acessível apenas a partir do dashboard.
func (s Screen) IsDashboardModule() bool {
	switch s {
	case ScreenProtocolSteps, ScreenScriptGenerator, ScreenNicheExamples, ScreenAIOffer:
		return true
	}
	return false
}
