package entity

import "time"

// Session é a sessão autenticada devolvida pelo serviço de identidade.
type Session struct {
	Email       string
	AccessToken string
	ExpiresAt   time.Time
}

// Valid diz se a sessão ainda serve para autenticar chamadas.
func (s *Session) Valid() bool {
	if s == nil || s.AccessToken == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || time.Now().Before(s.ExpiresAt)
}

// AuthEvent são as mudanças de estado de autenticação que chegam
// de forma assíncrona (fora da navegação do usuário).
type AuthEvent string

const (
	AuthSignedIn         AuthEvent = "SIGNED_IN"
	AuthSignedOut        AuthEvent = "SIGNED_OUT"
	AuthPasswordRecovery AuthEvent = "PASSWORD_RECOVERY"
)
