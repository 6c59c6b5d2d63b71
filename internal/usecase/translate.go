package usecase

import "strings"

// Tabela fixa de mensagens do serviço de auth → texto legível em PT.
// Erro não mapeado cai na mensagem genérica: nada chega cru ao usuário.
var errorTranslations = map[string]string{
	// Senhas
	"New password should be different from the old password.": "A nova senha deve ser diferente da senha atual.",
	"Password should be at least 6 characters":                "A senha deve ter pelo menos 6 caracteres.",
	"must have at least 6 characters":                         "A senha deve ter pelo menos 6 caracteres.",
	"Passwords do not match":                                  "As senhas não coincidem.",
	"passwords do not match":                                  "As senhas não coincidem.",

	// Login
	"Invalid login credentials": "Email ou senha incorretos.",
	"Email not confirmed":       "Email não confirmado. Verifique sua caixa de entrada.",
	"User not found":            "Usuário não encontrado.",
	"Invalid email or password": "Email ou senha inválidos.",

	// Cadastro
	"User already registered": "Este email já está cadastrado.",
	"Email already in use":    "Este email já está em uso.",
	"Signup disabled":         "Cadastro temporariamente desativado.",

	// Rate limit
	"For security purposes, you can only request this once every 60 seconds": "Por segurança, aguarde 60 segundos para tentar novamente.",
	"Rate limit exceeded": "Muitas tentativas. Aguarde um momento.",
	"Too many requests":   "Muitas tentativas. Aguarde um momento.",

	// Recuperação de senha
	"Email link is invalid or has expired": "O link expirou ou é inválido. Solicite um novo.",
	"Token has expired or is invalid":      "O link expirou. Solicite um novo.",

	// Genéricos
	"Network error":     "Erro de conexão. Verifique sua internet.",
	"Failed to fetch":   "Erro de conexão. Verifique sua internet.",
	"An error occurred": "Ocorreu um erro. Tente novamente.",
	"Timeout":           "Tempo esgotado. Tente novamente.",
}

const genericErrorMessage = "Ocorreu um erro. Tente novamente."

// Translate converte uma mensagem de erro do serviço externo para o
// texto exibido ao usuário. Procura match exato, depois parcial; se a
// mensagem já está em português, passa direto.
func Translate(message string) string {
	cleaned := strings.TrimSpace(message)

	if pt, ok := errorTranslations[cleaned]; ok {
		return pt
	}

	lower := strings.ToLower(cleaned)
	for en, pt := range errorTranslations {
		if strings.Contains(lower, strings.ToLower(en)) {
			return pt
		}
	}

	if strings.ContainsAny(cleaned, "áàâãéèêíïóôõöúçñ") {
		return cleaned
	}

	return genericErrorMessage
}
