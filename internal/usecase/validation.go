package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var nonDigits = regexp.MustCompile(`\D`)

// ValidateCheckoutInput valida o checkout completo (dados pessoais +
// método) antes de qualquer chamada de rede. Erro aqui é local e
// síncrono: mensagem inline para o usuário, nenhuma transição de tela.
func ValidateCheckoutInput(input CreateChargeInput) []ValidationError {
	errors := ValidatePersonalData(input.Name, input.CPF, input.Phone, input.Email)

	if input.Method != "pix" && input.Method != "cartao" {
		errors = append(errors, ValidationError{"method", "must be pix or cartao"})
	}

	return errors
}

// ValidatePersonalData cobre a etapa 1 do checkout (antes da escolha
// do método de pagamento).
func ValidatePersonalData(name, cpf, phone, email string) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(strings.TrimSpace(name)) < 3 {
		errors = append(errors, ValidationError{"name", "must have at least 3 characters"})
	}

	if strings.TrimSpace(email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(email); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if cpf == "" {
		errors = append(errors, ValidationError{"cpf", "is required"})
	} else if !isValidCpfCnpj(cpf) {
		errors = append(errors, ValidationError{"cpf", "must be a valid CPF or CNPJ"})
	}

	if strings.TrimSpace(phone) == "" {
		errors = append(errors, ValidationError{"phone", "is required"})
	} else if !isValidPhoneNumber(phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number with DDD"})
	}

	return errors
}

// ValidatePassword aplica as regras de criação de conta.
func ValidatePassword(password, confirm string) []ValidationError {
	var errors []ValidationError

	if len(password) < 6 {
		errors = append(errors, ValidationError{"password", "must have at least 6 characters"})
	}
	if password != confirm {
		errors = append(errors, ValidationError{"password", "passwords do not match"})
	}

	return errors
}

func isValidCpfCnpj(doc string) bool {
	cleaned := nonDigits.ReplaceAllString(doc, "")
	switch len(cleaned) {
	case 11:
		return isValidCPF(cleaned)
	case 14:
		return !allDigitsEqual(cleaned)
	default:
		return false
	}
}

// isValidCPF confere os dois dígitos verificadores (módulo 11).
// Recebe a string já limpa, com 11 dígitos.
func isValidCPF(cpf string) bool {
	if allDigitsEqual(cpf) {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(cpf[i]-'0') * (10 - i)
	}
	check := 11 - (sum % 11)
	if check >= 10 {
		check = 0
	}
	if check != int(cpf[9]-'0') {
		return false
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(cpf[i]-'0') * (11 - i)
	}
	check = 11 - (sum % 11)
	if check >= 10 {
		check = 0
	}
	return check == int(cpf[10]-'0')
}

func allDigitsEqual(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) >= 10 && len(cleaned) <= 11
}

// OnlyDigits normaliza CPF/telefone para o gateway, que exige só números.
func OnlyDigits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}
