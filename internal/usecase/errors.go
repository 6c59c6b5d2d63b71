package usecase

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}

// PaymentError é falha na criação da cobrança. Fica na tela de checkout
// com opção de tentar de novo; não derruba o funil nem muda de tela.
type PaymentError struct {
	Message string
}

func (e *PaymentError) Error() string {
	return e.Message
}

func IsPaymentError(err error) bool {
	_, ok := err.(*PaymentError)
	return ok
}
