package usecase

import "github.com/dmatosb/protocolo-estetica/internal/entity"

type SubmitCaptureInput struct {
	Email   string             `json:"email"`
	Name    string             `json:"name,omitempty"`
	Phone   string             `json:"phone,omitempty"`
	Answers entity.QuizAnswers `json:"-"`
}

type CreateChargeInput struct {
	Name  string `json:"nome"`
	Email string `json:"email"`
	CPF   string `json:"cpfCnpj"`
	Phone string `json:"telefone"`

	// "pix" ou "cartao"
	Method entity.PaymentMethod `json:"metodo"`
}

type CreateChargeOutput struct {
	Success      bool    `json:"success"`
	ChargeID     string  `json:"cobrancaId"`
	Amount       float64 `json:"valor"`
	PixQRCode    string  `json:"pixQrCode,omitempty"`
	PixCopyPaste string  `json:"pixCopiaECola,omitempty"`
	InvoiceURL   string  `json:"invoiceUrl,omitempty"`
}

type CreateAccountInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}
