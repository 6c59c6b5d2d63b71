package entity

import "errors"

var (
	ErrEmailAlreadyExists = errors.New("email já cadastrado")
	ErrLeadNotFound       = errors.New("lead não encontrado")
)

type PaymentMethod string

const (
	MethodPix  PaymentMethod = "pix"
	MethodCard PaymentMethod = "cartao"
)

// Charge é uma cobrança emitida no gateway, transitória: vive no estado
// da sessão atual e o ID fica cacheado localmente para retomar a
// verificação depois de um reload. Nunca é fonte de verdade de acesso.
type Charge struct {
	ID          string        `json:"cobranca_id"`
	Method      PaymentMethod `json:"metodo"`
	AmountCents int64         `json:"valor_centavos"`

	// Preenchidos conforme o método
	PixQRCode    string `json:"pix_qr_code,omitempty"`
	PixCopyPaste string `json:"pix_copia_e_cola,omitempty"`
	InvoiceURL   string `json:"link_pagamento,omitempty"`
}

// Amount em reais, para exibição.
func (c *Charge) Amount() float64 {
	return float64(c.AmountCents) / 100.0
}
