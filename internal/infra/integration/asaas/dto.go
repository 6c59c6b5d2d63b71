package asaas

// CreateChargeInput é o DTO limpo que o usecase monta.
type CreateChargeInput struct {
	Name    string
	Email   string
	CpfCnpj string
	Phone   string

	// "PIX" ou "CREDIT_CARD"
	BillingType string
	ValueCents  int64

	// Volta intacto no webhook; usamos o email do lead aqui.
	ExternalReference string
}

// ChargeOutput é o que o resto do sistema enxerga da cobrança criada.
type ChargeOutput struct {
	ID           string
	Status       string
	InvoiceURL   string
	PixQRCode    string
	PixCopyPaste string
}

// --- PAYLOADS internos: o que mandamos pro Asaas ---

type createCustomerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	CpfCnpj              string `json:"cpfCnpj"`
	MobilePhone          string `json:"mobilePhone"`
	ExternalReference    string `json:"externalReference"`
	NotificationDisabled bool   `json:"notificationDisabled"`
}

type customerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type createPaymentRequest struct {
	Customer          string  `json:"customer"`
	BillingType       string  `json:"billingType"`
	Value             float64 `json:"value"`
	DueDate           string  `json:"dueDate"`
	Description       string  `json:"description"`
	ExternalReference string  `json:"externalReference"`
}

// --- RESPONSES: o que o Asaas devolve ---

type paymentResponse struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	InvoiceURL        string `json:"invoiceUrl"`
	ExternalReference string `json:"externalReference"`
}

type pixQRCodeResponse struct {
	EncodedImage string `json:"encodedImage"`
	Payload      string `json:"payload"`
}

// WebhookEvent é o evento de pagamento que o gateway posta de volta.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payment struct {
		ID                string `json:"id"`
		Customer          string `json:"customer"`
		ExternalReference string `json:"externalReference"`
	} `json:"payment"`
}
