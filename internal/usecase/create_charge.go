package usecase

import (
	"context"
	"log"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
	"github.com/dmatosb/protocolo-estetica/internal/infra/integration/asaas"
)

// ChargeAmountCents é o preço único do produto: R$ 49,00.
const ChargeAmountCents int64 = 4900

// LocalState é o cache local que sobrevive a reload: dados pessoais,
// id da cobrança ativa e o flag de acesso. Nunca é fonte de verdade —
// o pagou do lead é — serve só para retomar um fluxo interrompido.
type LocalState interface {
	SavePersonalData(name, cpf, phone, email string) error
	SaveChargeID(chargeID string) error
	SetAccessGranted(granted bool) error

	// Lado de leitura: quem volta depois de um reload retoma o polling
	// da cobrança pendente e encontra o formulário preenchido.
	PersonalData() (name, cpf, phone, email string)
	ChargeID() string
	AccessGranted() bool

	Clear() error
}

type CreateChargeUseCase struct {
	Gateway PaymentGateway
	Local   LocalState
}

func NewCreateChargeUseCase(gateway PaymentGateway, local LocalState) *CreateChargeUseCase {
	return &CreateChargeUseCase{Gateway: gateway, Local: local}
}

func (uc *CreateChargeUseCase) Execute(ctx context.Context, input CreateChargeInput) (*entity.Charge, error) {
	if validationErrors := ValidateCheckoutInput(input); len(validationErrors) > 0 {
		errMsg := "validation failed: "
		for _, e := range validationErrors {
			errMsg += e.Field + " (" + e.Message + "), "
		}
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: errMsg}
	}

	billingType := "PIX"
	if input.Method == entity.MethodCard {
		billingType = "CREDIT_CARD"
	}

	output, err := uc.Gateway.CreateCharge(asaas.CreateChargeInput{
		Name:    input.Name,
		Email:   input.Email,
		CpfCnpj: OnlyDigits(input.CPF),
		Phone:   OnlyDigits(input.Phone),

		BillingType: billingType,
		ValueCents:  ChargeAmountCents,

		// O email volta no webhook como externalReference e fecha o ciclo.
		ExternalReference: input.Email,
	})
	if err != nil {
		// Erro de cobrança fica inline no checkout com retry. Nada de
		// transição de tela.
		return nil, &PaymentError{Message: "não foi possível criar a cobrança: " + err.Error()}
	}

	charge := &entity.Charge{
		ID:           output.ID,
		Method:       input.Method,
		AmountCents:  ChargeAmountCents,
		PixQRCode:    output.PixQRCode,
		PixCopyPaste: output.PixCopyPaste,
		InvoiceURL:   output.InvoiceURL,
	}

	// Cache local para retomar o polling depois de um reload.
	if uc.Local != nil {
		if err := uc.Local.SavePersonalData(input.Name, input.CPF, input.Phone, input.Email); err != nil {
			log.Printf("⚠️ Falha ao salvar dados locais: %v", err)
		}
		if err := uc.Local.SaveChargeID(charge.ID); err != nil {
			log.Printf("⚠️ Falha ao salvar cobrança local: %v", err)
		}
	}

	return charge, nil
}
