// Package asaas é o cliente do gateway de pagamento: cobranças avulsas
// de PIX e cartão, mais a consulta de status usada pelo polling.
package asaas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateCharge cria o cliente e a cobrança avulsa no gateway. Para PIX
// faz a chamada extra que devolve o QR Code; para cartão devolve o link
// da fatura para o pagador preencher os dados em outra aba.
func (c *Client) CreateCharge(input CreateChargeInput) (*ChargeOutput, error) {
	customerID, err := c.createCustomer(input)
	if err != nil {
		return nil, err
	}

	payload := createPaymentRequest{
		Customer:          customerID,
		BillingType:       input.BillingType,
		Value:             float64(input.ValueCents) / 100.0,
		DueDate:           time.Now().Format("2006-01-02"),
		Description:       "Protocolo de Atendimento para Estética",
		ExternalReference: input.ExternalReference,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar json da cobrança: %w", err)
	}

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/payments", c.baseURL), bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro na conexão com asaas: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		fmt.Printf("❌ ERRO CRIAR COBRANÇA ASAAS (Status %d): %s\n", resp.StatusCode, string(body))
		return nil, fmt.Errorf("api asaas rejeitou a cobrança (status %d)", resp.StatusCode)
	}

	var response paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("erro ao ler resposta asaas: %w", err)
	}

	output := &ChargeOutput{
		ID:         response.ID,
		Status:     response.Status,
		InvoiceURL: response.InvoiceURL,
	}

	if input.BillingType == "PIX" {
		qr, err := c.getPixQRCode(response.ID)
		if err != nil {
			return nil, err
		}
		output.PixQRCode = qr.EncodedImage
		output.PixCopyPaste = qr.Payload
	}

	return output, nil
}

// GetChargeStatus diz se a cobrança já foi paga. RECEIVED e CONFIRMED
// contam como pago (cartão confirma antes de liquidar).
func (c *Client) GetChargeStatus(chargeID string) (bool, error) {
	req, err := http.NewRequest("GET", fmt.Sprintf("%s/payments/%s", c.baseURL, chargeID), nil)
	if err != nil {
		return false, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("erro request asaas: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		fmt.Printf("❌ ERRO STATUS COBRANÇA ASAAS (Status %d): %s\n", resp.StatusCode, string(body))
		return false, fmt.Errorf("erro ao consultar cobrança (status %d)", resp.StatusCode)
	}

	var response paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return false, fmt.Errorf("erro decode asaas: %w", err)
	}

	switch response.Status {
	case "RECEIVED", "CONFIRMED", "RECEIVED_IN_CASH":
		return true, nil
	}
	return false, nil
}

// createCustomer registra o pagador e devolve o ID (cus_xxxx).
func (c *Client) createCustomer(input CreateChargeInput) (string, error) {
	payload := createCustomerRequest{
		Name:                 input.Name,
		Email:                input.Email,
		CpfCnpj:              input.CpfCnpj,
		MobilePhone:          input.Phone,
		ExternalReference:    input.ExternalReference,
		NotificationDisabled: true, // Emails são nossos, não do gateway
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("erro ao marshal customer: %w", err)
	}

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/customers", c.baseURL), bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("erro request asaas: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		fmt.Printf("❌ ERRO CRIAR CLIENTE ASAAS: %s\n", string(body))
		return "", fmt.Errorf("erro criar cliente asaas (status %d)", resp.StatusCode)
	}

	var response customerResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("erro decode asaas: %w", err)
	}

	return response.ID, nil
}

func (c *Client) getPixQRCode(chargeID string) (*pixQRCodeResponse, error) {
	req, err := http.NewRequest("GET", fmt.Sprintf("%s/payments/%s/pixQrCode", c.baseURL, chargeID), nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro request asaas: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		fmt.Printf("❌ ERRO QRCODE PIX ASAAS (Status %d): %s\n", resp.StatusCode, string(body))
		return nil, fmt.Errorf("erro ao gerar qrcode pix (status %d)", resp.StatusCode)
	}

	var response pixQRCodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("erro decode asaas: %w", err)
	}

	return &response, nil
}

// setHeaders centraliza os headers obrigatórios
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("access_token", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ProtocoloEstetica/1.0")
}
