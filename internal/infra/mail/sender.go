package mail

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
	}
}

// SendPurchaseConfirmation manda o email de compra confirmada com os
// próximos passos (criar a senha e acessar o conteúdo).
func (s *EmailSender) SendPurchaseConfirmation(to, name string) error {
	data := PurchaseEmailData{
		Name:        name,
		ProductName: "Protocolo de Atendimento para Estética",
	}

	tmplPath := filepath.Join("templates", "compra_confirmada.html")
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("erro ao ler template de email: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", "nao-responda@protocoloestetica.com.br")
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Pagamento confirmado! Seu acesso chegou 🚀")
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}

// SendCheckoutReminder manda o lembrete para leads que viram o resultado
// mas abandonaram o checkout.
func (s *EmailSender) SendCheckoutReminder(to, name string) error {
	data := ReminderEmailData{
		Name:         name,
		ProductName:  "Protocolo de Atendimento para Estética",
		CheckoutLink: "https://protocoloestetica.com.br/checkout",
	}

	tmplPath := filepath.Join("templates", "lembrete_checkout.html")
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("erro ao ler template de email: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", "nao-responda@protocoloestetica.com.br")
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Sua clínica ainda está perdendo dinheiro ⏳")
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
