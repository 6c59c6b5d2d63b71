package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
	"github.com/dmatosb/protocolo-estetica/internal/funnel"
)

// FunnelHandler expõe a máquina do funil por HTTP: cada sessão de
// navegação vive no registro sob um uuid e todos os eventos entram
// pelo mesmo Dispatch. O estado durável continua no banco; aqui só
// mora a navegação.
type FunnelHandler struct {
	Registry *funnel.Registry
}

func NewFunnelHandler(registry *funnel.Registry) *FunnelHandler {
	return &FunnelHandler{Registry: registry}
}

type CreateFunnelRequest struct {
	PasswordRecovery   bool `json:"recuperacao_senha,omitempty"`
	SignupConfirmation bool `json:"confirmacao_cadastro,omitempty"`
}

type FunnelStateResponse struct {
	SessionID string                    `json:"sessaoId,omitempty"`
	Screen    entity.Screen             `json:"tela"`
	Result    *entity.CalculationResult `json:"resultado,omitempty"`
	Charge    *entity.Charge            `json:"cobranca,omitempty"`
	Prefill   *PrefillData              `json:"prefill,omitempty"`
	Message   string                    `json:"mensagem,omitempty"`
}

// PrefillData devolve os dados pessoais da última tentativa de checkout
// para o formulário de quem volta.
type PrefillData struct {
	Name  string `json:"nome,omitempty"`
	CPF   string `json:"cpfCnpj,omitempty"`
	Phone string `json:"telefone,omitempty"`
	Email string `json:"email,omitempty"`
}

func prefillOf(m *funnel.Machine) *PrefillData {
	name, cpf, phone, email := m.Prefill()
	if name == "" && cpf == "" && phone == "" && email == "" {
		return nil
	}
	return &PrefillData{Name: name, CPF: cpf, Phone: phone, Email: email}
}

// FunnelEventRequest é o envelope de evento: o tipo escolhe o evento e
// os demais campos alimentam o que aquele evento carrega.
type FunnelEventRequest struct {
	Type string `json:"tipo"`

	// quiz_concluido
	Contacts     *quizAnswerPayload `json:"contatos_mes,omitempty"`
	Ticket       *quizAnswerPayload `json:"ticket_medio,omitempty"`
	Conversion   *quizAnswerPayload `json:"taxa_conversao,omitempty"`
	ResponseTime string             `json:"tempo_resposta,omitempty"`

	// capturar / dados_checkout
	Email string `json:"email,omitempty"`
	Name  string `json:"nome,omitempty"`
	CPF   string `json:"cpfCnpj,omitempty"`
	Phone string `json:"telefone,omitempty"`

	// escolher_metodo
	Method entity.PaymentMethod `json:"metodo,omitempty"`

	// abrir_modulo
	Module entity.Screen `json:"modulo,omitempty"`
}

func (h *FunnelHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateFunnelRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad JSON", http.StatusBadRequest)
			return
		}
	}

	id, m, err := h.Registry.Create(r.Context(), funnel.BootHints{
		PasswordRecovery:   req.PasswordRecovery,
		SignupConfirmation: req.SignupConfirmation,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusCreated, FunnelStateResponse{SessionID: id, Screen: m.Current()})
}

func (h *FunnelHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	m, ok := h.Registry.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "sessão não encontrada", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, FunnelStateResponse{
		Screen:  m.Current(),
		Result:  m.Result(),
		Charge:  m.Charge(),
		Prefill: prefillOf(m),
	})
}

func (h *FunnelHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	m, ok := h.Registry.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "sessão não encontrada", http.StatusNotFound)
		return
	}

	var req FunnelEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad JSON", http.StatusBadRequest)
		return
	}

	ev, err := req.toEvent()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, FunnelStateResponse{Screen: m.Current(), Message: err.Error()})
		return
	}

	if err := m.Dispatch(r.Context(), ev); err != nil {
		switch {
		case errors.Is(err, funnel.ErrPaymentNotIdentified):
			// Feedback normal do botão "já paguei": a tela não muda.
			writeJSON(w, http.StatusOK, FunnelStateResponse{Screen: m.Current(), Message: err.Error()})
		case errors.Is(err, funnel.ErrInvalidTransition):
			writeJSON(w, http.StatusConflict, FunnelStateResponse{Screen: m.Current(), Message: err.Error()})
		default:
			writeJSON(w, http.StatusBadRequest, FunnelStateResponse{Screen: m.Current(), Message: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, FunnelStateResponse{
		Screen: m.Current(),
		Result: m.Result(),
		Charge: m.Charge(),
	})
}

func (req *FunnelEventRequest) toEvent() (funnel.Event, error) {
	switch req.Type {
	case "iniciar_quiz":
		return funnel.StartQuiz{}, nil

	case "quiz_concluido":
		if req.Contacts == nil || req.Ticket == nil || req.Conversion == nil {
			return nil, errors.New("quiz incompleto: faltam respostas")
		}
		return funnel.QuizCompleted{Answers: entity.QuizAnswers{
			ContactsRange:  req.Contacts.toAnswer(),
			TicketRange:    req.Ticket.toAnswer(),
			ConversionRate: req.Conversion.toAnswer(),
			ResponseTime:   entity.ResponseTime(req.ResponseTime),
		}}, nil

	case "capturar":
		return funnel.CaptureSubmitted{Email: req.Email, Name: req.Name, Phone: req.Phone}, nil

	case "ir_para_checkout":
		return funnel.CheckoutRequested{}, nil

	case "dados_checkout":
		return funnel.CheckoutDataEntered{Name: req.Name, CPF: req.CPF, Phone: req.Phone}, nil

	case "escolher_metodo":
		return funnel.PaymentChosen{Method: req.Method}, nil

	case "verificar_pagamento":
		return funnel.ManualPaymentCheck{}, nil

	case "senha_definida":
		return funnel.PasswordSet{}, nil

	case "senha_redefinida":
		return funnel.PasswordResetDone{}, nil

	case "abrir_modulo":
		return funnel.OpenModule{Module: req.Module}, nil

	case "voltar":
		return funnel.Back{}, nil

	case "sair":
		return funnel.SignOutRequested{}, nil

	case "tentar_novamente":
		return funnel.RetrySessionCheck{}, nil

	case "recomecar":
		return funnel.ResetSession{}, nil

	default:
		return nil, errors.New("tipo de evento desconhecido: " + req.Type)
	}
}
