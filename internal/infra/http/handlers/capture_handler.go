package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
	"github.com/dmatosb/protocolo-estetica/internal/infra/http/middleware"
	"github.com/dmatosb/protocolo-estetica/internal/usecase"
)

// CaptureHandler recebe o email + respostas do quiz, calcula a perda e
// grava o lead. É o endpoint da transição capture→result.
type CaptureHandler struct {
	capture     *usecase.SubmitCaptureUseCase
	rateLimiter *RateLimiter
}

func NewCaptureHandler(capture *usecase.SubmitCaptureUseCase) *CaptureHandler {
	return &CaptureHandler{
		capture:     capture,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min por IP
	}
}

type quizAnswerPayload struct {
	Bucket string  `json:"faixa,omitempty"`
	Value  float64 `json:"valor,omitempty"`
	Manual bool    `json:"manual,omitempty"`
}

func (p quizAnswerPayload) toAnswer() entity.Answer {
	if p.Manual {
		return entity.ManualAnswer(p.Value)
	}
	return entity.BucketAnswer(p.Bucket)
}

type CaptureRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`

	Contacts     quizAnswerPayload `json:"contatos_mes"`
	Ticket       quizAnswerPayload `json:"ticket_medio"`
	Conversion   quizAnswerPayload `json:"taxa_conversao"`
	ResponseTime string            `json:"tempo_resposta"`
}

type CaptureResponse struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message,omitempty"`
	Result  *entity.CalculationResult `json:"resultado,omitempty"`
}

func (h *CaptureHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeJSON(w, http.StatusTooManyRequests, CaptureResponse{
			Success: false,
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	var req CaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, CaptureResponse{
			Success: false,
			Message: "Invalid JSON",
		})
		return
	}

	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, CaptureResponse{
			Success: false,
			Message: "Email is required",
		})
		return
	}

	result, err := h.capture.Execute(ctx, usecase.SubmitCaptureInput{
		Email: req.Email,
		Name:  req.Name,
		Phone: req.Phone,
		Answers: entity.QuizAnswers{
			ContactsRange:  req.Contacts.toAnswer(),
			TicketRange:    req.Ticket.toAnswer(),
			ConversionRate: req.Conversion.toAnswer(),
			ResponseTime:   entity.ResponseTime(req.ResponseTime),
		},
	})
	if err != nil {
		status := http.StatusInternalServerError
		if usecase.IsDomainError(err) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, CaptureResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	middleware.RecordLeadCaptured()

	writeJSON(w, http.StatusOK, CaptureResponse{
		Success: true,
		Result:  result,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
