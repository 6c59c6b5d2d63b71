package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmatosb/protocolo-estetica/internal/funnel"
	"github.com/dmatosb/protocolo-estetica/internal/infra/database"
	"github.com/dmatosb/protocolo-estetica/internal/infra/http/handlers"
	"github.com/dmatosb/protocolo-estetica/internal/infra/http/middleware"
	"github.com/dmatosb/protocolo-estetica/internal/infra/integration/asaas"
	"github.com/dmatosb/protocolo-estetica/internal/infra/integration/supabase"
	"github.com/dmatosb/protocolo-estetica/internal/infra/localstate"
	"github.com/dmatosb/protocolo-estetica/internal/infra/mail"
	"github.com/dmatosb/protocolo-estetica/internal/infra/queue"
	"github.com/dmatosb/protocolo-estetica/internal/infra/worker"
	"github.com/dmatosb/protocolo-estetica/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		getenv("RABBITMQ_USER", "user"),
		getenv("RABBITMQ_PASS", "password"),
		getenv("RABBITMQ_HOST", "localhost"),
		getenv("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		panic(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositórios e estado local
	leadRepo := database.NewLeadRepository(db)

	local, err := localstate.NewStore(getenv("LOCAL_STATE_PATH", ".protocolo/estado.json"))
	if err != nil {
		log.Fatal(err)
	}

	// 2. Gateways e Adapters
	gateway := asaas.NewClient(os.Getenv("ASAAS_API_KEY"), os.Getenv("ASAAS_URL"))
	auth := supabase.NewClient(os.Getenv("SUPABASE_ANON_KEY"), os.Getenv("SUPABASE_URL"))
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), 587, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
	)

	// 3. Workers (fila de acessos + lembretes de checkout abandonado)
	mailWorker := queue.NewWorker(rabbitMQ.Ch, mailSender)
	go mailWorker.Start(queue.QueueName)

	reminderWorker := worker.NewReminderWorker(leadRepo, mailSender)
	go reminderWorker.Start(context.Background())

	// 4. UseCases
	captureUC := usecase.NewSubmitCaptureUseCase(leadRepo)
	chargeUC := usecase.NewCreateChargeUseCase(gateway, local)
	confirmUC := usecase.NewConfirmPaymentUseCase(leadRepo, gateway, producer)
	accountUC := usecase.NewCreateAccountUseCase(auth, leadRepo)

	// O registro de funis roda a máquina de telas no servidor: uma
	// instância por sessão de navegação, todas sobre os mesmos usecases.
	funnelRegistry := funnel.NewRegistry(func() *funnel.Machine {
		return funnel.NewMachine(funnel.Deps{
			Sessions: auth,
			Leads:    leadRepo,
			Capture:  captureUC,
			Charges:  chargeUC,
			Payments: confirmUC,
			Local:    local,
		})
	})

	// 5. Handlers
	captureHandler := handlers.NewCaptureHandler(captureUC)
	checkoutHandler := handlers.NewCheckoutHandler(chargeUC)
	paymentHandler := handlers.NewPaymentHandler(confirmUC)
	webhookHandler := handlers.NewWebhookHandler(confirmUC)
	accountHandler := handlers.NewAccountHandler(accountUC)
	accessHandler := handlers.NewAccessHandler(leadRepo, auth)
	authHandler := handlers.NewAuthHandler(auth)
	funnelHandler := handlers.NewFunnelHandler(funnelRegistry)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Post("/lead", captureHandler.Handle)
	r.Post("/checkout", checkoutHandler.Handle)
	r.Post("/pagamento/verificar", paymentHandler.HandleVerify)
	r.Post("/conta", accountHandler.HandleCreate)
	r.Post("/webhook", webhookHandler.Handle)
	r.Get("/acesso/{email}/status", accessHandler.HandleGetStatus)
	r.Post("/acesso/magic-link", accessHandler.HandleSendMagicLink)
	r.Post("/auth/login", authHandler.HandleLogin)
	r.Post("/auth/recuperar-senha", authHandler.HandleSendRecovery)
	r.Post("/auth/redefinir-senha", authHandler.HandleUpdatePassword)
	r.Post("/auth/confirmacao/reenviar", authHandler.HandleResendConfirmation)
	r.Post("/funil", funnelHandler.HandleCreate)
	r.Get("/funil/{id}", funnelHandler.HandleGet)
	r.Post("/funil/{id}/evento", funnelHandler.HandleEvent)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":8080"
	log.Printf("🔥 API Protocolo Estética rodando na porta %s", port)
	http.ListenAndServe(port, r)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
