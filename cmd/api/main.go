package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/xavierca1/conecta-lead/internal/config"
	"github.com/xavierca1/conecta-lead/internal/entity"
	"github.com/xavierca1/conecta-lead/internal/infra/auth"
	"github.com/xavierca1/conecta-lead/internal/infra/database"
	"github.com/xavierca1/conecta-lead/internal/infra/http/handlers"
	"github.com/xavierca1/conecta-lead/internal/infra/http/middleware"
	"github.com/xavierca1/conecta-lead/internal/infra/integration/workflow"
	"github.com/xavierca1/conecta-lead/internal/infra/mail"
	"github.com/xavierca1/conecta-lead/internal/infra/queue"
	"github.com/xavierca1/conecta-lead/internal/infra/worker"
	"github.com/xavierca1/conecta-lead/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ configuração inválida")
	}
	config.SetupLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(ctx, cfg.DatabaseURL, database.PoolOptions{
		MaxOpen:     cfg.DBMaxOpenConns,
		MaxIdle:     cfg.DBMaxIdleConns,
		MaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("❌ falha ao conectar no Postgres")
	}
	defer db.Close()

	if cfg.RunMigrations {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("❌ falha ao aplicar migrations")
		}
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("❌ falha ao conectar no Redis")
	}
	defer rdb.Close()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ falha ao conectar no RabbitMQ")
	}
	defer rabbitMQ.Close()

	// 1. Repositórios
	clientRepo := database.NewClientRepository(db)
	columnRepo := database.NewColumnRepository(db)
	leadRepo := database.NewLeadRepository(db)
	labelRepo := database.NewLabelRepository(db)
	followupRepo := database.NewFollowupRepository(db)
	paymentRepo := database.NewPaymentRepository(db)
	userRepo := database.NewUserRepository(db)

	gateway := usecase.Gateway{
		Clients:   clientRepo,
		Columns:   columnRepo,
		Leads:     leadRepo,
		Labels:    labelRepo,
		Followups: followupRepo,
		Payments:  paymentRepo,
	}

	// 2. Serviços e adapters
	authService := auth.NewService(userRepo, auth.NewRedisSessionStore(rdb), auth.Config{
		Secret:     []byte(cfg.JWTSecret),
		SessionTTL: cfg.SessionTTL,
	})
	authService.OnSessionChange(func(event entity.SessionEvent, who entity.Identity) {
		log.Info().Str("event", string(event)).Str("user_id", who.ID).Msg("🔐 sessão alterada")
	})

	producer := queue.NewProducer(rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
	workflowClient := workflow.NewClient(cfg.WorkflowBaseURL)

	storeOpts := usecase.StoreOptions{LegacyAdminEmailMatch: cfg.LegacyAdminEmailMatch}
	newStore := func() *usecase.Store {
		return usecase.NewStore(gateway, authService, storeOpts)
	}

	// 3. UseCases
	followupSvc := usecase.NewFollowupService(followupRepo, producer)
	profileSvc := usecase.NewProfileService(clientRepo, authService)
	whatsappSvc := usecase.NewWhatsAppService(workflowClient, cfg.WhatsAppPollInterval)
	captureLeadUC := usecase.NewCaptureLeadUseCase(clientRepo, columnRepo, leadRepo)
	clientAdminSvc := usecase.NewClientAdminService(clientRepo, columnRepo, authService, mailSender, cfg.LoginURL())
	paymentAdminSvc := usecase.NewPaymentAdminService(paymentRepo, clientRepo)
	reportSvc := usecase.NewReportService(paymentRepo)

	// 4. Workers
	statusWorker := queue.NewWorker(rabbitMQ.Ch, followupSvc)
	go func() {
		if err := statusWorker.Start(ctx, queue.StatusQueue); err != nil {
			log.Error().Err(err).Msg("❌ worker de status parou")
		}
	}()

	overdueWorker := worker.NewPaymentOverdueWorker(paymentRepo, middleware.RecordPaymentsOverdue)
	go overdueWorker.Start(ctx)

	// 5. Router
	router := newRouter(routerDeps{
		CORSOrigins:      cfg.CORSOrigins,
		SupportURL:       cfg.SupportURL,
		WebhookRateLimit: cfg.WebhookRateLimit,
		SignInRateLimit:  cfg.SignInRateLimit,
		NewStore:         newStore,

		Health:    handlers.NewHealthHandler(db, rdb, rabbitMQ.Conn, cfg.WorkflowBaseURL),
		Auth:      handlers.NewAuthHandler(authService, newStore),
		Board:     handlers.NewBoardHandler(),
		Leads:     handlers.NewLeadsHandler(),
		Followups: handlers.NewFollowupHandler(followupSvc),
		Profile:   handlers.NewProfileHandler(profileSvc, cfg.WebhookURL),
		WhatsApp:  handlers.NewWhatsAppHandler(whatsappSvc),
		Webhook:   handlers.NewWebhookHandler(captureLeadUC),
		Admin:     handlers.NewAdminHandler(clientAdminSvc, paymentAdminSvc),
		Reports:   handlers.NewReportHandler(reportSvc),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("🔥 Server ConectaLead rodando")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("❌ servidor HTTP parou")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("⚠️ encerrando...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("❌ erro no shutdown")
	}
}
