// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"academy-platform/internal/config"
	"academy-platform/internal/domain/ports/adapter"
	aiAdapters "academy-platform/internal/infra/adapters/ai"
	"academy-platform/internal/infra/adapters/notify"
	payAdapters "academy-platform/internal/infra/adapters/payment"
	pg "academy-platform/internal/infra/db/postgres"
	"academy-platform/internal/infra/i18n"
	"academy-platform/internal/infra/logging"
	red "academy-platform/internal/infra/redis"
	"academy-platform/internal/infra/sched"
	"academy-platform/internal/infra/security"
	"academy-platform/internal/infra/web"
	"academy-platform/internal/infra/worker"
	"academy-platform/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	// ---- Postgres ----
	pool, err := pg.Connect(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	go pg.ReportPoolStats(ctx, pool, 15*time.Second)
	txm := pg.NewTxManager(pool)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	locker := red.NewLocker(redisClient)
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Encryption ----
	cipher, err := security.NewCipher(cfg.Security.EncryptionKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("encryption")
	}

	// ---- i18n ----
	translator, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Academy.Language)
	if err != nil {
		logger.Fatal().Err(err).Msg("i18n")
	}

	// ---- Repositories ----
	studentRepo := pg.NewStudentRepo(pool, cipher)
	planRepo := pg.NewPlanRepoCacheDecorator(pg.NewPlanRepo(pool), redisClient)
	subRepo := pg.NewSubscriptionRepo(pool)
	payRepo := pg.NewPaymentRepo(pool)
	occRepo := pg.NewClassOccurrenceRepo(pool)
	attRepo := pg.NewAttendanceRepo(pool)
	badgeRepo := pg.NewBadgeRepo(pool)

	// ---- Worker pool + notifier ----
	workerPool := worker.NewPool(cfg.Worker.PoolSize, logger)
	workerPool.Start(ctx)
	defer workerPool.Stop()

	var notifier adapter.Notifier
	if cfg.SMTP.Host != "" {
		notifier = notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:        cfg.SMTP.Host,
			Port:        cfg.SMTP.Port,
			Username:    cfg.SMTP.Username,
			Password:    cfg.SMTP.Password,
			FromAddress: cfg.SMTP.FromAddress,
			FromName:    cfg.SMTP.FromName,
		})
	} else {
		logger.Warn().Msg("smtp not configured, notifications go to the log")
		notifier = notify.NewNoopNotifier(logger)
	}
	notifier = notify.NewAsyncNotifier(notifier, workerPool, logger)

	// ---- Payment gateway ----
	var gateway adapter.PaymentGateway
	if cfg.Payment.Asaas.APIKey != "" {
		gateway, err = payAdapters.NewAsaasGateway(cfg.Payment.Asaas.APIKey, cfg.Payment.Asaas.Sandbox)
		if err != nil {
			logger.Fatal().Err(err).Msg("asaas gateway")
		}
	} else {
		logger.Warn().Msg("asaas not configured, using noop gateway")
		gateway = payAdapters.NewNoopGateway()
	}
	logger.Info().Str("gateway", gateway.Name()).Msg("payment gateway ready")

	// ---- Insight generator ----
	var insights adapter.InsightGenerator
	if cfg.AI.GeminiKey != "" {
		insights, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.Model, cfg.AI.MaxOutputTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
	} else {
		insights = aiAdapters.NewNoopInsightGenerator()
	}

	// ---- Use cases ----
	studentUC := usecase.NewStudentUseCase(studentRepo, logger)
	planUC := usecase.NewPlanUseCase(planRepo, logger)
	subUC := usecase.NewSubscriptionUseCase(subRepo, studentRepo, planRepo, logger)
	scheduleUC := usecase.NewScheduleUseCase(occRepo, studentRepo, logger)
	gamificationUC := usecase.NewGamificationUseCase(studentRepo, attRepo, badgeRepo, notifier, translator, logger)
	attendanceUC := usecase.NewAttendanceUseCase(attRepo, occRepo, studentRepo, gamificationUC, usecase.CheckInWindow{
		Lead:  cfg.Attendance.Lead,
		Grace: cfg.Attendance.Grace,
	}, logger)
	billingUC := usecase.NewBillingUseCase(subRepo, payRepo, studentRepo, gateway, locker, txm, logger)
	paymentUC := usecase.NewPaymentUseCase(payRepo, subRepo, studentRepo, gateway, notifier, translator, logger)
	statsUC := usecase.NewStatsUseCase(studentRepo, subRepo, payRepo, logger)
	insightUC := usecase.NewInsightUseCase(studentRepo, badgeRepo, attendanceUC, insights, logger)

	// ---- Background workers ----
	billingWorker := sched.NewBillingWorker(cfg.Billing.Interval, cfg.Academy.OrganizationID, cfg.Billing.LookaheadDays, billingUC, logger)
	go billingWorker.Run(ctx)

	reconciler := sched.NewPaymentReconciler(paymentUC, cfg.Academy.OrganizationID, cfg.Billing.LookaheadDays,
		cfg.Payment.ReconcileInterval, cfg.Payment.StaleAfter, logger)
	go reconciler.Run(ctx)

	expiryWorker := sched.NewExpiryWorker(time.Hour, subUC, logger)
	go expiryWorker.Run(ctx)

	// ---- HTTP server ----
	server := web.NewServer(
		studentUC, planUC, subUC, scheduleUC, attendanceUC,
		billingUC, paymentUC, statsUC, insightUC,
		web.ServerConfig{
			OrgID:         cfg.Academy.OrganizationID,
			LookaheadDays: cfg.Billing.LookaheadDays,
			Auth: web.AuthConfig{
				Username: cfg.Security.AdminUsername,
				Password: cfg.Security.AdminPassword,
				Secret:   cfg.Security.JWTSecret,
				TokenTTL: cfg.Security.TokenTTL,
			},
			WebhookToken: cfg.Payment.Asaas.WebhookToken,
		},
		rateLimiter,
		logger,
	)

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("http server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	// ---- Shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
