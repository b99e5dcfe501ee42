package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"digibank/internal/config"
	"digibank/internal/handler"
	"digibank/internal/infrastructure/bankdirectory"
	"digibank/internal/infrastructure/cache"
	"digibank/internal/infrastructure/database"
	"digibank/internal/infrastructure/mq"
	"digibank/internal/job"
	"digibank/internal/repository"
	"digibank/internal/service"
	"digibank/pkg/idgen"
)

func main() {
	cfg := config.LoadConfig("config/config.yaml")

	idgen.Init(1)

	db := database.InitMySQL(&cfg.MySQL)
	redisClient := cache.InitRedis(&cfg.Redis)

	producer := mq.InitKafka(&cfg.Kafka)
	defer producer.Close()

	// repositories
	accountRepo := repository.NewAccountRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txRunner := repository.NewTxRunner(db)

	// services
	bankDir := bankdirectory.NewClient(&cfg.BankDirectory, redisClient)
	authService := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	accountService := service.NewAccountService(accountRepo, userRepo)
	ledgerService := service.NewLedgerService(txRunner, accountRepo, transactionRepo, outboxRepo, bankDir, cfg.Kafka.Topic.TransactionCompleted)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// background jobs
	outboxSender := job.NewOutboxSender(db, producer, cfg)
	go outboxSender.Start(ctx)

	reconcileJob := job.NewReconcileJob(db, redisClient, cfg)
	go reconcileJob.Start(ctx)

	h := handler.NewHandler(authService, accountService, ledgerService, bankDir)
	router := handler.SetupRouter(h, authService, auditRepo)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("server listening on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	log.Println("server stopped")
}
