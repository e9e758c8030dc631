package main

import (
	"context"
	"errors"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"warehouse-service/internal/audit"
	"warehouse-service/internal/auth"
	"warehouse-service/internal/config"
	"warehouse-service/internal/http"
	"warehouse-service/internal/repository/postgres"

	"github.com/joho/godotenv"
)

const (
	envFilePath      = ".env"
	serverAddrPrefix = ":"
	signalBufferSize = 1
	logOutputFlags   = log.LstdFlags | log.Lshortfile
)

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

func main() {
	if err := godotenv.Load(envFilePath); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(logOutputFlags)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("Configuration loaded successfully")

	signer, err := auth.NewSigner([]byte(cfg.Auth.Secret))
	if err != nil {
		log.Fatalf("Failed to initialize signer: %v", err)
	}

	db, err := postgres.New(context.Background(), &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Database connection established")

	credentials := auth.NewCredentials(signer, nil)
	viewLinks := auth.NewViewLinks(signer, nil)
	authMiddleware := auth.NewMiddleware(auth.NewGate(credentials))
	auditLogger := audit.NewLogger(db.Pool)

	serverDeps := &http.ServerDependencies{
		Config:         cfg,
		DB:             db,
		UserRepo:       postgres.NewUserRepository(db),
		ReportRepo:     postgres.NewReportRepository(db),
		Credentials:    credentials,
		ViewLinks:      viewLinks,
		AuthMiddleware: authMiddleware,
		AuditLogger:    auditLogger,
	}

	server := http.NewServer(serverDeps)

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := server.Start(serverAddrPrefix + cfg.Server.Port); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, signalBufferSize)
	signal.Notify(quit, shutdownSignals...)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	auditLogger.Wait()

	log.Println("Server exited gracefully")
}
