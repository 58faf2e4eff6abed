package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/swaps/swaps-go/internal/config"
	"github.com/swaps/swaps-go/internal/handler"
	"github.com/swaps/swaps-go/internal/repository"
	"github.com/swaps/swaps-go/internal/repository/memory"
	"github.com/swaps/swaps-go/internal/router"
	"github.com/swaps/swaps-go/internal/service"
)

type stores struct {
	users    repository.UserStore
	requests repository.SwapRequestStore
	messages repository.MessageStore
	close    func() error
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	pflag.StringVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	pflag.StringVar(&cfg.Store, "store", cfg.Store, "storage backend: memory or sql")
	pflag.StringVar(&cfg.DatabaseDriver, "db-driver", cfg.DatabaseDriver, "SQL driver: pgx or mysql")
	pflag.StringVar(&cfg.DatabaseDSN, "dsn", cfg.DatabaseDSN, "SQL data source name")
	migrate := pflag.Bool("migrate", false, "apply the embedded schema before serving")
	pflag.Parse()

	st, err := openStores(cfg, *migrate)
	if err != nil {
		slog.Error("storage setup failed", "store", cfg.Store, "error", err)
		os.Exit(1)
	}
	defer st.close()

	gate := service.NewGate(st.requests)
	authService := service.NewAuthService(st.users, cfg.JWTSecret, cfg.JWTExpiry,
		service.WithAdminEmails(cfg.AdminEmails),
	)
	ledgerService := service.NewLedgerService(st.requests, st.users, service.SystemClock)
	messageService := service.NewMessageService(gate, st.messages, service.SystemClock)
	projector := service.NewProjector(st.requests, st.messages)
	userService := service.NewUserService(st.users)

	r := router.New(router.Deps{
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		Auth:        handler.NewAuthHandler(authService),
		Swaps:       handler.NewSwapHandler(ledgerService),
		Messages:    handler.NewMessageHandler(messageService, projector),
		Users:       handler.NewUserHandler(userService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func openStores(cfg config.Config, migrate bool) (stores, error) {
	switch cfg.Store {
	case config.StoreSQL:
		db, err := repository.NewDB(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return stores{}, err
		}
		if migrate {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := repository.Migrate(ctx, db); err != nil {
				db.Close()
				return stores{}, err
			}
		}
		return stores{
			users:    repository.NewUserRepository(db),
			requests: repository.NewSwapRequestRepository(db),
			messages: repository.NewMessageRepository(db),
			close:    db.Close,
		}, nil
	default:
		if cfg.Store != config.StoreMemory {
			slog.Warn("unknown store, falling back to memory", "store", cfg.Store)
		}
		m := memory.New()
		return stores{users: m, requests: m, messages: m, close: func() error { return nil }}, nil
	}
}
