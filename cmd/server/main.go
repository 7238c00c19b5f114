package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bank-suite/cards-service/internal/adapter/http/controller"
	"github.com/bank-suite/cards-service/internal/adapter/http/router"
	"github.com/bank-suite/cards-service/internal/adapter/repository/postgres"
	"github.com/bank-suite/cards-service/internal/config"
	"github.com/bank-suite/cards-service/internal/jobs"
	"github.com/bank-suite/cards-service/internal/logger"
	"github.com/bank-suite/cards-service/internal/pancrypto"
	"github.com/bank-suite/cards-service/internal/usecase/services"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		logger.Fatal("service stopped", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	codec, err := buildCodec(cfg)
	if err != nil {
		return err
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := postgres.RunMigrations(migrateCtx, db, cfg.MigrationsDir); err != nil {
		return err
	}

	cardRepo := postgres.NewCardRepository(db, codec)
	requestRepo := postgres.NewBlockRequestRepository(db)
	transferRepo := postgres.NewTransferRepository(db)
	userRepo := postgres.NewUserRepository(db)

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	userService := services.NewUserService(userRepo)
	cardService := services.NewCardService(cardRepo, requestRepo, userRepo)
	transferService := services.NewTransferService(transferRepo)

	handler := router.New(authService, router.Controllers{
		Auth:     controller.NewAuthController(authService),
		User:     controller.NewUserController(userService),
		Card:     controller.NewCardController(cardService),
		Transfer: controller.NewTransferController(transferService),
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweeper := jobs.NewExpirySweeper(cardRepo, cfg.SweepSchedule)
	if err := sweeper.Start(ctx); err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("http server listening", logger.Fields{"addr": cfg.HTTPAddr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
		defer cancel()

		sweeper.Stop()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

// buildCodec prefers the configured key; without one the service still
// starts, on a random key, so local runs need no setup. Data written
// under an ephemeral key is unreadable after restart.
func buildCodec(cfg config.Config) (*pancrypto.Codec, error) {
	if cfg.CardKeyBase64 != "" {
		return pancrypto.New(cfg.CardKeyBase64)
	}
	logger.Warn("CARD_KEY_BASE64 not set, using ephemeral key unsuitable for production", nil)
	return pancrypto.NewEphemeral()
}
