package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"airdrop_backend/internal/api"
	"airdrop_backend/internal/bot"
	"airdrop_backend/internal/repository"
	"airdrop_backend/internal/service"
	"airdrop_backend/pkg/auth"
	"airdrop_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ledgerService := service.NewLedgerService(repository.New())
	telegramAuth := auth.NewTelegramAuth(cfg.Bot.Token, cfg.TelegramAuth.Debug)

	if cfg.Bot.Token == "" {
		zapLogger.Warn("bot token is not configured, bot replies will fail")
	}
	if cfg.Bot.ChatID == "" {
		zapLogger.Warn("community chat is not configured, membership checks will fail")
	}

	telegramClient := bot.NewTelegramClient(cfg.Bot.Token, cfg.Bot.ChatID, cfg.Bot.RequestTimeout)
	dispatcher := bot.NewDispatcher(telegramClient, cfg.Bot.Messages())
	processor := bot.NewProcessor(dispatcher, cfg.Bot.Workers, cfg.Bot.QueueSize)

	if cfg.Bot.WebhookURL != "" {
		if err := telegramClient.SetWebhook(cfg.Bot.WebhookURL); err != nil {
			zapLogger.Error("Failed to register webhook", zap.String("url", cfg.Bot.WebhookURL), zap.Error(err))
		} else {
			zapLogger.Info("Webhook registered", zap.String("url", cfg.Bot.WebhookURL))
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(ledgerService, telegramAuth, processor, cfg.Bot.Name)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return processor.Run(ctx)
	})
	g.Go(func() error {
		zapLogger.Info("Starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		zapLogger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zapLogger.Fatal("Server stopped with error", zap.Error(err))
	}
}
