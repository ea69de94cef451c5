package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rhymond/go-money"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/samuelfgs/isv-run/api"
	"github.com/samuelfgs/isv-run/dynamo"
	"github.com/samuelfgs/isv-run/payments/mercadopago"
	"github.com/samuelfgs/isv-run/registration"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %s\n", err)
		os.Exit(1)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading AWS config: %s\n", err)
		os.Exit(1)
	}
	db := dynamo.NewDB(dynamodb.NewFromConfig(awsCfg), cfg.DynamoTableName)

	paymentsProvider, err := mercadopago.NewClient(cfg.MercadoPagoAccessToken, cfg.PublicBaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating Mercado Pago client: %s\n", err)
		os.Exit(1)
	}

	emailSender := createEmailSender(logger, cfg)

	env := api.PROD
	if cfg.Env == "local" {
		env = api.LOCAL
	}

	a := api.NewAPI(
		db,
		logger,
		env,
		emailSender,
		paymentsProvider,
		money.New(cfg.UnitPriceCents, money.BRL),
		cfg.PublicBaseURL,
		registration.ConfirmationEmailOptions{
			FromAddress:     cfg.FromAddress,
			TrackingAddress: cfg.TrackingAddress,
			PublicBaseURL:   cfg.PublicBaseURL,
		},
		cfg.WebhookSecret,
	)

	s := &http.Server{
		Handler: a.Routes(),
		Addr:    net.JoinHostPort(cfg.Host, cfg.Port),
	}

	go func() {
		logger.Info("Server started", slog.String("addr", s.Addr), slog.String("env", cfg.Env))
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("Server stopped")
}
