package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/Akshita071/banking-app/internal/bankstub"
	"github.com/Akshita071/banking-app/pkg/slogx"
)

func main() {
	_ = godotenv.Load()

	logger := slogx.New(slogx.Config{
		Service: "bankstub",
		Version: "v0.1.0",
		Env:     getEnvOrDefault("ENV", "dev"),
		Level:   getEnvOrDefault("LOG_LEVEL", "info"),
		Format:  getEnvOrDefault("LOG_FORMAT", "text"),
	})

	var opts []bankstub.BankOption
	if raw := os.Getenv("STUB_SEED_BALANCE"); raw != "" {
		seed, err := decimal.NewFromString(raw)
		if err != nil {
			log.Fatalf("invalid STUB_SEED_BALANCE %q: %v", raw, err)
		}
		opts = append(opts, bankstub.WithSeedBalance(seed))
	}

	port := getEnvIntOrDefault("PORT", 8080)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           bankstub.NewServer(bankstub.NewBank(opts...), logger),
		ReadHeaderTimeout: 3 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("bankstub listening", "port", port)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig)

		grace := getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second)
		ctx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful server shutdown failed", "error", err)
			_ = server.Close()
		}
	}

	logger.Info("bankstub stopped")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
