package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Akshita071/banking-app/internal/app"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg := app.LoadConfig()

	application := app.New(cfg)
	defer application.Close()

	if err := application.Run(context.Background(), os.Stdin, os.Stdout); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
