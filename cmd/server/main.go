package main

import (
	"context"
	"log"

	"github.com/calevents/calevents/internal/api"
	"github.com/calevents/calevents/internal/api/handlers"
	"github.com/calevents/calevents/internal/auth"
	"github.com/calevents/calevents/internal/calendar"
	"github.com/calevents/calevents/internal/config"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	verifier, err := auth.NewVerifier(context.Background(), cfg.GoogleClientID)
	if err != nil {
		log.Fatal(err)
	}
	exchanger := auth.NewExchanger(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.RedirectURI)
	executor := calendar.NewExecutor(cfg.MaxResults)

	r := api.NewRouter(handlers.NewCalendarHandler(verifier, exchanger, executor))

	log.Printf("Server running on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
