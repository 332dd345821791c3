package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/stitchworks/internal/catalog"
	"github.com/Simplici0/stitchworks/internal/config"
	"github.com/Simplici0/stitchworks/internal/db"
	"github.com/Simplici0/stitchworks/internal/migrations"
	"github.com/Simplici0/stitchworks/internal/ratecard"
	"github.com/Simplici0/stitchworks/internal/seed"
)

type server struct {
	products  *catalog.Store
	rateCards *ratecard.Store
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	version, err := migrations.Up(ctx, database)
	if err != nil {
		log.Fatalf("failed to run database migrations: %v", err)
	}
	log.Printf("database schema at version %d", version)

	if cfg.Seed {
		stats, err := seed.Run(ctx, database)
		if err != nil {
			log.Fatalf("failed to seed database: %v", err)
		}
		log.Printf("seed finished: %d inserts", stats.Inserts)
	}

	srv := &server{
		products:  catalog.NewStore(database),
		rateCards: ratecard.NewStore(database),
	}

	addr := ":" + cfg.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)

	r.Post("/api/combo-price", s.handleComboPrice)
	r.Post("/api/operations/summary", s.handleOperationsSummary)

	r.Get("/products", s.handleProductsList)
	r.Post("/products", s.handleProductsCreate)
	r.Get("/products/{id}", s.handleProductGet)
	r.Get("/products/{id}/quote", s.handleProductQuote)

	r.Get("/ratecards", s.handleRateCardsList)
	r.Post("/ratecards", s.handleRateCardsCreate)
	r.Get("/ratecards/{id}", s.handleRateCardGet)
	r.Get("/ratecards/{id}/print", s.handleRateCardPrint)
	return r
}
