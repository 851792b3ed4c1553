package main

import (
	"context"
	"log"
	"os"

	"github.com/david/funding-applicator/internal/api"
	"github.com/david/funding-applicator/internal/db"
	"github.com/david/funding-applicator/internal/wizard"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	ctx := context.Background()

	// A missing database degrades to in-memory persistence rather than
	// blocking the wizard; saved progress then lives only for the
	// process lifetime.
	var store wizard.Store
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Printf("Database unavailable, using in-memory store: %v", err)
		store = db.NewMemoryKV()
	} else {
		defer pool.Close()
		if err := db.ApplyMigrations(ctx, pool); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		store = db.NewKV(pool)
	}

	srv := api.NewServer(store)
	log.Printf("Server starting on port %s...", port)
	if err := srv.Start(port); err != nil {
		log.Fatal(err)
	}
}
