package main

import (
	"log"

	"github.com/heartlinkapp/discovery/internal/config"
	"github.com/heartlinkapp/discovery/internal/db"
)

// Seeds the database with demo users, reactions and blocks for local
// development.
func main() {
	cfg := config.New()

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}

	if err := db.SeedDemoData(database); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	log.Println("seeding complete")
}
