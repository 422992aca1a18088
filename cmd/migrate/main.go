// Command migrate applies the scheduler's Postgres schema, grounded on
// riskibarqy/fantasy-league's cmd/migration/main.go.
package main

import (
	"database/sql"
	"log"
	"time"

	"github.com/fieldhouse-sports/scheduler-core/config"
	"github.com/fieldhouse-sports/scheduler-core/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}

	conn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer conn.Close()

	if err := db.Migrate(conn, "./db/migrations"); err != nil {
		log.Fatalf("run migrations: %v", err)
	}
	log.Printf("migrations applied in %s", time.Now().Format(time.RFC3339))
}
