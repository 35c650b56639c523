package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"comanda/internal/caching"
	"comanda/internal/config"
	"comanda/internal/models"
	"comanda/pkg/database"
)

// The seed binary owns the external lifecycle of the carta and mesas: it
// creates the schema and loads both collections from a JSON file. The API
// itself never edits the menu or creates tables.

const schema = `
CREATE TABLE IF NOT EXISTS carta (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	price DOUBLE PRECISION NOT NULL,
	image TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS mesas (
	id INTEGER PRIMARY KEY,
	occupied BOOLEAN NOT NULL DEFAULT true,
	order_doc JSONB,
	version BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS eventos (
	id UUID PRIMARY KEY,
	table_id INTEGER NOT NULL,
	action TEXT NOT NULL,
	detail JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS eventos_table_id_created_at_idx
	ON eventos (table_id, created_at DESC);
`

type seedFile struct {
	Carta []models.Product `json:"carta"`
	Mesas []struct {
		ID       int  `json:"id"`
		Occupied bool `json:"occupied"`
	} `json:"mesas"`
}

func main() {
	file := flag.String("file", "seed.json", "path to the seed JSON file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		log.Fatalf("Failed to parse seed file: %v", err)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	for _, product := range seed.Carta {
		_, err := pool.Exec(ctx, `
			INSERT INTO carta (id, name, category, price, image)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, category = EXCLUDED.category,
			    price = EXCLUDED.price, image = EXCLUDED.image
		`, product.ID, product.Name, product.Category, product.Price, product.Image)
		if err != nil {
			log.Fatalf("Failed to seed product %d: %v", product.ID, err)
		}
	}

	// A re-seed changes the carta, so the cached copies are now stale. The
	// serving API still works without redis, hence best-effort.
	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := cacheSvc.InvalidateCarta(ctx); err != nil {
		log.Printf("WARNING: could not invalidate the carta cache: %v", err)
	}

	// Existing mesas keep their live state; only new ones are created.
	for _, mesa := range seed.Mesas {
		_, err := pool.Exec(ctx, `
			INSERT INTO mesas (id, occupied)
			VALUES ($1, $2)
			ON CONFLICT (id) DO NOTHING
		`, mesa.ID, mesa.Occupied)
		if err != nil {
			log.Fatalf("Failed to seed table %d: %v", mesa.ID, err)
		}
	}

	log.Printf("Seeded %d products and %d tables", len(seed.Carta), len(seed.Mesas))
}
