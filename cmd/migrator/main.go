package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/fekuna/omnipos-backoffice-service/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
)

func main() {
	migrationsPath := flag.String("migrations-path", "migrations", "path to migration files")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.LoadEnv()

	dsn := fmt.Sprintf("pgx5://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Postgres.User, cfg.Postgres.Password,
		cfg.Postgres.Host, cfg.Postgres.Port,
		cfg.Postgres.DBName, cfg.Postgres.SSLMode,
	)

	m, err := migrate.New(fmt.Sprintf("file://%s", *migrationsPath), dsn)
	if err != nil {
		log.Fatalf("failed to init migrator: %v", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("no migrations to apply")
			return
		}
		log.Fatalf("failed to migrate: %v", err)
	}
	log.Println("migrations applied")
}
