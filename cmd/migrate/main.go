package main

import (
	"fmt"
	"os"
	"remindbot/internal/db"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type migrateConfig struct {
	PostgresqlURL  string `env:"POSTGRESQL_URL,required,notEmpty"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`
}

func main() {
	_ = godotenv.Load()

	cfg := migrateConfig{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	applied, err := db.Migrate(cfg.PostgresqlURL, cfg.MigrationsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not apply migrations: %v\n", err)
		os.Exit(1)
	}
	if applied {
		fmt.Println("Migrations applied.")
	} else {
		fmt.Println("No pending migrations.")
	}
}
