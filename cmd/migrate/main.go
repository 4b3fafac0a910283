// Command migrate runs schema operations against the configured database.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"photoshare/internal/config"
	"photoshare/internal/database"
	"photoshare/internal/middleware"
	"photoshare/internal/models"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	middleware.InitMiddleware(cfg)

	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}
		log.Println("schema migrations applied")
	case "status":
		migrator := db.Migrator()
		for _, model := range []any{
			&models.User{},
			&models.Photo{},
			&models.Comment{},
			&models.Like{},
			&models.Save{},
		} {
			state := "missing"
			if migrator.HasTable(model) {
				state = "present"
			}
			log.Printf("%-10T %s", model, state)
		}
	default:
		return usage()
	}

	return nil
}
