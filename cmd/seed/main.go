// Command seed populates the configured database with demo users, photos
// and engagement data.
package main

import (
	"flag"
	"log"

	"photoshare/internal/config"
	"photoshare/internal/database"
	"photoshare/internal/middleware"
	"photoshare/internal/seed"
)

func main() {
	planPath := flag.String("plan", "", "Path to a YAML seed plan (defaults to the built-in plan)")
	creators := flag.Int("creators", 0, "Override the number of creator accounts")
	consumers := flag.Int("consumers", 0, "Override the number of consumer accounts")
	photos := flag.Int("photos", 0, "Override photos per creator")
	clean := flag.Bool("clean", true, "Clear existing data before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}
	middleware.InitMiddleware(cfg)

	plan := seed.DefaultPlan()
	if *planPath != "" {
		plan, err = seed.LoadPlan(*planPath)
		if err != nil {
			log.Fatalf("load seed plan: %v", err)
		}
	}
	if *creators > 0 {
		plan.Creators = *creators
	}
	if *consumers > 0 {
		plan.Consumers = *consumers
	}
	if *photos > 0 {
		plan.PhotosPerCreator = *photos
	}
	plan.Clean = *clean

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	if err := seed.NewSeeder(db).Run(plan); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	log.Printf("done; every seeded account uses the password %q", plan.Password)
}
