// Command main runs the database seeder for moim.
package main

import (
	"flag"
	"log"

	"moim/internal/config"
	"moim/internal/database"
	"moim/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numFeeds := flag.Int("feeds", 100, "Number of feeds to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d feeds, clean=%v\n", *numUsers, *numFeeds, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	users, err := s.SeedUsers(*numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	feeds, err := s.SeedFeeds(users, *numFeeds)
	if err != nil {
		log.Fatalf("Feed seeding failed: %v", err)
	}
	if err := s.SeedEngagement(users, feeds); err != nil {
		log.Fatalf("Engagement seeding failed: %v", err)
	}

	log.Println("All done, database populated with demo data.")
	log.Println("All seeded users have the password: password123")
}
