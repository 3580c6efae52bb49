package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"evcharge/internal/database"
	"evcharge/internal/modules/reservation"
	"evcharge/internal/repository"
)

// Seeds the deterministic baseline for a range of days, starting today.
// Re-running is harmless: existing reservation ids are left untouched.
func main() {
	_ = godotenv.Load()

	dsn := flag.String("db", "reservations.db", "database DSN")
	from := flag.String("from", "", "first date to seed (YYYY-MM-DD, default today)")
	days := flag.Int("days", 1, "number of consecutive days to seed")
	flag.Parse()

	start := time.Now()
	if *from != "" {
		parsed, err := time.Parse("2006-01-02", *from)
		if err != nil {
			log.Fatal("invalid -from date:", err)
		}
		start = parsed
	}
	if *days < 1 {
		log.Fatal("-days must be at least 1")
	}

	db, err := database.Connect(*dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	service := reservation.NewService(repository.NewReservationRepository(db), nil)

	for i := 0; i < *days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		if err := service.EnsureBaseline(context.Background(), date); err != nil {
			log.Fatal("seeding failed for ", date, ": ", err)
		}
		log.Println("Seeded baseline for", date)
	}

	log.Println("Done.")
}
