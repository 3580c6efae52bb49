package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"evcharge/internal/config"
	"evcharge/internal/database"
	"evcharge/internal/middleware"
	"evcharge/internal/modules/auth"
	"evcharge/internal/modules/monitor"
	"evcharge/internal/modules/reservation"
	jwtsvc "evcharge/internal/pkg/jwt"
	"evcharge/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal("migration failed:", err)
	}

	reservationRepo := repository.NewReservationRepository(db)

	hub := monitor.NewHub()
	defer hub.Close()

	reservationService := reservation.NewService(reservationRepo, hub)

	// the current day's baseline must exist before the first request
	today := time.Now().Format("2006-01-02")
	if err := reservationService.EnsureBaseline(context.Background(), today); err != nil {
		log.Fatal("baseline seeding failed:", err)
	}
	log.Println("Baseline seeded for", today)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	authService := auth.NewService(j, cfg.AdminEmail, cfg.AdminPasswordHash)
	authHandler := auth.NewHandler(authService)

	reservationHandler := reservation.NewHandler(reservationService)
	monitorHandler := monitor.NewHandler(hub)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// public
		authHandler.RegisterPublicRoutes(api)

		// any authenticated caller
		protected := api.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterUserRoutes(protected)
			reservationHandler.RegisterUserRoutes(protected)
		}

		// admin only
		admin := api.Group("/")
		admin.Use(middleware.Auth(j), middleware.AdminOnly())
		{
			reservationHandler.RegisterAdminRoutes(admin)
			monitorHandler.RegisterRoutes(admin)
		}
	}

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
