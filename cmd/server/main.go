package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jackc/pgx/v5/stdlib"

	"physioconnect/internal/api"
	"physioconnect/internal/events"
	"physioconnect/internal/model"
	"physioconnect/internal/repository"
	"physioconnect/internal/s3"
	"physioconnect/internal/service"
	"physioconnect/internal/tracing"
	_ "physioconnect/migrations"
)

func main() {
	if err := godotenv.Load(".env.dev"); err != nil {
		fmt.Println("No .env.dev file found, reading from environment variables")
	}

	api.SetupGlobalHandler("physioconnect")

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is required")
	}

	shutdownTracer, err := tracing.InitTracerProvider("physioconnect")
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		handleMigrations()
		return
	}

	db := connectDB()
	defer db.Close()

	userRepo := repository.NewPostgresUserRepository(db)
	doctorProfileRepo := repository.NewPostgresDoctorProfileRepository(db)
	patientProfileRepo := repository.NewPostgresPatientProfileRepository(db)
	appointmentRepo := repository.NewPostgresAppointmentRepository(db)
	deviceTokenRepo := repository.NewPostgresDeviceTokenRepository(db)
	notificationRepo := repository.NewPostgresNotificationRepository(db)

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}
	var publisher events.EventPublisher
	publisher, err = events.NewNatsPublisher(natsURL)
	if err != nil {
		log.Printf("WARNING: Failed to connect to NATS, events disabled: %v", err)
		publisher = events.NoopPublisher{}
	} else {
		if _, err := events.NewNotificationSubscriber(natsURL, notificationRepo); err != nil {
			log.Printf("WARNING: Failed to start notification subscriber: %v", err)
		}
	}

	authService := service.NewAuthService(userRepo, deviceTokenRepo)
	profileService := service.NewProfileService(userRepo, doctorProfileRepo, patientProfileRepo)
	appointmentService := service.NewAppointmentService(appointmentRepo, userRepo, publisher)

	photoPresigner, err := s3.NewPhotoPresigner()
	if err != nil {
		log.Printf("WARNING: S3 presigner unavailable, photo uploads disabled: %v", err)
		photoPresigner = nil
	}

	authHandler := api.NewAuthHandler(authService)
	profileHandler := api.NewProfileHandler(profileService, photoPresigner)
	appointmentHandler := api.NewAppointmentHandler(appointmentService)

	app := fiber.New()
	app.Use(otelfiber.Middleware())
	app.Use(api.PrometheusMiddleware())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "PhysioConnect API is working"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "physioconnect"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Post("/signup", authHandler.SignUp)
	app.Post("/signin", authHandler.SignIn)

	app.Get("/doctors", profileHandler.ListDoctors)

	authRequired := api.AuthMiddleware(authService)
	doctorOnly := api.RequireRole(model.RoleDoctor)

	// middleware is attached per route: GET /doctor/:id is a public read and
	// must not inherit auth from a /doctor group prefix
	app.Post("/doctor/add-profile", authRequired, doctorOnly, profileHandler.AddDoctorProfile)
	app.Get("/doctor/appointments", authRequired, doctorOnly, appointmentHandler.ListForDoctor)
	app.Get("/doctor/avatar-upload", authRequired, doctorOnly, profileHandler.GetPhotoUploadURL)
	app.Put("/doctor/profile/:id", authRequired, profileHandler.UpdateDoctorProfile)
	app.Get("/doctor/:id", profileHandler.GetDoctor)

	app.Post("/patient/profile", authRequired, profileHandler.AddPatientProfile)
	app.Get("/patient/appointments", authRequired, appointmentHandler.ListForPatient)

	app.Get("/profile", authRequired, profileHandler.GetOwnProfile)
	app.Post("/devices", authRequired, authHandler.RegisterDevice)

	app.Post("/appointments", authRequired, appointmentHandler.Create)
	app.Put("/appointments/:id/status", authRequired, appointmentHandler.UpdateStatus)
	app.Delete("/appointments/:id", authRequired, appointmentHandler.Delete)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "5000"
	}

	log.Printf("Listening physioconnect on port %s", port)
	log.Fatal(app.Listen(":" + port))
}

func connectDB() *sqlx.DB {
	db, err := sqlx.Connect("pgx", databaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Successfully connected to the database.")
	return db
}

func handleMigrations() {
	fmt.Println("Running database migrations...")

	db, err := sql.Open("pgx", databaseURL())
	if err != nil {
		log.Fatalf("failed to connect to database for migration: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("goose: failed to run migrations: %v", err)
	}

	fmt.Println("Migrations applied successfully!")
}

func databaseURL() string {
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)
}
