package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/SolterraRealty/api-backoffice/internal/auth"
	"github.com/SolterraRealty/api-backoffice/internal/config"
	"github.com/SolterraRealty/api-backoffice/internal/contract"
	"github.com/SolterraRealty/api-backoffice/internal/notification"
	"github.com/SolterraRealty/api-backoffice/internal/payment"
	"github.com/SolterraRealty/api-backoffice/internal/property"
	"github.com/SolterraRealty/api-backoffice/internal/reservation"
	"github.com/SolterraRealty/api-backoffice/internal/schedule"
	"github.com/SolterraRealty/api-backoffice/internal/transaction"
	"github.com/SolterraRealty/api-backoffice/internal/user"
	"github.com/SolterraRealty/api-backoffice/internal/utils/db"
)

func main() {
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	auth.Init(cfg.JWTSecret)

	database, err := db.Connect(cfg)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	for _, migrate := range []func(*gorm.DB) error{
		user.Migrate,
		property.Migrate,
		reservation.Migrate,
		contract.Migrate,
		schedule.Migrate,
		transaction.Migrate,
	} {
		if err := migrate(database); err != nil {
			logger.Fatalf("AutoMigrate failed: %v", err)
		}
	}

	// Shared collaborators
	mailer := notification.NewMailer(cfg, logger)
	webhook := notification.NewWebhook(cfg.WebhookURL, logger)

	propertyRepo := property.NewRepository(database)
	scheduleRepo := schedule.NewRepository(database)
	transactionRepo := transaction.NewRepository(database)
	contractRepo := contract.NewRepository()
	userRepo := user.NewRepository()

	// Handlers
	userHandler := user.NewHandler(database, mailer, logger)
	propertyHandler := property.NewHandler(propertyRepo)
	reservationHandler := reservation.NewHandler(database, propertyRepo, webhook, logger)
	contractHandler := contract.NewHandler(database, scheduleRepo, propertyRepo, reservationHandler.Repo, logger)
	paymentHandler := payment.NewHandler(database, scheduleRepo, contractRepo, transactionRepo, userRepo, mailer, logger)
	transactionHandler := transaction.NewHandler(transactionRepo)

	// Router
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/register", userHandler.Register).Methods("POST")
	r.HandleFunc("/login", userHandler.Login).Methods("POST")
	r.HandleFunc("/properties", propertyHandler.List).Methods("GET")
	r.HandleFunc("/properties/{id:[0-9]+}", propertyHandler.Get).Methods("GET")

	// Authenticated routes
	api := r.PathPrefix("/").Subrouter()
	api.Use(auth.Middleware)

	staff := func(h http.HandlerFunc) http.Handler { return auth.RequireStaff(h) }
	admin := func(h http.HandlerFunc) http.Handler { return auth.RequireAdmin(h) }

	// Users
	api.HandleFunc("/users", userHandler.List).Methods("GET")
	api.HandleFunc("/users/{id}", userHandler.Get).Methods("GET")
	api.HandleFunc("/users/{id}", userHandler.Update).Methods("PUT")
	api.HandleFunc("/users/{id}/change-password", userHandler.ChangePassword).Methods("POST")
	api.Handle("/users/{id}/reset-password", admin(userHandler.ResetPassword)).Methods("POST")
	api.Handle("/users/{id}/deactivate", admin(userHandler.Deactivate)).Methods("POST")

	// Properties (staff writes)
	api.Handle("/properties", staff(propertyHandler.Create)).Methods("POST")
	api.Handle("/properties/{id}", staff(propertyHandler.Update)).Methods("PUT")
	api.Handle("/properties/{id}", staff(propertyHandler.Delete)).Methods("DELETE")

	// Reservations
	api.HandleFunc("/reservations", reservationHandler.Create).Methods("POST")
	api.HandleFunc("/reservations", reservationHandler.List).Methods("GET")
	api.HandleFunc("/reservations/{id}", reservationHandler.Get).Methods("GET")
	api.Handle("/reservations/{id}/approve", staff(reservationHandler.Approve)).Methods("PATCH")
	api.Handle("/reservations/{id}/decline", staff(reservationHandler.Decline)).Methods("PATCH")

	// Contracts & schedules
	api.Handle("/contracts", staff(contractHandler.Create)).Methods("POST")
	api.HandleFunc("/contracts", contractHandler.List).Methods("GET")
	api.HandleFunc("/contracts/{id}", contractHandler.Get).Methods("GET")
	api.HandleFunc("/contracts/{id}/schedules", contractHandler.ListSchedules).Methods("GET")
	api.Handle("/contracts/{id}/status", staff(contractHandler.UpdateStatus)).Methods("PATCH")

	// Walk-in payments
	api.Handle("/schedules/{id}/payment-details", staff(paymentHandler.PaymentDetails)).Methods("GET")
	api.Handle("/payments/walk-in", staff(paymentHandler.SubmitWalkIn)).Methods("POST")
	api.Handle("/schedules/{id}/revert", admin(paymentHandler.Revert)).Methods("POST")

	// Transactions
	api.Handle("/contracts/{id}/transactions", staff(transactionHandler.ListByContract)).Methods("GET")
	api.Handle("/transactions/{reference}", staff(transactionHandler.GetByReference)).Methods("GET")

	// Nightly jobs: overdue sweep and reservation expiry
	sweeper := payment.NewSweeper(database, scheduleRepo, contractRepo, userRepo, mailer, webhook, logger)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.OverdueCron, sweeper.Run); err != nil {
		logger.Fatalf("Failed to schedule overdue sweep: %v", err)
	}
	if _, err := scheduler.AddFunc(cfg.OverdueCron, func() {
		n, err := reservationHandler.ExpireLapsed(time.Now())
		if err != nil {
			logger.Errorf("Reservation expiry failed: %v", err)
			return
		}
		if n > 0 {
			logger.Infof("Expired %d lapsed reservation(s)", n)
		}
	}); err != nil {
		logger.Fatalf("Failed to schedule reservation expiry: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)

	logger.Infof("Server listening on :%s", cfg.Port)
	logger.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler))
}
