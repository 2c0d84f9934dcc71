package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/Dias221467/PawPack_Tracker/internal/config"
	"github.com/Dias221467/PawPack_Tracker/internal/database"
	"github.com/Dias221467/PawPack_Tracker/internal/handlers"
	"github.com/Dias221467/PawPack_Tracker/internal/jobs"
	"github.com/Dias221467/PawPack_Tracker/internal/push"
	"github.com/Dias221467/PawPack_Tracker/internal/recurrence"
	"github.com/Dias221467/PawPack_Tracker/internal/repository"
	cronjobs "github.com/Dias221467/PawPack_Tracker/internal/scheduler"
	"github.com/Dias221467/PawPack_Tracker/internal/services"
	"github.com/Dias221467/PawPack_Tracker/pkg/clock"
	"github.com/Dias221467/PawPack_Tracker/pkg/logger"
	"github.com/Dias221467/PawPack_Tracker/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	packRepo := repository.NewPackRepository(db)
	animalRepo := repository.NewAnimalRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	taskLogRepo := repository.NewTaskLogRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	if err := subscriptionRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to create subscription indexes: %v", err)
	}

	// --- Core collaborators ---
	clk := clock.System{}
	calc := recurrence.NewCalculator(cfg.Timezone)
	transport := push.NewWebPushTransport(cfg.VAPIDSubject, cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.PushTTL, cfg.PushTimeout)

	// --- Services ---
	userService := services.NewUserService(userRepo)
	packService := services.NewPackService(packRepo, animalRepo, taskLogRepo)
	reminderService := services.NewReminderService(reminderRepo, animalRepo, packRepo, taskLogRepo, calc, clk)
	pushService := services.NewPushService(subscriptionRepo, transport, clk, cfg.PushWorkers)

	// --- Jobs ---
	dueReminderJob := jobs.NewDueReminderJob(reminderService, pushService)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	packHandler := handlers.NewPackHandler(packService)
	reminderHandler := handlers.NewReminderHandler(reminderService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionRepo, pushService)
	jobHandler := handlers.NewJobHandler(dueReminderJob)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Register User routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")

	// Pack routes
	protectedPackRoutes := router.PathPrefix("/packs").Subrouter()
	protectedPackRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedPackRoutes.HandleFunc("", packHandler.CreatePackHandler).Methods("POST")
	protectedPackRoutes.HandleFunc("/{id}", packHandler.GetPackHandler).Methods("GET")
	protectedPackRoutes.HandleFunc("/{id}/members", packHandler.AddMemberHandler).Methods("POST")

	// Animal routes
	protectedAnimalRoutes := router.PathPrefix("/animals").Subrouter()
	protectedAnimalRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedAnimalRoutes.HandleFunc("", packHandler.CreateAnimalHandler).Methods("POST")
	protectedAnimalRoutes.HandleFunc("/{id}", packHandler.GetAnimalHandler).Methods("GET")
	protectedAnimalRoutes.HandleFunc("/{id}/logs", packHandler.GetAnimalLogsHandler).Methods("GET")

	// Reminder routes
	protectedReminderRoutes := router.PathPrefix("/reminders").Subrouter()
	protectedReminderRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedReminderRoutes.HandleFunc("", reminderHandler.CreateReminderHandler).Methods("POST")
	protectedReminderRoutes.HandleFunc("/upcoming", reminderHandler.GetUpcomingRemindersHandler).Methods("GET")
	protectedReminderRoutes.HandleFunc("/{id}", reminderHandler.GetReminderHandler).Methods("GET")
	protectedReminderRoutes.HandleFunc("/{id}", reminderHandler.UpdateReminderHandler).Methods("PUT")
	protectedReminderRoutes.HandleFunc("/{id}", reminderHandler.DeleteReminderHandler).Methods("DELETE")
	protectedReminderRoutes.HandleFunc("/{id}/toggle", reminderHandler.ToggleReminderHandler).Methods("POST")
	protectedReminderRoutes.HandleFunc("/{id}/complete", reminderHandler.CompleteReminderHandler).Methods("POST")

	// Push subscription routes
	protectedPushRoutes := router.PathPrefix("/push").Subrouter()
	protectedPushRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedPushRoutes.HandleFunc("/subscribe", subscriptionHandler.SubscribeHandler).Methods("POST")
	protectedPushRoutes.HandleFunc("/unsubscribe", subscriptionHandler.UnsubscribeHandler).Methods("POST")
	protectedPushRoutes.HandleFunc("/test", subscriptionHandler.TestPushHandler).Methods("POST")

	// Manual job trigger for external schedulers
	protectedJobRoutes := router.PathPrefix("/jobs").Subrouter()
	protectedJobRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedJobRoutes.HandleFunc("/reminder-pass", jobHandler.RunDueReminderPassHandler).Methods("POST")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Start the reminder cron scheduler
	reminderCron := cronjobs.StartReminderCronJobs(dueReminderJob, cfg.Timezone)
	defer reminderCron.Stop()

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // adjust to frontend origin
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
