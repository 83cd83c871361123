package main

import (
	"log"

	api "sendgate-backend/cmd/api"
	accountdomain "sendgate-backend/internal/account/domain"
	accountRepo "sendgate-backend/internal/account/repository"
	accountUsecase "sendgate-backend/internal/account/usecase"
	"sendgate-backend/internal/email/dispatch"
	emaildomain "sendgate-backend/internal/email/domain"
	emailRepo "sendgate-backend/internal/email/repository"
	emailUsecase "sendgate-backend/internal/email/usecase"
	"sendgate-backend/pkg/config"
	"sendgate-backend/pkg/database"
	"sendgate-backend/pkg/mailer"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize stores. Without DATABASE_URL the service runs on the
	// in-memory stores, which lose everything on restart.
	var userRepository accountRepo.UserRepository
	var emailRepository emailRepo.EmailRepository

	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgresConnection(cfg)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		if err := db.AutoMigrate(&accountdomain.User{}, &emaildomain.Email{}, &emaildomain.EmailLog{}); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		userRepository = accountRepo.NewGormUserRepository(db)
		emailRepository = emailRepo.NewGormEmailRepository(db)
	} else {
		log.Println("[WARN] DATABASE_URL not set, using in-memory stores")
		userRepository = accountRepo.NewMemoryUserRepository()
		emailRepository = emailRepo.NewMemoryEmailRepository()
	}

	// Initialize use cases (dependency injection)
	accountUsecaseInstance := accountUsecase.NewAccountUsecase(userRepository)
	emailUsecaseInstance := emailUsecase.NewEmailUsecase(emailRepository, cfg)

	// Seed a known user for local testing
	if cfg.SeedTestUser {
		seedTestUser(userRepository)
	}

	// Initialize mailer and background dispatcher
	if cfg.DispatchEnabled {
		var m mailer.Mailer
		simulateDelivery := false
		if cfg.ResendAPIKey != "" {
			m = mailer.NewResendMailer(cfg.ResendAPIKey)
		} else {
			log.Println("[WARN] RESEND_API_KEY not set, using noop mailer")
			m = mailer.NewNoopMailer()
			simulateDelivery = true
		}

		dispatcher := dispatch.NewDispatcher(emailRepository, emailUsecaseInstance, m, cfg.DispatchInterval, cfg.DispatchBatch, simulateDelivery)
		dispatcher.Start()
		defer dispatcher.Stop()
	}

	// Initialize HTTP handler
	handler := api.NewHandler(accountUsecaseInstance, emailUsecaseInstance, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func seedTestUser(repo accountRepo.UserRepository) {
	existing, err := repo.FindByAPIKey("test-api-key-12345")
	if err != nil || existing != nil {
		return
	}
	user := &accountdomain.User{
		Email:           "test@example.com",
		Name:            "Test User",
		APIKey:          "test-api-key-12345",
		IsActive:        true,
		DailyEmailLimit: accountdomain.DefaultDailyEmailLimit,
	}
	if err := repo.Create(user); err != nil {
		log.Printf("[WARN] Failed to seed test user: %v", err)
		return
	}
	log.Printf("Seeded test user %s (api key test-api-key-12345)", user.ID)
}
