package main

import (
	"log"

	api "notetube-backend/cmd/api"
	authdomain "notetube-backend/internal/auth/domain"
	authRepo "notetube-backend/internal/auth/repository"
	authUsecase "notetube-backend/internal/auth/usecase"
	notesdomain "notetube-backend/internal/notes/domain"
	notesRepo "notetube-backend/internal/notes/repository"
	"notetube-backend/pkg/config"
	"notetube-backend/pkg/database"
	"notetube-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Mode)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zlog.Sync()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		zlog.Fatalw("failed to connect to database", "error", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}, &notesdomain.Note{}); err != nil {
		zlog.Fatalw("failed to migrate database", "error", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	noteRepository := notesRepo.NewNoteRepository(db)

	// Initialize use cases
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepository, cfg)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, noteRepository, cfg, zlog)

	zlog.Infow("server starting", "port", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		zlog.Fatalw("failed to start server", "error", err)
	}
}
