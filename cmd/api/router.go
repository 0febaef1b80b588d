package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"notetube-backend/internal/auth/delivery"
	authUsecase "notetube-backend/internal/auth/usecase"
	notesDelivery "notetube-backend/internal/notes/delivery"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, noteHandler *notesDelivery.NoteHandler) {
	authHandler := delivery.NewAuthHandler(authUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUsecase), authHandler.Me)
			auth.PUT("/me", delivery.AuthMiddleware(authUsecase), authHandler.UpdateProfile)
			auth.PUT("/me/password", delivery.AuthMiddleware(authUsecase), authHandler.ChangePassword)
		}

		// Note routes (protected)
		notes := api.Group("/notes")
		notes.Use(delivery.AuthMiddleware(authUsecase))
		{
			notes.POST("", noteHandler.CreateNote)
			notes.GET("", noteHandler.GetNotes)
			notes.GET("/:id", noteHandler.GetNoteByID)
			notes.PUT("/:id", noteHandler.UpdateNote)
			notes.DELETE("/:id", noteHandler.DeleteNote)
		}
	}
}
