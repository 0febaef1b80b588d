package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authUsecase "notetube-backend/internal/auth/usecase"
	notesDelivery "notetube-backend/internal/notes/delivery"
	notesRepo "notetube-backend/internal/notes/repository"
	notesUsecasePkg "notetube-backend/internal/notes/usecase"
	"notetube-backend/pkg/config"
	"notetube-backend/pkg/deepgram"
	"notetube-backend/pkg/gemini"
	"notetube-backend/pkg/youtube"
)

type Handler struct {
	authUsecase authUsecase.AuthUsecase
	noteUsecase notesUsecasePkg.NoteUsecase
	config      *config.Config
	noteHandler *notesDelivery.NoteHandler
	log         *zap.SugaredLogger
}

func NewHandler(authUc authUsecase.AuthUsecase, noteRepository notesRepo.NoteRepository, cfg *config.Config, log *zap.SugaredLogger) *Handler {
	// Audio transcription fallback, used when a video has no caption track
	var transcriber youtube.AudioTranscriber
	if cfg.DeepgramAPIKey != "" {
		transcriber = deepgram.NewService(cfg.DeepgramAPIKey, cfg.DeepgramModel)
	} else {
		log.Warn("DEEPGRAM_API_KEY not set, videos without captions cannot be transcribed")
	}

	youtubeClient := youtube.NewClient(cfg.YtDlpPath, cfg.FFmpegPath, cfg.TempAudioDir, transcriber, log)
	geminiService := gemini.NewService(cfg.GeminiAPIKey, cfg.GeminiModel, log)

	noteUc := notesUsecasePkg.NewNoteUsecase(noteRepository, youtubeClient, geminiService, log)
	noteHandler := notesDelivery.NewNoteHandler(noteUc)

	return &Handler{
		authUsecase: authUc,
		noteUsecase: noteUc,
		config:      cfg,
		noteHandler: noteHandler,
		log:         log,
	}
}

func (h *Handler) Start(addr string) error {
	if h.config.Mode == "release" || h.config.Mode == "prod" || h.config.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.noteHandler)

	return r.Run(addr)
}
