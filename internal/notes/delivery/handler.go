package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	notesdto "notetube-backend/internal/notes/dto"
	"notetube-backend/internal/notes/usecase"
	"notetube-backend/pkg/apperr"
)

// NoteHandler handles note-related HTTP requests
type NoteHandler struct {
	noteUsecase usecase.NoteUsecase
}

func NewNoteHandler(noteUsecase usecase.NoteUsecase) *NoteHandler {
	return &NoteHandler{noteUsecase: noteUsecase}
}

// CreateNote runs the full pipeline for a submitted video URL
// POST /api/notes
func (h *NoteHandler) CreateNote(c *gin.Context) {
	userID := c.GetString("userID")

	var req notesdto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Validate() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video URL, must be a valid YouTube link"})
		return
	}

	note, err := h.noteUsecase.CreateNote(c.Request.Context(), userID, req.SourceURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

// GetNotes returns a page of the user's notes with optional search
// GET /api/notes?current_page=1&page_size=10&search=...
func (h *NoteHandler) GetNotes(c *gin.Context) {
	userID := c.GetString("userID")

	currentPage, _ := strconv.Atoi(c.DefaultQuery("current_page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	search := c.Query("search")

	page, err := h.noteUsecase.ListNotes(userID, currentPage, pageSize, search)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetNoteByID returns a specific note
// GET /api/notes/:id
func (h *NoteHandler) GetNoteByID(c *gin.Context) {
	userID := c.GetString("userID")
	noteID := c.Param("id")

	note, err := h.noteUsecase.GetNoteByID(userID, noteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// UpdateNote partially updates a note's generated fields
// PUT /api/notes/:id
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	userID := c.GetString("userID")
	noteID := c.Param("id")

	var req notesdto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := h.noteUsecase.UpdateNote(userID, noteID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// DeleteNote deletes a note permanently
// DELETE /api/notes/:id
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	userID := c.GetString("userID")
	noteID := c.Param("id")

	if err := h.noteUsecase.DeleteNote(userID, noteID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "note deleted successfully"})
}

// respondError maps an error kind to an HTTP status. Messages are
// human-readable details; internals never leak.
func respondError(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperr.KindForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case apperr.KindUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case apperr.KindInvalid:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
