package dto

import (
	"encoding/json"
	"strings"
	"time"

	notesdomain "notetube-backend/internal/notes/domain"
	"notetube-backend/pkg/gemini"
)

var videoDomains = []string{"youtube.com", "youtu.be", "www.youtube.com", "m.youtube.com"}

type CreateNoteRequest struct {
	SourceURL string `json:"source_url" binding:"required"`
}

// Validate checks that the submitted link points at the video platform.
func (r *CreateNoteRequest) Validate() bool {
	url := strings.ToLower(strings.TrimSpace(r.SourceURL))
	if url == "" {
		return false
	}
	for _, domain := range videoDomains {
		if strings.Contains(url, domain) {
			return true
		}
	}
	return false
}

// UpdateNoteRequest allows a partial update of any generated field.
type UpdateNoteRequest struct {
	VideoTitle      *string                  `json:"video_title"`
	ChannelName     *string                  `json:"channel_name"`
	Summary         *string                  `json:"summary"`
	KeyPoints       *[]string                `json:"key_points"`
	Timestamps      *[]gemini.TimestampEntry `json:"timestamps"`
	DurationSeconds *int                     `json:"duration_seconds"`
	ThumbnailURL    *string                  `json:"thumbnail_url"`
	Views           *int64                   `json:"views"`
	Likes           *int64                   `json:"likes"`
	PublishDate     *time.Time               `json:"publish_date"`
}

type NoteResponse struct {
	ID              string                  `json:"id"`
	UserID          string                  `json:"user_id"`
	SourceURL       string                  `json:"source_url"`
	VideoTitle      string                  `json:"video_title"`
	ChannelName     string                  `json:"channel_name"`
	Summary         string                  `json:"summary"`
	KeyPoints       []string                `json:"key_points"`
	Timestamps      []gemini.TimestampEntry `json:"timestamps"`
	DurationSeconds int                     `json:"duration_seconds"`
	ThumbnailURL    string                  `json:"thumbnail_url"`
	Views           int64                   `json:"views"`
	Likes           int64                   `json:"likes"`
	PublishDate     *time.Time              `json:"publish_date"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

type NotePage struct {
	Notes       []*NoteResponse `json:"notes"`
	TotalNotes  int64           `json:"total_notes"`
	TotalPages  int             `json:"total_pages"`
	CurrentPage int             `json:"current_page"`
	PageSize    int             `json:"page_size"`
}

// ToNoteResponse maps a persisted note to its API shape, decoding the
// serialized list columns. Corrupt stored JSON degrades to empty lists so
// the response type contract always holds.
func ToNoteResponse(note *notesdomain.Note) *NoteResponse {
	return &NoteResponse{
		ID:              note.ID,
		UserID:          note.UserID,
		SourceURL:       note.SourceURL,
		VideoTitle:      note.VideoTitle,
		ChannelName:     note.ChannelName,
		Summary:         note.Summary,
		KeyPoints:       decodeList[string](note.KeyPoints),
		Timestamps:      decodeList[gemini.TimestampEntry](note.Timestamps),
		DurationSeconds: note.DurationSeconds,
		ThumbnailURL:    note.ThumbnailURL,
		Views:           note.Views,
		Likes:           note.Likes,
		PublishDate:     note.PublishDate,
		CreatedAt:       note.CreatedAt,
		UpdatedAt:       note.UpdatedAt,
	}
}

func decodeList[T any](stored string) []T {
	if stored == "" {
		return []T{}
	}
	var items []T
	if err := json.Unmarshal([]byte(stored), &items); err != nil || items == nil {
		return []T{}
	}
	return items
}
