package domain

import "time"

// Note is a persisted AI-generated note for one video, owned by exactly one
// user. KeyPoints and Timestamps are stored as JSON text. The unique index on
// (user_id, source_url) backs the orchestrator's idempotency pre-check so two
// near-simultaneous first submissions cannot both insert.
type Note struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	UserID          string     `json:"user_id" gorm:"index;not null;uniqueIndex:idx_notes_user_source"`
	SourceURL       string     `json:"source_url" gorm:"not null;uniqueIndex:idx_notes_user_source"`
	VideoTitle      string     `json:"video_title" gorm:"size:500"`
	ChannelName     string     `json:"channel_name" gorm:"size:200"`
	Summary         string     `json:"summary" gorm:"type:text"`
	KeyPoints       string     `json:"-" gorm:"type:text"`
	Timestamps      string     `json:"-" gorm:"type:text"`
	DurationSeconds int        `json:"duration_seconds"`
	ThumbnailURL    string     `json:"thumbnail_url" gorm:"size:500"`
	Views           int64      `json:"views"`
	Likes           int64      `json:"likes"`
	PublishDate     *time.Time `json:"publish_date"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
