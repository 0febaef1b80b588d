package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	notesdomain "notetube-backend/internal/notes/domain"
)

// gormNoteRepository implements NoteRepository on gorm.
type gormNoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &gormNoteRepository{db: db}
}

func (r *gormNoteRepository) Create(note *notesdomain.Note) error {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	note.CreatedAt = time.Now()
	note.UpdatedAt = time.Now()
	return r.db.Create(note).Error
}

func (r *gormNoteRepository) FindByID(id string) (*notesdomain.Note, error) {
	var note notesdomain.Note
	err := r.db.Where("id = ?", id).First(&note).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &note, nil
}

func (r *gormNoteRepository) FindByUserAndURL(userID, sourceURL string) (*notesdomain.Note, error) {
	var note notesdomain.Note
	err := r.db.Where("user_id = ? AND source_url = ?", userID, sourceURL).First(&note).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &note, nil
}

func (r *gormNoteRepository) FindByUser(userID string, search string, limit, offset int) ([]*notesdomain.Note, int64, error) {
	var notes []*notesdomain.Note
	var total int64

	query := r.db.Model(&notesdomain.Note{}).Where("user_id = ?", userID)
	if search = strings.TrimSpace(search); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(video_title) LIKE ? OR LOWER(channel_name) LIKE ? OR LOWER(summary) LIKE ?",
			term, term, term,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&notes).Error
	return notes, total, err
}

func (r *gormNoteRepository) Update(note *notesdomain.Note) error {
	note.UpdatedAt = time.Now()
	return r.db.Save(note).Error
}

func (r *gormNoteRepository) Delete(id string) error {
	return r.db.Delete(&notesdomain.Note{}, "id = ?", id).Error
}
