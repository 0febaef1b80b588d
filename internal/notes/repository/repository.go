package repository

import notesdomain "notetube-backend/internal/notes/domain"

// NoteRepository is the persistence boundary for notes. Lookups return
// (nil, nil) when the row does not exist.
type NoteRepository interface {
	Create(note *notesdomain.Note) error
	FindByID(id string) (*notesdomain.Note, error)
	FindByUserAndURL(userID, sourceURL string) (*notesdomain.Note, error)
	// FindByUser returns one page of the user's notes, newest first, with the
	// total match count. search filters on title, channel and summary.
	FindByUser(userID string, search string, limit, offset int) ([]*notesdomain.Note, int64, error)
	Update(note *notesdomain.Note) error
	Delete(id string) error
}
