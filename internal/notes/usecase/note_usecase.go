package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	notesdomain "notetube-backend/internal/notes/domain"
	notesdto "notetube-backend/internal/notes/dto"
	"notetube-backend/internal/notes/repository"
	"notetube-backend/pkg/apperr"
	"notetube-backend/pkg/gemini"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// noteUsecase orchestrates the note pipeline and the plain CRUD operations.
type noteUsecase struct {
	noteRepo  repository.NoteRepository
	acquirer  TranscriptAcquirer
	generator NoteGenerator
	log       *zap.SugaredLogger
}

func NewNoteUsecase(noteRepo repository.NoteRepository, acquirer TranscriptAcquirer, generator NoteGenerator, log *zap.SugaredLogger) NoteUsecase {
	return &noteUsecase{
		noteRepo:  noteRepo,
		acquirer:  acquirer,
		generator: generator,
		log:       log,
	}
}

// CreateNote runs the pipeline: check existing, acquire transcript, generate,
// validate, persist. An existing note for the same (user, URL) short-circuits
// everything and is returned as-is, so resubmission is a cheap idempotent
// read that leaves updated_at untouched.
func (u *noteUsecase) CreateNote(ctx context.Context, userID, sourceURL string) (*notesdto.NoteResponse, error) {
	existing, err := u.noteRepo.FindByUserAndURL(userID, sourceURL)
	if err != nil {
		return nil, apperr.Ensure(err, "failed to look up existing note")
	}
	if existing != nil {
		u.log.Infow("note already exists, returning existing", "note_id", existing.ID, "source_url", sourceURL)
		return notesdto.ToNoteResponse(existing), nil
	}

	u.log.Infow("fetching transcript", "source_url", sourceURL)
	transcript, err := u.acquirer.FetchTranscript(ctx, sourceURL)
	if err != nil {
		return nil, apperr.Ensure(err, "failed to acquire transcript")
	}
	if strings.TrimSpace(transcript.Text) == "" {
		return nil, apperr.NotFound("no captions/subtitles available for this video, please choose a video with captions")
	}

	u.log.Infow("generating note content", "source_url", sourceURL)
	generated, err := u.generator.GenerateNote(ctx, transcript.Text, sourceURL, transcript.Title, transcript.ChannelName)
	if err != nil {
		return nil, apperr.Ensure(err, "failed to generate note")
	}

	// Defense in depth: the generator validated already, check again before
	// constructing the row.
	if missing := gemini.MissingRequiredFields(generated); len(missing) > 0 {
		return nil, apperr.Validation("cannot create note, missing required fields", missing)
	}

	keyPoints, err := json.Marshal(generated.KeyPoints)
	if err != nil {
		return nil, apperr.Upstream("failed to serialize key points", err)
	}
	timestamps, err := json.Marshal(generated.Timestamps)
	if err != nil {
		return nil, apperr.Upstream("failed to serialize timestamps", err)
	}

	note := &notesdomain.Note{
		UserID:          userID,
		SourceURL:       sourceURL,
		VideoTitle:      generated.VideoTitle,
		ChannelName:     generated.ChannelName,
		Summary:         generated.Summary,
		KeyPoints:       string(keyPoints),
		Timestamps:      string(timestamps),
		DurationSeconds: transcript.DurationSeconds,
		ThumbnailURL:    transcript.ThumbnailURL,
		Views:           transcript.Views,
		Likes:           transcript.Likes,
		PublishDate:     transcript.PublishDate,
	}
	if err := u.noteRepo.Create(note); err != nil {
		return nil, apperr.Ensure(err, "failed to save note")
	}

	u.log.Infow("created note", "note_id", note.ID, "user_id", userID)
	return notesdto.ToNoteResponse(note), nil
}

func (u *noteUsecase) GetNoteByID(userID, noteID string) (*notesdto.NoteResponse, error) {
	note, err := u.getOwnedNote(userID, noteID)
	if err != nil {
		return nil, err
	}
	return notesdto.ToNoteResponse(note), nil
}

func (u *noteUsecase) ListNotes(userID string, currentPage, pageSize int, search string) (*notesdto.NotePage, error) {
	if currentPage < 1 {
		currentPage = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	// First count to clamp the page, then fetch the page itself.
	_, total, err := u.noteRepo.FindByUser(userID, search, 0, 0)
	if err != nil {
		return nil, apperr.Ensure(err, "failed to list notes")
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}

	notes, _, err := u.noteRepo.FindByUser(userID, search, pageSize, (currentPage-1)*pageSize)
	if err != nil {
		return nil, apperr.Ensure(err, "failed to list notes")
	}

	responses := make([]*notesdto.NoteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, notesdto.ToNoteResponse(note))
	}

	return &notesdto.NotePage{
		Notes:       responses,
		TotalNotes:  total,
		TotalPages:  totalPages,
		CurrentPage: currentPage,
		PageSize:    pageSize,
	}, nil
}

func (u *noteUsecase) UpdateNote(userID, noteID string, req *notesdto.UpdateNoteRequest) (*notesdto.NoteResponse, error) {
	note, err := u.getOwnedNote(userID, noteID)
	if err != nil {
		return nil, err
	}

	if req.VideoTitle != nil {
		note.VideoTitle = *req.VideoTitle
	}
	if req.ChannelName != nil {
		note.ChannelName = *req.ChannelName
	}
	if req.Summary != nil {
		note.Summary = *req.Summary
	}
	if req.KeyPoints != nil {
		encoded, err := json.Marshal(*req.KeyPoints)
		if err != nil {
			return nil, apperr.Invalid("invalid key points")
		}
		note.KeyPoints = string(encoded)
	}
	if req.Timestamps != nil {
		encoded, err := json.Marshal(*req.Timestamps)
		if err != nil {
			return nil, apperr.Invalid("invalid timestamps")
		}
		note.Timestamps = string(encoded)
	}
	if req.DurationSeconds != nil {
		note.DurationSeconds = *req.DurationSeconds
	}
	if req.ThumbnailURL != nil {
		note.ThumbnailURL = *req.ThumbnailURL
	}
	if req.Views != nil {
		note.Views = *req.Views
	}
	if req.Likes != nil {
		note.Likes = *req.Likes
	}
	if req.PublishDate != nil {
		note.PublishDate = req.PublishDate
	}

	if err := u.noteRepo.Update(note); err != nil {
		return nil, apperr.Ensure(err, "failed to update note")
	}

	u.log.Infow("updated note", "note_id", note.ID)
	return notesdto.ToNoteResponse(note), nil
}

func (u *noteUsecase) DeleteNote(userID, noteID string) error {
	note, err := u.getOwnedNote(userID, noteID)
	if err != nil {
		return err
	}
	if err := u.noteRepo.Delete(note.ID); err != nil {
		return apperr.Ensure(err, "failed to delete note")
	}
	u.log.Infow("deleted note", "note_id", note.ID)
	return nil
}

// getOwnedNote fetches a note and enforces ownership: 404 when it does not
// exist, 403 when it belongs to somebody else.
func (u *noteUsecase) getOwnedNote(userID, noteID string) (*notesdomain.Note, error) {
	note, err := u.noteRepo.FindByID(noteID)
	if err != nil {
		return nil, apperr.Ensure(err, "failed to look up note")
	}
	if note == nil {
		return nil, apperr.NotFound("note not found")
	}
	if note.UserID != userID {
		return nil, apperr.Forbidden("you don't have permission to access this note")
	}
	return note, nil
}
