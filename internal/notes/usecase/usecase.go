package usecase

import (
	"context"

	notesdto "notetube-backend/internal/notes/dto"
	"notetube-backend/pkg/gemini"
	"notetube-backend/pkg/youtube"
)

// TranscriptAcquirer resolves a video URL into a transcript plus metadata.
type TranscriptAcquirer interface {
	FetchTranscript(ctx context.Context, url string) (*youtube.TranscriptResult, error)
}

// NoteGenerator turns a transcript into a validated structured note.
type NoteGenerator interface {
	GenerateNote(ctx context.Context, transcript, videoURL, videoTitle, channelName string) (*gemini.GeneratedNote, error)
}

type NoteUsecase interface {
	CreateNote(ctx context.Context, userID, sourceURL string) (*notesdto.NoteResponse, error)
	GetNoteByID(userID, noteID string) (*notesdto.NoteResponse, error)
	ListNotes(userID string, currentPage, pageSize int, search string) (*notesdto.NotePage, error)
	UpdateNote(userID, noteID string, req *notesdto.UpdateNoteRequest) (*notesdto.NoteResponse, error)
	DeleteNote(userID, noteID string) error
}
