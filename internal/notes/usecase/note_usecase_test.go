package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	notesdomain "notetube-backend/internal/notes/domain"
	notesdto "notetube-backend/internal/notes/dto"
	"notetube-backend/pkg/apperr"
	"notetube-backend/pkg/gemini"
	"notetube-backend/pkg/youtube"
)

type fakeNoteRepo struct {
	notes     []*notesdomain.Note
	createErr error
}

func (f *fakeNoteRepo) Create(note *notesdomain.Note) error {
	if f.createErr != nil {
		return f.createErr
	}
	note.ID = fmt.Sprintf("note-%d", len(f.notes)+1)
	note.CreatedAt = time.Now()
	note.UpdatedAt = note.CreatedAt
	f.notes = append(f.notes, note)
	return nil
}

func (f *fakeNoteRepo) FindByID(id string) (*notesdomain.Note, error) {
	for _, n := range f.notes {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, nil
}

func (f *fakeNoteRepo) FindByUserAndURL(userID, sourceURL string) (*notesdomain.Note, error) {
	for _, n := range f.notes {
		if n.UserID == userID && n.SourceURL == sourceURL {
			return n, nil
		}
	}
	return nil, nil
}

func (f *fakeNoteRepo) FindByUser(userID, search string, limit, offset int) ([]*notesdomain.Note, int64, error) {
	var matched []*notesdomain.Note
	term := strings.ToLower(strings.TrimSpace(search))
	// newest first, mirroring the created_at ordering of the real repository
	for i := len(f.notes) - 1; i >= 0; i-- {
		n := f.notes[i]
		if n.UserID != userID {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(n.VideoTitle), term) &&
			!strings.Contains(strings.ToLower(n.ChannelName), term) &&
			!strings.Contains(strings.ToLower(n.Summary), term) {
			continue
		}
		matched = append(matched, n)
	}

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (f *fakeNoteRepo) Update(note *notesdomain.Note) error {
	note.UpdatedAt = time.Now()
	return nil
}

func (f *fakeNoteRepo) Delete(id string) error {
	for i, n := range f.notes {
		if n.ID == id {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeAcquirer struct {
	result *youtube.TranscriptResult
	err    error
	calls  int
}

func (f *fakeAcquirer) FetchTranscript(ctx context.Context, url string) (*youtube.TranscriptResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeGenerator struct {
	note          *gemini.GeneratedNote
	err           error
	calls         int
	gotTranscript string
	gotTitle      string
	gotChannel    string
}

func (f *fakeGenerator) GenerateNote(ctx context.Context, transcript, videoURL, videoTitle, channelName string) (*gemini.GeneratedNote, error) {
	f.calls++
	f.gotTranscript = transcript
	f.gotTitle = videoTitle
	f.gotChannel = channelName
	return f.note, f.err
}

func completeGeneratedNote() *gemini.GeneratedNote {
	return &gemini.GeneratedNote{
		VideoTitle:  "Generated Title",
		ChannelName: "Generated Channel",
		Summary:     "A thorough summary.",
		KeyPoints:   []string{"first point", "second point"},
		Timestamps:  []gemini.TimestampEntry{{Time: "00:00", Description: "Intro"}},
	}
}

func publishDate() *time.Time {
	d := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &d
}

func transcriptResult() *youtube.TranscriptResult {
	return &youtube.TranscriptResult{
		Text:            "the spoken words",
		Title:           "Fetched Title",
		ChannelName:     "Fetched Channel",
		DurationSeconds: 300,
		ThumbnailURL:    "https://img.example/t.jpg",
		Views:           1000,
		Likes:           50,
		PublishDate:     publishDate(),
	}
}

func newTestUsecase(repo *fakeNoteRepo, acquirer *fakeAcquirer, generator *fakeGenerator) NoteUsecase {
	return NewNoteUsecase(repo, acquirer, generator, zap.NewNop().Sugar())
}

func TestCreateNote(t *testing.T) {
	repo := &fakeNoteRepo{}
	acquirer := &fakeAcquirer{result: transcriptResult()}
	generator := &fakeGenerator{note: completeGeneratedNote()}
	uc := newTestUsecase(repo, acquirer, generator)

	note, err := uc.CreateNote(context.Background(), "user-1", "https://youtu.be/abc")
	require.NoError(t, err)

	// generator got the transcript and the fetched metadata
	assert.Equal(t, "the spoken words", generator.gotTranscript)
	assert.Equal(t, "Fetched Title", generator.gotTitle)
	assert.Equal(t, "Fetched Channel", generator.gotChannel)

	assert.Equal(t, "user-1", note.UserID)
	assert.Equal(t, "https://youtu.be/abc", note.SourceURL)
	assert.Equal(t, "Generated Title", note.VideoTitle)
	assert.Equal(t, "Generated Channel", note.ChannelName)
	assert.Equal(t, []string{"first point", "second point"}, note.KeyPoints)
	require.Len(t, note.Timestamps, 1)
	assert.Equal(t, "00:00", note.Timestamps[0].Time)
	assert.Equal(t, 300, note.DurationSeconds)
	assert.Equal(t, int64(1000), note.Views)
	assert.Equal(t, int64(50), note.Likes)
	require.NotNil(t, note.PublishDate)

	// persisted row carries the lists serialized as JSON
	require.Len(t, repo.notes, 1)
	assert.JSONEq(t, `["first point","second point"]`, repo.notes[0].KeyPoints)
	assert.JSONEq(t, `[{"time":"00:00","description":"Intro"}]`, repo.notes[0].Timestamps)
}

func TestCreateNoteIdempotent(t *testing.T) {
	repo := &fakeNoteRepo{}
	acquirer := &fakeAcquirer{result: transcriptResult()}
	generator := &fakeGenerator{note: completeGeneratedNote()}
	uc := newTestUsecase(repo, acquirer, generator)

	first, err := uc.CreateNote(context.Background(), "user-1", "https://youtu.be/abc")
	require.NoError(t, err)
	firstUpdatedAt := first.UpdatedAt

	second, err := uc.CreateNote(context.Background(), "user-1", "https://youtu.be/abc")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, firstUpdatedAt, second.UpdatedAt)
	assert.Len(t, repo.notes, 1)

	// the second submission never touched the pipeline
	assert.Equal(t, 1, acquirer.calls)
	assert.Equal(t, 1, generator.calls)

	// a different user gets their own note for the same video
	third, err := uc.CreateNote(context.Background(), "user-2", "https://youtu.be/abc")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
	assert.Len(t, repo.notes, 2)
}

func TestCreateNoteEmptyTranscript(t *testing.T) {
	result := transcriptResult()
	result.Text = "   \n  "
	repo := &fakeNoteRepo{}
	generator := &fakeGenerator{note: completeGeneratedNote()}
	uc := newTestUsecase(repo, &fakeAcquirer{result: result}, generator)

	_, err := uc.CreateNote(context.Background(), "user-1", "https://youtu.be/abc")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "no captions/subtitles available")
	assert.Zero(t, generator.calls)
	assert.Empty(t, repo.notes)
}

func TestCreateNoteAcquirerFailure(t *testing.T) {
	repo := &fakeNoteRepo{}
	uc := newTestUsecase(repo, &fakeAcquirer{err: errors.New("yt-dlp exploded")}, &fakeGenerator{})

	_, err := uc.CreateNote(context.Background(), "user-1", "https://youtu.be/abc")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "failed to acquire transcript")
	assert.Empty(t, repo.notes)
}

func TestCreateNoteGeneratorValidationFailure(t *testing.T) {
	repo := &fakeNoteRepo{}
	generator := &fakeGenerator{err: apperr.Validation("failed to generate complete note, missing required fields", []string{"key_points"})}
	uc := newTestUsecase(repo, &fakeAcquirer{result: transcriptResult()}, generator)

	_, err := uc.CreateNote(context.Background(), "user-1", "https://youtu.be/abc")
	require.Error(t, err)
	// validation errors keep their kind through the pipeline
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "key_points")
	assert.Empty(t, repo.notes)
}

func TestCreateNoteIncompleteGeneratedNote(t *testing.T) {
	incomplete := completeGeneratedNote()
	incomplete.Timestamps = nil
	repo := &fakeNoteRepo{}
	uc := newTestUsecase(repo, &fakeAcquirer{result: transcriptResult()}, &fakeGenerator{note: incomplete})

	_, err := uc.CreateNote(context.Background(), "user-1", "https://youtu.be/abc")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "timestamps")
	assert.Empty(t, repo.notes)
}

func TestGetNoteByID(t *testing.T) {
	repo := &fakeNoteRepo{}
	uc := newTestUsecase(repo, &fakeAcquirer{result: transcriptResult()}, &fakeGenerator{note: completeGeneratedNote()})

	created, err := uc.CreateNote(context.Background(), "user-1", "https://youtu.be/abc")
	require.NoError(t, err)

	note, err := uc.GetNoteByID("user-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, note.ID)

	_, err = uc.GetNoteByID("user-1", "nope")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = uc.GetNoteByID("user-2", created.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestListNotes(t *testing.T) {
	repo := &fakeNoteRepo{}
	for i := 0; i < 25; i++ {
		repo.notes = append(repo.notes, &notesdomain.Note{
			ID:         fmt.Sprintf("note-%d", i+1),
			UserID:     "user-1",
			SourceURL:  fmt.Sprintf("https://youtu.be/v%d", i+1),
			VideoTitle: fmt.Sprintf("Video %d", i+1),
		})
	}
	repo.notes = append(repo.notes, &notesdomain.Note{
		ID: "other", UserID: "user-2", SourceURL: "https://youtu.be/other", VideoTitle: "Other",
	})
	uc := newTestUsecase(repo, &fakeAcquirer{}, &fakeGenerator{})

	page, err := uc.ListNotes("user-1", 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(25), page.TotalNotes)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Notes, 10)
	// newest first
	assert.Equal(t, "note-25", page.Notes[0].ID)

	// a page past the end clamps to the last page
	page, err = uc.ListNotes("user-1", 99, 10, "")
	require.NoError(t, err)
	assert.Equal(t, 3, page.CurrentPage)
	assert.Len(t, page.Notes, 5)

	// zero and oversized page sizes normalize
	page, err = uc.ListNotes("user-1", 0, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, 1, page.CurrentPage)

	page, err = uc.ListNotes("user-1", 1, 500, "")
	require.NoError(t, err)
	assert.Equal(t, 100, page.PageSize)
	assert.Len(t, page.Notes, 25)
}

func TestListNotesSearch(t *testing.T) {
	repo := &fakeNoteRepo{notes: []*notesdomain.Note{
		{ID: "a", UserID: "user-1", VideoTitle: "Learning Go", ChannelName: "Tech"},
		{ID: "b", UserID: "user-1", VideoTitle: "Cooking pasta", ChannelName: "Kitchen"},
		{ID: "c", UserID: "user-1", VideoTitle: "History", ChannelName: "Docs", Summary: "go and chess origins"},
	}}
	uc := newTestUsecase(repo, &fakeAcquirer{}, &fakeGenerator{})

	page, err := uc.ListNotes("user-1", 1, 10, "GO")
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalNotes)
	assert.Len(t, page.Notes, 2)

	page, err = uc.ListNotes("user-1", 1, 10, "nothing matches this")
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.TotalNotes)
	assert.Equal(t, 1, page.TotalPages)
	assert.Empty(t, page.Notes)
}

func TestUpdateNote(t *testing.T) {
	repo := &fakeNoteRepo{}
	uc := newTestUsecase(repo, &fakeAcquirer{result: transcriptResult()}, &fakeGenerator{note: completeGeneratedNote()})

	created, err := uc.CreateNote(context.Background(), "user-1", "https://youtu.be/abc")
	require.NoError(t, err)

	newSummary := "An edited summary."
	newPoints := []string{"only point"}
	updated, err := uc.UpdateNote("user-1", created.ID, &notesdto.UpdateNoteRequest{
		Summary:   &newSummary,
		KeyPoints: &newPoints,
	})
	require.NoError(t, err)

	assert.Equal(t, "An edited summary.", updated.Summary)
	assert.Equal(t, []string{"only point"}, updated.KeyPoints)
	// untouched fields survive a partial update
	assert.Equal(t, "Generated Title", updated.VideoTitle)
	assert.Equal(t, created.Timestamps, updated.Timestamps)

	_, err = uc.UpdateNote("user-2", created.ID, &notesdto.UpdateNoteRequest{Summary: &newSummary})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = uc.UpdateNote("user-1", "missing", &notesdto.UpdateNoteRequest{Summary: &newSummary})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteNote(t *testing.T) {
	repo := &fakeNoteRepo{}
	uc := newTestUsecase(repo, &fakeAcquirer{result: transcriptResult()}, &fakeGenerator{note: completeGeneratedNote()})

	created, err := uc.CreateNote(context.Background(), "user-1", "https://youtu.be/abc")
	require.NoError(t, err)

	err = uc.DeleteNote("user-2", created.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Len(t, repo.notes, 1)

	require.NoError(t, uc.DeleteNote("user-1", created.ID))
	assert.Empty(t, repo.notes)

	err = uc.DeleteNote("user-1", created.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
