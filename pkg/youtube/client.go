package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"

	"notetube-backend/pkg/apperr"
)

// captionFetchTimeout bounds the HTTP fetch of a caption track.
const captionFetchTimeout = 10 * time.Second

// AudioTranscriber converts a local audio file into plain text.
type AudioTranscriber interface {
	TranscribeFile(ctx context.Context, audioPath string) (string, error)
}

// TranscriptResult is the outcome of one acquisition call: the transcript
// plus the video metadata it was derived from. It is consumed immediately by
// the note generator and never persisted as-is.
type TranscriptResult struct {
	Text            string
	Title           string
	ChannelName     string
	DurationSeconds int
	ThumbnailURL    string
	Views           int64
	Likes           int64
	PublishDate     *time.Time
}

// Client acquires transcripts for videos: caption tracks when the platform
// has them, audio transcription otherwise.
type Client struct {
	ytDlpPath   string
	ffmpegPath  string
	tempDir     string
	runner      CommandRunner
	httpClient  *http.Client
	transcriber AudioTranscriber
	log         *zap.SugaredLogger
}

func NewClient(ytDlpPath, ffmpegPath, tempDir string, transcriber AudioTranscriber, log *zap.SugaredLogger) *Client {
	return &Client{
		ytDlpPath:   ytDlpPath,
		ffmpegPath:  ffmpegPath,
		tempDir:     tempDir,
		runner:      NewExecRunner(),
		httpClient:  &http.Client{Timeout: captionFetchTimeout},
		transcriber: transcriber,
		log:         log,
	}
}

// SetRunner substitutes the external-binary runner. Used by tests.
func (c *Client) SetRunner(runner CommandRunner) {
	c.runner = runner
}

type captionFormat struct {
	URL string `json:"url"`
	Ext string `json:"ext"`
}

type videoMetadata struct {
	ID                string                     `json:"id"`
	Title             string                     `json:"title"`
	Channel           string                     `json:"channel"`
	Uploader          string                     `json:"uploader"`
	Duration          float64                    `json:"duration"`
	Thumbnail         string                     `json:"thumbnail"`
	ViewCount         int64                      `json:"view_count"`
	LikeCount         int64                      `json:"like_count"`
	UploadDate        string                     `json:"upload_date"`
	Subtitles         map[string][]captionFormat `json:"subtitles"`
	AutomaticCaptions map[string][]captionFormat `json:"automatic_captions"`
}

func (m *videoMetadata) channelName() string {
	if m.Channel != "" {
		return m.Channel
	}
	return m.Uploader
}

// FetchTranscript acquires a transcript and metadata for the video at url.
// Acquisition is all-or-nothing: any failure surfaces as a single upstream
// error carrying the underlying cause, never a partial result.
func (c *Client) FetchTranscript(ctx context.Context, url string) (*TranscriptResult, error) {
	meta, err := c.fetchMetadata(ctx, url)
	if err != nil {
		return nil, apperr.Upstream("failed to fetch video metadata", err)
	}

	var text string
	if track, ok := firstCaptionTrack(meta); ok {
		c.log.Infow("fetching caption track", "video_id", meta.ID)
		markup, err := c.fetchCaptionMarkup(ctx, track.URL)
		if err != nil {
			return nil, apperr.Upstream("failed to fetch caption track", err)
		}
		text = ExtractCaptionText(markup)
	} else {
		c.log.Infow("no caption tracks, transcribing audio", "video_id", meta.ID)
		text, err = c.transcribeAudio(ctx, url, meta)
		if err != nil {
			return nil, err
		}
	}

	return &TranscriptResult{
		Text:            text,
		Title:           meta.Title,
		ChannelName:     meta.channelName(),
		DurationSeconds: int(meta.Duration),
		ThumbnailURL:    meta.Thumbnail,
		Views:           meta.ViewCount,
		Likes:           meta.LikeCount,
		PublishDate:     parseUploadDate(meta.UploadDate),
	}, nil
}

func (c *Client) fetchMetadata(ctx context.Context, url string) (*videoMetadata, error) {
	output, err := c.runner.Run(ctx, c.ytDlpPath,
		"--dump-json",
		"--no-download",
		"--no-playlist",
		"--no-warnings",
		url,
	)
	if err != nil {
		return nil, err
	}

	var meta videoMetadata
	if err := json.Unmarshal(output, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}
	return &meta, nil
}

// firstCaptionTrack picks the first available caption track with no language
// preference. Manual subtitle tracks come before automatic ones; within the
// track map the language keys are sorted so the pick is stable per video.
// The srv1 format carries the <text> timed-text markup the parser expects.
func firstCaptionTrack(meta *videoMetadata) (captionFormat, bool) {
	for _, tracks := range []map[string][]captionFormat{meta.Subtitles, meta.AutomaticCaptions} {
		if len(tracks) == 0 {
			continue
		}
		langs := make([]string, 0, len(tracks))
		for lang := range tracks {
			langs = append(langs, lang)
		}
		sort.Strings(langs)

		formats := tracks[langs[0]]
		if len(formats) == 0 {
			continue
		}
		for _, preferred := range []string{"srv1", "ttml"} {
			for _, f := range formats {
				if f.Ext == preferred {
					return f, true
				}
			}
		}
		return formats[0], true
	}
	return captionFormat{}, false
}

func (c *Client) fetchCaptionMarkup(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Referer", "https://www.youtube.com/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("caption fetch returned status %d", resp.StatusCode)
	}
	return string(body), nil
}

// parseUploadDate parses yt-dlp's YYYYMMDD upload date.
func parseUploadDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("20060102", s)
	if err != nil {
		return nil
	}
	return &t
}
