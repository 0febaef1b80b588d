package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"notetube-backend/pkg/apperr"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Quote is a verbatim quotation with its timestamp.
type Quote struct {
	Quote string `json:"quote"`
	Time  string `json:"time"`
}

// TimestampEntry points at an important moment in the video.
type TimestampEntry struct {
	Time        string `json:"time"`
	Description string `json:"description"`
}

// GeneratedNote is the model output after parsing, coercion and validation.
type GeneratedNote struct {
	VideoTitle        string           `json:"video_title"`
	ChannelName       string           `json:"channel_name"`
	Language          string           `json:"language"`
	Summary           string           `json:"summary"`
	ShortSummary      string           `json:"short_summary"`
	KeyPoints         []string         `json:"key_points"`
	ImportantQuotes   []Quote          `json:"important_quotes"`
	Timestamps        []TimestampEntry `json:"timestamps"`
	NotesForReviewers string           `json:"notes_for_reviewers"`
}

// Service generates structured video notes through the Gemini REST API.
type Service struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

func NewService(apiKey, model string, log *zap.SugaredLogger) *Service {
	return &Service{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
		log:        log,
	}
}

// SetBaseURL points the service at a different API host. Used by tests.
func (s *Service) SetBaseURL(baseURL string) {
	s.baseURL = strings.TrimRight(baseURL, "/")
}

// GenerateNote builds the prompt, invokes the model and turns its answer into
// a validated GeneratedNote. A response that fails to parse as JSON is
// replaced with a deterministic fallback object; a response missing required
// fields fails with a validation error naming every missing field.
func (s *Service) GenerateNote(ctx context.Context, transcript, videoURL, videoTitle, channelName string) (*GeneratedNote, error) {
	prompt := buildPrompt(
		escapeBraces(transcript),
		escapeBraces(videoURL),
		escapeBraces(videoTitle),
		escapeBraces(channelName),
	)

	raw, err := s.generateContent(ctx, prompt)
	if err != nil {
		return nil, apperr.Upstream("failed to generate note with AI", err)
	}

	text := stripCodeFence(strings.TrimSpace(raw))
	note := s.parseResponse(text, videoTitle, channelName)

	if missing := MissingRequiredFields(note); len(missing) > 0 {
		return nil, apperr.Validation("failed to generate complete note, missing required fields", missing)
	}

	s.log.Infow("generated note", "video_title", note.VideoTitle, "key_points", len(note.KeyPoints), "timestamps", len(note.Timestamps))
	return note, nil
}

func (s *Service) generateContent(ctx context.Context, prompt string) (string, error) {
	url := s.baseURL + "/v1beta/models/" + s.model + ":generateContent?key=" + s.apiKey

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API error: %s", string(respBody))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned")
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}

// rawNote keeps the list fields raw so a wrongly typed value can be narrowed
// to an empty slice instead of failing the whole unmarshal.
type rawNote struct {
	VideoTitle        string          `json:"video_title"`
	ChannelName       string          `json:"channel_name"`
	Language          string          `json:"language"`
	Summary           string          `json:"summary"`
	ShortSummary      string          `json:"short_summary"`
	KeyPoints         json.RawMessage `json:"key_points"`
	ImportantQuotes   json.RawMessage `json:"important_quotes"`
	Timestamps        json.RawMessage `json:"timestamps"`
	NotesForReviewers string          `json:"notes_for_reviewers"`
}

func (s *Service) parseResponse(text, videoTitle, channelName string) *GeneratedNote {
	var raw rawNote
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		s.log.Errorw("failed to parse model response as JSON", "error", err)
		s.log.Errorw("offending response text", "text", truncate(text, 500))
		return fallbackNote(text, videoTitle, channelName)
	}

	note := &GeneratedNote{
		VideoTitle:        raw.VideoTitle,
		ChannelName:       raw.ChannelName,
		Language:          raw.Language,
		Summary:           raw.Summary,
		ShortSummary:      raw.ShortSummary,
		KeyPoints:         coerceList[string](raw.KeyPoints),
		ImportantQuotes:   coerceList[Quote](raw.ImportantQuotes),
		Timestamps:        coerceList[TimestampEntry](raw.Timestamps),
		NotesForReviewers: raw.NotesForReviewers,
	}
	if note.VideoTitle == "" {
		note.VideoTitle = videoTitle
	}
	if note.ChannelName == "" {
		note.ChannelName = channelName
	}
	return note
}

// fallbackNote is substituted when the model output is not valid JSON, so the
// pipeline always has a structurally valid object to validate next.
func fallbackNote(text, videoTitle, channelName string) *GeneratedNote {
	return &GeneratedNote{
		VideoTitle:  videoTitle,
		ChannelName: channelName,
		Summary:     truncate(text, 1000),
		KeyPoints:   []string{"Key point extracted from video"},
		Timestamps: []TimestampEntry{
			{Time: "00:00", Description: "Video content extracted (parsing failed, using fallback)"},
		},
	}
}

// coerceList narrows a raw JSON value to a list of T, or an empty slice when
// the value is absent, malformed or not a list.
func coerceList[T any](raw json.RawMessage) []T {
	if len(raw) == 0 {
		return []T{}
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return []T{}
	}
	return items
}

// MissingRequiredFields reports every required field of a generated note that
// is empty or blank. An empty result means the note is safe to persist.
func MissingRequiredFields(n *GeneratedNote) []string {
	var missing []string
	if strings.TrimSpace(n.VideoTitle) == "" {
		missing = append(missing, "video_title")
	}
	if strings.TrimSpace(n.ChannelName) == "" {
		missing = append(missing, "channel_name")
	}
	if strings.TrimSpace(n.Summary) == "" {
		missing = append(missing, "summary")
	}
	if len(n.KeyPoints) == 0 {
		missing = append(missing, "key_points")
	}
	if len(n.Timestamps) == 0 {
		missing = append(missing, "timestamps")
	}
	return missing
}

// escapeBraces doubles literal braces so user-supplied text cannot read as
// part of the JSON schema embedded in the prompt.
func escapeBraces(s string) string {
	s = strings.ReplaceAll(s, "{", "{{")
	return strings.ReplaceAll(s, "}", "}}")
}

// stripCodeFence removes a surrounding fenced code block by literal
// prefix/suffix check, without full markdown parsing.
func stripCodeFence(text string) string {
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-len("```")]
	}
	return strings.TrimSpace(text)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
