package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const defaultBaseURL = "https://api.deepgram.com"

// Service transcribes audio through the Deepgram pre-recorded listen API.
type Service struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewService(apiKey, model string) *Service {
	return &Service{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
	}
}

// SetBaseURL points the service at a different API host. Used by tests.
func (s *Service) SetBaseURL(baseURL string) {
	s.baseURL = strings.TrimRight(baseURL, "/")
}

// TranscribeFile sends a WAV file to Deepgram with the configured acoustic
// model and smart formatting enabled, and returns the primary transcript
// alternative of the first recognized channel.
func (s *Service) TranscribeFile(ctx context.Context, audioPath string) (string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	url := fmt.Sprintf("%s/v1/listen?model=%s&smart_format=true", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, file)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Token "+s.apiKey)
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("deepgram API error: %s", string(respBody))
	}

	var result struct {
		Results struct {
			Channels []struct {
				Alternatives []struct {
					Transcript string `json:"transcript"`
				} `json:"alternatives"`
			} `json:"channels"`
		} `json:"results"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if len(result.Results.Channels) == 0 || len(result.Results.Channels[0].Alternatives) == 0 {
		return "", fmt.Errorf("no transcript returned")
	}
	return result.Results.Channels[0].Alternatives[0].Transcript, nil
}
