package deepgram

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempAudio(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.wav")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestTranscribeFile(t *testing.T) {
	audio := []byte("RIFF fake wav bytes")

	var gotAuth, gotContentType, gotModel, gotSmartFormat string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotModel = r.URL.Query().Get("model")
		gotSmartFormat = r.URL.Query().Get("smart_format")
		gotBody, _ = io.ReadAll(r.Body)

		w.Write([]byte(`{"results":{"channels":[{"alternatives":[{"transcript":"hello from the video"}]}]}}`))
	}))
	defer server.Close()

	service := NewService("secret-key", "nova-2")
	service.SetBaseURL(server.URL)

	transcript, err := service.TranscribeFile(context.Background(), writeTempAudio(t, audio))
	require.NoError(t, err)

	assert.Equal(t, "hello from the video", transcript)
	assert.Equal(t, "Token secret-key", gotAuth)
	assert.Equal(t, "audio/wav", gotContentType)
	assert.Equal(t, "nova-2", gotModel)
	assert.Equal(t, "true", gotSmartFormat)
	assert.Equal(t, audio, gotBody)
}

func TestTranscribeFileAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"err_msg":"invalid credentials"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	service := NewService("bad-key", "nova-2")
	service.SetBaseURL(server.URL)

	_, err := service.TranscribeFile(context.Background(), writeTempAudio(t, []byte("audio")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deepgram API error")
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestTranscribeFileEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":{"channels":[]}}`))
	}))
	defer server.Close()

	service := NewService("secret-key", "nova-2")
	service.SetBaseURL(server.URL)

	_, err := service.TranscribeFile(context.Background(), writeTempAudio(t, []byte("audio")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no transcript returned")
}

func TestTranscribeFileMissingFile(t *testing.T) {
	service := NewService("secret-key", "nova-2")
	_, err := service.TranscribeFile(context.Background(), filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}
