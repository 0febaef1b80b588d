package youtube

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"notetube-backend/pkg/apperr"
)

// transcribeAudio is the fallback path when a video has no caption tracks:
// download the best audio-only stream, normalize it to 16 kHz mono WAV, and
// send it to the speech-to-text service. Intermediate files are scratch
// state, removed as soon as they are no longer needed on success and failure
// paths alike.
func (c *Client) transcribeAudio(ctx context.Context, url string, meta *videoMetadata) (string, error) {
	if c.transcriber == nil {
		return "", apperr.Upstream("failed to get subtitle from audio", errNoTranscriber)
	}

	if err := os.MkdirAll(c.tempDir, 0o755); err != nil {
		return "", apperr.Upstream("failed to prepare audio scratch directory", err)
	}

	base := scratchBaseName(url, meta)
	containerPath := filepath.Join(c.tempDir, base+".m4a")
	wavPath := filepath.Join(c.tempDir, base+".wav")

	_, err := c.runner.Run(ctx, c.ytDlpPath,
		"-f", "bestaudio[ext=m4a]/bestaudio",
		"--no-playlist",
		"--no-warnings",
		"-o", containerPath,
		url,
	)
	if err != nil {
		_ = os.Remove(containerPath)
		return "", apperr.Upstream("failed to download audio from video", err)
	}

	_, err = c.runner.Run(ctx, c.ffmpegPath,
		"-y",
		"-i", containerPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		wavPath,
	)
	// The original container is done with either way.
	_ = os.Remove(containerPath)
	if err != nil {
		_ = os.Remove(wavPath)
		return "", apperr.Upstream("failed to transcode audio", err)
	}

	transcript, err := c.transcriber.TranscribeFile(ctx, wavPath)
	_ = os.Remove(wavPath)
	if err != nil {
		return "", apperr.Upstream("failed to convert audio to text", err)
	}
	return transcript, nil
}

// scratchBaseName names scratch files from the source: the video id when
// known, otherwise the final URL segment.
func scratchBaseName(url string, meta *videoMetadata) string {
	if meta.ID != "" {
		return meta.ID
	}
	if i := strings.LastIndex(url, "="); i >= 0 && i < len(url)-1 {
		return url[i+1:]
	}
	return filepath.Base(url)
}

var errNoTranscriber = errors.New("no audio transcriber configured")
