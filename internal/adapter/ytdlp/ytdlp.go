// Package ytdlp wraps the yt-dlp command line tool for video metadata
// lookups and audio extraction.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"quiztube/internal/logger"

	"go.uber.org/zap"
)

// Client shells out to yt-dlp. It implements both pipeline.VideoProber
// and pipeline.AudioFetcher.
type Client struct {
	binPath string
}

func New(binPath string) *Client {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &Client{binPath: binPath}
}

// FetchDuration queries video metadata without downloading and returns
// the duration in seconds. A missing duration field is an error: some
// live or premiere entries carry none.
func (c *Client) FetchDuration(ctx context.Context, videoURL string) (int, error) {
	cmd := exec.CommandContext(ctx, c.binPath,
		"--dump-json",
		"--no-download",
		"--quiet",
		"--no-warnings",
		videoURL,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("yt-dlp metadata lookup failed: %w: %s", err, firstLine(stderr.String()))
	}

	var info struct {
		Duration *float64 `json:"duration"`
	}
	if err := json.Unmarshal(output, &info); err != nil {
		return 0, fmt.Errorf("failed to parse yt-dlp metadata: %w", err)
	}
	if info.Duration == nil {
		return 0, fmt.Errorf("video metadata carries no duration")
	}

	return int(*info.Duration), nil
}

// FetchAudio downloads the best available audio track and transcodes
// it to WAV at destPath.
func (c *Client) FetchAudio(ctx context.Context, videoURL, destPath string) error {
	// yt-dlp appends the extension chosen by the postprocessor, so the
	// output template is destPath without its .wav suffix.
	outputTemplate := strings.TrimSuffix(destPath, ".wav")

	cmd := exec.CommandContext(ctx, c.binPath,
		"--format", "bestaudio/best",
		"--extract-audio",
		"--audio-format", "wav",
		"--audio-quality", "0",
		"--no-playlist",
		"--quiet",
		"--no-warnings",
		"-o", outputTemplate,
		videoURL,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logger.Get().Error("yt-dlp audio extraction failed",
			zap.String("url", videoURL),
			zap.String("stderr", stderr.String()),
			zap.Error(err))
		return fmt.Errorf("yt-dlp audio extraction failed: %w: %s", err, firstLine(stderr.String()))
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
