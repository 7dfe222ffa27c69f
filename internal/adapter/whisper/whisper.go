// Package whisper wraps the whisper command line tool for local
// speech-to-text transcription.
package whisper

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"quiztube/internal/logger"

	"go.uber.org/zap"
)

// Client shells out to the whisper CLI. It implements
// pipeline.Transcriber.
type Client struct {
	binPath string
	model   string
}

func New(binPath, model string) *Client {
	if binPath == "" {
		binPath = "whisper"
	}
	if model == "" {
		model = "small"
	}
	return &Client{binPath: binPath, model: model}
}

// Transcribe runs whisper on the audio file and returns the plain-text
// transcript. Whisper writes its txt output next to the audio file;
// that intermediate file is consumed and removed here.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	outDir := filepath.Dir(audioPath)

	cmd := exec.CommandContext(ctx, c.binPath,
		audioPath,
		"--model", c.model,
		"--device", "cpu",
		"--output_format", "txt",
		"--output_dir", outDir,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logger.Get().Error("whisper transcription failed",
			zap.String("audio", audioPath),
			zap.String("stderr", strings.TrimSpace(stderr.String())),
			zap.Error(err))
		return "", fmt.Errorf("whisper failed: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	txtPath := filepath.Join(outDir, base+".txt")

	transcript, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("whisper produced no transcript: %w", err)
	}
	// Intermediate whisper output; the pipeline owns the canonical
	// transcript file.
	_ = os.Remove(txtPath)

	return strings.TrimSpace(string(transcript)), nil
}
