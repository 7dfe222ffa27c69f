package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"quiztube/internal/util"
)

// Fixed artifact names inside one run's workspace.
const (
	audioFileName      = "audio_track.wav"
	transcriptFileName = "transcript.txt"
	outputFileName     = "quiz_output.txt"
)

// Workspace is the working directory for a single pipeline run. Each
// run gets its own ULID-named directory under the configured root, so
// concurrent runs never share artifact paths.
type Workspace struct {
	dir string
}

func NewWorkspace(root string) (*Workspace, error) {
	dir := filepath.Join(root, util.NewULID())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create workspace %s: %w", dir, err)
	}
	return &Workspace{dir: dir}, nil
}

func (w *Workspace) Dir() string {
	return w.dir
}

func (w *Workspace) AudioPath() string {
	return filepath.Join(w.dir, audioFileName)
}

func (w *Workspace) TranscriptPath() string {
	return filepath.Join(w.dir, transcriptFileName)
}

func (w *Workspace) OutputPath() string {
	return filepath.Join(w.dir, outputFileName)
}

// RemoveAudio deletes the audio artifact. A missing file counts as
// already clean.
func (w *Workspace) RemoveAudio() error {
	if err := os.Remove(w.AudioPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Cleanup removes the whole workspace. It is safe to call on every
// exit path; a directory that is already gone is not an error.
func (w *Workspace) Cleanup() error {
	if err := os.RemoveAll(w.dir); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
