package ytdlp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeStub installs a fake yt-dlp executable for the test.
func writeStub(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestFetchDuration(t *testing.T) {
	bin := writeStub(t, `echo '{"id": "dQw4w9WgXcQ", "duration": 300.5}'`)
	client := New(bin)

	seconds, err := client.FetchDuration(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")

	require.NoError(t, err)
	assert.Equal(t, 300, seconds)
}

func TestFetchDuration_MissingDuration(t *testing.T) {
	// Live streams and premieres carry no duration field.
	bin := writeStub(t, `echo '{"id": "dQw4w9WgXcQ", "is_live": true}'`)
	client := New(bin)

	_, err := client.FetchDuration(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")

	assert.ErrorContains(t, err, "no duration")
}

func TestFetchDuration_CommandFailure(t *testing.T) {
	bin := writeStub(t, "echo 'ERROR: Video unavailable' >&2\nexit 1")
	client := New(bin)

	_, err := client.FetchDuration(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")

	assert.ErrorContains(t, err, "Video unavailable")
}

func TestFetchDuration_GarbageOutput(t *testing.T) {
	bin := writeStub(t, `echo 'not json'`)
	client := New(bin)

	_, err := client.FetchDuration(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")

	assert.ErrorContains(t, err, "failed to parse")
}

func TestFetchAudio_WritesDestPath(t *testing.T) {
	// The stub mimics yt-dlp's postprocessor appending .wav to the
	// output template.
	bin := writeStub(t, `
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out="$2"; fi
  shift
done
echo RIFF > "$out.wav"
`)
	client := New(bin)

	destPath := filepath.Join(t.TempDir(), "audio_track.wav")
	err := client.FetchAudio(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ", destPath)

	require.NoError(t, err)
	_, statErr := os.Stat(destPath)
	assert.NoError(t, statErr, "audio must land exactly at destPath")
}

func TestFetchAudio_CommandFailure(t *testing.T) {
	bin := writeStub(t, "echo 'ERROR: HTTP Error 403' >&2\nexit 1")
	client := New(bin)

	err := client.FetchAudio(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ", filepath.Join(t.TempDir(), "audio_track.wav"))

	assert.ErrorContains(t, err, "HTTP Error 403")
}

func TestNew_DefaultBinary(t *testing.T) {
	assert.Equal(t, "yt-dlp", New("").binPath)
	assert.Equal(t, "/opt/yt-dlp", New("/opt/yt-dlp").binPath)
}
