package pipeline

import (
	"context"
	"errors"
	"os"
	"testing"

	"quiztube/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAudioFetcher struct {
	mock.Mock
}

func (m *MockAudioFetcher) FetchAudio(ctx context.Context, videoURL, destPath string) error {
	args := m.Called(ctx, videoURL, destPath)
	return args.Error(0)
}

type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	args := m.Called(ctx, audioPath)
	return args.String(0), args.Error(1)
}

type MockPromptCompleter struct {
	mock.Mock
}

func (m *MockPromptCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

const modelOutput = "```json\n" + `{
    "title": "Gopher Habits",
    "description": "A quiz about gopher behavior.",
    "questions": [
        {
            "question_title": "Where do gophers live?",
            "question_options": ["Underground", "In trees", "In rivers", "On cliffs"],
            "answer": "Underground"
        }
    ]
}` + "\n```"

func workRootEntries(t *testing.T, root string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	return entries
}

func TestPipeline_Run_Success(t *testing.T) {
	const canonical = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	workRoot := t.TempDir()

	prober := new(MockVideoProber)
	prober.On("FetchDuration", mock.Anything, canonical).Return(300, nil)

	audio := new(MockAudioFetcher)
	audio.On("FetchAudio", mock.Anything, canonical, mock.Anything).
		Run(func(args mock.Arguments) {
			require.NoError(t, os.WriteFile(args.String(2), []byte("RIFF"), 0o644))
		}).
		Return(nil)

	transcriber := new(MockTranscriber)
	transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("Gophers live underground.", nil)

	audioGoneBeforeGeneration := false
	completer := new(MockPromptCompleter)
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return len(prompt) > 0
	})).
		Run(func(args mock.Arguments) {
			// The audio file must already be gone once the model runs.
			audioPath := audio.Calls[0].Arguments.String(2)
			_, statErr := os.Stat(audioPath)
			audioGoneBeforeGeneration = os.IsNotExist(statErr)
		}).
		Return(modelOutput, nil)

	p := New(prober, audio, transcriber, completer, workRoot)
	result, err := p.Run(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, canonical, result.CanonicalURL)
	assert.Equal(t, "Gopher Habits", result.Quiz.Title)
	require.Len(t, result.Quiz.Questions, 1)
	assert.Len(t, result.Quiz.Questions[0].Options, 4)
	assert.Equal(t, "Underground", result.Quiz.Questions[0].Answer)

	assert.True(t, audioGoneBeforeGeneration, "audio file should be removed before generation")
	assert.Empty(t, workRootEntries(t, workRoot), "workspace should be removed after a successful run")
}

func TestPipeline_Run_TranscriptionFailureCleansUp(t *testing.T) {
	workRoot := t.TempDir()

	prober := new(MockVideoProber)
	prober.On("FetchDuration", mock.Anything, mock.Anything).Return(300, nil)

	audio := new(MockAudioFetcher)
	audio.On("FetchAudio", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	transcriber := new(MockTranscriber)
	transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("", errors.New("model file missing"))

	completer := new(MockPromptCompleter)

	p := New(prober, audio, transcriber, completer, workRoot)
	_, err := p.Run(context.Background(), "https://youtu.be/dQw4w9WgXcQ")

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeTranscription, domainErr.Code)
	assert.Contains(t, domainErr.Error(), "Whisper transcription failed")

	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	assert.Empty(t, workRootEntries(t, workRoot), "workspace should be removed after a failed run")
}

func TestPipeline_Run_AcquisitionFailure(t *testing.T) {
	workRoot := t.TempDir()

	prober := new(MockVideoProber)
	prober.On("FetchDuration", mock.Anything, mock.Anything).Return(300, nil)

	audio := new(MockAudioFetcher)
	audio.On("FetchAudio", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("HTTP 403"))

	p := New(prober, audio, new(MockTranscriber), new(MockPromptCompleter), workRoot)
	_, err := p.Run(context.Background(), "https://youtu.be/dQw4w9WgXcQ")

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeAcquisition, domainErr.Code)
	assert.Contains(t, domainErr.Error(), "Audio download failed")
	assert.Empty(t, workRootEntries(t, workRoot))
}

func TestPipeline_Run_UnparseableModelOutput(t *testing.T) {
	workRoot := t.TempDir()

	prober := new(MockVideoProber)
	prober.On("FetchDuration", mock.Anything, mock.Anything).Return(300, nil)

	audio := new(MockAudioFetcher)
	audio.On("FetchAudio", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	transcriber := new(MockTranscriber)
	transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("some transcript", nil)

	completer := new(MockPromptCompleter)
	completer.On("Complete", mock.Anything, mock.Anything).Return("I am unable to produce a quiz for this video.", nil)

	p := New(prober, audio, transcriber, completer, workRoot)
	_, err := p.Run(context.Background(), "https://youtu.be/dQw4w9WgXcQ")

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeParse, domainErr.Code)
	assert.Empty(t, workRootEntries(t, workRoot))
}

func TestPipeline_Run_InvalidURLCreatesNoWorkspace(t *testing.T) {
	workRoot := t.TempDir()

	p := New(new(MockVideoProber), new(MockAudioFetcher), new(MockTranscriber), new(MockPromptCompleter), workRoot)
	_, err := p.Run(context.Background(), "https://vimeo.com/12345")

	var validationErrs domain.ValidationErrors
	require.True(t, errors.As(err, &validationErrs))
	assert.Empty(t, workRootEntries(t, workRoot))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 10))
	assert.Equal(t, "abc", truncateRunes("abcdef", 3))
	// Truncation counts runes, not bytes.
	assert.Equal(t, "안녕", truncateRunes("안녕하세요", 2))
}
