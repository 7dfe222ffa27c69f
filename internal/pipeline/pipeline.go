package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"quiztube/internal/domain"
	"quiztube/internal/logger"

	"go.uber.org/zap"
)

// TranscriptCharBudget is the maximum number of transcript characters
// sent to the language model. Content beyond the budget is dropped,
// not summarized.
const TranscriptCharBudget = 10000

// VideoProber reports a video's duration in seconds.
type VideoProber interface {
	FetchDuration(ctx context.Context, videoURL string) (int, error)
}

// AudioFetcher downloads a video's audio track as WAV to destPath.
type AudioFetcher interface {
	FetchAudio(ctx context.Context, videoURL, destPath string) error
}

// Transcriber converts an audio file to plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// PromptCompleter sends a prompt to a language model and returns the
// raw completion text.
type PromptCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Pipeline turns a video URL into structured quiz data. Steps run
// strictly in sequence; a failure at any step aborts the run, and the
// workspace is removed on every exit path.
type Pipeline struct {
	validator   *URLValidator
	audio       AudioFetcher
	transcriber Transcriber
	completer   PromptCompleter
	workRoot    string
}

// Result is the outcome of a successful run.
type Result struct {
	Quiz         *domain.GeneratedQuiz
	CanonicalURL string
}

func New(prober VideoProber, audio AudioFetcher, transcriber Transcriber, completer PromptCompleter, workRoot string) *Pipeline {
	return &Pipeline{
		validator:   NewURLValidator(prober),
		audio:       audio,
		transcriber: transcriber,
		completer:   completer,
		workRoot:    workRoot,
	}
}

// Run executes the full pipeline for rawURL. On failure the returned
// error is tagged with the failing step; temporary files never survive
// the call either way.
func (p *Pipeline) Run(ctx context.Context, rawURL string) (*Result, error) {
	l := logger.Get()

	canonical, err := p.validator.Validate(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	l.Info("URL validated", zap.String("canonical_url", canonical))

	ws, err := NewWorkspace(p.workRoot)
	if err != nil {
		return nil, domain.NewInternalError("failed to prepare working directory", err)
	}
	defer func() {
		if cleanupErr := ws.Cleanup(); cleanupErr != nil {
			l.Warn("failed to clean up workspace", zap.String("dir", ws.Dir()), zap.Error(cleanupErr))
		}
	}()

	if err := p.audio.FetchAudio(ctx, canonical, ws.AudioPath()); err != nil {
		return nil, domain.NewAcquisitionError(err)
	}
	l.Info("audio downloaded", zap.String("path", ws.AudioPath()))

	transcript, err := p.transcriber.Transcribe(ctx, ws.AudioPath())
	if err != nil {
		return nil, domain.NewTranscriptionError(err)
	}
	if err := os.WriteFile(ws.TranscriptPath(), []byte(transcript), 0o644); err != nil {
		return nil, domain.NewTranscriptionError(err)
	}
	// The audio file is deleted as soon as the transcript exists, not
	// only at final cleanup.
	if err := ws.RemoveAudio(); err != nil {
		l.Warn("failed to remove audio file", zap.Error(err))
	}
	l.Info("audio transcribed", zap.Int("transcript_chars", len(transcript)))

	raw, err := p.generate(ctx, ws)
	if err != nil {
		return nil, err
	}

	candidate, err := NormalizeModelOutput(raw)
	if err != nil {
		return nil, domain.NewParseError(err)
	}

	var generated domain.GeneratedQuiz
	if err := json.Unmarshal([]byte(candidate), &generated); err != nil {
		return nil, domain.NewParseError(err)
	}
	l.Info("quiz generated", zap.String("title", generated.Title), zap.Int("questions", len(generated.Questions)))

	return &Result{Quiz: &generated, CanonicalURL: canonical}, nil
}

// generate reads the transcript, truncates it to the character budget,
// calls the language model and persists the raw response. JSON shape is
// not validated here.
func (p *Pipeline) generate(ctx context.Context, ws *Workspace) (string, error) {
	transcriptBytes, err := os.ReadFile(ws.TranscriptPath())
	if err != nil {
		return "", domain.NewGenerationError(err)
	}

	transcript := truncateRunes(string(transcriptBytes), TranscriptCharBudget)

	raw, err := p.completer.Complete(ctx, buildPrompt(transcript))
	if err != nil {
		return "", domain.NewGenerationError(err)
	}

	if err := os.WriteFile(ws.OutputPath(), []byte(raw), 0o644); err != nil {
		return "", domain.NewGenerationError(err)
	}
	return raw, nil
}

func buildPrompt(transcript string) string {
	return fmt.Sprintf(`You are a quiz generator. Create a multiple-choice quiz based on the following transcript.

Respond with ONLY a JSON object in the following format:
{
    "title": "quiz title here",
    "description": "one sentence description here",
    "questions": [
        {
            "question_title": "question text here",
            "question_options": ["option 1", "option 2", "option 3", "option 4"],
            "answer": "the correct option, repeated exactly"
        }
    ]
}

Rules:
1. Every question must have exactly 4 options
2. The answer must match one of the options exactly
3. Base all questions strictly on the transcript content
4. Do not wrap the JSON in markdown fences or add any other text

Transcript:
%s`, transcript)
}

func truncateRunes(s string, budget int) string {
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	return string(runes[:budget])
}
