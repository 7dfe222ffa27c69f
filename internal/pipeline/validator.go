package pipeline

import (
	"context"
	"net/url"
	"strings"

	"quiztube/internal/domain"
)

// MaxVideoDurationSeconds is the longest video the pipeline accepts.
const MaxVideoDurationSeconds = 15 * 60

var allowedHosts = map[string]struct{}{
	"www.youtube.com": {},
	"youtube.com":     {},
	"m.youtube.com":   {},
	"youtu.be":        {},
}

// URLValidator checks a submitted video URL and canonicalizes it.
// Canonicalization is idempotent: re-validating a canonical URL yields
// the same canonical URL.
type URLValidator struct {
	prober VideoProber
}

func NewURLValidator(prober VideoProber) *URLValidator {
	return &URLValidator{prober: prober}
}

// Validate returns the canonical form of rawURL or a field-level
// validation error. The duration probe only runs once the URL itself
// has passed the domain and video-ID checks.
func (v *URLValidator) Validate(ctx context.Context, rawURL string) (string, error) {
	if rawURL == "" {
		return "", urlError("URL cannot be empty.")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", urlError("Invalid YouTube URL domain.")
	}

	if _, ok := allowedHosts[parsed.Host]; !ok {
		return "", urlError("Invalid YouTube URL domain.")
	}

	videoID := extractVideoID(parsed)
	if videoID == "" {
		return "", urlError("No video ID found in URL.")
	}

	canonical := buildCanonicalURL(videoID)

	seconds, err := v.prober.FetchDuration(ctx, canonical)
	if err != nil {
		return "", urlError("The length of the video could not be read.")
	}
	if seconds > MaxVideoDurationSeconds {
		return "", urlError("Video is longer than 15 minutes.")
	}

	return canonical, nil
}

// extractVideoID pulls the video identifier out of a parsed URL. Short
// links carry the ID as the path; full links carry it in the v query
// parameter.
func extractVideoID(parsed *url.URL) string {
	if parsed.Host == "youtu.be" {
		id := strings.TrimPrefix(parsed.Path, "/")
		if idx := strings.IndexByte(id, '/'); idx >= 0 {
			id = id[:idx]
		}
		return id
	}
	return parsed.Query().Get("v")
}

// buildCanonicalURL normalizes every accepted input form to a single
// representation carrying only the video identifier.
func buildCanonicalURL(videoID string) string {
	u := url.URL{
		Scheme:   "https",
		Host:     "www.youtube.com",
		Path:     "/watch",
		RawQuery: url.Values{"v": {videoID}}.Encode(),
	}
	return u.String()
}

func urlError(message string) error {
	return domain.ValidationErrors{domain.NewValidationError("url", message)}
}
