// Package transcript turns a video URL into plain text using yt-dlp
// for audio extraction and the OpenAI transcription API for speech to
// text.
package transcript

import "context"

// Transcriber produces a transcript for a video URL
type Transcriber interface {
	Transcribe(ctx context.Context, videoURL string) (string, error)
}
