package transcript

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	openai "github.com/sashabaranov/go-openai"
)

// Config holds transcription settings
type Config struct {
	APIKey string
	Model  string // transcription model, defaults to whisper-1
	Binary string // audio downloader binary, defaults to yt-dlp
}

// YouTubeTranscriber downloads the audio track of a video with yt-dlp
// and sends it to the OpenAI transcription endpoint.
type YouTubeTranscriber struct {
	client *openai.Client
	model  string
	binary string
	log    *slog.Logger
}

// NewYouTubeTranscriber creates a transcriber from the given config
func NewYouTubeTranscriber(cfg Config, log *slog.Logger) (*YouTubeTranscriber, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("transcription API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = openai.Whisper1
	}
	if cfg.Binary == "" {
		cfg.Binary = "yt-dlp"
	}
	if log == nil {
		log = slog.Default()
	}

	return &YouTubeTranscriber{
		client: openai.NewClient(cfg.APIKey),
		model:  cfg.Model,
		binary: cfg.Binary,
		log:    log,
	}, nil
}

// Transcribe downloads the audio of videoURL and returns its transcript
func (t *YouTubeTranscriber) Transcribe(ctx context.Context, videoURL string) (string, error) {
	if videoURL == "" {
		return "", fmt.Errorf("video URL is required")
	}

	dir, err := os.MkdirTemp("", "factlens-audio-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	audioPath, err := t.downloadAudio(ctx, videoURL, dir)
	if err != nil {
		return "", err
	}

	t.log.Debug("audio downloaded", "url", videoURL, "file", filepath.Base(audioPath))

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
	})
	if err != nil {
		return "", fmt.Errorf("transcription API error: %w", err)
	}
	if resp.Text == "" {
		return "", fmt.Errorf("transcription returned no text for %s", videoURL)
	}

	return resp.Text, nil
}

// downloadAudio runs yt-dlp and returns the path of the audio file.
// The extension depends on what the source serves, so the output is
// globbed rather than assumed.
func (t *YouTubeTranscriber) downloadAudio(ctx context.Context, videoURL, dir string) (string, error) {
	outTemplate := filepath.Join(dir, "audio.%(ext)s")

	cmd := exec.CommandContext(ctx, t.binary,
		"-f", "bestaudio",
		"-o", outTemplate,
		videoURL,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("%s failed: %w: %s", t.binary, err, string(out))
	}

	matches, err := filepath.Glob(filepath.Join(dir, "audio.*"))
	if err != nil {
		return "", fmt.Errorf("locate audio file: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%s produced no audio file for %s", t.binary, videoURL)
	}

	return matches[0], nil
}
