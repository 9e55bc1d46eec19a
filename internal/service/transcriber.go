package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"clinical-data-api/config"

	"github.com/sirupsen/logrus"
)

// ErrTranscriptionFailed is returned when the speech-to-text service
// cannot produce a transcript. There is no retry; the failure is terminal
// for the request.
var ErrTranscriptionFailed = errors.New("transcription failed")

// Transcriber converts a stored audio file into text. The implementation is
// an opaque external capability; callers only rely on "text or failure".
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// httpTranscriber posts audio to a Whisper-compatible transcription service.
type httpTranscriber struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

func NewHTTPTranscriber(cfg config.TranscriberConfig, log *logrus.Logger) Transcriber {
	return &httpTranscriber{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

func (t *httpTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		t.log.Warnf("Failed to open audio file %s: %+v", audioPath, err)
		return "", fmt.Errorf("open audio %s: %w", audioPath, err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("audio_file", filepath.Base(audioPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := t.client.Do(req)
	if err != nil {
		t.log.Warnf("Transcription request failed for %s: %+v", audioPath, err)
		return "", fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.log.Warnf("Transcription service returned status %d for %s", resp.StatusCode, audioPath)
		return "", fmt.Errorf("%w: status %d", ErrTranscriptionFailed, resp.StatusCode)
	}

	var result transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}
	if result.Text == "" {
		return "", ErrTranscriptionFailed
	}

	return result.Text, nil
}
