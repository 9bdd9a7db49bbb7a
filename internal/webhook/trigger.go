// Package webhook notifies the upload automation flow that a new bill file
// is ready for processing.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	headTimeout = 10 * time.Second
	postTimeout = 15 * time.Second
)

var (
	ErrNotConfigured     = errors.New("webhook_not_configured")
	ErrInvalidFileURL    = errors.New("invalid_file_url")
	ErrFileNotAccessible = errors.New("file_not_accessible")
)

type Trigger struct {
	webhookURL string
	head       *http.Client
	post       *http.Client
	log        *zap.Logger
}

func New(webhookURL string, log *zap.Logger) *Trigger {
	return &Trigger{
		webhookURL: strings.TrimSpace(webhookURL),
		head:       &http.Client{Timeout: headTimeout},
		post:       &http.Client{Timeout: postTimeout},
		log:        log.Named("webhook.trigger"),
	}
}

type uploadPayload struct {
	FileURL  string `json:"file_url"`
	FileType string `json:"file_type"`
}

// Send checks that fileURL is reachable and posts the upload notification.
func (t *Trigger) Send(ctx context.Context, fileURL, fileType string) error {
	if t.webhookURL == "" {
		return ErrNotConfigured
	}
	if !strings.HasPrefix(fileURL, "http://") && !strings.HasPrefix(fileURL, "https://") {
		return ErrInvalidFileURL
	}

	headReq, err := http.NewRequestWithContext(ctx, http.MethodHead, fileURL, nil)
	if err != nil {
		return ErrInvalidFileURL
	}
	headResp, err := t.head.Do(headReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileNotAccessible, err)
	}
	_ = headResp.Body.Close()
	if headResp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrFileNotAccessible, headResp.StatusCode)
	}

	body, err := json.Marshal(uploadPayload{FileURL: fileURL, FileType: fileType})
	if err != nil {
		return err
	}

	postReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	postReq.Header.Set("Content-Type", "application/json")

	resp, err := t.post.Do(postReq)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()

	t.log.Info("upload webhook sent",
		zap.String("file_type", fileType),
		zap.Int("status", resp.StatusCode),
	)
	return nil
}

var Module = fx.Module("webhook",
	fx.Provide(NewFromConfig),
)
