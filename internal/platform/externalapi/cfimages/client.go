package cfimages

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"myshop_backend/internal/platform/externalapi/cfimages/dto"
	"myshop_backend/internal/shared/apperr"
)

// ErrNotConfigured is returned when the account id or API token is missing.
var ErrNotConfigured = apperr.New(apperr.KindConfiguration, "Image uploads are not configured.")

// Upload is a one-time direct upload slot.
type Upload struct {
	ImageID   string
	UploadURL string
}

// Client requests direct upload slots from the image service.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	return &Client{cfg: cfg, client: client}
}

// CreateDirectUpload asks for an upload slot tagged with metadata.
func (c *Client) CreateDirectUpload(ctx context.Context, metadata map[string]string) (Upload, error) {
	if !c.cfg.UploadsConfigured() {
		return Upload{}, ErrNotConfigured
	}

	if metadata == nil {
		metadata = map[string]string{}
	}
	meta, err := json.Marshal(metadata)
	if err != nil {
		return Upload{}, err
	}

	// multipart/form-data with a single "metadata" field
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("metadata", string(meta)); err != nil {
		return Upload{}, err
	}
	if err := form.Close(); err != nil {
		return Upload{}, err
	}

	u := fmt.Sprintf("%s/%s/images/v2/direct_upload", strings.TrimRight(c.cfg.APIBase, "/"), c.cfg.AccountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &body)
	if err != nil {
		return Upload{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("Content-Type", form.FormDataContentType())

	res, err := c.client.Do(req)
	if err != nil {
		return Upload{}, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		text, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return Upload{}, fmt.Errorf("images API error: %d %s", res.StatusCode, strings.TrimSpace(string(text)))
	}

	var out dto.DirectUploadResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return Upload{}, fmt.Errorf("decode direct upload response: %w", err)
	}
	if !out.Success || out.Result == nil || out.Result.UploadURL == "" {
		return Upload{}, fmt.Errorf("failed to get direct upload URL")
	}

	return Upload{ImageID: out.Result.ID, UploadURL: out.Result.UploadURL}, nil
}
