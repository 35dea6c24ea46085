// internal/api/upload.go
//
// Multipart upload to the cloudinary proxy. The backend answers with the
// hosted URL the mutations expect as pdfUrl.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
)

type uploadResponse struct {
	PDFURL string `json:"pdfUrl"`
}

// Upload posts the attached file and returns the hosted pdfUrl. Any
// failure comes back as an UploadError so the caller can tell the upload
// step apart from the mutation that follows it.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	correlation := uuid.NewString()
	c.logger.Info("api · upload %s (%d bytes) [%s]", filename, len(data), correlation)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("files", filename)
	if err != nil {
		return "", &UploadError{Err: err}
	}
	if _, err := part.Write(data); err != nil {
		return "", &UploadError{Err: err}
	}
	if err := writer.Close(); err != nil {
		return "", &UploadError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.endpoints.Upload, &body)
	if err != nil {
		return "", &UploadError{Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("api · upload failed [%s]: %v", correlation, err)
		return "", &UploadError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("api · upload returned status %d [%s]", resp.StatusCode, correlation)
		return "", &UploadError{Err: fmt.Errorf("backend returned status %d", resp.StatusCode)}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UploadError{Err: fmt.Errorf("read response: %w", err)}
	}
	var parsed uploadResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", &UploadError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if parsed.PDFURL == "" {
		return "", &UploadError{Err: fmt.Errorf("response missing pdfUrl")}
	}
	c.logger.Info("api · upload ok → %s [%s]", parsed.PDFURL, correlation)
	return parsed.PDFURL, nil
}
