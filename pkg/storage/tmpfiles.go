package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"
)

// tmpfilesResponse is the body returned by the tmpfiles upload API:
// {"status":"success","data":{"url":"http://tmpfiles.org/8499799/abc123.pdf"}}
type tmpfilesResponse struct {
	Status string `json:"status"`
	Data   struct {
		URL string `json:"url"`
	} `json:"data"`
}

// TmpfilesUploader posts artifacts to a tmpfiles-compatible upload endpoint.
type TmpfilesUploader struct {
	uploadURL    string
	downloadBase string
	client       *http.Client
}

// NewTmpfilesUploader creates an uploader. A nil client gets a 60s timeout.
func NewTmpfilesUploader(uploadURL, downloadBase string, client *http.Client) *TmpfilesUploader {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &TmpfilesUploader{uploadURL: uploadURL, downloadBase: downloadBase, client: client}
}

func (u *TmpfilesUploader) Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := form.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("%w: build form: %v", ErrUpload, err)
	}
	if _, err := io.Copy(part, body); err != nil {
		return "", fmt.Errorf("%w: read artifact: %v", ErrUpload, err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("%w: build form: %v", ErrUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, &buf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUpload, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: provider returned %d: %s", ErrUpload, resp.StatusCode, bytes.TrimSpace(raw))
	}

	var out tmpfilesResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: response is not JSON: %v", ErrLocatorFormat, err)
	}
	if out.Data.URL == "" {
		return "", fmt.Errorf("%w: response has no data.url", ErrLocatorFormat)
	}
	return out.Data.URL, nil
}

func (u *TmpfilesUploader) Resolve(locator string) (string, error) {
	return ResolveDownloadURL(u.downloadBase, locator)
}
