package transform

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vishkar/confluence-gateway/internal/apperr"
	"github.com/vishkar/confluence-gateway/internal/confluence"
	"github.com/vishkar/confluence-gateway/internal/markup"
)

const defaultImageWidth = 800

// EmbedExistingAttachment appends an inline image reference to an already
// uploaded attachment. The reference resolves by filename at render time, so
// attachments sharing a filename on one page are ambiguous. width defaults
// to 800, position to inline.
func (e *Engine) EmbedExistingAttachment(ctx context.Context, pageID, attachmentName string, width int, position string) (*confluence.Content, error) {
	if attachmentName == "" {
		return nil, apperr.New(apperr.KindValidation, "attachmentName required")
	}
	if width <= 0 {
		width = defaultImageWidth
	}

	embed, err := markup.WrapPosition(markup.AttachmentImage(attachmentName, width), position)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "invalid position")
	}

	page, err := e.readPage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	return e.writePage(ctx, page, page.Body.Storage.Value+"\n\n"+embed)
}

// FileData is inline attachment content supplied with the request.
type FileData struct {
	Name     string
	Data     []byte
	MimeType string
}

// UploadInput describes an upload_and_embed request. Exactly one of File and
// FileURL must be set.
type UploadInput struct {
	PageID   string
	File     *FileData
	FileURL  string
	Filename string
	Comment  string
	Width    int
	Position string
}

// UploadResult is the caller-visible outcome of UploadAndEmbed.
type UploadResult struct {
	Success      bool   `json:"success"`
	AttachmentID string `json:"attachmentId"`
	Filename     string `json:"filename"`
	Message      string `json:"message"`
}

// UploadAndEmbed uploads an attachment from inline bytes or a remote URL and
// embeds it into the page. When the source URL is a staged blob it is
// deleted after a successful embed, and deletion is also attempted on every
// failure path; cleanup failures are logged and never override the primary
// outcome.
func (e *Engine) UploadAndEmbed(ctx context.Context, in UploadInput) (*UploadResult, error) {
	var (
		data      []byte
		filename  string
		mimeType  string
		stagedURL string
	)

	switch {
	case in.File != nil:
		data = in.File.Data
		filename = in.File.Name
		mimeType = in.File.MimeType
	case in.FileURL != "":
		var err error
		data, mimeType, err = e.fetchRemote(ctx, in.FileURL)
		if err != nil {
			e.cleanupStaged(in.FileURL)
			return nil, err
		}
		filename = in.Filename
		if filename == "" {
			filename = "document.png"
		}
		if e.blobs.IsStaged(in.FileURL) {
			stagedURL = in.FileURL
		}
	default:
		return nil, apperr.New(apperr.KindValidation, "either file or fileUrl must be provided")
	}

	uploaded, err := e.client.UploadAttachment(ctx, in.PageID, filename, mimeType, data, in.Comment)
	if err != nil {
		e.cleanupStaged(stagedURL)
		return nil, err
	}

	if len(uploaded.Results) == 0 || uploaded.Results[0].ID == "" {
		e.cleanupStaged(stagedURL)
		return nil, apperr.New(apperr.KindUpload, "upload succeeded but no attachment ID returned")
	}
	attachmentID := uploaded.Results[0].ID

	width := in.Width
	if width <= 0 {
		width = defaultImageWidth
	}
	position := in.Position
	if position == "" {
		position = "center"
	}

	if _, err := e.EmbedExistingAttachment(ctx, in.PageID, filename, width, position); err != nil {
		e.cleanupStaged(stagedURL)
		return nil, err
	}

	e.cleanupStaged(stagedURL)

	return &UploadResult{
		Success:      true,
		AttachmentID: attachmentID,
		Filename:     filename,
		Message:      fmt.Sprintf("Successfully uploaded and embedded %s", filename),
	}, nil
}

// fetchRemote retrieves the file behind url, returning its bytes and the
// response content type.
func (e *Engine) fetchRemote(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindFetch, err, "invalid file URL")
	}

	res, err := e.fetchClient.Do(req)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindFetch, err, "failed to fetch file from URL")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		io.Copy(io.Discard, res.Body)
		return nil, "", apperr.New(apperr.KindFetch, "failed to fetch file from URL: %s", res.Status)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindFetch, err, "failed to read fetched file")
	}

	mimeType := res.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return data, mimeType, nil
}

// cleanupStaged deletes a staged blob best-effort. Errors are logged only.
func (e *Engine) cleanupStaged(url string) {
	if url == "" || !e.blobs.IsStaged(url) {
		return
	}

	// Cleanup must not inherit a canceled request context.
	if err := e.blobs.Delete(context.Background(), url); err != nil {
		e.logger.Error("staged blob cleanup failed", slog.String("url", url), slog.Any("error", err))
	}
}
