package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
)

// GetPageAttachments lists the attachments of a page.
func (c *Client) GetPageAttachments(ctx context.Context, pageID string) (json.RawMessage, error) {
	if pageID == "" {
		return nil, fmt.Errorf("confluence: page id required")
	}

	var raw json.RawMessage
	if err := c.Get(ctx, "/content/"+url.PathEscape(pageID)+"/child/attachment", &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// UploadAttachment uploads raw bytes as a new attachment on a page. The
// upload is a single atomic multipart POST.
func (c *Client) UploadAttachment(ctx context.Context, pageID, filename, mimeType string, data []byte, comment string) (*ContentList, error) {
	if pageID == "" {
		return nil, fmt.Errorf("confluence: page id required")
	}

	fields := map[string]string{"minorEdit": "true"}
	if comment != "" {
		fields["comment"] = comment
	}

	body, contentType, err := multipartBody(filename, mimeType, data, fields)
	if err != nil {
		return nil, err
	}

	path := "/content/" + url.PathEscape(pageID) + "/child/attachment"
	raw, err := c.postMultipart(ctx, path, body, contentType)
	if err != nil {
		return nil, err
	}
	return decodeContentList(raw)
}

// UpdateAttachment replaces the binary data of an existing attachment.
func (c *Client) UpdateAttachment(ctx context.Context, pageID, attachmentID, filename, mimeType string, data []byte, comment string) (json.RawMessage, error) {
	if pageID == "" {
		return nil, fmt.Errorf("confluence: page id required")
	}
	if attachmentID == "" {
		return nil, fmt.Errorf("confluence: attachment id required")
	}

	fields := map[string]string{}
	if comment != "" {
		fields["comment"] = comment
	}

	body, contentType, err := multipartBody(filename, mimeType, data, fields)
	if err != nil {
		return nil, err
	}

	path := "/content/" + url.PathEscape(pageID) + "/child/attachment/" + url.PathEscape(attachmentID) + "/data"
	return c.postMultipart(ctx, path, body, contentType)
}

// DeleteAttachment removes an attachment. Attachments are content, so this
// is a plain content delete.
func (c *Client) DeleteAttachment(ctx context.Context, attachmentID string) error {
	if attachmentID == "" {
		return fmt.Errorf("confluence: attachment id required")
	}
	return c.Delete(ctx, "/content/"+url.PathEscape(attachmentID))
}

func (c *Client) postMultipart(ctx context.Context, path string, body io.Reader, contentType string) (json.RawMessage, error) {
	headers := map[string]string{
		// Confluence rejects attachment POSTs without this header.
		"X-Atlassian-Token": "no-check",
	}

	res, err := c.Do(ctx, http.MethodPost, path, RawBody{Reader: body, ContentType: contentType}, headers)
	if err != nil {
		return nil, wrapTransportError(err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return nil, parseError(res)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("confluence: decode response: %w", err)
	}
	return raw, nil
}

func multipartBody(filename, mimeType string, data []byte, fields map[string]string) (io.Reader, string, error) {
	if filename == "" {
		return nil, "", fmt.Errorf("confluence: attachment filename required")
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("confluence: attachment data required")
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	buf := new(bytes.Buffer)
	writer := multipart.NewWriter(buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("confluence: multipart part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("confluence: multipart write: %w", err)
	}

	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("confluence: multipart field: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("confluence: multipart close: %w", err)
	}

	return buf, writer.FormDataContentType(), nil
}
