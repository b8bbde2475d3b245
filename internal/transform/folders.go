package transform

import (
	"context"

	"github.com/vishkar/confluence-gateway/internal/confluence"
)

// folderBody is the placeholder body marking a page used as a folder.
// Folders and pages share identity and lifecycle; nothing else distinguishes
// them.
const folderBody = "<p>This is a folder page.</p>"

// CreateFolder creates a folder, which is an ordinary page with a
// placeholder body.
func (e *Engine) CreateFolder(ctx context.Context, spaceKey, title, parentID string) (*confluence.Content, error) {
	return e.client.CreatePage(ctx, confluence.PageInput{
		SpaceKey: spaceKey,
		Title:    title,
		Body:     folderBody,
		ParentID: parentID,
	})
}

// GetFolderContents lists the child pages of a folder. expand defaults to
// version and body.storage.
func (e *Engine) GetFolderContents(ctx context.Context, pageID string, expand []string) (*confluence.ContentList, error) {
	if len(expand) == 0 {
		expand = []string{"version", "body.storage"}
	}
	return e.client.GetChildPages(ctx, pageID, expand)
}

// MovePageToFolder reparents a page. currentVersion must be the version the
// caller last observed; a stale version surfaces as a backend conflict.
func (e *Engine) MovePageToFolder(ctx context.Context, pageID, newParentID string, currentVersion int) (*confluence.Content, error) {
	return e.client.SetPageParent(ctx, pageID, newParentID, currentVersion)
}
