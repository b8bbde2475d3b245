package rpc

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Argument structs for the tool registry. Field names follow the wire
// protocol; jsonschema tags feed the published input schemas. spaceKey is
// optional wherever the credential default can stand in for it.

// FileArg is inline file content. Data is base64.
type FileArg struct {
	Name     string `json:"name" jsonschema_description:"Attachment filename"`
	Data     string `json:"data" jsonschema_description:"File content, base64 encoded"`
	MimeType string `json:"mimeType,omitempty" jsonschema_description:"MIME type, defaults to application/octet-stream"`
}

func (a FileArg) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required),
		validation.Field(&a.Data, validation.Required),
	)
}

type SpacesArgs struct {
	Params map[string]string `json:"params,omitempty" jsonschema_description:"Optional query parameters passed through to the space listing"`
}

type SpaceArgs struct {
	SpaceKey string `json:"spaceKey,omitempty" jsonschema_description:"Space key, defaults to the project's configured space"`
}

type ContentByIDArgs struct {
	ID     string   `json:"id" jsonschema_description:"Content id"`
	Expand []string `json:"expand,omitempty" jsonschema_description:"Fields to expand, e.g. body.storage, version"`
}

func (a ContentByIDArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ID, validation.Required),
	)
}

type ContentByTitleArgs struct {
	SpaceKey string `json:"spaceKey,omitempty" jsonschema_description:"Space key, defaults to the project's configured space"`
	Title    string `json:"title" jsonschema_description:"Exact page title"`
}

func (a ContentByTitleArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Title, validation.Required),
	)
}

type SearchArgs struct {
	CQL   string `json:"cql" jsonschema_description:"CQL query"`
	Limit int    `json:"limit,omitempty" jsonschema_description:"Maximum results, defaults to 10"`
}

func (a SearchArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.CQL, validation.Required),
	)
}

type CreatePageArgs struct {
	SpaceKey string `json:"spaceKey,omitempty" jsonschema_description:"Space key, defaults to the project's configured space"`
	Title    string `json:"title" jsonschema_description:"Page title"`
	Content  string `json:"content" jsonschema_description:"Page body in storage format"`
	ParentID string `json:"parentId,omitempty" jsonschema_description:"Parent page id"`
}

func (a CreatePageArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Title, validation.Required),
		validation.Field(&a.Content, validation.Required),
	)
}

type UpdatePageArgs struct {
	PageID  string `json:"pageId" jsonschema_description:"Page id"`
	Title   string `json:"title" jsonschema_description:"New page title"`
	Content string `json:"content" jsonschema_description:"New page body in storage format"`
	Version int    `json:"version" jsonschema_description:"Version number last observed by the caller"`
}

func (a UpdatePageArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.PageID, validation.Required),
		validation.Field(&a.Title, validation.Required),
		validation.Field(&a.Content, validation.Required),
		validation.Field(&a.Version, validation.Required, validation.Min(1)),
	)
}

type PageArgs struct {
	PageID string `json:"pageId" jsonschema_description:"Page id"`
}

func (a PageArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.PageID, validation.Required),
	)
}

type AddLabelsArgs struct {
	PageID string   `json:"pageId" jsonschema_description:"Page id"`
	Labels []string `json:"labels" jsonschema_description:"Label names to add"`
}

func (a AddLabelsArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.PageID, validation.Required),
		validation.Field(&a.Labels, validation.Required),
	)
}

type UploadDocumentArgs struct {
	PageID  string  `json:"pageId" jsonschema_description:"Page id to attach to"`
	File    FileArg `json:"file" jsonschema_description:"File to upload"`
	Comment string  `json:"comment,omitempty" jsonschema_description:"Attachment comment"`
}

func (a UploadDocumentArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.PageID, validation.Required),
		validation.Field(&a.File, validation.Required),
	)
}

type UpdateDocumentArgs struct {
	PageID       string  `json:"pageId" jsonschema_description:"Page id the attachment belongs to"`
	AttachmentID string  `json:"attachmentId" jsonschema_description:"Attachment id"`
	File         FileArg `json:"file" jsonschema_description:"Replacement file"`
	Comment      string  `json:"comment,omitempty" jsonschema_description:"Attachment comment"`
}

func (a UpdateDocumentArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.PageID, validation.Required),
		validation.Field(&a.AttachmentID, validation.Required),
		validation.Field(&a.File, validation.Required),
	)
}

type DeleteDocumentArgs struct {
	AttachmentID string `json:"attachmentId" jsonschema_description:"Attachment id"`
}

func (a DeleteDocumentArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.AttachmentID, validation.Required),
	)
}

type ListDocumentsArgs struct {
	SpaceKey string `json:"spaceKey,omitempty" jsonschema_description:"Space key, defaults to the project's configured space"`
	Type     string `json:"type,omitempty" jsonschema_description:"Content type filter, defaults to attachment"`
	Limit    int    `json:"limit,omitempty" jsonschema_description:"Maximum results, defaults to 25"`
}

type CreateFolderArgs struct {
	SpaceKey string `json:"spaceKey,omitempty" jsonschema_description:"Space key, defaults to the project's configured space"`
	Title    string `json:"title" jsonschema_description:"Folder title"`
	ParentID string `json:"parentId,omitempty" jsonschema_description:"Parent page id"`
}

func (a CreateFolderArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Title, validation.Required),
	)
}

type FolderContentsArgs struct {
	PageID string   `json:"pageId" jsonschema_description:"Folder page id"`
	Expand []string `json:"expand,omitempty" jsonschema_description:"Fields to expand, defaults to version and body.storage"`
}

func (a FolderContentsArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.PageID, validation.Required),
	)
}

type MovePageArgs struct {
	PageID         string `json:"pageId" jsonschema_description:"Page id to move"`
	NewParentID    string `json:"newParentId" jsonschema_description:"Destination folder page id"`
	CurrentVersion int    `json:"currentVersion" jsonschema_description:"Version number last observed by the caller"`
}

func (a MovePageArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.PageID, validation.Required),
		validation.Field(&a.NewParentID, validation.Required),
		validation.Field(&a.CurrentVersion, validation.Required, validation.Min(1)),
	)
}

type CreateTemplateArgs struct {
	SpaceKey    string `json:"spaceKey,omitempty" jsonschema_description:"Space key, defaults to the project's configured space"`
	Name        string `json:"name" jsonschema_description:"Template name"`
	Content     string `json:"content" jsonschema_description:"Template body in storage format"`
	Description string `json:"description,omitempty" jsonschema_description:"Template description"`
}

func (a CreateTemplateArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required),
		validation.Field(&a.Content, validation.Required),
	)
}

type TemplatesArgs struct {
	SpaceKey string `json:"spaceKey,omitempty" jsonschema_description:"Space key, defaults to the project's configured space"`
}

type ApplyTemplateArgs struct {
	TemplateID string `json:"templateId" jsonschema_description:"Template page id"`
	SpaceKey   string `json:"spaceKey,omitempty" jsonschema_description:"Space key, defaults to the project's configured space"`
	Title      string `json:"title" jsonschema_description:"Title for the new page"`
	ParentID   string `json:"parentId,omitempty" jsonschema_description:"Parent page id"`
}

func (a ApplyTemplateArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.TemplateID, validation.Required),
		validation.Field(&a.Title, validation.Required),
	)
}

type UpdateTemplateArgs struct {
	TemplateID string `json:"templateId" jsonschema_description:"Template page id"`
	Name       string `json:"name" jsonschema_description:"New template name"`
	Content    string `json:"content" jsonschema_description:"New template body in storage format"`
	Version    int    `json:"version" jsonschema_description:"Version number last observed by the caller"`
}

func (a UpdateTemplateArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.TemplateID, validation.Required),
		validation.Field(&a.Name, validation.Required),
		validation.Field(&a.Content, validation.Required),
		validation.Field(&a.Version, validation.Required, validation.Min(1)),
	)
}

type PagesByLabelArgs struct {
	SpaceKey string `json:"spaceKey,omitempty" jsonschema_description:"Space key, defaults to the project's configured space"`
	Label    string `json:"label" jsonschema_description:"Label name"`
	Limit    int    `json:"limit,omitempty" jsonschema_description:"Maximum results, defaults to 25"`
}

func (a PagesByLabelArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Label, validation.Required),
	)
}

type PageHistoryArgs struct {
	PageID string `json:"pageId" jsonschema_description:"Page id"`
	Limit  int    `json:"limit,omitempty" jsonschema_description:"Maximum versions, defaults to 10"`
}

func (a PageHistoryArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.PageID, validation.Required),
	)
}

type InsertMacroArgs struct {
	PageID     string            `json:"pageId" jsonschema_description:"Page id"`
	MacroName  string            `json:"macroName" jsonschema_description:"Macro name, e.g. info, toc, jira"`
	Parameters map[string]string `json:"parameters,omitempty" jsonschema_description:"Macro parameters"`
	Body       string            `json:"body,omitempty" jsonschema_description:"Rich-text macro body; omit for a self-closing macro"`
}

func (a InsertMacroArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.PageID, validation.Required),
		validation.Field(&a.MacroName, validation.Required),
	)
}

type UpdateMacroArgs struct {
	PageID       string            `json:"pageId" jsonschema_description:"Page id"`
	OldMacroName string            `json:"oldMacroName" jsonschema_description:"Name of the macro to replace"`
	NewMacroName string            `json:"newMacroName" jsonschema_description:"Replacement macro name"`
	Parameters   map[string]string `json:"parameters,omitempty" jsonschema_description:"Replacement macro parameters"`
}

func (a UpdateMacroArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.PageID, validation.Required),
		validation.Field(&a.OldMacroName, validation.Required),
		validation.Field(&a.NewMacroName, validation.Required),
	)
}

type LinkJiraArgs struct {
	PageID   string `json:"pageId" jsonschema_description:"Page id"`
	IssueKey string `json:"issueKey" jsonschema_description:"Jira issue key, e.g. PROJ-42"`
}

func (a LinkJiraArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.PageID, validation.Required),
		validation.Field(&a.IssueKey, validation.Required),
	)
}

type InsertJiraMacroArgs struct {
	PageID         string            `json:"pageId" jsonschema_description:"Page id"`
	JQLQuery       string            `json:"jqlQuery" jsonschema_description:"JQL query for the embedded issue list"`
	DisplayOptions map[string]string `json:"displayOptions,omitempty" jsonschema_description:"Additional jira macro parameters"`
}

func (a InsertJiraMacroArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.PageID, validation.Required),
		validation.Field(&a.JQLQuery, validation.Required),
	)
}

type EmbedAttachmentArgs struct {
	PageID         string `json:"pageId" jsonschema_description:"Page id"`
	AttachmentID   string `json:"attachmentId,omitempty" jsonschema_description:"Attachment id, informational"`
	AttachmentName string `json:"attachmentName" jsonschema_description:"Attachment filename to embed"`
	Width          int    `json:"width,omitempty" jsonschema_description:"Image width in pixels, defaults to 800"`
	Position       string `json:"position,omitempty" jsonschema_description:"inline, center, left, or right; defaults to inline"`
}

func (a EmbedAttachmentArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.PageID, validation.Required),
		validation.Field(&a.AttachmentName, validation.Required),
	)
}

type UploadEmbedArgs struct {
	PageID   string   `json:"pageId" jsonschema_description:"Page id"`
	File     *FileArg `json:"file,omitempty" jsonschema_description:"Inline file content; mutually exclusive with fileUrl"`
	FileURL  string   `json:"fileUrl,omitempty" jsonschema_description:"URL to fetch the file from; mutually exclusive with file"`
	Filename string   `json:"filename,omitempty" jsonschema_description:"Filename for URL uploads, defaults to document.png"`
	Comment  string   `json:"comment,omitempty" jsonschema_description:"Attachment comment"`
	Width    int      `json:"width,omitempty" jsonschema_description:"Image width in pixels, defaults to 800"`
	Position string   `json:"position,omitempty" jsonschema_description:"inline, center, left, or right; defaults to center"`
}

func (a UploadEmbedArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.PageID, validation.Required),
		validation.Field(&a.File),
	)
}
