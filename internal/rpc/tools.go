package rpc

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tools returns the closed tool registry. tools/list serializes these
// definitions verbatim; tools/call accepts exactly these names.
func Tools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(
			"get_spaces",
			mcp.WithDescription("List Confluence spaces visible to the project credentials"),
			mcp.WithInputSchema[SpacesArgs](),
		),
		mcp.NewTool(
			"get_space",
			mcp.WithDescription("Get a single space by key"),
			mcp.WithInputSchema[SpaceArgs](),
		),
		mcp.NewTool(
			"get_space_permissions",
			mcp.WithDescription("Get the permission settings of a space"),
			mcp.WithInputSchema[SpaceArgs](),
		),
		mcp.NewTool(
			"get_content_by_id",
			mcp.WithDescription("Get content by id with optional expansions"),
			mcp.WithInputSchema[ContentByIDArgs](),
		),
		mcp.NewTool(
			"get_content_by_space_and_title",
			mcp.WithDescription("Find a page by space key and exact title"),
			mcp.WithInputSchema[ContentByTitleArgs](),
		),
		mcp.NewTool(
			"search",
			mcp.WithDescription("Search content with a CQL query"),
			mcp.WithInputSchema[SearchArgs](),
		),
		mcp.NewTool(
			"create_page",
			mcp.WithDescription("Create a page with storage-format content"),
			mcp.WithInputSchema[CreatePageArgs](),
		),
		mcp.NewTool(
			"update_page",
			mcp.WithDescription("Update a page; version must be the caller's last observed version"),
			mcp.WithInputSchema[UpdatePageArgs](),
		),
		mcp.NewTool(
			"get_page_children",
			mcp.WithDescription("List the direct child pages of a page"),
			mcp.WithInputSchema[PageArgs](),
		),
		mcp.NewTool(
			"get_page_history",
			mcp.WithDescription("Get the version history of a page"),
			mcp.WithInputSchema[PageHistoryArgs](),
		),
		mcp.NewTool(
			"get_pages_by_label",
			mcp.WithDescription("List pages in a space carrying a label"),
			mcp.WithInputSchema[PagesByLabelArgs](),
		),
		mcp.NewTool(
			"add_page_labels",
			mcp.WithDescription("Add labels to a page"),
			mcp.WithInputSchema[AddLabelsArgs](),
		),
		mcp.NewTool(
			"get_page_attachments",
			mcp.WithDescription("List the attachments of a page"),
			mcp.WithInputSchema[PageArgs](),
		),
		mcp.NewTool(
			"upload_document",
			mcp.WithDescription("Upload a file as a page attachment"),
			mcp.WithInputSchema[UploadDocumentArgs](),
		),
		mcp.NewTool(
			"update_document",
			mcp.WithDescription("Upload a new version of an existing attachment"),
			mcp.WithInputSchema[UpdateDocumentArgs](),
		),
		mcp.NewTool(
			"delete_document",
			mcp.WithDescription("Delete an attachment"),
			mcp.WithInputSchema[DeleteDocumentArgs](),
		),
		mcp.NewTool(
			"list_documents",
			mcp.WithDescription("List content of a space filtered by type, attachments by default"),
			mcp.WithInputSchema[ListDocumentsArgs](),
		),
		mcp.NewTool(
			"embed_existing_attachment",
			mcp.WithDescription("Embed an already-uploaded attachment as an image in the page body"),
			mcp.WithInputSchema[EmbedAttachmentArgs](),
		),
		mcp.NewTool(
			"upload_and_embed_document",
			mcp.WithDescription("Upload a file from inline content or a URL and embed it in the page"),
			mcp.WithInputSchema[UploadEmbedArgs](),
		),
		mcp.NewTool(
			"upload_and_embed_attachment",
			mcp.WithDescription("Alias of upload_and_embed_document"),
			mcp.WithInputSchema[UploadEmbedArgs](),
		),
		mcp.NewTool(
			"create_folder",
			mcp.WithDescription("Create a folder page for organizing content"),
			mcp.WithInputSchema[CreateFolderArgs](),
		),
		mcp.NewTool(
			"get_folder_contents",
			mcp.WithDescription("List the pages inside a folder"),
			mcp.WithInputSchema[FolderContentsArgs](),
		),
		mcp.NewTool(
			"move_page_to_folder",
			mcp.WithDescription("Reparent a page under a folder"),
			mcp.WithInputSchema[MovePageArgs](),
		),
		mcp.NewTool(
			"create_page_template",
			mcp.WithDescription("Create a template page marked with the template label"),
			mcp.WithInputSchema[CreateTemplateArgs](),
		),
		mcp.NewTool(
			"get_page_templates",
			mcp.WithDescription("List the template pages of a space"),
			mcp.WithInputSchema[TemplatesArgs](),
		),
		mcp.NewTool(
			"apply_page_template",
			mcp.WithDescription("Create a new page from a template's current body"),
			mcp.WithInputSchema[ApplyTemplateArgs](),
		),
		mcp.NewTool(
			"update_page_template",
			mcp.WithDescription("Update a template page"),
			mcp.WithInputSchema[UpdateTemplateArgs](),
		),
		mcp.NewTool(
			"insert_macro",
			mcp.WithDescription("Append a structured macro to a page body"),
			mcp.WithInputSchema[InsertMacroArgs](),
		),
		mcp.NewTool(
			"update_macro",
			mcp.WithDescription("Replace every macro of one name with another"),
			mcp.WithInputSchema[UpdateMacroArgs](),
		),
		mcp.NewTool(
			"get_page_macros",
			mcp.WithDescription("List the macros in a page body with byte positions"),
			mcp.WithInputSchema[PageArgs](),
		),
		mcp.NewTool(
			"link_page_to_jira_issue",
			mcp.WithDescription("Append a link to a Jira issue at the end of a page"),
			mcp.WithInputSchema[LinkJiraArgs](),
		),
		mcp.NewTool(
			"insert_jira_macro",
			mcp.WithDescription("Embed a Jira issue list driven by a JQL query"),
			mcp.WithInputSchema[InsertJiraMacroArgs](),
		),
	}
}
