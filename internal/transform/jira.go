package transform

import (
	"context"
	"fmt"

	"github.com/vishkar/confluence-gateway/internal/apperr"
	"github.com/vishkar/confluence-gateway/internal/confluence"
)

// LinkPageToJiraIssue appends a hyperlink paragraph pointing at a Jira
// issue. The issue tracker base URL is explicit gateway configuration;
// deriving it from the Confluence hostname is not reliable enough to guess.
func (e *Engine) LinkPageToJiraIssue(ctx context.Context, pageID, issueKey string) (*confluence.Content, error) {
	if e.jiraBaseURL == "" {
		return nil, apperr.New(apperr.KindValidation, "jira base URL not configured (set jira.base_url)")
	}
	if issueKey == "" {
		return nil, apperr.New(apperr.KindValidation, "issueKey required")
	}

	page, err := e.readPage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	link := fmt.Sprintf(`<p><a href="%s/browse/%s">%s</a></p>`, e.jiraBaseURL, issueKey, issueKey)
	return e.writePage(ctx, page, page.Body.Storage.Value+link)
}

// InsertJiraMacro embeds a Jira issue-query macro driven by a JQL query.
// displayOptions are forwarded as additional macro parameters.
func (e *Engine) InsertJiraMacro(ctx context.Context, pageID, jqlQuery string, displayOptions map[string]string) (*confluence.Content, error) {
	if jqlQuery == "" {
		return nil, apperr.New(apperr.KindValidation, "jqlQuery required")
	}

	parameters := map[string]string{"jqlQuery": jqlQuery}
	for k, v := range displayOptions {
		parameters[k] = v
	}

	return e.InsertMacro(ctx, pageID, "jira", parameters, "")
}
