package transform

import (
	"context"

	"github.com/vishkar/confluence-gateway/internal/confluence"
	"github.com/vishkar/confluence-gateway/internal/markup"
)

// InsertMacro appends a structured macro to the end of a page body. The
// macro wraps body as rich-text content when provided, otherwise it is
// self-closing. Parameter values are interpolated directly into attributes;
// callers must not embed double quotes in them.
func (e *Engine) InsertMacro(ctx context.Context, pageID, macroName string, parameters map[string]string, body string) (*confluence.Content, error) {
	page, err := e.readPage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	newBody := page.Body.Storage.Value + markup.MacroTag(macroName, parameters, body)
	return e.writePage(ctx, page, newBody)
}

// UpdateMacro replaces every macro named oldName with a self-closing macro
// named newName carrying the supplied parameters. A body with zero matches
// is rewritten unchanged, which still bumps the page version.
func (e *Engine) UpdateMacro(ctx context.Context, pageID, oldName, newName string, parameters map[string]string) (*confluence.Content, error) {
	page, err := e.readPage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	replacement := markup.MacroTag(newName, parameters, "")
	newBody, _ := markup.ReplaceMacros(page.Body.Storage.Value, oldName, replacement)
	return e.writePage(ctx, page, newBody)
}

// MacroInfo is one macro occurrence reported by GetPageMacros.
type MacroInfo struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// MacroList is the result of GetPageMacros.
type MacroList struct {
	Macros []MacroInfo `json:"macros"`
	Count  int         `json:"count"`
}

// GetPageMacros enumerates the macros in a page body with their byte
// offsets. It is an index for discovery, not a structural parse; nested
// macros are listed flat.
func (e *Engine) GetPageMacros(ctx context.Context, pageID string) (*MacroList, error) {
	page, err := e.client.GetContentByID(ctx, pageID, []string{"body.storage"})
	if err != nil {
		return nil, err
	}

	found := markup.ScanMacros(page.Body.Storage.Value)
	list := &MacroList{Macros: make([]MacroInfo, 0, len(found)), Count: len(found)}
	for _, m := range found {
		list.Macros = append(list.Macros, MacroInfo{Name: m.Name, Position: m.Start})
	}
	return list, nil
}
