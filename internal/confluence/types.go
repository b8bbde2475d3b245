package confluence

import "encoding/json"

// Content represents Confluence content (pages, attachments). Raw preserves
// the backend's full response so tools can pass it through unchanged.
type Content struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Status  string `json:"status"`
	Title   string `json:"title"`
	Version struct {
		Number int `json:"number"`
	} `json:"version"`
	Body struct {
		Storage struct {
			Value          string `json:"value"`
			Representation string `json:"representation"`
		} `json:"storage"`
	} `json:"body"`
	Raw json.RawMessage `json:"-"`
}

// ContentList is a paged list of content results.
type ContentList struct {
	Results []Content       `json:"results"`
	Size    int             `json:"size"`
	Raw     json.RawMessage `json:"-"`
}

func decodeContent(raw json.RawMessage) (*Content, error) {
	content := &Content{Raw: raw}
	if err := json.Unmarshal(raw, content); err != nil {
		return nil, err
	}
	return content, nil
}

func decodeContentList(raw json.RawMessage) (*ContentList, error) {
	list := &ContentList{Raw: raw}
	if err := json.Unmarshal(raw, list); err != nil {
		return nil, err
	}
	return list, nil
}
