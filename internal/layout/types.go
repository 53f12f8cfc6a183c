// Package layout reconstructs a Markdown document from the nested per-page
// response of the remote layout parsing API. It also provides bbox scaling
// for overlay rendering and the scroll synchronization state machine.
package layout

import "encoding/json"

// RawParseResponse is the envelope returned by the layout parsing API.
// ErrorCode != 0 is a domain error even on HTTP 200.
type RawParseResponse struct {
	ErrorCode int          `json:"errorCode"`
	ErrorMsg  string       `json:"errorMsg,omitempty"`
	Result    *ParseResult `json:"result,omitempty"`
}

// ParseResult holds the per-page parsing results plus optional top-level
// fallbacks. Image is a base64 visualization overlay and is stripped before
// the response is cached.
type ParseResult struct {
	LayoutParsingResults []PageResult      `json:"layoutParsingResults,omitempty"`
	Image                string            `json:"image,omitempty"`
	Images               map[string]string `json:"images,omitempty"`
	Markdown             string            `json:"markdown,omitempty"`
}

// PageResult is one page of the parsed document.
type PageResult struct {
	PrunedResult PrunedResult `json:"prunedResult"`
	Markdown     PageMarkdown `json:"markdown"`
}

// PageMarkdown carries the page-scoped image map (internal key to URL).
type PageMarkdown struct {
	Images map[string]string `json:"images,omitempty"`
}

// PrunedResult holds the ordered block list for a page. Width is the source
// page pixel width used for bbox scaling.
type PrunedResult struct {
	ParsingResList []Block `json:"parsing_res_list"`
	Width          float64 `json:"width,omitempty"`
}

// Block is one detected layout element. BlockBBox is [x1,y1,x2,y2] in
// source-page pixel space; it may be absent or malformed.
type Block struct {
	BlockLabel   string    `json:"block_label"`
	BlockContent string    `json:"block_content"`
	BlockBBox    []float64 `json:"block_bbox,omitempty"`
}

// ParsedDocument is the assembled output of a parse or cache hit.
type ParsedDocument struct {
	Markdown  string          `json:"markdown"`
	Result    json.RawMessage `json:"result"`
	PageCount int             `json:"page_count"`
}

// PageCount returns the number of pages, or 1 for an unpaginated result.
func (r *ParseResult) PageCount() int {
	if r == nil || len(r.LayoutParsingResults) == 0 {
		return 1
	}
	return len(r.LayoutParsingResults)
}

// StripVisualization removes the base64 overlay image so the response can be
// persisted without the large payload.
func (r *ParseResult) StripVisualization() {
	if r == nil {
		return
	}
	r.Image = ""
}
