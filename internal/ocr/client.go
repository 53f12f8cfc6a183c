// Package ocr implements the HTTP client for the remote layout parsing API.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"drawbook/internal/domain"
	"drawbook/internal/layout"
)

const (
	fileTypePDF   = 0
	fileTypeImage = 1
)

// ParseRequest is the JSON body sent to the layout parsing endpoint. Pointer
// fields are nullable tuning knobs; null lets the service pick its defaults.
type ParseRequest struct {
	File                      string   `json:"file"`
	FileType                  int      `json:"fileType"`
	UseDocOrientationClassify bool     `json:"useDocOrientationClassify"`
	UseDocUnwarping           bool     `json:"useDocUnwarping"`
	UseLayoutDetection        bool     `json:"useLayoutDetection"`
	UseChartRecognition       bool     `json:"useChartRecognition"`
	LayoutThreshold           *float64 `json:"layoutThreshold"`
	LayoutNms                 bool     `json:"layoutNms"`
	LayoutUnclipRatio         *float64 `json:"layoutUnclipRatio"`
	LayoutMergeBboxesMode     string   `json:"layoutMergeBboxesMode"`
	RepetitionPenalty         *float64 `json:"repetitionPenalty"`
	Temperature               *float64 `json:"temperature"`
	TopP                      *float64 `json:"topP"`
	MinPixels                 *float64 `json:"minPixels"`
	MaxPixels                 *float64 `json:"maxPixels"`
	ShowFormulaNumber         bool     `json:"showFormulaNumber"`
	PrettifyMarkdown          bool     `json:"prettifyMarkdown"`
	Visualize                 bool     `json:"visualize"`
}

// Client calls the layout parsing API.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

func NewClient(endpoint, token string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Parse submits file bytes for layout analysis and returns the raw parse
// result. A non-zero errorCode in a 200 response is surfaced as a domain
// error carrying the API message.
func (c *Client) Parse(ctx context.Context, fileBytes []byte, isPDF bool) (*layout.ParseResult, error) {
	reqBody := ParseRequest{
		File:                  base64.StdEncoding.EncodeToString(fileBytes),
		FileType:              fileTypeImage,
		UseLayoutDetection:    true,
		UseChartRecognition:   true,
		LayoutNms:             true,
		LayoutMergeBboxesMode: "union",
		PrettifyMarkdown:      true,
		Visualize:             true,
	}
	if isPDF {
		reqBody.FileType = fileTypePDF
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("layout parsing api returned status %d", resp.StatusCode)
	}

	var parsed layout.RawParseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if parsed.ErrorCode != 0 {
		return nil, &domain.ParseAPIError{Code: parsed.ErrorCode, Message: parsed.ErrorMsg}
	}
	if parsed.Result == nil {
		return nil, fmt.Errorf("layout parsing api returned empty result")
	}

	return parsed.Result, nil
}
