// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/jeranaias/finchat-tui/internal/model"
)

// BasicVisualizationCaption is the assistant text shown with a basic-mode
// visualization, which carries no explanation of its own.
const BasicVisualizationCaption = "Here's the visualization you requested."

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://127.0.0.1:8000)
	// Note: Uses explicit IPv4 address instead of localhost to avoid IPv6
	// resolution issues on Windows
	BaseURL string

	// Timeout for requests (default: 120s; document processing embeds the
	// upload into a vector store and is the slow path)
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "http://127.0.0.1:8000",
		Timeout: 120 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the finchat backend. Every operation
// takes a typed request and returns a typed response or *GatewayError;
// nothing else crosses the boundary. The Client is safe for concurrent use.
//
// Example:
//
//	client := gateway.NewClient()
//	resp, err := client.Ask(ctx, "summarize the report", model.KindChat, false)
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 120 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// DOCUMENT INGESTION
// =============================================================================

// ProcessDocument uploads the file as a multipart payload to the
// document-ingestion endpoint and waits for the full server acknowledgment.
// There is no partial or streaming response; success means the backend has
// parsed the document and holds it ready for questions.
func (c *Client) ProcessDocument(ctx context.Context, fileBytes []byte, fileName string) (*ProcessDocumentResponse, error) {
	return c.uploadFile(ctx, "/process-document", fileBytes, fileName)
}

// UploadVisualizationData uploads a structured data file (CSV/XLSX) to the
// visualization session's ingestion endpoint. Same contract shape as
// ProcessDocument.
func (c *Client) UploadVisualizationData(ctx context.Context, fileBytes []byte, fileName string) (*ProcessDocumentResponse, error) {
	return c.uploadFile(ctx, "/save-visualize-data", fileBytes, fileName)
}

func (c *Client) uploadFile(ctx context.Context, path string, fileBytes []byte, fileName string) (*ProcessDocumentResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, &GatewayError{Kind: ErrKindTransport, Message: "failed to build multipart body", Cause: err}
	}
	if _, err := part.Write(fileBytes); err != nil {
		return nil, &GatewayError{Kind: ErrKindTransport, Message: "failed to build multipart body", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &GatewayError{Kind: ErrKindTransport, Message: "failed to build multipart body", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, &buf)
	if err != nil {
		return nil, &GatewayError{Kind: ErrKindTransport, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError("document upload failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.statusError("document upload rejected", resp)
	}

	var result ProcessDocumentResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &GatewayError{Kind: ErrKindValidation, Message: "failed to decode upload response", Cause: err}
	}

	return &result, nil
}

// =============================================================================
// ASK
// =============================================================================

// Ask submits a prompt. The session kind routes the request: the chat
// session gets a text-only answer from /doc-chat, the visualization session
// gets an image (basic) or an image+data+explanation envelope (advanced)
// from /visualize. Advanced mode is chosen by the caller's flag; the
// response shape is never sniffed.
func (c *Client) Ask(ctx context.Context, prompt string, kind model.SessionKind, advanced bool) (*AskResponse, error) {
	if kind == model.KindVisualize {
		return c.askVisualize(ctx, prompt, advanced)
	}
	return c.askChat(ctx, prompt)
}

func (c *Client) askChat(ctx context.Context, prompt string) (*AskResponse, error) {
	body, err := json.Marshal(chatRequest{Prompt: prompt})
	if err != nil {
		return nil, &GatewayError{Kind: ErrKindTransport, Message: "failed to marshal request", Cause: err}
	}

	resp, err := c.postJSON(ctx, "/doc-chat", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.statusError("chat request failed", resp)
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &GatewayError{Kind: ErrKindValidation, Message: "failed to decode chat response", Cause: err}
	}

	return &AskResponse{Answer: result.Response}, nil
}

func (c *Client) askVisualize(ctx context.Context, prompt string, advanced bool) (*AskResponse, error) {
	advance := "false"
	if advanced {
		advance = "true"
	}

	body, err := json.Marshal(visualizeRequest{Prompt: prompt, Advance: advance})
	if err != nil {
		return nil, &GatewayError{Kind: ErrKindTransport, Message: "failed to marshal request", Cause: err}
	}

	resp, err := c.postJSON(ctx, "/visualize", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.statusError("visualization request failed", resp)
	}

	if advanced {
		return decodeAdvancedVisualization(resp.Body)
	}
	return decodeBasicVisualization(resp.Body)
}

// decodeBasicVisualization handles the basic-mode contract: the HTTP body
// is the raw chart image. The bytes are re-encoded to base64 immediately
// because everything downstream (mirror, transcript) stores text.
func decodeBasicVisualization(body io.Reader) (*AskResponse, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, &GatewayError{Kind: ErrKindTransport, Message: "failed to read image body", Cause: err}
	}
	if len(raw) == 0 {
		return nil, &GatewayError{Kind: ErrKindValidation, Message: "visualization response carried no image bytes"}
	}

	return &AskResponse{
		Answer:   BasicVisualizationCaption,
		Artifact: &model.VisualizationArtifact{Image: base64.StdEncoding.EncodeToString(raw)},
	}, nil
}

// decodeAdvancedVisualization handles the advanced-mode envelope. All three
// keys must be present; a partial envelope fails the whole call and the
// transcript stays untouched.
func decodeAdvancedVisualization(body io.Reader) (*AskResponse, error) {
	var envelope advancedEnvelope
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return nil, &GatewayError{Kind: ErrKindValidation, Message: "failed to decode visualization envelope", Cause: err}
	}
	if missing := envelope.validate(); missing != "" {
		return nil, &GatewayError{Kind: ErrKindValidation, Message: "visualization envelope missing required key " + missing}
	}

	return &AskResponse{
		Answer: *envelope.Explanation,
		Artifact: &model.VisualizationArtifact{
			Image:       *envelope.Image,
			Series:      envelope.Data.VisualizationData,
			Explanation: *envelope.Explanation,
		},
	}, nil
}

// =============================================================================
// CLEAR
// =============================================================================

// ClearUploads tells the backend to discard all uploaded and processed
// document state for this client. This is the only operation that
// invalidates server-side resources; callers must not treat local state as
// cleared when it fails.
func (c *Client) ClearUploads(ctx context.Context) (*ClearResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/clear-uploads", nil)
	if err != nil {
		return nil, &GatewayError{Kind: ErrKindTransport, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError("clear request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.statusError("clear request rejected", resp)
	}

	var result ClearResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &GatewayError{Kind: ErrKindValidation, Message: "failed to decode clear response", Cause: err}
	}

	return &result, nil
}

// =============================================================================
// DOCUMENT CHECK
// =============================================================================

// CheckDocuments asks the backend whether it still holds a processed
// document. Used after rehydrating a mirror that claims processed=true; the
// mirror is advisory and only the backend knows. Failures here are
// non-fatal and must not mutate session state.
func (c *Client) CheckDocuments(ctx context.Context) (*CheckDocumentsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/check-documents", nil)
	if err != nil {
		return nil, &GatewayError{Kind: ErrKindTransport, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError("document check failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.statusError("document check rejected", resp)
	}

	var result CheckDocumentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &GatewayError{Kind: ErrKindValidation, Message: "failed to decode check response", Cause: err}
	}

	return &result, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (c *Client) postJSON(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &GatewayError{Kind: ErrKindTransport, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError("request failed", err)
	}
	return resp, nil
}

// statusError folds a non-2xx response into a GatewayError, preferring the
// backend's own error text when the body carries one.
func (c *Client) statusError(prefix string, resp *http.Response) error {
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if text := body.text(); text != "" {
			return &GatewayError{Kind: ErrKindTransport, Message: text}
		}
	}
	return &GatewayError{Kind: ErrKindTransport, Message: prefix + ": " + resp.Status}
}

func transportError(message string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &GatewayError{Kind: ErrKindTransport, Message: "request timed out", Cause: err}
	}
	return &GatewayError{Kind: ErrKindTransport, Message: message, Cause: err}
}
