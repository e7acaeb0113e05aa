// internal/api/client.go
// Package api talks to the remote materials-analysis service: multipart
// analysis submissions, follow-up questions and history listings.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/mwiater/matscope/internal/analysis"
	"github.com/mwiater/matscope/internal/appconfig"
	"github.com/mwiater/matscope/internal/logging"
)

// RequestIDHeader carries a per-request identifier for correlating logs.
const RequestIDHeader = "X-Request-ID"

// Client issues requests against one configured service origin.
type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// New constructs a Client from the application configuration.
func New(cfg *appconfig.Config) *Client {
	return &Client{
		baseURL: cfg.ServiceURL(),
		client: &http.Client{
			Transport: &http.Transport{ForceAttemptHTTP2: false, Proxy: http.ProxyFromEnvironment},
		},
		timeout: cfg.RequestTimeout(),
	}
}

// BaseURL returns the service origin requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// Analyze submits instrument files for analysis.
func (c *Client) Analyze(ctx context.Context, t analysis.Type, form analysis.Form) (*analysis.Result, error) {
	body, contentType, err := encodeForm(form)
	if err != nil {
		return nil, &TransportError{Op: OpAnalyze, Err: err}
	}
	respBody, err := c.do(ctx, OpAnalyze, t, http.MethodPost, t.AnalyzeEndpoint(), body, contentType)
	if err != nil {
		return nil, err
	}
	result, err := analysis.DecodeResult(t, respBody)
	if err != nil {
		return nil, &TransportError{Op: OpAnalyze, Err: err}
	}
	if _, ok := result.TGASamples(); ok {
		logging.LogEvent("analysis type=%s returned deprecated tga_data sample array", t)
	}
	return result, nil
}

// FollowUp asks a question about a previous result. previous is sent verbatim
// as the previous_analysis field; nil is sent as null.
func (c *Client) FollowUp(ctx context.Context, t analysis.Type, question string, previous json.RawMessage) (string, error) {
	if len(previous) == 0 {
		previous = json.RawMessage("null")
	}
	form := analysis.Form{Fields: []analysis.FormField{
		{Name: "user_query", Value: question},
		{Name: "previous_analysis", Value: string(previous)},
	}}
	body, contentType, err := encodeForm(form)
	if err != nil {
		return "", &TransportError{Op: OpFollowUp, Err: err}
	}
	respBody, err := c.do(ctx, OpFollowUp, t, http.MethodPost, t.FollowUpEndpoint(), body, contentType)
	if err != nil {
		return "", err
	}
	var resp struct {
		AISuggestion string `json:"ai_suggestion"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", &TransportError{Op: OpFollowUp, Err: err}
	}
	return resp.AISuggestion, nil
}

// History lists past analyses of the given type in service order.
func (c *Client) History(ctx context.Context, t analysis.Type) ([]analysis.HistoryRecord, error) {
	respBody, err := c.do(ctx, OpHistory, t, http.MethodGet, t.HistoryEndpoint(), nil, "")
	if err != nil {
		return nil, err
	}
	var records []analysis.HistoryRecord
	if err := json.Unmarshal(respBody, &records); err != nil {
		return nil, &TransportError{Op: OpHistory, Err: err}
	}
	if records == nil {
		records = []analysis.HistoryRecord{}
	}
	return records, nil
}

// do sends one request and returns the body of a validated 2xx response.
func (c *Client) do(ctx context.Context, op Op, t analysis.Type, method, endpoint string, body []byte, contentType string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	requestID := uuid.NewString()
	url := c.baseURL + endpoint
	logging.LogRequest(logging.Outbound, endpoint, string(t), requestID, map[string]any{
		"method": method,
		"url":    url,
		"bytes":  len(body),
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	logging.LogRequest(logging.Inbound, endpoint, string(t), requestID, respBody)

	if !json.Valid(respBody) {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("invalid JSON in %s response (status %d)", endpoint, resp.StatusCode)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(op, resp.StatusCode, respBody)
	}

	if err := validateResponse(op, respBody); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	return respBody, nil
}

func decodeAPIError(op Op, status int, body []byte) error {
	var payload struct {
		Error any `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		if s, ok := payload.Error.(string); ok {
			msg = s
		} else if analysis.Truthy(payload.Error) {
			msg = analysis.FormatScalar(payload.Error)
		}
	}
	if msg == "" {
		msg = fallbackMessage(op)
	}
	return &APIError{Op: op, Status: status, Message: msg}
}

// encodeForm writes text fields then files into a multipart body.
func encodeForm(form analysis.Form) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, field := range form.Fields {
		if err := w.WriteField(field.Name, field.Value); err != nil {
			return nil, "", err
		}
	}
	for _, file := range form.Files {
		if err := attachFile(w, file); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func attachFile(w *multipart.Writer, file analysis.FormFile) error {
	f, err := os.Open(file.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", file.Field, err)
	}
	defer f.Close()
	part, err := w.CreateFormFile(file.Field, file.Filename())
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("read %s: %w", file.Field, err)
	}
	return nil
}

// IsAPIError reports whether err is a service-reported error.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
