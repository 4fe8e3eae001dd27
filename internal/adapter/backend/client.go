package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"trivia-gen/internal/domain"

	"go.uber.org/zap"
)

const (
	processPDFPath        = "/process-pdf"
	generateQuestionsPath = "/generate-questions"

	defaultFileName    = "upload.pdf"
	defaultContentType = "application/pdf"

	// Error bodies are only read for their "detail" field.
	maxErrorBodyBytes = 64 * 1024
)

// Client talks to the extraction/generation backend over HTTP.
type Client struct {
	baseURL      string
	numQuestions int
	httpClient   *http.Client
	logger       *zap.Logger
}

// NewClient creates a backend client. A nil httpClient means http.DefaultClient;
// numQuestions <= 0 leaves the count to the backend.
func NewClient(baseURL string, numQuestions int, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("backend base URL cannot be empty")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		numQuestions: numQuestions,
		httpClient:   httpClient,
		logger:       logger,
	}, nil
}

type extractResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Context *string `json:"context"`
}

type generateRequest struct {
	Context      string `json:"context"`
	NumQuestions int    `json:"num_questions,omitempty"`
}

type generateResponse struct {
	Status    string  `json:"status"`
	Message   string  `json:"message"`
	Questions *string `json:"questions"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// ExtractText uploads file as the multipart field "file" to /process-pdf.
func (c *Client) ExtractText(ctx context.Context, file *domain.UploadRequest) (*domain.ExtractionResult, error) {
	body, contentType, err := encodeUpload(file)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Uploading document for text extraction",
		zap.String("file_name", file.FileName),
		zap.Int64("size", file.Size()),
	)

	var resp extractResponse
	if err := c.post(ctx, processPDFPath, contentType, body, &resp); err != nil {
		return nil, err
	}

	// A success tag without text is not a usable extraction.
	if resp.Status == domain.TagTextExtracted && resp.Context == nil {
		return nil, fmt.Errorf("%w: %q without context", domain.ErrMalformedResponse, resp.Status)
	}

	result := &domain.ExtractionResult{Status: resp.Status, Message: resp.Message}
	if resp.Context != nil {
		result.Context = *resp.Context
	}
	return result, nil
}

// GenerateQuestions posts {"context": text} to /generate-questions.
func (c *Client) GenerateQuestions(ctx context.Context, text string) (*domain.GenerationResult, error) {
	payload, err := json.Marshal(generateRequest{Context: text, NumQuestions: c.numQuestions})
	if err != nil {
		return nil, fmt.Errorf("failed to encode generation request: %w", err)
	}

	c.logger.Debug("Requesting question generation", zap.Int("context_length", len(text)))

	var resp generateResponse
	if err := c.post(ctx, generateQuestionsPath, "application/json", bytes.NewReader(payload), &resp); err != nil {
		return nil, err
	}

	if resp.Status == domain.TagQuestionsGenerated && resp.Questions == nil {
		return nil, fmt.Errorf("%w: %q without questions", domain.ErrMalformedResponse, resp.Status)
	}

	result := &domain.GenerationResult{Status: resp.Status, Message: resp.Message}
	if resp.Questions != nil {
		result.Questions = *resp.Questions
	}
	return result, nil
}

// Ping checks that the backend root answers with a 2xx status.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to build ping request: %w", err)
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxErrorBodyBytes))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("%w: %d", domain.ErrUnexpectedStatus, res.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		detail := readErrorDetail(res.Body)
		c.logger.Warn("Backend returned error status",
			zap.String("path", path),
			zap.Int("status", res.StatusCode),
			zap.String("detail", detail),
		)
		if detail != "" {
			return fmt.Errorf("%w: %d (%s)", domain.ErrUnexpectedStatus, res.StatusCode, detail)
		}
		return fmt.Errorf("%w: %d", domain.ErrUnexpectedStatus, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	return nil
}

func encodeUpload(file *domain.UploadRequest) (io.Reader, string, error) {
	fileName := file.FileName
	if fileName == "" {
		fileName = defaultFileName
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write multipart payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

// readErrorDetail extracts FastAPI-style {"detail": "..."} bodies, falling
// back to the raw text.
func readErrorDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var er errorResponse
	if json.Unmarshal(raw, &er) == nil && er.Detail != "" {
		return er.Detail
	}
	return strings.TrimSpace(string(raw))
}

var (
	_ domain.TextExtractor     = (*Client)(nil)
	_ domain.QuestionGenerator = (*Client)(nil)
)
