package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"veostudio/internal/domain"
	"veostudio/internal/infra"
	"veostudio/internal/infra/credentials"
)

// Options controls how the Gemini client is configured.
type Options struct {
	BaseURL    string
	Keys       credentials.KeySource
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client is a lightweight facade over the generative language API. It speaks
// the raw REST surface (generateContent, predictLongRunning, operations) so
// the providers can focus on translating domain requests to API calls. The
// credential is read from the key source on every call, never cached.
type Client struct {
	baseURL    string
	keys       credentials.KeySource
	httpClient *http.Client
	logger     *infra.Logger
}

const defaultTimeout = 120 * time.Second

// NewClient constructs a Gemini client with sane defaults. Callers may
// provide a nil HTTP client; a reusable one with a sensible timeout is
// created.
func NewClient(opts Options) (*Client, error) {
	if opts.Keys == nil {
		return nil, errors.New("genai: key source is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		baseURL:    baseURL,
		keys:       opts.Keys,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Content, Part and InlineData mirror the generateContent wire format.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

type InlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

// GenerationConfig carries the response constraints of a generateContent
// call: either a structured-output schema or a modality restriction.
type GenerationConfig struct {
	ResponseMimeType   string          `json:"responseMimeType,omitempty"`
	ResponseSchema     json.RawMessage `json:"responseSchema,omitempty"`
	ResponseModalities []string        `json:"responseModalities,omitempty"`
	CandidateCount     int             `json:"candidateCount,omitempty"`
}

type generateContentRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// FirstText returns the first non-blank text part of any candidate.
func (r *GenerateContentResponse) FirstText() string {
	for _, cand := range r.Candidates {
		for _, part := range cand.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

// FirstInlineData returns the first inline binary part of any candidate.
func (r *GenerateContentResponse) FirstInlineData() *InlineData {
	for _, cand := range r.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return part.InlineData
			}
		}
	}
	return nil
}

// GenerateContent issues one generateContent call against model.
func (c *Client) GenerateContent(ctx context.Context, model string, contents []Content, cfg *GenerationConfig) (*GenerateContentResponse, error) {
	payload := generateContentRequest{Contents: contents, GenerationConfig: cfg}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(model))

	var response GenerateContentResponse
	if err := c.invoke(ctx, http.MethodPost, endpoint, payload, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GenerateImage bundles the reference images with a prompt and returns the
// first generated image of the response.
func (c *Client) GenerateImage(ctx context.Context, model string, refs []domain.ReferenceImage, prompt string) (*domain.GeneratedImage, error) {
	parts := make([]Part, 0, len(refs)+1)
	for _, ref := range refs {
		parts = append(parts, Part{InlineData: &InlineData{
			MimeType: ref.MIME,
			Data:     base64.StdEncoding.EncodeToString(ref.Data),
		}})
	}
	parts = append(parts, Part{Text: prompt})

	response, err := c.GenerateContent(ctx, model, []Content{{Parts: parts}}, &GenerationConfig{
		ResponseModalities: []string{"IMAGE"},
	})
	if err != nil {
		return nil, err
	}

	inline := response.FirstInlineData()
	if inline == nil {
		return nil, fmt.Errorf("%w: no image data in response", domain.ErrBadResponse)
	}
	data, err := base64.StdEncoding.DecodeString(inline.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode inline image: %v", domain.ErrBadResponse, err)
	}
	mime := inline.MimeType
	if mime == "" {
		mime = "image/png"
	}
	return &domain.GeneratedImage{MIME: mime, Data: data}, nil
}

// VideoGenerationRequest is one long-running video job submission.
type VideoGenerationRequest struct {
	Prompt         string
	Image          *domain.InlineImage
	NumberOfVideos int
	Resolution     string
	AspectRatio    string
}

// Operation is the opaque handle of a long-running video job. Its name must
// be resupplied verbatim to status checks.
type Operation struct {
	Name     string                  `json:"name"`
	Done     bool                    `json:"done"`
	Error    *domain.UpstreamError   `json:"error,omitempty"`
	Response *VideoOperationResponse `json:"response,omitempty"`
}

type VideoOperationResponse struct {
	GeneratedVideos []GeneratedVideo `json:"generatedVideos"`
}

type GeneratedVideo struct {
	Video *VideoRef `json:"video,omitempty"`
}

type VideoRef struct {
	URI string `json:"uri"`
}

type videoInstance struct {
	Prompt string      `json:"prompt"`
	Image  *videoImage `json:"image,omitempty"`
}

type videoImage struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

type videoParameters struct {
	NumberOfVideos int    `json:"numberOfVideos,omitempty"`
	Resolution     string `json:"resolution,omitempty"`
	AspectRatio    string `json:"aspectRatio,omitempty"`
}

type videoGenerationPayload struct {
	Instances  []videoInstance `json:"instances"`
	Parameters videoParameters `json:"parameters"`
}

// StartVideoGeneration submits a long-running video job and returns its
// operation handle. A reference image is attached base64-encoded with its
// media type.
func (c *Client) StartVideoGeneration(ctx context.Context, model string, req VideoGenerationRequest) (*Operation, error) {
	instance := videoInstance{Prompt: req.Prompt}
	if req.Image != nil {
		instance.Image = &videoImage{
			BytesBase64Encoded: base64.StdEncoding.EncodeToString(req.Image.Data),
			MimeType:           req.Image.MIME,
		}
	}
	payload := videoGenerationPayload{
		Instances: []videoInstance{instance},
		Parameters: videoParameters{
			NumberOfVideos: req.NumberOfVideos,
			Resolution:     req.Resolution,
			AspectRatio:    req.AspectRatio,
		},
	}
	endpoint := fmt.Sprintf("%s/models/%s:predictLongRunning", c.baseURL, url.PathEscape(model))

	var op Operation
	if err := c.invoke(ctx, http.MethodPost, endpoint, payload, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

// GetOperation re-fetches a job's status using the operation name as the
// continuation token.
func (c *Client) GetOperation(ctx context.Context, name string) (*Operation, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(name, "/")

	var op Operation
	if err := c.invoke(ctx, http.MethodGet, endpoint, nil, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

// Download fetches the binary payload behind a result locator. The
// credential is appended as a query parameter, which is how the file
// endpoint authenticates.
func (c *Client) Download(ctx context.Context, uri string) (*domain.MediaBlob, error) {
	key, err := c.apiKey(ctx)
	if err != nil {
		return nil, err
	}

	target, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("parse locator: %w", err)
	}
	q := target.Query()
	q.Set("key", key)
	target.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read download body: %w", err)
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = "video/mp4"
	}
	return &domain.MediaBlob{MIME: mime, Data: data}, nil
}

func (c *Client) apiKey(ctx context.Context) (string, error) {
	key, err := c.keys.APIKey(ctx)
	if err != nil {
		return "", fmt.Errorf("read api key: %w", err)
	}
	if key == "" {
		return "", domain.ErrNotConfigured
	}
	return key, nil
}

func (c *Client) invoke(ctx context.Context, method, endpoint string, payload, out any) error {
	key, err := c.apiKey(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", key)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.UpstreamError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := decodeAPIError(resp)
		c.logger.Warn().Err(apiErr).Str("endpoint", endpoint).Msg("genai: upstream call failed")
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrBadResponse, err)
	}
	return nil
}

type apiErrorEnvelope struct {
	Error domain.UpstreamError `json:"error"`
}

func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)
	var envelope apiErrorEnvelope
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error.Message != "" {
		if envelope.Error.Code == 0 {
			envelope.Error.Code = resp.StatusCode
		}
		return &envelope.Error
	}
	return &domain.UpstreamError{
		Code:    resp.StatusCode,
		Message: strings.TrimSpace(string(data)),
	}
}
