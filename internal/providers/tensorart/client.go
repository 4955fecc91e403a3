package tensorart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tensorbridge/internal/domain"
	"tensorbridge/internal/infra"
)

const (
	jobsPath   = "/v1/jobs"
	modelsPath = "/v1/models"
)

// Options configures the Tensor Art client.
type Options struct {
	AppID          string
	APIKey         string
	PrivateKeyPEM  []byte
	Endpoint       string
	Scheme         Scheme
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs signed HTTP calls to the Tensor Art API. One request at a
// time per call; no connection state beyond the underlying http.Client.
type Client struct {
	endpoint  string
	auth      *AuthBuilder
	transport *Transport
	logger    *infra.Logger
}

// Model describes one entry of the remote model catalog.
type Model struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type textPrompt struct {
	Text string `json:"text"`
}

type inputInitializeParams struct {
	Seed  string `json:"seed"`
	Count int    `json:"count"`
}

type diffusionParams struct {
	Width           int          `json:"width"`
	Height          int          `json:"height"`
	Prompts         []textPrompt `json:"prompts"`
	NegativePrompts []textPrompt `json:"negativePrompts"`
	SDModel         string       `json:"sdModel"`
	SDVae           string       `json:"sdVae"`
	Sampler         string       `json:"sampler"`
	Steps           int          `json:"steps"`
	CfgScale        float64      `json:"cfgScale"`
	ClipSkip        int          `json:"clipSkip"`
}

type jobStage struct {
	Type            string                 `json:"type"`
	InputInitialize *inputInitializeParams `json:"inputInitialize,omitempty"`
	Diffusion       *diffusionParams       `json:"diffusion,omitempty"`
}

type jobPayload struct {
	RequestID string     `json:"requestId"`
	Stages    []jobStage `json:"stages"`
}

// NewClient constructs a client. Every credential must be supplied; nothing
// defaults.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.AppID) == "" {
		return nil, errors.New("tensorart: app id is required")
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("tensorart: api key is required")
	}
	endpoint := strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/")
	if endpoint == "" {
		return nil, errors.New("tensorart: api endpoint is required")
	}
	scheme := opts.Scheme
	if scheme.Name == "" {
		scheme = SchemeSHA256Nonce
	}
	signer, err := NewSigner(opts.PrivateKeyPEM, scheme)
	if err != nil {
		return nil, err
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
		endpoint:  endpoint,
		auth:      NewAuthBuilder(strings.TrimSpace(opts.AppID), strings.TrimSpace(opts.APIKey), signer),
		transport: NewTransport(opts.HTTPClient, opts.RequestTimeout),
		logger:    logger,
	}, nil
}

// do marshals the payload once, signs those exact bytes, sends, and
// classifies. The marshalled bytes and the transmitted bytes are the same
// value by construction; anything else breaks the signature.
func (c *Client) do(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("tensorart: encode request: %w", err)
		}
	}
	header, err := c.auth.BuildHeaders(method, path, body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Interface("headers", maskHeaders(header)).
		Msg("tensorart: request")

	resp, err := c.transport.Send(ctx, method, c.endpoint+path, header, body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Int("status", resp.Status).Str("path", path).Msg("tensorart: response")
	return Classify(resp)
}

// CreateJob submits a text-to-image job and returns the remote job id. An
// accepted response without a job id is a contract violation, not a silent
// no-op.
func (c *Client) CreateJob(ctx context.Context, req domain.JobRequest) (string, error) {
	if strings.TrimSpace(req.RequestID) == "" {
		return "", errors.New("tensorart: request id is required")
	}
	if strings.TrimSpace(req.ModelID) == "" {
		return "", errors.New("tensorart: model id is required")
	}

	body, err := c.do(ctx, http.MethodPost, jobsPath, buildJobPayload(req))
	if err != nil {
		return "", err
	}
	var out struct {
		JobID string `json:"jobId"`
		Job   struct {
			ID string `json:"id"`
		} `json:"job"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("tensorart: decode submission response: %w", err)
	}
	jobID := out.JobID
	if jobID == "" {
		jobID = out.Job.ID
	}
	if jobID == "" {
		return "", ErrMissingJobID
	}
	return jobID, nil
}

// GetJob fetches the current status of a job.
func (c *Client) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, errors.New("tensorart: job id is required")
	}
	body, err := c.do(ctx, http.MethodGet, jobsPath+"/"+url.PathEscape(jobID), nil)
	if err != nil {
		return nil, err
	}
	var job domain.Job
	if err := json.Unmarshal(body, &job); err != nil {
		return nil, fmt.Errorf("tensorart: decode job status: %w", err)
	}
	if job.ID == "" {
		job.ID = jobID
	}
	return &job, nil
}

// ListModels pages through the remote model catalog.
func (c *Client) ListModels(ctx context.Context, page, pageSize int, modelType string) ([]Model, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if modelType == "" {
		modelType = "CHECKPOINT"
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("modelType", modelType)

	body, err := c.do(ctx, http.MethodGet, modelsPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Models []Model `json:"models"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("tensorart: decode model list: %w", err)
	}
	return out.Models, nil
}

// GetModel fetches details for a single model.
func (c *Client) GetModel(ctx context.Context, modelID string) (*Model, error) {
	if strings.TrimSpace(modelID) == "" {
		return nil, errors.New("tensorart: model id is required")
	}
	body, err := c.do(ctx, http.MethodGet, modelsPath+"/"+url.PathEscape(modelID), nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Model *Model `json:"model"`
	}
	if err := json.Unmarshal(body, &out); err == nil && out.Model != nil {
		return out.Model, nil
	}
	var model Model
	if err := json.Unmarshal(body, &model); err != nil {
		return nil, fmt.Errorf("tensorart: decode model details: %w", err)
	}
	return &model, nil
}

// DownloadResource fetches a resolved artifact URL. The URL is absolute and
// unauthenticated, so the call bypasses the signing path.
func (c *Client) DownloadResource(ctx context.Context, resourceURL string) ([]byte, error) {
	resp, err := c.transport.Send(ctx, http.MethodGet, resourceURL, nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("tensorart: download resource: status %d", resp.Status)
	}
	return resp.Body, nil
}

func buildJobPayload(req domain.JobRequest) jobPayload {
	diff := &diffusionParams{
		Width:           orInt(req.Width, 512),
		Height:          orInt(req.Height, 512),
		Prompts:         []textPrompt{{Text: req.Prompt}},
		NegativePrompts: []textPrompt{},
		SDModel:         req.ModelID,
		SDVae:           "Automatic",
		Sampler:         orString(req.Sampler, "DPM++ 2M Karras"),
		Steps:           orInt(req.Steps, 25),
		CfgScale:        orFloat(req.CfgScale, 7),
		ClipSkip:        orInt(req.ClipSkip, 2),
	}
	if req.NegativePrompt != "" {
		diff.NegativePrompts = []textPrompt{{Text: req.NegativePrompt}}
	}
	return jobPayload{
		RequestID: req.RequestID,
		Stages: []jobStage{
			{
				Type:            "INPUT_INITIALIZE",
				InputInitialize: &inputInitializeParams{Seed: "-1", Count: 1},
			},
			{
				Type:      "DIFFUSION",
				Diffusion: diff,
			},
		},
	}
}

func orInt(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func orFloat(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}

func orString(v, fallback string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}
