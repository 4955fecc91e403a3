package imagegen

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tensorbridge/internal/domain"
	"tensorbridge/internal/infra"
	"tensorbridge/internal/providers/tensorart"
)

// Options configures the generation service with the provider pieces and the
// deployment's generation defaults.
type Options struct {
	Client       *tensorart.Client
	Orchestrator *tensorart.Orchestrator
	ModelID      string
	Width        int
	Height       int
	Steps        int
	Sampler      string
	Logger       *infra.Logger
	NewRequestID func() string
}

// Service turns a prompt into image bytes: validate, submit, poll to a
// terminal status, download the first resource. One logical job per call;
// the service holds no mutable state, so it is safe for concurrent callers.
type Service struct {
	client       *tensorart.Client
	orchestrator *tensorart.Orchestrator
	modelID      string
	width        int
	height       int
	steps        int
	sampler      string
	logger       *infra.Logger
	newRequestID func() string
}

// NewService wires the service.
func NewService(opts Options) (*Service, error) {
	if opts.Client == nil || opts.Orchestrator == nil {
		return nil, errors.New("imagegen: client and orchestrator are required")
	}
	if opts.ModelID == "" {
		return nil, errors.New("imagegen: model id is required")
	}
	newRequestID := opts.NewRequestID
	if newRequestID == nil {
		newRequestID = uuid.NewString
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Service{
		client:       opts.Client,
		orchestrator: opts.Orchestrator,
		modelID:      opts.ModelID,
		width:        opts.Width,
		height:       opts.Height,
		steps:        opts.Steps,
		sampler:      opts.Sampler,
		logger:       logger,
		newRequestID: newRequestID,
	}, nil
}

// GenerateImage runs one full submit-poll-download cycle and returns the
// artifact bytes. Each call uses a fresh request id; ids are never reused
// across logically distinct submissions.
func (s *Service) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	cleaned, err := NormalizePrompt(prompt)
	if err != nil {
		return nil, err
	}

	req := domain.JobRequest{
		RequestID: s.newRequestID(),
		Prompt:    cleaned,
		ModelID:   s.modelID,
		Width:     s.width,
		Height:    s.height,
		Steps:     s.steps,
		Sampler:   s.sampler,
	}

	jobID, err := s.orchestrator.Submit(ctx, req)
	if err != nil {
		return nil, err
	}

	job, err := s.orchestrator.AwaitCompletion(ctx, jobID)
	if err != nil {
		return nil, err
	}

	data, err := s.client.DownloadResource(ctx, job.FirstResourceURL())
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("job_id", job.ID).
		Int("bytes", len(data)).
		Msg("imagegen: image generated")
	return data, nil
}
