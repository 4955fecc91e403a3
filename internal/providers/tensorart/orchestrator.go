package tensorart

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"tensorbridge/internal/domain"
	"tensorbridge/internal/infra"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultMaxAttempts  = 30
)

// SleepFunc suspends between polling attempts. Injectable so tests simulate
// time without real waiting.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// OrchestratorOptions configures the submit-then-poll driver.
type OrchestratorOptions struct {
	Client       *Client
	PollInterval time.Duration
	MaxAttempts  int
	Sleep        SleepFunc
	Logger       *infra.Logger
}

// Orchestrator drives one job from submission to a terminal outcome. The
// bounded polling loop is its only built-in repetition: a failed submission
// or status call is never retried implicitly. The sleep between attempts is
// the only suspension point, so one orchestration never blocks another.
type Orchestrator struct {
	client   *Client
	interval time.Duration
	attempts int
	sleep    SleepFunc
	logger   *infra.Logger
}

// NewOrchestrator applies defaults for interval, attempt bound and sleeper.
func NewOrchestrator(opts OrchestratorOptions) *Orchestrator {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Orchestrator{
		client:   opts.Client,
		interval: interval,
		attempts: attempts,
		sleep:    sleep,
		logger:   logger,
	}
}

// Submit sends the job and returns its remote id.
func (o *Orchestrator) Submit(ctx context.Context, req domain.JobRequest) (string, error) {
	jobID, err := o.client.CreateJob(ctx, req)
	if err != nil {
		return "", err
	}
	o.logger.Info().Str("request_id", req.RequestID).Str("job_id", jobID).Msg("tensorart: job submitted")
	return jobID, nil
}

// AwaitCompletion polls the status endpoint until the job is terminal or the
// attempt bound is exhausted. A COMPLETED job is returned with its resources;
// FAILED/CANCELED surfaces the remote message; running past the bound is
// ErrPollTimeout, distinct from a remote-reported failure.
func (o *Orchestrator) AwaitCompletion(ctx context.Context, jobID string) (*domain.Job, error) {
	for attempt := 0; attempt < o.attempts; attempt++ {
		if attempt > 0 {
			if err := o.sleep(ctx, o.interval); err != nil {
				return nil, err
			}
		}

		job, err := o.client.GetJob(ctx, jobID)
		if err != nil {
			return nil, err
		}

		switch job.Status {
		case domain.JobStatusCompleted:
			if job.FirstResourceURL() == "" {
				return nil, ErrMissingResource
			}
			return job, nil
		case domain.JobStatusFailed, domain.JobStatusCanceled:
			return nil, &JobFailedError{Status: job.Status, Message: job.Message}
		}

		o.logger.Debug().
			Str("job_id", jobID).
			Str("status", string(job.Status)).
			Float64("progress", job.Progress).
			Int("attempt", attempt+1).
			Msg("tensorart: job pending")
	}
	return nil, ErrPollTimeout
}
