package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"veostudio/internal/domain"
	"veostudio/internal/infra"
	"veostudio/internal/infra/credentials"
	"veostudio/internal/providers/genai"
)

// OperationClient is the slice of the genai client the orchestrator needs.
type OperationClient interface {
	StartVideoGeneration(ctx context.Context, model string, req genai.VideoGenerationRequest) (*genai.Operation, error)
	GetOperation(ctx context.Context, name string) (*genai.Operation, error)
	Download(ctx context.Context, uri string) (*domain.MediaBlob, error)
}

// Options configures the orchestrator. PollDeadline of zero disables the
// deadline; cancellation then rests entirely on the caller's context.
type Options struct {
	Client       OperationClient
	Keys         credentials.KeySource
	Model        string
	PollInterval time.Duration
	PollDeadline time.Duration
	Logger       *infra.Logger
}

// Orchestrator drives one video job through submit, poll and materialize.
// There is no remote cancellation: once submitted, stopping locally only
// stops polling.
type Orchestrator struct {
	client       OperationClient
	keys         credentials.KeySource
	model        string
	pollInterval time.Duration
	pollDeadline time.Duration
	logger       *infra.Logger
}

const (
	defaultPollInterval = 5 * time.Second
	defaultImagePrompt  = "Animate this image"

	fixedResolution  = "720p"
	fixedAspectRatio = "16:9"
)

func New(opts Options) (*Orchestrator, error) {
	if opts.Client == nil {
		return nil, errors.New("operation client is required")
	}
	if opts.Keys == nil {
		return nil, errors.New("key source is required")
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Orchestrator{
		client:       opts.Client,
		keys:         opts.Keys,
		model:        opts.Model,
		pollInterval: interval,
		pollDeadline: opts.PollDeadline,
		logger:       logger,
	}, nil
}

// Submit validates the request and starts one long-running job. The
// credential is required before submission; with no credential configured,
// no network call is attempted. Both modes pin 720p at 16:9 with a single
// output video.
func (o *Orchestrator) Submit(ctx context.Context, req domain.VideoRequest) (*genai.Operation, error) {
	key, err := o.keys.APIKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("read api key: %w", err)
	}
	if key == "" {
		return nil, domain.ErrNotConfigured
	}

	upstream := genai.VideoGenerationRequest{
		Prompt:         req.Prompt,
		NumberOfVideos: 1,
		Resolution:     fixedResolution,
		AspectRatio:    fixedAspectRatio,
	}
	switch req.Mode {
	case domain.VideoModeImage:
		if req.Image == nil || len(req.Image.Data) == 0 {
			return nil, fmt.Errorf("%w: image mode requires a reference image", domain.ErrInvalidInput)
		}
		if upstream.Prompt == "" {
			upstream.Prompt = defaultImagePrompt
		}
		upstream.Image = req.Image
	case domain.VideoModeText:
		if upstream.Prompt == "" {
			return nil, fmt.Errorf("%w: prompt is required", domain.ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported mode %q", domain.ErrInvalidInput, req.Mode)
	}

	op, err := o.client.StartVideoGeneration(ctx, o.model, upstream)
	if err != nil {
		return nil, err
	}
	o.logger.Debug().
		Str("operation", op.Name).
		Str("state", string(domain.VideoJobSubmitted)).
		Msg("video: job submitted")
	return op, nil
}

// Await polls the job at the configured interval until it reports done,
// reusing the operation's own name as the continuation token. It stops on
// context cancellation or the configured deadline. A done-with-error
// operation returns its structured error untouched.
func (o *Orchestrator) Await(ctx context.Context, op *genai.Operation) (*genai.Operation, error) {
	if o.pollDeadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.pollDeadline)
		defer cancel()
	}

	for !op.Done {
		select {
		case <-ctx.Done():
			return nil, o.pollStopErr(ctx.Err())
		case <-time.After(o.pollInterval):
		}

		next, err := o.client.GetOperation(ctx, op.Name)
		if err != nil {
			if ctx.Err() != nil {
				return nil, o.pollStopErr(ctx.Err())
			}
			return nil, err
		}
		op = next
		o.logger.Debug().
			Str("operation", op.Name).
			Bool("done", op.Done).
			Str("state", string(domain.VideoJobPolling)).
			Msg("video: polled job status")
	}

	if op.Error != nil {
		o.logger.Debug().
			Str("operation", op.Name).
			Str("state", string(domain.VideoJobFailed)).
			Msg("video: job failed upstream")
		return op, op.Error
	}
	o.logger.Debug().
		Str("operation", op.Name).
		Str("state", string(domain.VideoJobCompleted)).
		Msg("video: job completed")
	return op, nil
}

// ResultURI extracts the locator from a completed operation: the first
// element of the generated-videos list.
func (o *Orchestrator) ResultURI(op *genai.Operation) (string, error) {
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		return "", fmt.Errorf("%w: no generated videos in response", domain.ErrBadResponse)
	}
	first := op.Response.GeneratedVideos[0]
	if first.Video == nil || first.Video.URI == "" {
		return "", fmt.Errorf("%w: generated video has no uri", domain.ErrBadResponse)
	}
	return first.Video.URI, nil
}

// Materialize fetches the bytes behind a result locator into a locally
// usable media payload.
func (o *Orchestrator) Materialize(ctx context.Context, uri string) (*domain.MediaBlob, error) {
	blob, err := o.client.Download(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
	}
	return blob, nil
}

func (o *Orchestrator) pollStopErr(cause error) error {
	if errors.Is(cause, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", domain.ErrPollTimeout, o.pollDeadline)
	}
	return cause
}
