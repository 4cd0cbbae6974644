package tryon

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"veostudio/internal/domain"
	"veostudio/internal/infra"
)

// ImageGenerator issues one multi-image upstream call. Satisfied by
// *genai.Client.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, model string, refs []domain.ReferenceImage, prompt string) (*domain.GeneratedImage, error)
}

// BatchRequest describes one batch composition run.
type BatchRequest struct {
	Models      []domain.ReferenceImage
	Garments    []domain.ReferenceImage
	Accessories []domain.ReferenceImage
	Style       string
	AspectRatio string
}

// Event is one progressive publication from a running batch: either a
// completed job's result or the terminal error that stopped the batch.
type Event struct {
	Result *domain.CompositionResult
	Err    error
}

// Options configures the batch compositor.
type Options struct {
	Generator ImageGenerator
	Model     string
	Logger    *infra.Logger
}

// Compositor runs (model x garment x optional accessory) jobs strictly
// sequentially, fanning out the four template calls inside each job.
type Compositor struct {
	generator ImageGenerator
	model     string
	logger    *infra.Logger
}

func NewCompositor(opts Options) (*Compositor, error) {
	if opts.Generator == nil {
		return nil, fmt.Errorf("image generator is required")
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Compositor{generator: opts.Generator, model: opts.Model, logger: logger}, nil
}

// Run validates the request, then produces one event per completed job on
// the returned channel, in enumeration order. The first job failure emits a
// single error event and closes the channel; no further jobs are attempted,
// and results already emitted stay with the consumer. The producer owns and
// closes the channel.
func (c *Compositor) Run(ctx context.Context, req BatchRequest) (<-chan Event, error) {
	if len(req.Models) == 0 || len(req.Garments) == 0 {
		return nil, fmt.Errorf("%w: at least one model and one garment image are required", domain.ErrInvalidInput)
	}
	templates, err := TemplatesFor(req.Style)
	if err != nil {
		return nil, err
	}

	jobs := enumerateJobs(req)
	events := make(chan Event, 1)

	go func() {
		defer close(events)
		for i, job := range jobs {
			result, err := c.compose(ctx, job, templates, req.AspectRatio)
			if err != nil {
				c.logger.Warn().Err(err).
					Str("job_id", job.ID()).
					Int("job_index", i+1).
					Int("job_count", len(jobs)).
					Msg("tryon: batch aborted")
				events <- Event{Err: err}
				return
			}
			c.logger.Debug().
				Str("job_id", job.ID()).
				Int("job_index", i+1).
				Int("job_count", len(jobs)).
				Msg("tryon: job completed")
			events <- Event{Result: result}
		}
	}()

	return events, nil
}

// enumerateJobs expands the Cartesian product: models outer, garments
// middle, accessories inner. Without accessories there is one job per
// (model, garment) pair.
func enumerateJobs(req BatchRequest) []domain.CompositionJob {
	var jobs []domain.CompositionJob
	for _, model := range req.Models {
		for _, garment := range req.Garments {
			if len(req.Accessories) == 0 {
				jobs = append(jobs, domain.CompositionJob{Model: model, Garment: garment})
				continue
			}
			for i := range req.Accessories {
				jobs = append(jobs, domain.CompositionJob{
					Model:     model,
					Garment:   garment,
					Accessory: &req.Accessories[i],
				})
			}
		}
	}
	return jobs
}

// compose runs the four template calls of one job concurrently; all four
// must succeed before the job result exists. Images keep template order and
// carry their template's label.
func (c *Compositor) compose(ctx context.Context, job domain.CompositionJob, templates []Template, aspectRatio string) (*domain.CompositionResult, error) {
	refs := job.Refs()
	hasAccessory := job.Accessory != nil
	images := make([]domain.GeneratedImage, len(templates))

	g, gctx := errgroup.WithContext(ctx)
	for i, template := range templates {
		i, template := i, template
		g.Go(func() error {
			prompt := renderPrompt(template, hasAccessory, aspectRatio)
			image, err := c.generator.GenerateImage(gctx, c.model, refs, prompt)
			if err != nil {
				return err
			}
			image.Label = template.Label
			images[i] = *image
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.CompositionResult{JobID: job.ID(), Images: images}, nil
}
