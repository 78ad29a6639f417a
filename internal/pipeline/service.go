package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/t-800m101/spothinta/internal/prices"
)

const (
	// DefaultOutputFileName matches the version-controlled page file name.
	DefaultOutputFileName = "spot-hintataulukko.html"

	// DefaultDispatchReason is recorded when a manual run supplies no reason.
	DefaultDispatchReason = "Manual update"

	outputFilePermissionsConstant = 0o644

	priceResolverRequiredMessageConstant = "price resolver must be configured"
	pageRendererRequiredMessageConstant  = "page renderer must be configured"
	publisherRequiredMessageConstant     = "publisher must be configured"
	outputPathRequiredMessageConstant    = "output path must be provided"

	runStartedMessageConstant      = "publication run started"
	pageWrittenMessageConstant     = "price page written"
	dryRunCompletedMessageConstant = "dry run completed, no artifacts written"
	publishSkippedMessageConstant  = "publishing skipped"
	runCompletedMessageConstant    = "publication run completed"
	logFieldReasonConstant         = "reason"
	logFieldOutputPathConstant     = "output_path"
	logFieldReferenceTimeConstant  = "reference_time"
	logFieldPageBytesConstant      = "page_bytes"
)

// PriceResolver supplies the price sheet and the reference hour for a run.
type PriceResolver interface {
	ResolvePrices(executionContext context.Context, forceRefresh bool) (prices.PriceSheet, error)
	ReferenceTime() time.Time
}

// PageRenderer turns a price sheet into the published page bytes.
type PageRenderer interface {
	Render(priceSheet prices.PriceSheet, referenceTime time.Time) ([]byte, error)
}

// Publisher records regenerated artifacts in version control.
type Publisher interface {
	Publish(executionContext context.Context) error
}

// RuntimeOptions adjusts a single publication run. PreviewWriter, when set,
// receives the rendered page during dry runs instead of the output file.
type RuntimeOptions struct {
	Reason        string
	DryRun        bool
	SkipPublish   bool
	ForceRefresh  bool
	PreviewWriter io.Writer
}

// Service executes the fetch, render, and publish sequence.
type Service struct {
	priceResolver PriceResolver
	pageRenderer  PageRenderer
	publisher     Publisher
	outputPath    string
	logger        *zap.Logger
}

// Dependencies collects the collaborators required by the pipeline service.
type Dependencies struct {
	PriceResolver PriceResolver
	PageRenderer  PageRenderer
	Publisher     Publisher
	OutputPath    string
	Logger        *zap.Logger
}

// NewService constructs a pipeline service after validating its dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.PriceResolver == nil {
		return nil, errors.New(priceResolverRequiredMessageConstant)
	}
	if dependencies.PageRenderer == nil {
		return nil, errors.New(pageRendererRequiredMessageConstant)
	}
	if dependencies.Publisher == nil {
		return nil, errors.New(publisherRequiredMessageConstant)
	}
	if len(dependencies.OutputPath) == 0 {
		return nil, errors.New(outputPathRequiredMessageConstant)
	}

	resolvedLogger := dependencies.Logger
	if resolvedLogger == nil {
		resolvedLogger = zap.NewNop()
	}

	return &Service{
		priceResolver: dependencies.PriceResolver,
		pageRenderer:  dependencies.PageRenderer,
		publisher:     dependencies.Publisher,
		outputPath:    dependencies.OutputPath,
		logger:        resolvedLogger,
	}, nil
}

// Run executes one publication sequence with the provided options.
func (service *Service) Run(executionContext context.Context, options RuntimeOptions) error {
	referenceTime := service.priceResolver.ReferenceTime()
	service.logger.Info(
		runStartedMessageConstant,
		zap.String(logFieldReasonConstant, options.Reason),
		zap.Time(logFieldReferenceTimeConstant, referenceTime),
	)

	priceSheet, resolveError := service.priceResolver.ResolvePrices(executionContext, options.ForceRefresh)
	if resolveError != nil {
		return resolveError
	}

	pageBytes, renderError := service.pageRenderer.Render(priceSheet, referenceTime)
	if renderError != nil {
		return renderError
	}

	if options.DryRun {
		if options.PreviewWriter != nil {
			if _, previewError := options.PreviewWriter.Write(pageBytes); previewError != nil {
				return previewError
			}
		}
		service.logger.Info(dryRunCompletedMessageConstant, zap.Int(logFieldPageBytesConstant, len(pageBytes)))
		return nil
	}

	if writeError := os.WriteFile(service.outputPath, pageBytes, outputFilePermissionsConstant); writeError != nil {
		return writeError
	}
	service.logger.Info(
		pageWrittenMessageConstant,
		zap.String(logFieldOutputPathConstant, service.outputPath),
		zap.Int(logFieldPageBytesConstant, len(pageBytes)),
	)

	if options.SkipPublish {
		service.logger.Info(publishSkippedMessageConstant)
		return nil
	}

	if publishError := service.publisher.Publish(executionContext); publishError != nil {
		return publishError
	}

	service.logger.Info(runCompletedMessageConstant, zap.String(logFieldReasonConstant, options.Reason))
	return nil
}
