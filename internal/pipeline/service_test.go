package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/t-800m101/spothinta/internal/pipeline"
	"github.com/t-800m101/spothinta/internal/prices"
)

const (
	testRenderedPageConstant        = "<html>prices</html>"
	testDispatchReasonConstant      = "Manual update"
	testFullRunCaseNameConstant     = "full_run_writes_and_publishes"
	testDryRunCaseNameConstant      = "dry_run_skips_artifacts"
	testSkipPublishCaseNameConstant = "skip_publish_writes_only"
)

type stubPriceResolver struct {
	sheet            prices.PriceSheet
	resolveError     error
	referenceTime    time.Time
	forceRefreshSeen bool
}

func (resolver *stubPriceResolver) ResolvePrices(executionContext context.Context, forceRefresh bool) (prices.PriceSheet, error) {
	resolver.forceRefreshSeen = forceRefresh
	return resolver.sheet, resolver.resolveError
}

func (resolver *stubPriceResolver) ReferenceTime() time.Time {
	return resolver.referenceTime
}

type stubPageRenderer struct {
	pageBytes   []byte
	renderError error
}

func (renderer *stubPageRenderer) Render(priceSheet prices.PriceSheet, referenceTime time.Time) ([]byte, error) {
	return renderer.pageBytes, renderer.renderError
}

type stubPublisher struct {
	publishError error
	callCount    int
}

func (publisher *stubPublisher) Publish(executionContext context.Context) error {
	publisher.callCount++
	return publisher.publishError
}

func newTestService(testInstance *testing.T, outputPath string, publisher *stubPublisher) *pipeline.Service {
	service, creationError := pipeline.NewService(pipeline.Dependencies{
		PriceResolver: &stubPriceResolver{referenceTime: time.Now()},
		PageRenderer:  &stubPageRenderer{pageBytes: []byte(testRenderedPageConstant)},
		Publisher:     publisher,
		OutputPath:    outputPath,
	})
	require.NoError(testInstance, creationError)
	return service
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	completeDependencies := pipeline.Dependencies{
		PriceResolver: &stubPriceResolver{},
		PageRenderer:  &stubPageRenderer{},
		Publisher:     &stubPublisher{},
		OutputPath:    pipeline.DefaultOutputFileName,
	}

	testCases := []struct {
		name   string
		mutate func(dependencies pipeline.Dependencies) pipeline.Dependencies
	}{
		{
			name: "missing_price_resolver",
			mutate: func(dependencies pipeline.Dependencies) pipeline.Dependencies {
				dependencies.PriceResolver = nil
				return dependencies
			},
		},
		{
			name: "missing_page_renderer",
			mutate: func(dependencies pipeline.Dependencies) pipeline.Dependencies {
				dependencies.PageRenderer = nil
				return dependencies
			},
		},
		{
			name: "missing_publisher",
			mutate: func(dependencies pipeline.Dependencies) pipeline.Dependencies {
				dependencies.Publisher = nil
				return dependencies
			},
		},
		{
			name: "missing_output_path",
			mutate: func(dependencies pipeline.Dependencies) pipeline.Dependencies {
				dependencies.OutputPath = ""
				return dependencies
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, creationError := pipeline.NewService(testCase.mutate(completeDependencies))
			require.Error(testInstance, creationError)
		})
	}

	service, creationError := pipeline.NewService(completeDependencies)
	require.NoError(testInstance, creationError)
	require.NotNil(testInstance, service)
}

func TestServiceRunModes(testInstance *testing.T) {
	testCases := []struct {
		name            string
		options         pipeline.RuntimeOptions
		expectFile      bool
		expectPublished bool
	}{
		{
			name:            testFullRunCaseNameConstant,
			options:         pipeline.RuntimeOptions{Reason: testDispatchReasonConstant},
			expectFile:      true,
			expectPublished: true,
		},
		{
			name:    testDryRunCaseNameConstant,
			options: pipeline.RuntimeOptions{Reason: testDispatchReasonConstant, DryRun: true},
		},
		{
			name:       testSkipPublishCaseNameConstant,
			options:    pipeline.RuntimeOptions{Reason: testDispatchReasonConstant, SkipPublish: true},
			expectFile: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputPath := filepath.Join(testInstance.TempDir(), pipeline.DefaultOutputFileName)
			publisher := &stubPublisher{}
			service := newTestService(testInstance, outputPath, publisher)

			runError := service.Run(context.Background(), testCase.options)
			require.NoError(testInstance, runError)

			_, statError := os.Stat(outputPath)
			if testCase.expectFile {
				require.NoError(testInstance, statError)
				writtenBytes, readError := os.ReadFile(outputPath)
				require.NoError(testInstance, readError)
				require.Equal(testInstance, testRenderedPageConstant, string(writtenBytes))
			} else {
				require.True(testInstance, os.IsNotExist(statError))
			}

			if testCase.expectPublished {
				require.Equal(testInstance, 1, publisher.callCount)
			} else {
				require.Zero(testInstance, publisher.callCount)
			}
		})
	}
}

func TestServiceRunDryRunStreamsPreview(testInstance *testing.T) {
	outputPath := filepath.Join(testInstance.TempDir(), pipeline.DefaultOutputFileName)
	publisher := &stubPublisher{}
	service := newTestService(testInstance, outputPath, publisher)

	var previewBuffer bytes.Buffer
	runError := service.Run(context.Background(), pipeline.RuntimeOptions{DryRun: true, PreviewWriter: &previewBuffer})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, testRenderedPageConstant, previewBuffer.String())
}

func TestServiceRunForwardsForceRefresh(testInstance *testing.T) {
	priceResolver := &stubPriceResolver{referenceTime: time.Now()}
	service, creationError := pipeline.NewService(pipeline.Dependencies{
		PriceResolver: priceResolver,
		PageRenderer:  &stubPageRenderer{pageBytes: []byte(testRenderedPageConstant)},
		Publisher:     &stubPublisher{},
		OutputPath:    filepath.Join(testInstance.TempDir(), pipeline.DefaultOutputFileName),
	})
	require.NoError(testInstance, creationError)

	runError := service.Run(context.Background(), pipeline.RuntimeOptions{ForceRefresh: true})
	require.NoError(testInstance, runError)
	require.True(testInstance, priceResolver.forceRefreshSeen)
}

func TestServiceRunPropagatesCollaboratorFailures(testInstance *testing.T) {
	resolveFailure := errors.New("resolve failed")
	renderFailure := errors.New("render failed")
	publishFailure := errors.New("publish failed")

	testCases := []struct {
		name          string
		priceResolver pipeline.PriceResolver
		pageRenderer  pipeline.PageRenderer
		publisher     pipeline.Publisher
		expectedError error
	}{
		{
			name:          "resolver_failure",
			priceResolver: &stubPriceResolver{resolveError: resolveFailure},
			pageRenderer:  &stubPageRenderer{pageBytes: []byte(testRenderedPageConstant)},
			publisher:     &stubPublisher{},
			expectedError: resolveFailure,
		},
		{
			name:          "renderer_failure",
			priceResolver: &stubPriceResolver{},
			pageRenderer:  &stubPageRenderer{renderError: renderFailure},
			publisher:     &stubPublisher{},
			expectedError: renderFailure,
		},
		{
			name:          "publisher_failure",
			priceResolver: &stubPriceResolver{},
			pageRenderer:  &stubPageRenderer{pageBytes: []byte(testRenderedPageConstant)},
			publisher:     &stubPublisher{publishError: publishFailure},
			expectedError: publishFailure,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			service, creationError := pipeline.NewService(pipeline.Dependencies{
				PriceResolver: testCase.priceResolver,
				PageRenderer:  testCase.pageRenderer,
				Publisher:     testCase.publisher,
				OutputPath:    filepath.Join(testInstance.TempDir(), pipeline.DefaultOutputFileName),
			})
			require.NoError(testInstance, creationError)

			runError := service.Run(context.Background(), pipeline.RuntimeOptions{})
			require.ErrorIs(testInstance, runError, testCase.expectedError)
		})
	}
}
