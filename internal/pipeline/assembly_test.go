package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/t-800m101/spothinta/internal/execshell"
	"github.com/t-800m101/spothinta/internal/pipeline"
	"github.com/t-800m101/spothinta/internal/prices"
	"github.com/t-800m101/spothinta/internal/publish"
)

const testInvalidTimezoneNameConstant = "Mars/Olympus_Mons"

type stubGitExecutor struct{}

func (executor *stubGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{}, nil
}

func TestDefaultAssemblyConfigurationMatchesPublishedLayout(testInstance *testing.T) {
	defaults := pipeline.DefaultAssemblyConfiguration()

	require.Equal(testInstance, pipeline.DefaultOutputFileName, defaults.OutputFileName)
	require.Equal(testInstance, prices.DefaultCacheFileName, defaults.CacheFileName)
	require.Equal(testInstance, prices.DefaultEndpointURL, defaults.EndpointURL)
	require.Equal(testInstance, pipeline.DefaultTimezoneName, defaults.TimezoneName)
	require.Equal(testInstance, publish.DefaultCommitMessage, defaults.CommitMessage)
	require.Equal(testInstance, publish.DefaultBotName, defaults.BotName)
	require.Empty(testInstance, defaults.RemoteName)
}

func TestAssemblyConfigurationSanitizeFillsEmptyFields(testInstance *testing.T) {
	sanitized := pipeline.AssemblyConfiguration{RemoteName: "origin"}.Sanitize()
	defaults := pipeline.DefaultAssemblyConfiguration()

	require.Equal(testInstance, defaults.RepositoryPath, sanitized.RepositoryPath)
	require.Equal(testInstance, defaults.RequestTimeout, sanitized.RequestTimeout)
	require.Equal(testInstance, defaults.RefreshHour, sanitized.RefreshHour)
	require.Equal(testInstance, defaults.FreshnessHorizon, sanitized.FreshnessHorizon)
	require.Equal(testInstance, "origin", sanitized.RemoteName)
}

func TestAssembleProducesRunnableService(testInstance *testing.T) {
	configuration := pipeline.DefaultAssemblyConfiguration()
	configuration.RepositoryPath = testInstance.TempDir()

	service, assembleError := pipeline.Assemble(configuration, &stubGitExecutor{}, nil)
	require.NoError(testInstance, assembleError)
	require.NotNil(testInstance, service)
}

func TestAssembleRejectsUnknownTimezone(testInstance *testing.T) {
	configuration := pipeline.DefaultAssemblyConfiguration()
	configuration.TimezoneName = testInvalidTimezoneNameConstant

	_, assembleError := pipeline.Assemble(configuration, &stubGitExecutor{}, nil)
	require.Error(testInstance, assembleError)
}

func TestAssembleRequiresGitExecutor(testInstance *testing.T) {
	_, assembleError := pipeline.Assemble(pipeline.DefaultAssemblyConfiguration(), nil, nil)
	require.Error(testInstance, assembleError)
}
