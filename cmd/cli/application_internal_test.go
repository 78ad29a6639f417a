package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/t-800m101/spothinta/internal/pipeline"
	"github.com/t-800m101/spothinta/internal/prices"
	"github.com/t-800m101/spothinta/internal/schedule"
)

const (
	testUpdateCommandNameConstant     = "update"
	testScheduleCommandNameConstant   = "schedule"
	testConfigurationFileNameConstant = "config.yaml"
	testConfigurationContentConstant  = "common:\n  log_level: debug\npipeline:\n  repository: /workspace/site\n  remote: origin\n  branch: main\n"
	testConsoleFormatContentConstant  = "common:\n  log_format: console\n"
)

func registeredCommandNames(application *Application) []string {
	commandNames := []string{}
	for _, command := range application.rootCommand.Commands() {
		commandNames = append(commandNames, command.Name())
	}
	return commandNames
}

func TestNewApplicationRegistersSubcommands(testInstance *testing.T) {
	application := NewApplication()

	commandNames := registeredCommandNames(application)
	require.Contains(testInstance, commandNames, testUpdateCommandNameConstant)
	require.Contains(testInstance, commandNames, testScheduleCommandNameConstant)
}

func TestInitializeConfigurationAppliesEmbeddedDefaults(testInstance *testing.T) {
	application := NewApplication()

	initializationError := application.initializeConfiguration(application.rootCommand)
	require.NoError(testInstance, initializationError)

	require.Equal(testInstance, pipeline.DefaultTimezoneName, application.configuration.Pipeline.TimezoneName)
	require.Equal(testInstance, prices.DefaultCacheFileName, application.configuration.Pipeline.CacheFileName)
	require.Equal(testInstance, pipeline.DefaultOutputFileName, application.configuration.Pipeline.OutputFileName)
	require.Equal(testInstance, schedule.DefaultCronExpression, application.configuration.Tools.Schedule.CronExpression)
	require.Equal(testInstance, pipeline.DefaultDispatchReason, application.configuration.Tools.Update.Reason)
}

func TestInitializeConfigurationReadsConfigurationFile(testInstance *testing.T) {
	configurationPath := filepath.Join(testInstance.TempDir(), testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(testConfigurationContentConstant), 0o644))

	application := NewApplication()
	application.configurationFilePath = configurationPath

	initializationError := application.initializeConfiguration(application.rootCommand)
	require.NoError(testInstance, initializationError)

	require.Equal(testInstance, "debug", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "/workspace/site", application.configuration.Pipeline.RepositoryPath)
	require.Equal(testInstance, "origin", application.configuration.Pipeline.RemoteName)
	require.Equal(testInstance, "main", application.configuration.Pipeline.BranchName)
	require.Equal(testInstance, configurationPath, application.configurationMetadata.ConfigFileUsed)
}

func TestHumanReadableLoggingFollowsLogFormat(testInstance *testing.T) {
	configurationPath := filepath.Join(testInstance.TempDir(), testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(testConsoleFormatContentConstant), 0o644))

	application := NewApplication()
	require.False(testInstance, application.humanReadableLoggingEnabled())

	application.configurationFilePath = configurationPath
	require.NoError(testInstance, application.initializeConfiguration(application.rootCommand))
	require.True(testInstance, application.humanReadableLoggingEnabled())
}
