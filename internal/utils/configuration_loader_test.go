package utils_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/t-800m101/spothinta/internal/utils"
)

const (
	testConfigurationNameConstant     = "config"
	testConfigurationTypeConstant     = "yaml"
	testEnvironmentPrefixConstant     = "SPOTHINTATEST"
	testConfigurationFileNameConstant = "config.yaml"
	testConfigurationContentConstant  = "common:\n  log_level: debug\npipeline:\n  request_timeout: 45s\n"
	testEmbeddedContentConstant       = "common:\n  log_level: warn\n  log_format: console\n"
	testEnvironmentVariableConstant   = "SPOTHINTATEST_COMMON_LOG_LEVEL"
	testEnvironmentValueConstant      = "error"
)

type testCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

type testPipelineConfiguration struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type testRootConfiguration struct {
	Common   testCommonConfiguration   `mapstructure:"common"`
	Pipeline testPipelineConfiguration `mapstructure:"pipeline"`
}

func writeConfigurationFile(testInstance *testing.T, content string) string {
	configurationPath := filepath.Join(testInstance.TempDir(), testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(content), 0o644))
	return configurationPath
}

func defaultTestValues() map[string]any {
	return map[string]any{
		"common.log_level":         "info",
		"common.log_format":        "structured",
		"pipeline.request_timeout": "30s",
	}
}

func TestLoadConfigurationAppliesDefaultsWithoutFile(testInstance *testing.T) {
	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{testInstance.TempDir()})

	var configuration testRootConfiguration
	_, loadError := loader.LoadConfiguration("", defaultTestValues(), &configuration)
	require.NoError(testInstance, loadError)

	require.Equal(testInstance, "info", configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", configuration.Common.LogFormat)
	require.Equal(testInstance, 30*time.Second, configuration.Pipeline.RequestTimeout)
}

func TestLoadConfigurationReadsFileAndDecodesDurations(testInstance *testing.T) {
	configurationPath := writeConfigurationFile(testInstance, testConfigurationContentConstant)
	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)

	var configuration testRootConfiguration
	loadedConfiguration, loadError := loader.LoadConfiguration(configurationPath, defaultTestValues(), &configuration)
	require.NoError(testInstance, loadError)

	require.Equal(testInstance, configurationPath, loadedConfiguration.ConfigFileUsed)
	require.Equal(testInstance, "debug", configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", configuration.Common.LogFormat)
	require.Equal(testInstance, 45*time.Second, configuration.Pipeline.RequestTimeout)
}

func TestLoadConfigurationEnvironmentOverridesFile(testInstance *testing.T) {
	testInstance.Setenv(testEnvironmentVariableConstant, testEnvironmentValueConstant)

	configurationPath := writeConfigurationFile(testInstance, testConfigurationContentConstant)
	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)

	var configuration testRootConfiguration
	_, loadError := loader.LoadConfiguration(configurationPath, defaultTestValues(), &configuration)
	require.NoError(testInstance, loadError)

	require.Equal(testInstance, testEnvironmentValueConstant, configuration.Common.LogLevel)
}

func TestLoadConfigurationMergesEmbeddedConfigurationBeneathFile(testInstance *testing.T) {
	configurationPath := writeConfigurationFile(testInstance, testConfigurationContentConstant)
	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)
	loader.SetEmbeddedConfiguration([]byte(testEmbeddedContentConstant), testConfigurationTypeConstant)

	var configuration testRootConfiguration
	_, loadError := loader.LoadConfiguration(configurationPath, nil, &configuration)
	require.NoError(testInstance, loadError)

	require.Equal(testInstance, "debug", configuration.Common.LogLevel)
	require.Equal(testInstance, "console", configuration.Common.LogFormat)
}

func TestLoadConfigurationReportsMalformedFile(testInstance *testing.T) {
	configurationPath := writeConfigurationFile(testInstance, "common: [\n")
	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)

	var configuration testRootConfiguration
	_, loadError := loader.LoadConfiguration(configurationPath, nil, &configuration)
	require.Error(testInstance, loadError)
}
