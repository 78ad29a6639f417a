package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/t-800m101/spothinta/internal/prices"
	"github.com/t-800m101/spothinta/internal/publish"
	"github.com/t-800m101/spothinta/internal/report"
	pathutils "github.com/t-800m101/spothinta/internal/utils/path"
)

const (
	// DefaultTimezoneName is the market timezone the published page renders in.
	DefaultTimezoneName = "Europe/Helsinki"

	// DefaultRepositoryPath publishes from the current directory.
	DefaultRepositoryPath = "."

	timezoneLoadErrorTemplateConstant = "unable to load timezone %s: %w"
)

// AssemblyConfiguration carries the persisted settings shared by every command
// that executes publication runs.
type AssemblyConfiguration struct {
	RepositoryPath          string        `mapstructure:"repository"`
	OutputFileName          string        `mapstructure:"output_file"`
	CacheFileName           string        `mapstructure:"cache_file"`
	RenderConfigurationPath string        `mapstructure:"render_config"`
	EndpointURL             string        `mapstructure:"endpoint_url"`
	RequestTimeout          time.Duration `mapstructure:"request_timeout"`
	TimezoneName            string        `mapstructure:"timezone"`
	RefreshHour             int           `mapstructure:"refresh_hour"`
	FreshnessHorizon        time.Duration `mapstructure:"freshness_horizon"`
	CommitMessage           string        `mapstructure:"commit_message"`
	BotName                 string        `mapstructure:"bot_name"`
	BotEmail                string        `mapstructure:"bot_email"`
	RemoteName              string        `mapstructure:"remote"`
	BranchName              string        `mapstructure:"branch"`
}

// DefaultAssemblyConfiguration mirrors the published repository layout.
func DefaultAssemblyConfiguration() AssemblyConfiguration {
	return AssemblyConfiguration{
		RepositoryPath:   DefaultRepositoryPath,
		OutputFileName:   DefaultOutputFileName,
		CacheFileName:    prices.DefaultCacheFileName,
		EndpointURL:      prices.DefaultEndpointURL,
		RequestTimeout:   prices.DefaultRequestTimeout,
		TimezoneName:     DefaultTimezoneName,
		RefreshHour:      prices.DefaultRefreshHour,
		FreshnessHorizon: prices.DefaultFreshnessHorizon,
		CommitMessage:    publish.DefaultCommitMessage,
		BotName:          publish.DefaultBotName,
		BotEmail:         publish.DefaultBotEmail,
	}
}

// DefaultConfigurationValues exposes assembly defaults for configuration registration under the provided key prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	defaults := DefaultAssemblyConfiguration()
	return map[string]any{
		configurationKeyPrefix + ".repository":        defaults.RepositoryPath,
		configurationKeyPrefix + ".output_file":       defaults.OutputFileName,
		configurationKeyPrefix + ".cache_file":        defaults.CacheFileName,
		configurationKeyPrefix + ".render_config":     defaults.RenderConfigurationPath,
		configurationKeyPrefix + ".endpoint_url":      defaults.EndpointURL,
		configurationKeyPrefix + ".request_timeout":   defaults.RequestTimeout.String(),
		configurationKeyPrefix + ".timezone":          defaults.TimezoneName,
		configurationKeyPrefix + ".refresh_hour":      defaults.RefreshHour,
		configurationKeyPrefix + ".freshness_horizon": defaults.FreshnessHorizon.String(),
		configurationKeyPrefix + ".commit_message":    defaults.CommitMessage,
		configurationKeyPrefix + ".bot_name":          defaults.BotName,
		configurationKeyPrefix + ".bot_email":         defaults.BotEmail,
		configurationKeyPrefix + ".remote":            defaults.RemoteName,
		configurationKeyPrefix + ".branch":            defaults.BranchName,
	}
}

// Sanitize fills empty fields with defaults so partial configuration stays usable.
func (configuration AssemblyConfiguration) Sanitize() AssemblyConfiguration {
	defaults := DefaultAssemblyConfiguration()

	sanitized := configuration
	if len(sanitized.RepositoryPath) == 0 {
		sanitized.RepositoryPath = defaults.RepositoryPath
	}
	if len(sanitized.OutputFileName) == 0 {
		sanitized.OutputFileName = defaults.OutputFileName
	}
	if len(sanitized.CacheFileName) == 0 {
		sanitized.CacheFileName = defaults.CacheFileName
	}
	if len(sanitized.EndpointURL) == 0 {
		sanitized.EndpointURL = defaults.EndpointURL
	}
	if sanitized.RequestTimeout <= 0 {
		sanitized.RequestTimeout = defaults.RequestTimeout
	}
	if len(sanitized.TimezoneName) == 0 {
		sanitized.TimezoneName = defaults.TimezoneName
	}
	if sanitized.RefreshHour <= 0 {
		sanitized.RefreshHour = defaults.RefreshHour
	}
	if sanitized.FreshnessHorizon <= 0 {
		sanitized.FreshnessHorizon = defaults.FreshnessHorizon
	}
	if len(sanitized.CommitMessage) == 0 {
		sanitized.CommitMessage = defaults.CommitMessage
	}
	if len(sanitized.BotName) == 0 {
		sanitized.BotName = defaults.BotName
	}
	if len(sanitized.BotEmail) == 0 {
		sanitized.BotEmail = defaults.BotEmail
	}

	return sanitized
}

// Assemble builds a ready-to-run pipeline service from persisted configuration.
func Assemble(configuration AssemblyConfiguration, gitExecutor publish.GitExecutor, logger *zap.Logger) (*Service, error) {
	sanitizedConfiguration := configuration.Sanitize()
	if logger == nil {
		logger = zap.NewNop()
	}

	pathSanitizer := pathutils.NewWorktreePathSanitizer()
	repositoryPath := pathSanitizer.Sanitize(sanitizedConfiguration.RepositoryPath, DefaultRepositoryPath)

	location, locationError := time.LoadLocation(sanitizedConfiguration.TimezoneName)
	if locationError != nil {
		return nil, fmt.Errorf(timezoneLoadErrorTemplateConstant, sanitizedConfiguration.TimezoneName, locationError)
	}

	priceClient := prices.NewClient(sanitizedConfiguration.EndpointURL, sanitizedConfiguration.RequestTimeout, logger)
	cacheStore := prices.NewCacheStore(filepath.Join(repositoryPath, sanitizedConfiguration.CacheFileName))
	priceService := prices.NewService(prices.ServiceOptions{
		Fetcher:          priceClient,
		Store:            cacheStore,
		Location:         location,
		RefreshHour:      sanitizedConfiguration.RefreshHour,
		FreshnessHorizon: sanitizedConfiguration.FreshnessHorizon,
		Logger:           logger,
	})

	renderConfiguration, renderConfigurationError := report.LoadRenderConfiguration(sanitizedConfiguration.RenderConfigurationPath)
	if renderConfigurationError != nil {
		return nil, renderConfigurationError
	}
	pageRenderer := report.NewRenderer(renderConfiguration, location)

	publisher, publisherError := publish.NewPublisher(gitExecutor, publish.Options{
		RepositoryPath: repositoryPath,
		CommitMessage:  sanitizedConfiguration.CommitMessage,
		BotName:        sanitizedConfiguration.BotName,
		BotEmail:       sanitizedConfiguration.BotEmail,
		RemoteName:     sanitizedConfiguration.RemoteName,
		BranchName:     sanitizedConfiguration.BranchName,
		Logger:         logger,
	})
	if publisherError != nil {
		return nil, publisherError
	}

	return NewService(Dependencies{
		PriceResolver: priceService,
		PageRenderer:  pageRenderer,
		Publisher:     publisher,
		OutputPath:    filepath.Join(repositoryPath, sanitizedConfiguration.OutputFileName),
		Logger:        logger,
	})
}
