package update

import (
	"strings"

	"github.com/t-800m101/spothinta/internal/pipeline"
)

// CommandConfiguration captures persisted settings for the update command.
type CommandConfiguration struct {
	Reason       string `mapstructure:"reason"`
	DryRun       bool   `mapstructure:"dry_run"`
	NoPublish    bool   `mapstructure:"no_publish"`
	ForceRefresh bool   `mapstructure:"force_refresh"`
}

// DefaultCommandConfiguration provides default update command settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Reason:       pipeline.DefaultDispatchReason,
		DryRun:       false,
		NoPublish:    false,
		ForceRefresh: false,
	}
}

// DefaultConfigurationValues exposes update defaults for configuration registration under the provided key prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKeyPrefix + ".reason":        defaults.Reason,
		configurationKeyPrefix + ".dry_run":       defaults.DryRun,
		configurationKeyPrefix + ".no_publish":    defaults.NoPublish,
		configurationKeyPrefix + ".force_refresh": defaults.ForceRefresh,
	}
}

// Sanitize normalizes configuration values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Reason = strings.TrimSpace(sanitized.Reason)
	if len(sanitized.Reason) == 0 {
		sanitized.Reason = pipeline.DefaultDispatchReason
	}
	return sanitized
}
