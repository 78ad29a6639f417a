package schedule

import (
	"strings"

	"github.com/t-800m101/spothinta/internal/schedule"
)

// CommandConfiguration captures persisted settings for the schedule command.
type CommandConfiguration struct {
	CronExpression string `mapstructure:"cron"`
	Reason         string `mapstructure:"reason"`
	NoPublish      bool   `mapstructure:"no_publish"`
}

// DefaultCommandConfiguration provides default schedule command settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		CronExpression: schedule.DefaultCronExpression,
		Reason:         schedule.DefaultScheduledReason,
		NoPublish:      false,
	}
}

// DefaultConfigurationValues exposes schedule defaults for configuration registration under the provided key prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKeyPrefix + ".cron":       defaults.CronExpression,
		configurationKeyPrefix + ".reason":     defaults.Reason,
		configurationKeyPrefix + ".no_publish": defaults.NoPublish,
	}
}

// Sanitize normalizes configuration values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.CronExpression = strings.TrimSpace(sanitized.CronExpression)
	if len(sanitized.CronExpression) == 0 {
		sanitized.CronExpression = schedule.DefaultCronExpression
	}
	sanitized.Reason = strings.TrimSpace(sanitized.Reason)
	if len(sanitized.Reason) == 0 {
		sanitized.Reason = schedule.DefaultScheduledReason
	}
	return sanitized
}
