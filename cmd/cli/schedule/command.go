package schedule

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/t-800m101/spothinta/internal/pipeline"
	"github.com/t-800m101/spothinta/internal/schedule"
)

const (
	commandUseConstant                = "schedule"
	commandShortDescriptionConstant   = "Run recurring spot price updates on a cron schedule"
	commandLongDescriptionConstant    = "schedule keeps the published price table current by executing publication runs on a cron expression until interrupted."
	cronFlagNameConstant              = "cron"
	cronFlagUsageConstant             = "Cron expression controlling when publication runs fire"
	repositoryFlagNameConstant        = "repository"
	repositoryFlagUsageConstant       = "Path to the repository holding the published page"
	noPublishFlagNameConstant         = "no-publish"
	noPublishFlagUsageConstant        = "Write the page but skip the git commit and push"
	timezoneLoadErrorTemplateConstant = "unable to load timezone %s: %w"
)

// CommandBuilder assembles the schedule command.
type CommandBuilder struct {
	LoggerProvider                LoggerProvider
	HumanReadableLoggingProvider  func() bool
	ConfigurationProvider         func() CommandConfiguration
	PipelineConfigurationProvider func() pipeline.AssemblyConfiguration
	RunnerFactory                 RunnerFactory
}

// Build constructs the schedule command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(cronFlagNameConstant, "", cronFlagUsageConstant)
	command.Flags().String(repositoryFlagNameConstant, "", repositoryFlagUsageConstant)
	command.Flags().Bool(noPublishFlagNameConstant, false, noPublishFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := resolveLogger(builder.LoggerProvider)
	commandConfiguration := builder.resolveConfiguration()
	pipelineConfiguration := builder.resolvePipelineConfiguration()

	if command != nil && command.Flags().Changed(repositoryFlagNameConstant) {
		repositoryValue, _ := command.Flags().GetString(repositoryFlagNameConstant)
		pipelineConfiguration.RepositoryPath = repositoryValue
	}

	cronExpression := commandConfiguration.CronExpression
	if command != nil && command.Flags().Changed(cronFlagNameConstant) {
		flagCronExpression, _ := command.Flags().GetString(cronFlagNameConstant)
		cronExpression = flagCronExpression
	}

	skipPublish := commandConfiguration.NoPublish
	if command != nil && command.Flags().Changed(noPublishFlagNameConstant) {
		skipPublish, _ = command.Flags().GetBool(noPublishFlagNameConstant)
	}

	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	runnerFactory := builder.RunnerFactory
	if runnerFactory == nil {
		runnerFactory = assemblePipelineRunner
	}
	pipelineRunner, runnerError := runnerFactory(pipelineConfiguration, logger, humanReadableLogging)
	if runnerError != nil {
		return runnerError
	}

	location, locationError := time.LoadLocation(pipelineConfiguration.TimezoneName)
	if locationError != nil {
		return fmt.Errorf(timezoneLoadErrorTemplateConstant, pipelineConfiguration.TimezoneName, locationError)
	}

	scheduler, schedulerError := schedule.NewScheduler(pipelineRunner, schedule.Options{
		CronExpression: cronExpression,
		Location:       location,
		RuntimeOptions: pipeline.RuntimeOptions{
			Reason:      commandConfiguration.Reason,
			SkipPublish: skipPublish,
		},
		Logger: logger,
	})
	if schedulerError != nil {
		return schedulerError
	}

	signalContext, stopSignalHandling := signal.NotifyContext(command.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignalHandling()

	if startError := scheduler.Start(); startError != nil {
		return startError
	}

	<-signalContext.Done()
	scheduler.Stop()

	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolvePipelineConfiguration() pipeline.AssemblyConfiguration {
	if builder.PipelineConfigurationProvider == nil {
		return pipeline.DefaultAssemblyConfiguration()
	}
	return builder.PipelineConfigurationProvider().Sanitize()
}
