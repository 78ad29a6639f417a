package update

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/t-800m101/spothinta/internal/pipeline"
	"github.com/t-800m101/spothinta/internal/utils"
)

const (
	commandUseConstant              = "update"
	commandShortDescriptionConstant = "Regenerate the spot price page and publish it"
	commandLongDescriptionConstant  = "update fetches the latest electricity spot prices, regenerates the HTML price table, and commits the result to the repository."
	reasonFlagNameConstant          = "reason"
	reasonFlagUsageConstant         = "Reason recorded for this manual update"
	repositoryFlagNameConstant      = "repository"
	repositoryFlagUsageConstant     = "Path to the repository holding the published page"
	dryRunFlagNameConstant          = "dry-run"
	dryRunFlagUsageConstant         = "Render the page without writing or publishing artifacts"
	noPublishFlagNameConstant       = "no-publish"
	noPublishFlagUsageConstant      = "Write the page but skip the git commit and push"
	forceRefreshFlagNameConstant    = "force-refresh"
	forceRefreshFlagUsageConstant   = "Fetch prices from the network even when the cache is fresh"
)

// CommandBuilder assembles the update command.
type CommandBuilder struct {
	LoggerProvider                LoggerProvider
	HumanReadableLoggingProvider  func() bool
	ConfigurationProvider         func() CommandConfiguration
	PipelineConfigurationProvider func() pipeline.AssemblyConfiguration
	RunnerFactory                 RunnerFactory
}

// Build constructs the update command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(reasonFlagNameConstant, "", reasonFlagUsageConstant)
	command.Flags().String(repositoryFlagNameConstant, "", repositoryFlagUsageConstant)
	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagUsageConstant)
	command.Flags().Bool(noPublishFlagNameConstant, false, noPublishFlagUsageConstant)
	command.Flags().Bool(forceRefreshFlagNameConstant, false, forceRefreshFlagUsageConstant)

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

	dispatchReason := commandConfiguration.Reason
	if command != nil && command.Flags().Changed(reasonFlagNameConstant) {
		flagReason, _ := command.Flags().GetString(reasonFlagNameConstant)
		if len(strings.TrimSpace(flagReason)) > 0 {
			dispatchReason = strings.TrimSpace(flagReason)
		}
	} else if command != nil {
		contextAccessor := utils.NewCommandContextAccessor()
		contextReason, contextReasonAvailable := contextAccessor.DispatchReason(command.Context())
		if contextReasonAvailable && len(strings.TrimSpace(contextReason)) > 0 {
			dispatchReason = strings.TrimSpace(contextReason)
		}
	}

	dryRun := commandConfiguration.DryRun
	if command != nil && command.Flags().Changed(dryRunFlagNameConstant) {
		dryRun, _ = command.Flags().GetBool(dryRunFlagNameConstant)
	}

	skipPublish := commandConfiguration.NoPublish
	if command != nil && command.Flags().Changed(noPublishFlagNameConstant) {
		skipPublish, _ = command.Flags().GetBool(noPublishFlagNameConstant)
	}

	forceRefresh := commandConfiguration.ForceRefresh
	if command != nil && command.Flags().Changed(forceRefreshFlagNameConstant) {
		forceRefresh, _ = command.Flags().GetBool(forceRefreshFlagNameConstant)
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

	runtimeOptions := pipeline.RuntimeOptions{
		Reason:       dispatchReason,
		DryRun:       dryRun,
		SkipPublish:  skipPublish,
		ForceRefresh: forceRefresh,
	}
	if dryRun && command != nil {
		runtimeOptions.PreviewWriter = utils.NewFlushingWriter(command.OutOrStdout())
	}

	return pipelineRunner.Run(command.Context(), runtimeOptions)
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
