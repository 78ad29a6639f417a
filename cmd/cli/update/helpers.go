package update

import (
	"context"

	"go.uber.org/zap"

	"github.com/t-800m101/spothinta/internal/execshell"
	"github.com/t-800m101/spothinta/internal/pipeline"
	"github.com/t-800m101/spothinta/internal/ui"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// PipelineRunner executes one publication run.
type PipelineRunner interface {
	Run(executionContext context.Context, options pipeline.RuntimeOptions) error
}

// RunnerFactory assembles a pipeline runner from persisted configuration.
type RunnerFactory func(configuration pipeline.AssemblyConfiguration, logger *zap.Logger, humanReadableLogging bool) (PipelineRunner, error)

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func assemblePipelineRunner(configuration pipeline.AssemblyConfiguration, logger *zap.Logger, humanReadableLogging bool) (PipelineRunner, error) {
	commandRunner := execshell.NewOSCommandRunner()

	var shellExecutor *execshell.ShellExecutor
	var executorError error
	if humanReadableLogging {
		shellExecutor, executorError = execshell.NewShellExecutorWithObserver(logger, commandRunner, ui.NewConsoleCommandEventLogger(logger))
	} else {
		shellExecutor, executorError = execshell.NewShellExecutor(logger, commandRunner)
	}
	if executorError != nil {
		return nil, executorError
	}

	return pipeline.Assemble(configuration, shellExecutor, logger)
}
