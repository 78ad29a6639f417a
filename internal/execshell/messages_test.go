package execshell

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildStartedMessageForCommitSkipsConfigurationPairs(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"-c", "user.name=spot-hinta-bot", "-c", "user.email=spot-hinta-bot@users.noreply.github.com", "commit", "-m", "Update spot price table"},
			WorkingDirectory: "/workspace/repo",
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Creating commit in /workspace/repo with message \"Update spot price table\"", message)
}

func TestBuildStartedMessageForStageAllUsesAllChangesLabel(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"add", "--all"},
			WorkingDirectory: "/workspace/repo",
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Staging all changes in /workspace/repo", message)
}

func TestBuildStartedMessageForPushWithoutRemoteUsesDefaultRemoteLabel(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"push"},
			WorkingDirectory: "/workspace/repo",
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Pushing to the default remote from /workspace/repo", message)
}

func TestBuildSuccessMessageForPushIncludesRemoteAndBranch(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"push", "origin", "main"},
			WorkingDirectory: "/workspace/repo",
		},
	}

	message := formatter.BuildSuccessMessage(command)

	require.Equal(t, "Pushed main to origin from /workspace/repo", message)
}

func TestBuildFailureMessageForWorktreeCheckIncludesExitCodeAndStderr(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"rev-parse", "--is-inside-work-tree"},
			WorkingDirectory: "/workspace/repo",
		},
	}
	result := ExecutionResult{ExitCode: 128, StandardError: "fatal: not a git repository"}

	message := formatter.BuildFailureMessage(command, result)

	require.Equal(t, "Could not confirm /workspace/repo is a Git repository (exit code 128: fatal: not a git repository)", message)
}

func TestBuildStartedMessageForUnknownSubcommandFallsBackToGenericLabel(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments: []string{"log", "--oneline"},
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Running git log --oneline", message)
}
