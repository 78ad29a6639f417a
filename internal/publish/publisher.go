package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/t-800m101/spothinta/internal/execshell"
)

const (
	// DefaultCommitMessage is recorded on every publication commit.
	DefaultCommitMessage = "Update spot price table"

	// DefaultBotName identifies the committing automation account.
	DefaultBotName = "spot-hinta-bot"

	// DefaultBotEmail is the committing automation account address.
	DefaultBotEmail = "spot-hinta-bot@users.noreply.github.com"

	gitRevParseSubcommandConstant      = "rev-parse"
	gitWorkTreeFlagConstant            = "--is-inside-work-tree"
	gitStatusSubcommandConstant        = "status"
	gitStatusPorcelainFlagConstant     = "--porcelain"
	gitAddSubcommandConstant           = "add"
	gitAddAllFlagConstant              = "--all"
	gitCommitSubcommandConstant        = "commit"
	gitCommitMessageFlagConstant       = "-m"
	gitConfigFlagConstant              = "-c"
	gitPushSubcommandConstant          = "push"
	gitUserNameConfigTemplateConstant  = "user.name=%s"
	gitUserEmailConfigTemplateConstant = "user.email=%s"
	gitWorkTreeExpectedOutputConstant  = "true"

	executorRequiredMessageConstant       = "git executor must be configured"
	repositoryPathRequiredMessageConstant = "repository path must be provided"
	notARepositoryErrorTemplateConstant   = "%s is not inside a Git work tree"
	cleanWorktreeMessageConstant          = "working tree clean, nothing to publish"
	publicationCommittedMessageConstant   = "publication committed"
	publicationPushedMessageConstant      = "publication pushed"
	logFieldRepositoryConstant            = "repository"
	logFieldCommitMessageConstant         = "commit_message"
	logFieldRemoteConstant                = "remote"
	logFieldBranchConstant                = "branch"
	defaultRemoteLabelConstant            = "default"
)

// GitExecutor runs git commands on behalf of the publisher.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Options configures a Publisher.
type Options struct {
	RepositoryPath string
	CommitMessage  string
	BotName        string
	BotEmail       string
	RemoteName     string
	BranchName     string
	Logger         *zap.Logger
}

// Publisher stages, commits, and pushes working tree changes using a bot identity.
type Publisher struct {
	gitExecutor    GitExecutor
	repositoryPath string
	commitMessage  string
	botName        string
	botEmail       string
	remoteName     string
	branchName     string
	logger         *zap.Logger
}

// NewPublisher constructs a Publisher, applying defaults for unset options.
func NewPublisher(gitExecutor GitExecutor, options Options) (*Publisher, error) {
	if gitExecutor == nil {
		return nil, errors.New(executorRequiredMessageConstant)
	}

	trimmedRepositoryPath := strings.TrimSpace(options.RepositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return nil, errors.New(repositoryPathRequiredMessageConstant)
	}

	resolvedCommitMessage := strings.TrimSpace(options.CommitMessage)
	if len(resolvedCommitMessage) == 0 {
		resolvedCommitMessage = DefaultCommitMessage
	}
	resolvedBotName := strings.TrimSpace(options.BotName)
	if len(resolvedBotName) == 0 {
		resolvedBotName = DefaultBotName
	}
	resolvedBotEmail := strings.TrimSpace(options.BotEmail)
	if len(resolvedBotEmail) == 0 {
		resolvedBotEmail = DefaultBotEmail
	}
	resolvedLogger := options.Logger
	if resolvedLogger == nil {
		resolvedLogger = zap.NewNop()
	}

	return &Publisher{
		gitExecutor:    gitExecutor,
		repositoryPath: trimmedRepositoryPath,
		commitMessage:  resolvedCommitMessage,
		botName:        resolvedBotName,
		botEmail:       resolvedBotEmail,
		remoteName:     strings.TrimSpace(options.RemoteName),
		branchName:     strings.TrimSpace(options.BranchName),
		logger:         resolvedLogger,
	}, nil
}

// Publish stages all changes, commits with the fixed message, and pushes.
// A clean working tree is a logged no-op.
func (publisher *Publisher) Publish(executionContext context.Context) error {
	if verificationError := publisher.verifyRepository(executionContext); verificationError != nil {
		return verificationError
	}

	worktreeDirty, statusError := publisher.worktreeDirty(executionContext)
	if statusError != nil {
		return statusError
	}
	if !worktreeDirty {
		publisher.logger.Info(cleanWorktreeMessageConstant, zap.String(logFieldRepositoryConstant, publisher.repositoryPath))
		return nil
	}

	if stageError := publisher.stageAll(executionContext); stageError != nil {
		return stageError
	}

	if commitError := publisher.commit(executionContext); commitError != nil {
		return commitError
	}

	return publisher.push(executionContext)
}

func (publisher *Publisher) verifyRepository(executionContext context.Context) error {
	executionResult, executionError := publisher.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitWorkTreeFlagConstant},
		WorkingDirectory: publisher.repositoryPath,
	})
	if executionError != nil {
		return executionError
	}

	if strings.TrimSpace(executionResult.StandardOutput) != gitWorkTreeExpectedOutputConstant {
		return fmt.Errorf(notARepositoryErrorTemplateConstant, publisher.repositoryPath)
	}
	return nil
}

func (publisher *Publisher) worktreeDirty(executionContext context.Context) (bool, error) {
	executionResult, executionError := publisher.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitStatusSubcommandConstant, gitStatusPorcelainFlagConstant},
		WorkingDirectory: publisher.repositoryPath,
	})
	if executionError != nil {
		return false, executionError
	}

	return len(strings.TrimSpace(executionResult.StandardOutput)) > 0, nil
}

func (publisher *Publisher) stageAll(executionContext context.Context) error {
	_, executionError := publisher.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitAddSubcommandConstant, gitAddAllFlagConstant},
		WorkingDirectory: publisher.repositoryPath,
	})
	return executionError
}

func (publisher *Publisher) commit(executionContext context.Context) error {
	commitArguments := []string{
		gitConfigFlagConstant, fmt.Sprintf(gitUserNameConfigTemplateConstant, publisher.botName),
		gitConfigFlagConstant, fmt.Sprintf(gitUserEmailConfigTemplateConstant, publisher.botEmail),
		gitCommitSubcommandConstant,
		gitCommitMessageFlagConstant, publisher.commitMessage,
	}

	_, executionError := publisher.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        commitArguments,
		WorkingDirectory: publisher.repositoryPath,
	})
	if executionError != nil {
		return executionError
	}

	publisher.logger.Info(
		publicationCommittedMessageConstant,
		zap.String(logFieldRepositoryConstant, publisher.repositoryPath),
		zap.String(logFieldCommitMessageConstant, publisher.commitMessage),
	)
	return nil
}

func (publisher *Publisher) push(executionContext context.Context) error {
	pushArguments := []string{gitPushSubcommandConstant}
	if len(publisher.remoteName) > 0 {
		pushArguments = append(pushArguments, publisher.remoteName)
		if len(publisher.branchName) > 0 {
			pushArguments = append(pushArguments, publisher.branchName)
		}
	}

	_, executionError := publisher.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        pushArguments,
		WorkingDirectory: publisher.repositoryPath,
	})
	if executionError != nil {
		return executionError
	}

	remoteLabel := publisher.remoteName
	if len(remoteLabel) == 0 {
		remoteLabel = defaultRemoteLabelConstant
	}
	publisher.logger.Info(
		publicationPushedMessageConstant,
		zap.String(logFieldRepositoryConstant, publisher.repositoryPath),
		zap.String(logFieldRemoteConstant, remoteLabel),
		zap.String(logFieldBranchConstant, publisher.branchName),
	)
	return nil
}
