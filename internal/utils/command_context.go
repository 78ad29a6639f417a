package utils

import "context"

const (
	configurationFilePathContextKeyConstant = commandContextKey("configurationFilePath")
	dispatchReasonContextKeyConstant        = commandContextKey("dispatchReason")
)

type commandContextKey string

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath attaches the configuration file path to the provided context.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilePathContextKeyConstant, configurationFilePath)
}

// ConfigurationFilePath extracts the configuration file path from the provided context.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, configurationFilePathAvailable := executionContext.Value(configurationFilePathContextKeyConstant).(string)
	if !configurationFilePathAvailable {
		return "", false
	}
	return configurationFilePath, true
}

// WithDispatchReason attaches the manual dispatch reason to the provided context.
func (accessor CommandContextAccessor) WithDispatchReason(parentContext context.Context, dispatchReason string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, dispatchReasonContextKeyConstant, dispatchReason)
}

// DispatchReason extracts the manual dispatch reason from the provided context.
func (accessor CommandContextAccessor) DispatchReason(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	dispatchReason, dispatchReasonAvailable := executionContext.Value(dispatchReasonContextKeyConstant).(string)
	if !dispatchReasonAvailable {
		return "", false
	}
	return dispatchReason, true
}
