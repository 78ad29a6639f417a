package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/t-800m101/spothinta/internal/pipeline"
)

const (
	// DefaultCronExpression fires at the top of every hour.
	DefaultCronExpression = "0 * * * *"

	// DefaultScheduledReason is recorded on runs triggered by the schedule.
	DefaultScheduledReason = "Scheduled update"

	cronFieldCountWithSecondsConstant = 6

	runnerRequiredMessageConstant     = "pipeline runner must be configured"
	jobRegistrationErrorTemplate      = "unable to register cron job: %w"
	schedulerStartedMessageConstant   = "scheduler started"
	schedulerStoppedMessageConstant   = "scheduler stopped"
	scheduledRunFailedMessageConstant = "scheduled publication run failed"
	logFieldCronExpressionConstant    = "cron_expression"
)

// Runner executes one publication run.
type Runner interface {
	Run(executionContext context.Context, options pipeline.RuntimeOptions) error
}

// Scheduler fires publication runs on a cron expression. Runs are serialized:
// a firing that arrives while a run is active is skipped.
type Scheduler struct {
	cronScheduler  *gocron.Scheduler
	cronExpression string
	runner         Runner
	runtimeOptions pipeline.RuntimeOptions
	logger         *zap.Logger
}

// Options configures a Scheduler.
type Options struct {
	CronExpression string
	Location       *time.Location
	RuntimeOptions pipeline.RuntimeOptions
	Logger         *zap.Logger
}

// NewScheduler constructs a Scheduler around the provided runner.
func NewScheduler(runner Runner, options Options) (*Scheduler, error) {
	if runner == nil {
		return nil, errors.New(runnerRequiredMessageConstant)
	}

	resolvedCronExpression := strings.TrimSpace(options.CronExpression)
	if len(resolvedCronExpression) == 0 {
		resolvedCronExpression = DefaultCronExpression
	}
	resolvedLocation := options.Location
	if resolvedLocation == nil {
		resolvedLocation = time.UTC
	}
	resolvedLogger := options.Logger
	if resolvedLogger == nil {
		resolvedLogger = zap.NewNop()
	}
	resolvedRuntimeOptions := options.RuntimeOptions
	if len(strings.TrimSpace(resolvedRuntimeOptions.Reason)) == 0 {
		resolvedRuntimeOptions.Reason = DefaultScheduledReason
	}

	cronScheduler := gocron.NewScheduler(resolvedLocation)
	cronScheduler.SingletonModeAll()

	return &Scheduler{
		cronScheduler:  cronScheduler,
		cronExpression: resolvedCronExpression,
		runner:         runner,
		runtimeOptions: resolvedRuntimeOptions,
		logger:         resolvedLogger,
	}, nil
}

// Start registers the cron job and begins firing asynchronously.
// Six-field expressions schedule with second precision.
func (scheduler *Scheduler) Start() error {
	jobDefinition := scheduler.cronScheduler.Cron(scheduler.cronExpression)
	if len(strings.Fields(scheduler.cronExpression)) == cronFieldCountWithSecondsConstant {
		jobDefinition = scheduler.cronScheduler.CronWithSeconds(scheduler.cronExpression)
	}

	_, jobError := jobDefinition.Do(scheduler.executeRun)
	if jobError != nil {
		return fmt.Errorf(jobRegistrationErrorTemplate, jobError)
	}

	scheduler.cronScheduler.StartAsync()
	scheduler.logger.Info(schedulerStartedMessageConstant, zap.String(logFieldCronExpressionConstant, scheduler.cronExpression))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (scheduler *Scheduler) Stop() {
	scheduler.cronScheduler.Stop()
	scheduler.logger.Info(schedulerStoppedMessageConstant)
}

// executeRun performs one scheduled run. Failures are logged, not fatal: the
// next scheduled firing is the retry.
func (scheduler *Scheduler) executeRun() {
	if runError := scheduler.runner.Run(context.Background(), scheduler.runtimeOptions); runError != nil {
		scheduler.logger.Error(scheduledRunFailedMessageConstant, zap.Error(runError))
	}
}
