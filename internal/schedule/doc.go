// Package schedule drives recurring publication runs from a cron expression.
package schedule
