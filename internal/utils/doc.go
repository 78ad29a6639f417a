// Package utils collects shared infrastructure for the spothinta CLI:
// Viper-backed configuration loading, zap logger construction, command
// context plumbing, and output writer helpers.
package utils
