// Package constants provides shared constants used throughout the modelsync codebase.
// This includes timeouts, limits, file permissions, and field-length bounds
// that must stay consistent between the engine, the models, and the CLI.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultLookupTimeout bounds a single external existence check
	DefaultLookupTimeout = 10 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 2 * time.Minute

	// ShutdownTimeout is how long the CLI waits for cleanup after an error
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxConcurrentLookups is the default number of external lookups in flight per call
	MaxConcurrentLookups = 8

	// MaxLabelLength is the maximum allowed length for labels, names and titles
	MaxLabelLength = 256

	// MaxDescriptionLength is the maximum allowed length for descriptions
	MaxDescriptionLength = 4096

	// MaxKeywordLength is the maximum allowed length of a single keyword
	MaxKeywordLength = 64

	// MaxReminderOffsetMinutes is the furthest a reminder may fire before its event (4 weeks)
	MaxReminderOffsetMinutes = 4 * 7 * 24 * 60

	// MinPriority and MaxPriority bound task priorities
	MinPriority = 1
	MaxPriority = 5
)

// Format constants
const (
	// AttributeDateFormat is the layout accepted for date attributes
	AttributeDateFormat = time.RFC3339

	// AttributeDayFormat is the short layout accepted for date attributes
	AttributeDayFormat = "2006-01-02"
)

// Default values
const (
	// DefaultIDPrefix is used by deterministic id sequences when no prefix is configured
	DefaultIDPrefix = "id-"

	// DefaultOutputFormat is the CLI output format
	DefaultOutputFormat = "yaml"

	// ConfigFileName is the CLI config file name looked up in $HOME and the working directory
	ConfigFileName = ".modelsync"
)
