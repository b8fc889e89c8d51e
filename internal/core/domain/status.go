package domain

// StepStatus represents the lifecycle state of a build step.
type StepStatus string

const (
	// StepStatusPending indicates the step is waiting for its turn.
	StepStatusPending StepStatus = "pending"
	// StepStatusRunning indicates the step is currently executing.
	StepStatusRunning StepStatus = "running"
	// StepStatusCompleted indicates the step executed successfully.
	StepStatusCompleted StepStatus = "completed"
	// StepStatusFailed indicates the step execution failed.
	StepStatusFailed StepStatus = "failed"
	// StepStatusCached indicates the step was skipped because its layer was
	// already present with a matching input hash.
	StepStatusCached StepStatus = "cached"
)

// IsTerminal checks if a status is a terminal state.
func (s StepStatus) IsTerminal() bool {
	switch s {
	case StepStatusCompleted, StepStatusFailed, StepStatusCached:
		return true
	default:
		return false
	}
}

// LogLevel represents the severity of a log message, mirroring the standard
// slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
