// Package errors provides typed errors for wplan.
package errors

import "fmt"

// ErrorCode identifies the type of error.
type ErrorCode string

const (
	ErrConfigNotFound    ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigInvalid     ErrorCode = "CONFIG_INVALID"
	ErrInvalidDateRange  ErrorCode = "INVALID_DATE_RANGE"
	ErrInvalidDayCount   ErrorCode = "INVALID_DAY_COUNT"
	ErrFetchFailed       ErrorCode = "FETCH_FAILED"
	ErrMutationFailed    ErrorCode = "MUTATION_FAILED"
	ErrWorkoutNotFound   ErrorCode = "WORKOUT_NOT_FOUND"
	ErrInvalidRepo       ErrorCode = "INVALID_REPO"
	ErrImportFetchFailed ErrorCode = "IMPORT_FETCH_FAILED"
	ErrTemplateInvalid   ErrorCode = "TEMPLATE_INVALID"
)

// PlannerError represents a typed error with user-friendly hints.
type PlannerError struct {
	Code    ErrorCode
	Message string
	HintMsg string
	Cause   error
}

func (e *PlannerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PlannerError) Unwrap() error {
	return e.Cause
}

// Hint returns the user-facing hint line, if any.
func (e *PlannerError) Hint() string {
	return e.HintMsg
}

// New creates a new PlannerError.
func New(code ErrorCode, message, hint string) *PlannerError {
	return &PlannerError{
		Code:    code,
		Message: message,
		HintMsg: hint,
	}
}

// Wrap creates a new PlannerError wrapping an existing error.
func Wrap(code ErrorCode, message, hint string, cause error) *PlannerError {
	return &PlannerError{
		Code:    code,
		Message: message,
		HintMsg: hint,
		Cause:   cause,
	}
}

// ConfigNotFound returns an error for a missing config file.
func ConfigNotFound(path string) *PlannerError {
	return &PlannerError{
		Code:    ErrConfigNotFound,
		Message: fmt.Sprintf("config file not found: %s", path),
		HintMsg: "Run `wplan init` to create a configuration",
	}
}

// ConfigInvalid returns an error for invalid config.
func ConfigInvalid(reason string) *PlannerError {
	return &PlannerError{
		Code:    ErrConfigInvalid,
		Message: fmt.Sprintf("invalid config: %s", reason),
		HintMsg: "Check your config file at ~/.config/wplan/config.yaml",
	}
}

// InvalidDateRange returns an error for a range whose end precedes its start.
func InvalidDateRange(start, end string) *PlannerError {
	return &PlannerError{
		Code:    ErrInvalidDateRange,
		Message: fmt.Sprintf("invalid date range: start %s is after end %s", start, end),
		HintMsg: "Dates must be YYYY-MM-DD with start on or before end",
	}
}

// InvalidDayCount returns an error for a non-positive day count.
func InvalidDayCount(days int) *PlannerError {
	return &PlannerError{
		Code:    ErrInvalidDayCount,
		Message: fmt.Sprintf("invalid day count: %d", days),
		HintMsg: "The number of days must be a positive integer",
	}
}

// FetchFailed returns an error for plan item or catalog fetch failures.
func FetchFailed(what string, cause error) *PlannerError {
	return &PlannerError{
		Code:    ErrFetchFailed,
		Message: fmt.Sprintf("failed to fetch %s", what),
		HintMsg: "Check your network connection and the api.base_url config",
		Cause:   cause,
	}
}

// MutationFailed returns an error for create/delete failures against the backend.
func MutationFailed(what string, cause error) *PlannerError {
	return &PlannerError{
		Code:    ErrMutationFailed,
		Message: fmt.Sprintf("failed to %s", what),
		HintMsg: "The backend rejected the change; check the id and try again",
		Cause:   cause,
	}
}

// WorkoutNotFound returns an error when a workout id has no match in the catalog.
func WorkoutNotFound(id string) *PlannerError {
	return &PlannerError{
		Code:    ErrWorkoutNotFound,
		Message: fmt.Sprintf("workout not found: %s", id),
		HintMsg: "Run `wplan workouts` to list the available workouts",
	}
}

// InvalidRepo returns an error for malformed template repo strings.
func InvalidRepo(repo string) *PlannerError {
	return &PlannerError{
		Code:    ErrInvalidRepo,
		Message: fmt.Sprintf("invalid repository format: %s", repo),
		HintMsg: "Use format: owner/repo or owner/repo/path/to/template.yaml",
	}
}

// ImportFetchFailed returns an error for template fetch failures.
func ImportFetchFailed(repo string, cause error) *PlannerError {
	return &PlannerError{
		Code:    ErrImportFetchFailed,
		Message: fmt.Sprintf("failed to fetch template from %s", repo),
		HintMsg: "Check that the repository exists and you have access",
		Cause:   cause,
	}
}

// TemplateInvalid returns an error for unparsable workout templates.
func TemplateInvalid(reason string, cause error) *PlannerError {
	return &PlannerError{
		Code:    ErrTemplateInvalid,
		Message: fmt.Sprintf("invalid workout template: %s", reason),
		HintMsg: "Templates are YAML files with a top-level `workouts` list",
		Cause:   cause,
	}
}
