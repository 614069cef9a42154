// Package errors provides structured error handling for strbench.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Text resource errors (file, encoding)
//   - 4XX: Validation errors
//   - 5XX: Internal and benchmark errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates text resource errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// Text resource errors (200-299)
	ErrCodeTextNotFound   = "ERR_201_TEXT_NOT_FOUND"
	ErrCodeTextPermission = "ERR_202_TEXT_PERMISSION"
	ErrCodeTextEncoding   = "ERR_203_TEXT_ENCODING"
	ErrCodeTextUnreadable = "ERR_204_TEXT_UNREADABLE"

	// Validation errors (400-499)
	ErrCodeInvalidInput   = "ERR_401_INVALID_INPUT"
	ErrCodeUnknownMatcher = "ERR_402_UNKNOWN_MATCHER"
	ErrCodeInvalidFormat  = "ERR_403_INVALID_FORMAT"

	// Internal errors (500-599)
	ErrCodeInternal            = "ERR_501_INTERNAL"
	ErrCodeBenchFailed         = "ERR_502_BENCH_FAILED"
	ErrCodeMatcherDisagreement = "ERR_503_MATCHER_DISAGREEMENT"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Numeric portion, e.g. "201" from "ERR_201_TEXT_NOT_FOUND"
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeTextNotFound, ErrCodeTextPermission, ErrCodeMatcherDisagreement:
		// Missing inputs and wrong answers invalidate the whole run
		return SeverityFatal
	}
	return SeverityError
}
