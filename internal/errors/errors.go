package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorType represents the type of error
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeValidation
	ErrorTypeFileSystem
	ErrorTypeParsing
	ErrorTypeConfiguration
	ErrorTypeDevice
	ErrorTypeNotFound
)

// String returns the string representation of the error type
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeValidation:
		return "VALIDATION"
	case ErrorTypeFileSystem:
		return "FILESYSTEM"
	case ErrorTypeParsing:
		return "PARSING"
	case ErrorTypeConfiguration:
		return "CONFIGURATION"
	case ErrorTypeDevice:
		return "DEVICE"
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}

// Codes reported by the application layer
const (
	CodeSourceUnreadable   = "SOURCE_UNREADABLE"
	CodeSourceUnsupported  = "SOURCE_UNSUPPORTED"
	CodeNoPackages         = "NO_PACKAGES"
	CodeNoBase             = "NO_BASE_PACKAGE"
	CodeBaseNotSelected    = "BASE_NOT_SELECTED"
	CodeInvalidProfile     = "INVALID_PROFILE"
	CodeDeviceUnavailable  = "DEVICE_UNAVAILABLE"
	CodeConfigUnreadable   = "CONFIG_UNREADABLE"
	CodeManifestUnreadable = "MANIFEST_UNREADABLE"
	CodeUnknownPackage     = "UNKNOWN_PACKAGE"
	CodeInvalidFormat      = "INVALID_FORMAT"
	CodeInsufficientSpace  = "INSUFFICIENT_SPACE"
	CodeADBNotFound        = "ADB_NOT_FOUND"
)

// SplitError represents an error with context and suggestions
type SplitError struct {
	Type        ErrorType         `json:"type"`
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	Cause       error             `json:"cause,omitempty"`
	Context     map[string]string `json:"context,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
}

// Error implements the error interface
func (e *SplitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *SplitError) Unwrap() error {
	return e.Cause
}

// Is matches another SplitError with the same type and code
func (e *SplitError) Is(target error) bool {
	if t, ok := target.(*SplitError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// WithContext adds context to the error
func (e *SplitError) WithContext(key, value string) *SplitError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion to the error
func (e *SplitError) WithSuggestion(suggestion string) *SplitError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// FormatDetailed returns a detailed error message with context and suggestions
func (e *SplitError) FormatDetailed() string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("%s error [%s]: %s\n", e.Type.String(), e.Code, e.Message))

	if len(e.Context) > 0 {
		builder.WriteString("\nContext:\n")
		keys := make([]string, 0, len(e.Context))
		for key := range e.Context {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			builder.WriteString(fmt.Sprintf("   %s: %s\n", key, e.Context[key]))
		}
	}

	if e.Cause != nil {
		builder.WriteString(fmt.Sprintf("\nUnderlying cause: %v\n", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		builder.WriteString("\nSuggestions:\n")
		for _, suggestion := range e.Suggestions {
			builder.WriteString(fmt.Sprintf("   - %s\n", suggestion))
		}
	}

	return builder.String()
}

// NewError creates a new SplitError
func NewError(errorType ErrorType, code, message string) *SplitError {
	return &SplitError{
		Type:    errorType,
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with SplitError
func WrapError(err error, errorType ErrorType, code, message string) *SplitError {
	return &SplitError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Sentinel values for errors.Is; only Type and Code take part in matching
var (
	ErrNoPackages      = NewError(ErrorTypeNotFound, CodeNoPackages, "no package files found")
	ErrNoBase          = NewError(ErrorTypeNotFound, CodeNoBase, "no base package found")
	ErrBaseNotSelected = NewError(ErrorTypeValidation, CodeBaseNotSelected, "base package is not selected")
)

// NewValidationError creates a validation error
func NewValidationError(code, message string) *SplitError {
	return NewError(ErrorTypeValidation, code, message).
		WithSuggestion("Check the input parameters and try again")
}

// NewFileSystemError creates a filesystem error
func NewFileSystemError(code, message string, cause error) *SplitError {
	return WrapError(cause, ErrorTypeFileSystem, code, message).
		WithSuggestion("Check that the path exists and is readable")
}

// NewParsingError creates a parsing error
func NewParsingError(code, message string, cause error) *SplitError {
	return WrapError(cause, ErrorTypeParsing, code, message).
		WithSuggestion("Verify the file is a valid archive or APK")
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(code, message string, cause error) *SplitError {
	return WrapError(cause, ErrorTypeConfiguration, code, message).
		WithSuggestion("Check the configuration file syntax")
}

// NewDeviceError creates a device error
func NewDeviceError(code, message string, cause error) *SplitError {
	return WrapError(cause, ErrorTypeDevice, code, message).
		WithSuggestion("Check the device connection with 'adb devices'").
		WithSuggestion("Pass --abi, --dpi and --locale to describe the device by hand")
}

// NewNotFoundError creates a not found error
func NewNotFoundError(code, message string) *SplitError {
	return NewError(ErrorTypeNotFound, code, message)
}

// As is errors.As re-exported so callers need a single errors import
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Is is errors.Is re-exported so callers need a single errors import
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
