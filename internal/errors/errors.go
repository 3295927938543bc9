package errors

import (
	"fmt"
	"log/slog"
	"os"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeTheme      ErrorType = "theme"
	ErrorTypeRender     ErrorType = "render"
	ErrorTypeExport     ErrorType = "export"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeAI         ErrorType = "ai"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"cause,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// newAppError is an unexported helper to create AppError instances
func newAppError(typ ErrorType, code, message string, cause error) *AppError {
	return &AppError{
		Type:    typ,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Error constructors for different types
func NewValidationError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeValidation, code, message, cause)
}

func NewThemeError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeTheme, code, message, cause)
}

func NewRenderError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeRender, code, message, cause)
}

func NewExportError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeExport, code, message, cause)
}

func NewIOError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeIO, code, message, cause)
}

func NewAIError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeAI, code, message, cause)
}

func NewNetworkError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeNetwork, code, message, cause)
}

func NewConfigError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeConfig, code, message, cause)
}

func NewInternalError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, code, message, cause)
}

// WithContext adds context to an error
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// FieldError is a single field-level problem found during validation.
type FieldError struct {
	Path    string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s: %s", f.Path, f.Message)
}

// SchemaError carries the complete list of field-level problems found in one
// validation pass. Callers report every problem, never just the first.
type SchemaError struct {
	*AppError
	Problems []FieldError
}

// NewSchemaError wraps a full validation report as an error.
func NewSchemaError(problems []FieldError) *SchemaError {
	return &SchemaError{
		AppError: newAppError(ErrorTypeValidation, ErrCodeSchemaValidation,
			fmt.Sprintf("cv document failed validation with %d problem(s)", len(problems)), nil),
		Problems: problems,
	}
}

// NewThemeValidationError reports a malformed theme field with the offending value.
func NewThemeValidationError(field string, value any) *AppError {
	return newAppError(ErrorTypeTheme, ErrCodeThemeValidation,
		fmt.Sprintf("invalid theme value for %q: %v", field, value), nil).
		WithContext("field", field).
		WithContext("value", value)
}

// Warning is a non-fatal condition surfaced alongside a successful result,
// e.g. a photo reference that could not be resolved.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// NewAssetWarning reports an asset that could not be resolved. Rendering
// proceeds without the asset.
func NewAssetWarning(ref string, cause error) Warning {
	msg := fmt.Sprintf("asset %q not found, rendering without it", ref)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return Warning{Code: ErrCodeAssetNotFound, Message: msg}
}

// Logger wraps slog with application-specific methods
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a new structured logger. Logs go to stderr so that
// commands can stream document output on stdout.
func NewLogger(level slog.Level) *Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(os.Stderr, opts)
	logger := slog.New(handler)

	return &Logger{logger: logger}
}

// LogError logs an application error with appropriate level and context
func (l *Logger) LogError(err error, message string, args ...any) {
	if appErr, ok := err.(*AppError); ok {
		logArgs := []any{
			"error_type", appErr.Type,
			"error_code", appErr.Code,
			"error_message", appErr.Message,
		}

		// Add context if available
		for key, value := range appErr.Context {
			logArgs = append(logArgs, key, value)
		}

		// Add additional args
		logArgs = append(logArgs, args...)

		l.logger.Error(message, logArgs...)
	} else {
		// Regular error
		logArgs := append([]any{"error", err.Error()}, args...)
		l.logger.Error(message, logArgs...)
	}
}

func (l *Logger) Info(message string, args ...any) {
	l.logger.Info(message, args...)
}

func (l *Logger) Debug(message string, args ...any) {
	l.logger.Debug(message, args...)
}

func (l *Logger) Warn(message string, args ...any) {
	l.logger.Warn(message, args...)
}

// LogWarning logs a render/export warning without failing the operation.
func (l *Logger) LogWarning(w Warning, args ...any) {
	logArgs := append([]any{"warning_code", w.Code}, args...)
	l.logger.Warn(w.Message, logArgs...)
}

// New creates a new logger instance
func New(level string) (*Logger, error) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	return NewLogger(slogLevel), nil
}

// Common error codes
const (
	ErrCodeSchemaValidation  = "SCHEMA_VALIDATION"
	ErrCodeThemeNotFound     = "THEME_NOT_FOUND"
	ErrCodeThemeValidation   = "THEME_VALIDATION"
	ErrCodeAssetNotFound     = "ASSET_NOT_FOUND"
	ErrCodeUnsupportedLayout = "UNSUPPORTED_LAYOUT"
	ErrCodeExportFormat      = "EXPORT_FORMAT_UNSUPPORTED"
	ErrCodeRenderFailed      = "RENDER_FAILED"
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
	ErrCodeFileNotReadable   = "FILE_NOT_READABLE"
	ErrCodeInvalidFormat     = "INVALID_FORMAT"
	ErrCodeAIServiceFailed   = "AI_SERVICE_FAILED"
	ErrCodeAITimeout         = "AI_TIMEOUT"
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeMissingAPIKey     = "MISSING_API_KEY"
	ErrCodeNetworkTimeout    = "NETWORK_TIMEOUT"
	ErrCodeInvalidConfig     = "INVALID_CONFIG"
)
