package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrAlreadyRunning  ErrorCode = "already_running"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Validation errors: detected before any mutation, caller-fixable
	ErrOutOfRange     ErrorCode = "out_of_range"
	ErrInvalidMode    ErrorCode = "invalid_mode"
	ErrToolMissing    ErrorCode = "tool_missing"
	ErrConfigMissing  ErrorCode = "config_missing"
	ErrMalformedInput ErrorCode = "malformed_input"

	// Apply errors: may follow partial mutation, surfaced verbatim
	ErrPartialWrite    ErrorCode = "partial_write_failure"
	ErrExternalTool    ErrorCode = "external_tool_failure"
	ErrIOFailure       ErrorCode = "io_failure"
	ErrHelperInvoke    ErrorCode = "helper_invoke_failed"
	ErrAuthDismissed   ErrorCode = "authentication_dismissed"
	ErrOperationFailed ErrorCode = "operation_failed"

	// Metrics errors
	ErrInitMetrics    ErrorCode = "init_metrics_failed"
	ErrRecordMetrics  ErrorCode = "record_metrics_failed"
	ErrCloseMetrics   ErrorCode = "close_metrics_failed"
	ErrInvalidDBPath  ErrorCode = "invalid_db_path"
	ErrStorageInit    ErrorCode = "storage_init_failed"
	ErrInvalidMetrics ErrorCode = "invalid_metrics"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrInvalidArgument: "Invalid argument provided",
	ErrAlreadyRunning:  "Another instance is already running",
	ErrInvalidConfig:   "Invalid configuration",
	ErrReadConfig:      "Failed to read config file",
	ErrInvalidLogLevel: "Invalid log level",
	ErrOutOfRange:      "Requested value is out of range",
	ErrInvalidMode:     "Invalid GPU mode",
	ErrToolMissing:     "Required external tool not found",
	ErrConfigMissing:   "Expected configuration file not found",
	ErrMalformedInput:  "Malformed command input",
	ErrPartialWrite:    "Write failed on every target",
	ErrExternalTool:    "External tool invocation failed",
	ErrIOFailure:       "I/O operation failed",
	ErrHelperInvoke:    "Failed to invoke privileged helper",
	ErrAuthDismissed:   "Authentication dismissed",
	ErrOperationFailed: "Operation failed",
	ErrInitMetrics:     "Failed to initialize metrics",
	ErrRecordMetrics:   "Failed to record metrics snapshot",
	ErrCloseMetrics:    "Failed to close metrics store",
	ErrInvalidDBPath:   "Invalid metrics database path",
	ErrStorageInit:     "Failed to initialize metrics storage",
	ErrInvalidMetrics:  "Invalid metrics snapshot",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
