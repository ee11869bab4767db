package cli

// Error codes reported in CLI output.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeInvalidInput = "E002" // Invalid flag or argument
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeWriteFailed  = "E007" // File write error

	ErrCodeConfigInvalid = "E201" // Parameter file cannot be parsed

	ErrCodeExportFailed = "E301" // Export run failed
	ErrCodeBatchFailed  = "E302" // One or more batch jobs failed
	ErrCodeCheckFailed  = "E303" // Parameter health check found problems
)
