package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *AutoBuilderError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *AutoBuilderError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *AutoBuilderError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Project errors

func ProjectSettingsError(file string, cause error) *AutoBuilderError {
	return Wrap(cause, CategoryProject, SeverityFatal, "failed to read project settings").
		WithContext("file", file)
}

// Dispatch errors

func OutputDirError(path string, cause error) *AutoBuilderError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "failed to create output directory").
		WithContext("path", path)
}

func EngineStartError(editor string, cause error) *AutoBuilderError {
	return Wrap(cause, CategoryEngine, SeverityError, "failed to start build engine").
		WithContext("editor", editor)
}

// Infrastructure errors

func StorageError(operation string, cause error) *AutoBuilderError {
	return Wrap(cause, CategoryStorage, SeverityWarning, "history storage failed").
		WithContext("operation", operation)
}

func NotifyError(subject string, cause error) *AutoBuilderError {
	return Wrap(cause, CategoryNotify, SeverityWarning, "outcome notification failed").
		WithContext("subject", subject)
}

// Internal errors

func InternalError(message string, cause error) *AutoBuilderError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
