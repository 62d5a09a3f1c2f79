package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *SiteError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *SiteError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

func UnknownTransform(extension, name string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "unknown transformation").
		WithContext("extension", extension).
		WithContext("transform", name)
}

// Build pipeline errors

func OutputRootFailed(dir string, cause error) *SiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "cannot prepare website directory").
		WithContext("path", dir)
}

func LayoutFailed(path string, cause error) *SiteError {
	return Wrap(cause, CategoryTemplate, SeverityFatal, "layout unavailable").
		WithContext("path", path)
}

// FileFailed reports a per-file failure; the walk keeps going unless the
// configured policy says otherwise.
func FileFailed(stage, path string, cause error) *SiteError {
	return Wrap(cause, CategoryBuild, SeverityError, "page build failed").
		WithContext("stage", stage).
		WithContext("path", path)
}

func MenuIndexInvalid(path string, cause error) *SiteError {
	return Wrap(cause, CategoryMenu, SeverityWarning, "menu index could not be parsed").
		WithContext("path", path)
}

func BuildFailed(failed int, cause error) *SiteError {
	return Wrap(cause, CategoryBuild, SeverityError, "build finished with failures").
		WithContext("failed", failed)
}

// Internal errors

func InternalError(message string, cause error) *SiteError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
