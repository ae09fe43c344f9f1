// Package errors provides the classified error type used across tapsite.
//
// A ClassifiedError carries a category (which part of the pipeline failed), a
// severity and a small structured context map. The CLI adapter turns the
// category into an exit code and a user-facing message.
//
//	err := errors.WrapError(readErr, errors.CategoryTabular, "read profile").
//		WithContext("file", path).
//		Build()
package errors
