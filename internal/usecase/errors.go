package usecase

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")

	ErrApplicationNotFound = errors.New("application not found")
	ErrStatusNotFound      = errors.New("status not found")
	ErrReportNotFound      = errors.New("report not found")

	// ErrStageMismatch: the request names a stage the application is not
	// currently at, typically a stale double-submit from the UI.
	ErrStageMismatch = errors.New("application is not at the requested stage")

	// ErrPipelineClosed: the application already reached accepted/rejected.
	ErrPipelineClosed = errors.New("pipeline is closed for this application")

	ErrInvalidOutcome = errors.New("outcome must be passed or failed")

	// ErrConcurrentModification: another transition won the row lock between
	// the read and the write; the caller should re-fetch and retry.
	ErrConcurrentModification = errors.New("application was modified concurrently")

	ErrDuplicateApplication = errors.New("candidate already applied to this vacancy period")
	ErrStatusInUse          = errors.New("status is referenced and cannot be deleted")
	ErrStatusCodeTaken      = errors.New("status code already exists")
)
