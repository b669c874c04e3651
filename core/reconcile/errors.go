package reconcile

import "errors"

var (
	// ErrWriteFailed marks a failed create or update of a published record.
	ErrWriteFailed = errors.New("publishing store write failed")

	// ErrRetireFailed marks a soft-delete that errored or was not acknowledged.
	ErrRetireFailed = errors.New("publishing store retire failed")

	// ErrUploadFailed marks a media upload that errored or returned no media id.
	ErrUploadFailed = errors.New("media upload failed")
)
