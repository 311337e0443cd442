package submission

import "errors"

var (
	// ErrEmptyFillingStation is returned when the filling station is blank.
	ErrEmptyFillingStation = errors.New("submission: empty filling station")
	// ErrNonPositivePrice is returned when the price is zero or negative.
	ErrNonPositivePrice = errors.New("submission: price must be positive")
	// ErrInvalidPriceDate is returned when the price date is zero.
	ErrInvalidPriceDate = errors.New("submission: invalid price date")
	// ErrEmptySubmitter is returned when the submitting user id is blank.
	ErrEmptySubmitter = errors.New("submission: empty submitter")
	// ErrEmptyUpload is returned for an upload batch without rows.
	ErrEmptyUpload = errors.New("submission: empty upload batch")
	// ErrNotFound is returned when an entry id resolves to no submission.
	ErrNotFound = errors.New("submission: not found")
	// ErrInvalidAction is returned for decision flags other than approve/reject.
	ErrInvalidAction = errors.New("submission: invalid action")
	// ErrEmptyRejectionReason is returned when a rejection carries no reason.
	ErrEmptyRejectionReason = errors.New("submission: empty rejection reason")
	// ErrAlreadyDecided guards against re-deciding a terminal submission.
	ErrAlreadyDecided = errors.New("submission: already decided")
)
