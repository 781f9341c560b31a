package contacts

import "errors"

// Recoverable conditions the handler maps to user-facing notices.
var (
	ErrNotFound         = errors.New("user or request not found")
	ErrSelfTarget       = errors.New("cannot add yourself as a contact")
	ErrDuplicateRequest = errors.New("contact request already sent")
	ErrEmptyHandle      = errors.New("target handle is required")
)
