package services

import "errors"

// Validation errors: rejected before any side effect.
var (
	ErrMissingFields   = errors.New("missing required fields")
	ErrSelfRequest     = errors.New("cannot send a friend request to yourself")
	ErrInvalidDecision = errors.New("decision must be accepted or rejected")
)

// Not-found errors: rejected, no state change.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrRequestNotFound = errors.New("friend request not found")
)

// Conflict errors: rejected, no state change.
var (
	ErrDuplicateRequest = errors.New("friend request already sent")
	ErrAlreadyFriends   = errors.New("users are already friends")
	ErrReversePending   = errors.New("recipient already sent you a friend request")
	ErrNotPending       = errors.New("friend request is not pending")
)
