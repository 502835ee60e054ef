package core

import "errors"

// Sentinel errors for the conditions callers are expected to branch on.
// Layers wrap them with fmt.Errorf("...: %w", err) and the HTTP surface
// maps them to status codes with errors.Is.
var (
	// ErrNotFound marks a missing profile, category, group or transaction.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized marks a delete attempted by someone other than the
	// record's creator, or a failed credential check.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidAmount marks a non-positive or malformed currency amount.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidSettlement marks a settlement without a valid receiver,
	// including a member trying to settle with themselves.
	ErrInvalidSettlement = errors.New("invalid settlement")

	// ErrAlreadyInGroup marks a create/join attempt by a grouped member.
	ErrAlreadyInGroup = errors.New("already in a group")
)
