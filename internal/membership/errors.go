package membership

import (
	"fmt"
	"time"
)

// ValidationError reports missing or invalid caller input. It is surfaced to
// the caller for correction and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports that a referenced member does not exist
type NotFoundError struct {
	MemberID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("member %s not found", e.MemberID)
}

// ExpiredError reports a scan attempt by a lapsed member. It carries the
// member's name so the front desk can address them directly.
type ExpiredError struct {
	MemberID  string
	Name      string
	ExpiresAt time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("membership of %s (%s) expired on %s", e.Name, e.MemberID, e.ExpiresAt.Format("2006-01-02"))
}

// ConflictError reports a write race that survived retries, such as repeated
// identifier collisions during registration
type ConflictError struct {
	Op string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: conflicting concurrent write, retries exhausted", e.Op)
}

// NotificationError wraps a failed outbound alert. Call sites log it and move
// on; it never fails the operation that triggered the alert.
type NotificationError struct {
	Err error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification dispatch failed: %v", e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}
