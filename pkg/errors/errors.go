package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition is a business error code with its default message.
type Definition struct {
	Code    string
	Message string
}

// Auth / identity errors.
var (
	Unauthorized    = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	InvalidUserID   = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
	ErrUserNotFound = Definition{Code: "USER_NOT_FOUND", Message: "User not found"}
)

// Check-in errors.
var (
	CheckInAlreadyDone = Definition{Code: "CHECK_IN_ALREADY_DONE", Message: "Check-in already done today"}
)

// Contact errors.
var (
	ContactLimitReached     = Definition{Code: "CONTACT_LIMIT_REACHED", Message: "Contact limit reached"}
	ContactPriorityConflict = Definition{Code: "CONTACT_PRIORITY_CONFLICT", Message: "Contact priority conflict"}
	ContactNotFound         = Definition{Code: "CONTACT_NOT_FOUND", Message: "Contact not found"}
)

// Sweep errors.
var (
	SweepAlreadyRunning = Definition{Code: "SWEEP_ALREADY_RUNNING", Message: "Monitor sweep already in progress"}
)

// Lookup provides error-code based retrieval.
var Lookup = map[string]Definition{
	Unauthorized.Code:            Unauthorized,
	InvalidUserID.Code:           InvalidUserID,
	ErrUserNotFound.Code:         ErrUserNotFound,
	CheckInAlreadyDone.Code:      CheckInAlreadyDone,
	ContactLimitReached.Code:     ContactLimitReached,
	ContactPriorityConflict.Code: ContactPriorityConflict,
	ContactNotFound.Code:         ContactNotFound,
	SweepAlreadyRunning.Code:     SweepAlreadyRunning,
}

// Get returns the Definition for a code, or a generic one if unknown.
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}

// SkipMessageError tells a queue consumer to ack without processing.
type SkipMessageError struct {
	Reason string
}

func (e *SkipMessageError) Error() string {
	return e.Reason
}
