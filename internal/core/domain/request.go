package domain

import "time"

// RequestStatus represents the lifecycle state of an approval request.
type RequestStatus string

const (
	StatusDraft     RequestStatus = "Draft"
	StatusSubmitted RequestStatus = "Submitted"
	StatusApproved  RequestStatus = "Approved"
	StatusRejected  RequestStatus = "Rejected"
)

// validTransitions defines the allowed state machine transitions.
// Approved and Rejected are terminal; nothing ever returns to Draft.
var validTransitions = map[RequestStatus][]RequestStatus{
	StatusDraft:     {StatusSubmitted},
	StatusSubmitted: {StatusApproved, StatusRejected},
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RequestType categorises a request. Unknown values coerce to TypeGeneral.
type RequestType string

const (
	TypeAccess  RequestType = "Access"
	TypeFinance RequestType = "Finance"
	TypeGeneral RequestType = "General"
)

// NormalizeType validates t against the allowed set, falling back to General.
func NormalizeType(t string) RequestType {
	switch RequestType(t) {
	case TypeAccess, TypeFinance, TypeGeneral:
		return RequestType(t)
	default:
		return TypeGeneral
	}
}

// Request is the core aggregate root: a single approval request row.
//
// CreatedByUserID/CreatedByUserName are a snapshot of the creating user and
// never change after creation. ApproverComment, ApprovedByUserID and
// ApprovedByUserName stay nil until exactly one approve-or-reject decision,
// after which they are frozen.
type Request struct {
	ID                 int64
	Title              string
	Description        *string
	Type               RequestType
	Status             RequestStatus
	CreatedByUserID    int64
	CreatedByUserName  string
	ApproverComment    *string
	ApprovedByUserID   *int64
	ApprovedByUserName *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
