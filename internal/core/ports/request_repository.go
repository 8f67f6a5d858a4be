package ports

import (
	"context"
	"time"

	"github.com/opsdesk/approvals/internal/core/domain"
)

// DecisionUpdate carries the fields written by a single approve-or-reject
// transition.
type DecisionUpdate struct {
	Status             domain.RequestStatus // StatusApproved or StatusRejected
	ApproverComment    string
	ApprovedByUserID   int64
	ApprovedByUserName string
	UpdatedAt          time.Time
}

// FieldUpdate carries the editable fields of a Draft request. Nil pointers
// mean "leave unchanged".
type FieldUpdate struct {
	Title       *string
	Description *string
	Type        *domain.RequestType
	UpdatedAt   time.Time
}

// RequestRepository defines persistence operations for approval requests.
// The store exclusively owns Request rows.
//
// Status-changing writes are conditional on the expected current status.
// When the guard matches no row (the status moved concurrently or the row
// is gone), implementations return domain.ErrStatusConflict so the caller
// can surface an InvalidState failure instead of racing.
type RequestRepository interface {
	Create(ctx context.Context, r *domain.Request) (*domain.Request, error)
	GetByID(ctx context.Context, id int64) (*domain.Request, error)

	// ListByCreator returns all requests created by userID, newest first.
	ListByCreator(ctx context.Context, userID int64) ([]domain.Request, error)
	// ListByStatusExcluding returns requests in status not created by
	// userID, newest first (the approver queue).
	ListByStatusExcluding(ctx context.Context, status domain.RequestStatus, userID int64) ([]domain.Request, error)
	// ListByStatusFor returns requests in status created by userID, newest
	// first (a requester's own submissions awaiting decision).
	ListByStatusFor(ctx context.Context, status domain.RequestStatus, userID int64) ([]domain.Request, error)

	// UpdateStatus moves a request from one status to another.
	UpdateStatus(ctx context.Context, id int64, from, to domain.RequestStatus, updatedAt time.Time) (*domain.Request, error)
	// Decide applies an approve-or-reject transition from StatusSubmitted.
	Decide(ctx context.Context, id int64, upd DecisionUpdate) (*domain.Request, error)
	// UpdateFields edits a request while it is still in StatusDraft.
	UpdateFields(ctx context.Context, id int64, upd FieldUpdate) (*domain.Request, error)
	// Delete removes a request while it is still in StatusDraft.
	Delete(ctx context.Context, id int64) error
}
