package ports

import (
	"context"

	"github.com/opsdesk/approvals/internal/core/domain"
)

// CreateRequestInput carries the data needed to create a new request.
// Description is nil when absent from the payload.
type CreateRequestInput struct {
	Title       string
	Description *string
	Type        string
}

// EditRequestInput carries a partial update of a Draft request. Nil fields
// were absent from the payload; a non-nil empty description is an explicit
// update to empty.
type EditRequestInput struct {
	Title       *string
	Description *string
	Type        *string
}

// RequestService defines the workflow engine's use-case operations. Every
// operation takes the acting user and re-validates role, ownership, and
// state precondition independently, in that order.
type RequestService interface {
	Create(ctx context.Context, actor domain.User, in CreateRequestInput) (*domain.Request, error)
	ListOwn(ctx context.Context, actor domain.User) ([]domain.Request, error)
	ListPending(ctx context.Context, actor domain.User) ([]domain.Request, error)
	Submit(ctx context.Context, actor domain.User, id int64) (*domain.Request, error)
	Approve(ctx context.Context, actor domain.User, id int64, comment string) (*domain.Request, error)
	Reject(ctx context.Context, actor domain.User, id int64, comment string) (*domain.Request, error)
	Edit(ctx context.Context, actor domain.User, id int64, in EditRequestInput) (*domain.Request, error)
	Delete(ctx context.Context, actor domain.User, id int64) error
}
