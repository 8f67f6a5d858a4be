package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/approvals/internal/core/domain"
	"github.com/opsdesk/approvals/internal/core/ports"
)

const requestColumns = `id, title, description, type, status,
	created_by_user_id, created_by_user_name,
	approver_comment, approved_by_user_id, approved_by_user_name,
	created_at, updated_at`

// RequestRepository persists approval requests in the requests table. All
// status-changing writes are guarded on the expected current status so a
// concurrent transition surfaces domain.ErrStatusConflict instead of
// silently overwriting a terminal state.
type RequestRepository struct {
	pool *pgxpool.Pool
}

func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

func scanRequest(row pgx.Row) (*domain.Request, error) {
	var r domain.Request
	err := row.Scan(
		&r.ID, &r.Title, &r.Description, &r.Type, &r.Status,
		&r.CreatedByUserID, &r.CreatedByUserName,
		&r.ApproverComment, &r.ApprovedByUserID, &r.ApprovedByUserName,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a new request row and returns it with the assigned id.
func (repo *RequestRepository) Create(ctx context.Context, r *domain.Request) (*domain.Request, error) {
	const query = `
		INSERT INTO requests (
			title, description, type, status,
			created_by_user_id, created_by_user_name,
			approver_comment, approved_by_user_id, approved_by_user_name,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + requestColumns

	return scanRequest(repo.pool.QueryRow(ctx, query,
		r.Title, r.Description, r.Type, r.Status,
		r.CreatedByUserID, r.CreatedByUserName,
		r.ApproverComment, r.ApprovedByUserID, r.ApprovedByUserName,
		r.CreatedAt, r.UpdatedAt,
	))
}

// GetByID retrieves a request by id.
func (repo *RequestRepository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	const query = `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`

	r, err := scanRequest(repo.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return r, nil
}

func (repo *RequestRepository) list(ctx context.Context, query string, args ...any) ([]domain.Request, error) {
	rows, err := repo.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Request, 0)
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByCreator returns all requests created by userID, newest first.
func (repo *RequestRepository) ListByCreator(ctx context.Context, userID int64) ([]domain.Request, error) {
	const query = `SELECT ` + requestColumns + `
		  FROM requests
		 WHERE created_by_user_id = $1
		 ORDER BY id DESC`
	return repo.list(ctx, query, userID)
}

// ListByStatusExcluding returns requests in the given status not created by
// userID, newest first.
func (repo *RequestRepository) ListByStatusExcluding(ctx context.Context, status domain.RequestStatus, userID int64) ([]domain.Request, error) {
	const query = `SELECT ` + requestColumns + `
		  FROM requests
		 WHERE status = $1 AND created_by_user_id <> $2
		 ORDER BY id DESC`
	return repo.list(ctx, query, status, userID)
}

// ListByStatusFor returns requests in the given status created by userID,
// newest first.
func (repo *RequestRepository) ListByStatusFor(ctx context.Context, status domain.RequestStatus, userID int64) ([]domain.Request, error) {
	const query = `SELECT ` + requestColumns + `
		  FROM requests
		 WHERE status = $1 AND created_by_user_id = $2
		 ORDER BY id DESC`
	return repo.list(ctx, query, status, userID)
}

// UpdateStatus moves a request from one status to another in a single
// conditional write.
func (repo *RequestRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.RequestStatus, updatedAt time.Time) (*domain.Request, error) {
	const query = `
		UPDATE requests
		   SET status = $3, updated_at = $4
		 WHERE id = $1 AND status = $2
		RETURNING ` + requestColumns

	r, err := scanRequest(repo.pool.QueryRow(ctx, query, id, from, to, updatedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStatusConflict
		}
		return nil, err
	}
	return r, nil
}

// Decide applies an approve-or-reject transition from Submitted, recording
// the deciding user and comment.
func (repo *RequestRepository) Decide(ctx context.Context, id int64, upd ports.DecisionUpdate) (*domain.Request, error) {
	const query = `
		UPDATE requests
		   SET status = $2,
		       approver_comment = $3,
		       approved_by_user_id = $4,
		       approved_by_user_name = $5,
		       updated_at = $6
		 WHERE id = $1 AND status = $7
		RETURNING ` + requestColumns

	r, err := scanRequest(repo.pool.QueryRow(ctx, query,
		id, upd.Status, upd.ApproverComment,
		upd.ApprovedByUserID, upd.ApprovedByUserName,
		upd.UpdatedAt, domain.StatusSubmitted,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStatusConflict
		}
		return nil, err
	}
	return r, nil
}

// UpdateFields edits a Draft request. Title and type fall back to the
// stored value when nil; the description is only written when its set flag
// is raised, so an explicit null/empty update stays distinguishable from
// "no change".
func (repo *RequestRepository) UpdateFields(ctx context.Context, id int64, upd ports.FieldUpdate) (*domain.Request, error) {
	const query = `
		UPDATE requests
		   SET title       = COALESCE($2, title),
		       description = CASE WHEN $3 THEN $4 ELSE description END,
		       type        = COALESCE($5, type),
		       updated_at  = $6
		 WHERE id = $1 AND status = $7
		RETURNING ` + requestColumns

	r, err := scanRequest(repo.pool.QueryRow(ctx, query,
		id, upd.Title, upd.Description != nil, upd.Description, upd.Type,
		upd.UpdatedAt, domain.StatusDraft,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStatusConflict
		}
		return nil, err
	}
	return r, nil
}

// Delete removes a Draft request permanently.
func (repo *RequestRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM requests WHERE id = $1 AND status = $2`

	cmd, err := repo.pool.Exec(ctx, query, id, domain.StatusDraft)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrStatusConflict
	}
	return nil
}
