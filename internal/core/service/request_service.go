package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/opsdesk/approvals/internal/core/domain"
	"github.com/opsdesk/approvals/internal/core/ports"
)

// RequestService implements the approval workflow over a RequestRepository.
// Every operation re-validates role, ownership, and state precondition in
// that order, so the surfaced error is deterministic when several
// conditions fail at once.
type RequestService struct {
	repo   ports.RequestRepository
	logger zerolog.Logger
}

func NewRequestService(repo ports.RequestRepository, logger zerolog.Logger) *RequestService {
	return &RequestService{repo: repo, logger: logger}
}

// Create validates the payload and stores a new request in Draft.
func (s *RequestService) Create(ctx context.Context, actor domain.User, in ports.CreateRequestInput) (*domain.Request, error) {
	if err := createPolicy.checkRole(actor); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.InvalidInput("Title is required")
	}

	now := time.Now().UTC()
	req := &domain.Request{
		Title:             title,
		Description:       in.Description,
		Type:              domain.NormalizeType(in.Type),
		Status:            domain.StatusDraft,
		CreatedByUserID:   actor.ID,
		CreatedByUserName: actor.Name,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := s.repo.Create(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create request")
		return nil, err
	}

	s.logger.Info().
		Int64("request_id", created.ID).
		Int64("user_id", actor.ID).
		Str("type", string(created.Type)).
		Msg("request created")

	return created, nil
}

// ListOwn returns the actor's own requests, newest first. Any authenticated
// user may call it.
func (s *RequestService) ListOwn(ctx context.Context, actor domain.User) ([]domain.Request, error) {
	return s.repo.ListByCreator(ctx, actor.ID)
}

// ListPending returns the approval queue. Approvers see submitted requests
// created by others; an approver never sees their own submissions even when
// they also hold the Requester role. Plain requesters see their own
// submitted requests awaiting decision.
func (s *RequestService) ListPending(ctx context.Context, actor domain.User) ([]domain.Request, error) {
	switch {
	case actor.HasRole(domain.RoleApprover):
		return s.repo.ListByStatusExcluding(ctx, domain.StatusSubmitted, actor.ID)
	case actor.HasRole(domain.RoleRequester):
		return s.repo.ListByStatusFor(ctx, domain.StatusSubmitted, actor.ID)
	default:
		return nil, domain.Forbidden("User has no valid role")
	}
}

// Submit moves one of the actor's Draft requests to Submitted.
func (s *RequestService) Submit(ctx context.Context, actor domain.User, id int64) (*domain.Request, error) {
	if err := submitPolicy.checkRole(actor); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := submitPolicy.checkOwnership(actor, req); err != nil {
		return nil, err
	}
	if req.Status != domain.StatusDraft {
		return nil, domain.InvalidState("Only Draft requests can be submitted")
	}

	updated, err := s.repo.UpdateStatus(ctx, id, domain.StatusDraft, domain.StatusSubmitted, time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			return nil, domain.InvalidState("Only Draft requests can be submitted")
		}
		return nil, err
	}

	s.logger.Info().Int64("request_id", id).Int64("user_id", actor.ID).Msg("request submitted")
	return updated, nil
}

// Approve moves a Submitted request to Approved, recording the decision.
func (s *RequestService) Approve(ctx context.Context, actor domain.User, id int64, comment string) (*domain.Request, error) {
	return s.decide(ctx, actor, id, comment, domain.StatusApproved, approvePolicy,
		"Only submitted requests can be approved")
}

// Reject moves a Submitted request to Rejected, recording the decision.
func (s *RequestService) Reject(ctx context.Context, actor domain.User, id int64, comment string) (*domain.Request, error) {
	return s.decide(ctx, actor, id, comment, domain.StatusRejected, rejectPolicy,
		"Only submitted requests can be rejected")
}

// decide implements the shared approve/reject contract. Approved and
// Rejected are terminal, so the conditional write doubles as the
// no-re-decision guard.
func (s *RequestService) decide(
	ctx context.Context,
	actor domain.User,
	id int64,
	comment string,
	to domain.RequestStatus,
	policy accessPolicy,
	stateMsg string,
) (*domain.Request, error) {
	if err := policy.checkRole(actor); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.checkOwnership(actor, req); err != nil {
		return nil, err
	}
	if !req.Status.CanTransitionTo(to) {
		return nil, domain.InvalidState(stateMsg)
	}

	trimmed := strings.TrimSpace(comment)
	if trimmed == "" {
		return nil, domain.InvalidInput("Approver comment is required")
	}

	updated, err := s.repo.Decide(ctx, id, ports.DecisionUpdate{
		Status:             to,
		ApproverComment:    trimmed,
		ApprovedByUserID:   actor.ID,
		ApprovedByUserName: actor.Name,
		UpdatedAt:          time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			return nil, domain.InvalidState(stateMsg)
		}
		return nil, err
	}

	s.logger.Info().
		Int64("request_id", id).
		Int64("approver_id", actor.ID).
		Str("status", string(to)).
		Msg("request decided")

	return updated, nil
}

// Edit updates a non-empty subset of {title, description, type} on one of
// the actor's Draft requests. Absent fields are left unchanged; an explicit
// empty description is a valid update, an empty title is not.
func (s *RequestService) Edit(ctx context.Context, actor domain.User, id int64, in ports.EditRequestInput) (*domain.Request, error) {
	if err := editPolicy.checkRole(actor); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := editPolicy.checkOwnership(actor, req); err != nil {
		return nil, err
	}
	if req.Status != domain.StatusDraft {
		return nil, domain.InvalidState("Only Draft requests can be edited")
	}

	if in.Title == nil && in.Description == nil && in.Type == nil {
		return nil, domain.InvalidInput("Request body is required")
	}

	upd := ports.FieldUpdate{UpdatedAt: time.Now().UTC()}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.InvalidInput("Title is required")
		}
		upd.Title = &title
	}
	if in.Description != nil {
		upd.Description = in.Description
	}
	if in.Type != nil {
		t := domain.NormalizeType(*in.Type)
		upd.Type = &t
	}

	updated, err := s.repo.UpdateFields(ctx, id, upd)
	if err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			return nil, domain.InvalidState("Only Draft requests can be edited")
		}
		return nil, err
	}

	s.logger.Info().Int64("request_id", id).Int64("user_id", actor.ID).Msg("request edited")
	return updated, nil
}

// Delete permanently removes one of the actor's Draft requests.
func (s *RequestService) Delete(ctx context.Context, actor domain.User, id int64) error {
	if err := deletePolicy.checkRole(actor); err != nil {
		return err
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := deletePolicy.checkOwnership(actor, req); err != nil {
		return err
	}
	if req.Status != domain.StatusDraft {
		return domain.InvalidState("Only Draft requests can be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			return domain.InvalidState("Only Draft requests can be deleted")
		}
		return err
	}

	s.logger.Info().Int64("request_id", id).Int64("user_id", actor.ID).Msg("request deleted")
	return nil
}
