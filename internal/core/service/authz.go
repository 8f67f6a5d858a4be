package service

import (
	"github.com/opsdesk/approvals/internal/core/domain"
)

// accessPolicy is the single authorization rule applied by every mutating
// operation: required role, ownership requirement, and the messages surfaced
// on denial. Centralising this keeps the near-duplicate per-endpoint checks
// from drifting apart.
type accessPolicy struct {
	role         domain.Role
	requireOwner bool // actor must be the request's creator
	excludeOwner bool // actor must NOT be the request's creator
	roleMsg      string
	ownerMsg     string
}

// checkRole runs before the target request is fetched.
func (p accessPolicy) checkRole(actor domain.User) error {
	if !actor.HasRole(p.role) {
		return domain.Forbidden(p.roleMsg)
	}
	return nil
}

// checkOwnership runs after the target request has been resolved.
func (p accessPolicy) checkOwnership(actor domain.User, req *domain.Request) error {
	if p.requireOwner && req.CreatedByUserID != actor.ID {
		return domain.Forbidden(p.ownerMsg)
	}
	if p.excludeOwner && req.CreatedByUserID == actor.ID {
		return domain.Forbidden(p.ownerMsg)
	}
	return nil
}

var (
	createPolicy = accessPolicy{
		role:    domain.RoleRequester,
		roleMsg: "Only Requesters can create requests",
	}
	submitPolicy = accessPolicy{
		role:         domain.RoleRequester,
		requireOwner: true,
		roleMsg:      "Only Requesters can submit requests",
		ownerMsg:     "Only the user who created the request can submit",
	}
	approvePolicy = accessPolicy{
		role:         domain.RoleApprover,
		excludeOwner: true,
		roleMsg:      "Only Approvers can approve requests",
		ownerMsg:     "Approver can't approve requests they created",
	}
	rejectPolicy = accessPolicy{
		role:         domain.RoleApprover,
		excludeOwner: true,
		roleMsg:      "Only Approvers can reject requests",
		ownerMsg:     "Approver can't reject requests they created",
	}
	editPolicy = accessPolicy{
		role:         domain.RoleRequester,
		requireOwner: true,
		roleMsg:      "Only Requesters can edit requests",
		ownerMsg:     "Only the user who created the request can edit",
	}
	deletePolicy = accessPolicy{
		role:         domain.RoleRequester,
		requireOwner: true,
		roleMsg:      "Only Requesters can delete requests",
		ownerMsg:     "Only the user who created the request can delete",
	}
)
