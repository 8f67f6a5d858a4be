package handler

import (
	"github.com/opsdesk/approvals/internal/core/domain"
)

func toRequestResponse(r *domain.Request) requestResponse {
	return requestResponse{
		ID:                 r.ID,
		Title:              r.Title,
		Description:        r.Description,
		Type:               string(r.Type),
		Status:             string(r.Status),
		CreatedByUserID:    r.CreatedByUserID,
		CreatedByUserName:  r.CreatedByUserName,
		ApproverComment:    r.ApproverComment,
		ApprovedByUserID:   r.ApprovedByUserID,
		ApprovedByUserName: r.ApprovedByUserName,
		CreatedAt:          r.CreatedAt.UTC().Format(isoFormat),
		UpdatedAt:          r.UpdatedAt.UTC().Format(isoFormat),
	}
}

func toRequestListResponse(reqs []domain.Request) []requestResponse {
	out := make([]requestResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, toRequestResponse(&reqs[i]))
	}
	return out
}

func toUserResponse(u domain.User) userResponse {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}
	return userResponse{ID: u.ID, Name: u.Name, Roles: roles}
}
