package handler

// isoFormat renders timestamps the way the SPA expects them: UTC ISO-8601
// with millisecond precision.
const isoFormat = "2006-01-02T15:04:05.000Z07:00"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createRequestRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Type        string  `json:"type"`
}

type decisionRequest struct {
	ApproverComment string `json:"approverComment"`
}

// editRequestRequest distinguishes absent fields from explicit values via
// pointers: {"description": ""} clears the description, while omitting the
// key leaves it unchanged.
type editRequestRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
}

type tokenRequest struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
}

// --- Response types ---

// requestResponse mirrors the Request entity with the camelCase field names
// the client application consumes.
type requestResponse struct {
	ID                 int64   `json:"id"`
	Title              string  `json:"title"`
	Description        *string `json:"description"`
	Type               string  `json:"type"`
	Status             string  `json:"status"`
	CreatedByUserID    int64   `json:"createdByUserId"`
	CreatedByUserName  string  `json:"createdByUserName"`
	ApproverComment    *string `json:"approverComment"`
	ApprovedByUserID   *int64  `json:"approvedByUserId"`
	ApprovedByUserName *string `json:"approvedByUserName"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

type userResponse struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}
