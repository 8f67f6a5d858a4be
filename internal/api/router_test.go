package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/opsdesk/approvals/internal/core/domain"
	"github.com/opsdesk/approvals/internal/core/ports"
	"github.com/opsdesk/approvals/internal/core/service"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubRequestService struct {
	createFn      func(ctx context.Context, actor domain.User, in ports.CreateRequestInput) (*domain.Request, error)
	listOwnFn     func(ctx context.Context, actor domain.User) ([]domain.Request, error)
	listPendingFn func(ctx context.Context, actor domain.User) ([]domain.Request, error)
	submitFn      func(ctx context.Context, actor domain.User, id int64) (*domain.Request, error)
	approveFn     func(ctx context.Context, actor domain.User, id int64, comment string) (*domain.Request, error)
	rejectFn      func(ctx context.Context, actor domain.User, id int64, comment string) (*domain.Request, error)
	editFn        func(ctx context.Context, actor domain.User, id int64, in ports.EditRequestInput) (*domain.Request, error)
	deleteFn      func(ctx context.Context, actor domain.User, id int64) error
}

func (s *stubRequestService) reset() { *s = stubRequestService{} }

func (s *stubRequestService) Create(ctx context.Context, actor domain.User, in ports.CreateRequestInput) (*domain.Request, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubRequestService) ListOwn(ctx context.Context, actor domain.User) ([]domain.Request, error) {
	return s.listOwnFn(ctx, actor)
}

func (s *stubRequestService) ListPending(ctx context.Context, actor domain.User) ([]domain.Request, error) {
	return s.listPendingFn(ctx, actor)
}

func (s *stubRequestService) Submit(ctx context.Context, actor domain.User, id int64) (*domain.Request, error) {
	return s.submitFn(ctx, actor, id)
}

func (s *stubRequestService) Approve(ctx context.Context, actor domain.User, id int64, comment string) (*domain.Request, error) {
	return s.approveFn(ctx, actor, id, comment)
}

func (s *stubRequestService) Reject(ctx context.Context, actor domain.User, id int64, comment string) (*domain.Request, error) {
	return s.rejectFn(ctx, actor, id, comment)
}

func (s *stubRequestService) Edit(ctx context.Context, actor domain.User, id int64, in ports.EditRequestInput) (*domain.Request, error) {
	return s.editFn(ctx, actor, id, in)
}

func (s *stubRequestService) Delete(ctx context.Context, actor domain.User, id int64) error {
	return s.deleteFn(ctx, actor, id)
}

type switchableLimiter struct {
	deny bool
}

func (l *switchableLimiter) Allow(context.Context, string, string) (bool, error) {
	return !l.deny, nil
}

// ---------------------------------------------------------------------------
// Shared router
//
// Prometheus collectors register against the global registry, so the router
// is built once and the stubs are reset per test.
// ---------------------------------------------------------------------------

var (
	routerOnce  sync.Once
	testRouter  *echo.Echo
	testService = &stubRequestService{}
	testLimiter = &switchableLimiter{}
)

func newTestEnv(t *testing.T) (*echo.Echo, *stubRequestService, *switchableLimiter) {
	t.Helper()
	routerOnce.Do(func() {
		directory := domain.NewDirectory(domain.DefaultUsers())
		testRouter = NewRouter(Dependencies{
			Requests:  testService,
			Tokens:    service.NewTokenService(directory, "test-secret", time.Hour),
			Directory: directory,
			Limiter:   testLimiter,
		})
	})
	testService.reset()
	testLimiter.deny = false
	return testRouter, testService, testLimiter
}

func doRequest(e *echo.Echo, method, path, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if userID != "" {
		req.Header.Set("user-id", userID)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func wantEnvelope(t *testing.T, rec *httptest.ResponseRecorder, code int, msg string) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected status %d, got %d (body %s)", code, rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["error"] != msg {
		t.Fatalf("expected error %q, got %v", msg, body["error"])
	}
}

func sampleRequest() *domain.Request {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	desc := "Need VPN access"
	return &domain.Request{
		ID:                1,
		Title:             "VPN Access",
		Description:       &desc,
		Type:              domain.TypeAccess,
		Status:            domain.StatusDraft,
		CreatedByUserID:   1,
		CreatedByUserName: "Hadi",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRouter_Health(t *testing.T) {
	e, _, _ := newTestEnv(t)

	rec := doRequest(e, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "worked" {
		t.Errorf("expected status worked, got %v", body["status"])
	}
}

func TestRouter_ReadinessWithoutDependencies(t *testing.T) {
	e, _, _ := newTestEnv(t)

	rec := doRequest(e, http.MethodGet, "/health/ready", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "ok" {
		t.Errorf("expected ok, got %v", body["status"])
	}
}

func TestRouter_Unauthenticated(t *testing.T) {
	e, _, _ := newTestEnv(t)

	rec := doRequest(e, http.MethodGet, "/requests", "", "")
	wantEnvelope(t, rec, http.StatusUnauthorized, "Missing user-id in header")
}

func TestRouter_UnknownUserID(t *testing.T) {
	e, _, _ := newTestEnv(t)

	rec := doRequest(e, http.MethodGet, "/requests", "99", "")
	wantEnvelope(t, rec, http.StatusUnauthorized, "Missing user-id in header")
}

func TestRouter_CreateRequest(t *testing.T) {
	e, svc, _ := newTestEnv(t)

	svc.createFn = func(_ context.Context, actor domain.User, in ports.CreateRequestInput) (*domain.Request, error) {
		if actor.ID != 1 {
			t.Errorf("expected actor 1, got %d", actor.ID)
		}
		if in.Title != "VPN Access" || in.Type != "Access" {
			t.Errorf("unexpected input %+v", in)
		}
		return sampleRequest(), nil
	}

	rec := doRequest(e, http.MethodPost, "/requests", "1",
		`{"title":"VPN Access","description":"Need VPN access","type":"Access"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body %s)", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["id"] != float64(1) || body["status"] != "Draft" {
		t.Errorf("unexpected body %v", body)
	}
	if body["createdByUserId"] != float64(1) || body["createdByUserName"] != "Hadi" {
		t.Errorf("creator fields wrong: %v", body)
	}
	if body["approverComment"] != nil || body["approvedByUserId"] != nil {
		t.Errorf("approval fields must be null: %v", body)
	}
	if body["createdAt"] != "2025-06-01T12:00:00.000Z" {
		t.Errorf("unexpected createdAt %v", body["createdAt"])
	}
}

func TestRouter_CreateForbiddenForApprover(t *testing.T) {
	e, svc, _ := newTestEnv(t)

	svc.createFn = func(context.Context, domain.User, ports.CreateRequestInput) (*domain.Request, error) {
		return nil, domain.Forbidden("Only Requesters can create requests")
	}

	rec := doRequest(e, http.MethodPost, "/requests", "2", `{"title":"X"}`)
	wantEnvelope(t, rec, http.StatusForbidden, "Only Requesters can create requests")
}

func TestRouter_CreateBlankTitle(t *testing.T) {
	e, svc, _ := newTestEnv(t)

	svc.createFn = func(context.Context, domain.User, ports.CreateRequestInput) (*domain.Request, error) {
		return nil, domain.InvalidInput("Title is required")
	}

	rec := doRequest(e, http.MethodPost, "/requests", "1", `{"title":"  "}`)
	wantEnvelope(t, rec, http.StatusBadRequest, "Title is required")
}

func TestRouter_ListOwn(t *testing.T) {
	e, svc, _ := newTestEnv(t)

	svc.listOwnFn = func(_ context.Context, actor domain.User) ([]domain.Request, error) {
		return []domain.Request{*sampleRequest()}, nil
	}

	rec := doRequest(e, http.MethodGet, "/requests", "1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0]["title"] != "VPN Access" {
		t.Errorf("unexpected list %v", list)
	}
}

func TestRouter_ListPendingNoRole(t *testing.T) {
	e, svc, _ := newTestEnv(t)

	svc.listPendingFn = func(context.Context, domain.User) ([]domain.Request, error) {
		return nil, domain.Forbidden("User has no valid role")
	}

	rec := doRequest(e, http.MethodGet, "/requests/pending", "1", "")
	wantEnvelope(t, rec, http.StatusForbidden, "User has no valid role")
}

func TestRouter_SubmitInvalidState(t *testing.T) {
	e, svc, _ := newTestEnv(t)

	svc.submitFn = func(_ context.Context, _ domain.User, id int64) (*domain.Request, error) {
		if id != 7 {
			t.Errorf("expected id 7, got %d", id)
		}
		return nil, domain.InvalidState("Only Draft requests can be submitted")
	}

	rec := doRequest(e, http.MethodPost, "/requests/7/submit", "1", "")
	wantEnvelope(t, rec, http.StatusBadRequest, "Only Draft requests can be submitted")
}

func TestRouter_ApproveSuccess(t *testing.T) {
	e, svc, _ := newTestEnv(t)

	svc.approveFn = func(_ context.Context, actor domain.User, id int64, comment string) (*domain.Request, error) {
		if actor.ID != 2 || id != 4 || comment != "looks good" {
			t.Errorf("unexpected args: actor %d, id %d, comment %q", actor.ID, id, comment)
		}
		req := sampleRequest()
		req.ID = 4
		req.Status = domain.StatusApproved
		req.ApproverComment = &comment
		req.ApprovedByUserID = &actor.ID
		req.ApprovedByUserName = &actor.Name
		return req, nil
	}

	rec := doRequest(e, http.MethodPost, "/requests/4/approve", "2", `{"approverComment":"looks good"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["status"] != "Approved" || body["approvedByUserName"] != "Haneen" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestRouter_RejectNotFound(t *testing.T) {
	e, svc, _ := newTestEnv(t)

	svc.rejectFn = func(context.Context, domain.User, int64, string) (*domain.Request, error) {
		return nil, domain.ErrRequestNotFound
	}

	rec := doRequest(e, http.MethodPost, "/requests/42/reject", "2", `{"approverComment":"no"}`)
	wantEnvelope(t, rec, http.StatusNotFound, "Request not found")
}

func TestRouter_NonNumericIDIsNotFound(t *testing.T) {
	e, _, _ := newTestEnv(t)

	rec := doRequest(e, http.MethodPost, "/requests/abc/submit", "1", "")
	wantEnvelope(t, rec, http.StatusNotFound, "Request not found")
}

func TestRouter_EditPassesPointerFields(t *testing.T) {
	e, svc, _ := newTestEnv(t)

	svc.editFn = func(_ context.Context, _ domain.User, _ int64, in ports.EditRequestInput) (*domain.Request, error) {
		if in.Title != nil {
			t.Error("absent title must stay nil")
		}
		if in.Description == nil || *in.Description != "" {
			t.Errorf("explicit empty description must survive binding, got %v", in.Description)
		}
		req := sampleRequest()
		empty := ""
		req.Description = &empty
		return req, nil
	}

	rec := doRequest(e, http.MethodPatch, "/requests/1/edit", "1", `{"description":""}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["description"] != "" {
		t.Errorf("expected empty description, got %v", body["description"])
	}
}

func TestRouter_DeleteDraft(t *testing.T) {
	e, svc, _ := newTestEnv(t)

	svc.deleteFn = func(_ context.Context, _ domain.User, id int64) error {
		if id != 5 {
			t.Errorf("expected id 5, got %d", id)
		}
		return nil
	}

	rec := doRequest(e, http.MethodDelete, "/requests/5", "1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}

func TestRouter_DeleteSubmitted(t *testing.T) {
	e, svc, _ := newTestEnv(t)

	svc.deleteFn = func(context.Context, domain.User, int64) error {
		return domain.InvalidState("Only Draft requests can be deleted")
	}

	rec := doRequest(e, http.MethodDelete, "/requests/5", "1", "")
	wantEnvelope(t, rec, http.StatusBadRequest, "Only Draft requests can be deleted")
}

func TestRouter_RateLimitDenied(t *testing.T) {
	e, _, limiter := newTestEnv(t)
	limiter.deny = true

	rec := doRequest(e, http.MethodPost, "/requests", "1", `{"title":"X"}`)
	wantEnvelope(t, rec, http.StatusTooManyRequests, "rate limit exceeded")
}

func TestRouter_RateLimitSparesReads(t *testing.T) {
	e, svc, limiter := newTestEnv(t)
	limiter.deny = true

	svc.listOwnFn = func(context.Context, domain.User) ([]domain.Request, error) {
		return []domain.Request{}, nil
	}

	rec := doRequest(e, http.MethodGet, "/requests", "1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("read routes must not be rate limited, got %d", rec.Code)
	}
}

func TestRouter_TokenFlow(t *testing.T) {
	e, svc, _ := newTestEnv(t)

	rec := doRequest(e, http.MethodPost, "/auth/token", "", `{"userId":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("expected a token")
	}
	user, _ := body["user"].(map[string]any)
	if user["name"] != "Lama" {
		t.Errorf("expected user Lama, got %v", user)
	}

	svc.listOwnFn = func(_ context.Context, actor domain.User) ([]domain.Request, error) {
		if actor.ID != 3 {
			t.Errorf("expected actor 3 from token, got %d", actor.ID)
		}
		return []domain.Request{}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/requests", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("bearer auth failed: %d (body %s)", rr.Code, rr.Body.String())
	}
}

func TestRouter_TokenUnknownUser(t *testing.T) {
	e, _, _ := newTestEnv(t)

	rec := doRequest(e, http.MethodPost, "/auth/token", "", `{"userId":99}`)
	wantEnvelope(t, rec, http.StatusNotFound, "User not found")
}

func TestRouter_TokenMissingUserID(t *testing.T) {
	e, _, _ := newTestEnv(t)

	rec := doRequest(e, http.MethodPost, "/auth/token", "", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
