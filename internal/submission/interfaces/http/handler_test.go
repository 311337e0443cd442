package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"petrodata-cloud/internal/audit"
	"petrodata-cloud/internal/auth"
	submissionapp "petrodata-cloud/internal/submission/application"
	"petrodata-cloud/internal/submission/infrastructure/memory"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	repo := memory.NewMemorySubmissionRepository()
	service, err := submissionapp.NewSubmissionApplicationService(repo, nil, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	handler, err := NewHandler(service, nil)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler
}

func doUpload(t *testing.T, handler *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", strings.NewReader(body))
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.RoleFieldAgent, "agent-1"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestHandler_UploadAndDecision(t *testing.T) {
	handler := newTestHandler(t)

	resp := doUpload(t, handler, `{"submissions":[{
		"fillingStation":"Total Energies",
		"state":"Lagos",
		"product":"PMS",
		"price":620.5,
		"priceDate":"2024-03-09"
	}]}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		Submissions []struct {
			ID     string `json:"id"`
			Region string `json:"region"`
			Status string `json:"status"`
		} `json:"submissions"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if len(created.Submissions) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(created.Submissions))
	}
	if created.Submissions[0].Region != "SOUTH WEST" {
		t.Fatalf("expected SOUTH WEST, got %s", created.Submissions[0].Region)
	}
	if created.Submissions[0].Status != "pending" {
		t.Fatalf("expected pending, got %s", created.Submissions[0].Status)
	}

	id := created.Submissions[0].ID
	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions/"+id+"/decision",
		strings.NewReader(`{"action":"approve"}`))
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.RoleAdmin, "admin-1"))
	decideResp := httptest.NewRecorder()
	handler.ServeHTTP(decideResp, req)
	if decideResp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", decideResp.Code, decideResp.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/submissions/"+id+"/decision",
		strings.NewReader(`{"action":"reject","rejectionReason":"duplicate entry"}`))
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.RoleAdmin, "admin-2"))
	conflictResp := httptest.NewRecorder()
	handler.ServeHTTP(conflictResp, req)
	if conflictResp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", conflictResp.Code)
	}
}

func TestHandler_UploadValidation(t *testing.T) {
	handler := newTestHandler(t)

	resp := doUpload(t, handler, `{"submissions":[{
		"fillingStation":"Total Energies",
		"state":"Lagos",
		"product":"JETFUEL",
		"price":620.5,
		"priceDate":"2024-03-09"
	}]}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown product, got %d", resp.Code)
	}

	resp = doUpload(t, handler, `{"submissions":[{
		"fillingStation":"Total Energies",
		"state":"Lagos",
		"product":"PMS",
		"price":-5,
		"priceDate":"2024-03-09"
	}]}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative price, got %d", resp.Code)
	}

	resp = doUpload(t, handler, `{"submissions":[]}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty batch, got %d", resp.Code)
	}
}

func TestHandler_DecisionUnknownID(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions/missing/decision",
		strings.NewReader(`{"action":"approve"}`))
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.RoleAdmin, "admin-1"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestHandler_ListRejectsBadBatch(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/submissions?batch=0", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.RoleAnalyst, "analyst-1"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

type countingAuditLogger struct {
	entries []audit.Entry
}

func (l *countingAuditLogger) Log(_ context.Context, entry audit.Entry) error {
	l.entries = append(l.entries, entry)
	return nil
}

type countingRecorder struct {
	decisions int
}

func (r *countingRecorder) RecordDecision(_ context.Context, _, _, _, _ string, _ time.Time) {
	r.decisions++
}

// A decision must produce exactly one audit record: the application
// service's recorder writes it, the handler does not log one on top.
func TestHandler_DecisionAuditedOnce(t *testing.T) {
	repo := memory.NewMemorySubmissionRepository()
	recorder := &countingRecorder{}
	service, err := submissionapp.NewSubmissionApplicationService(repo, recorder, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	auditLogger := &countingAuditLogger{}
	handler, err := NewHandler(service, auditLogger)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	resp := doUpload(t, handler, `{"submissions":[{
		"fillingStation":"Total Energies",
		"state":"Lagos",
		"product":"PMS",
		"price":620.5,
		"priceDate":"2024-03-09"
	}]}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	uploadEntries := len(auditLogger.entries)

	var created struct {
		Submissions []struct {
			ID string `json:"id"`
		} `json:"submissions"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions/"+created.Submissions[0].ID+"/decision",
		strings.NewReader(`{"action":"approve"}`))
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.RoleAdmin, "admin-1"))
	decideResp := httptest.NewRecorder()
	handler.ServeHTTP(decideResp, req)
	if decideResp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", decideResp.Code, decideResp.Body.String())
	}

	if recorder.decisions != 1 {
		t.Fatalf("expected 1 recorded decision, got %d", recorder.decisions)
	}
	if len(auditLogger.entries) != uploadEntries {
		t.Fatalf("handler must not audit decisions itself, got %d extra entries",
			len(auditLogger.entries)-uploadEntries)
	}
}
