package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"qbank/internal/model"
	"qbank/internal/service"
	"qbank/internal/transport/rest/middleware"
)

// MergeHandler handles the upload / preview / commit workflow endpoints
type MergeHandler struct {
	workflowSvc *service.WorkflowService
	bankSvc     *service.BankService
	cleanupSvc  *service.CleanupService
}

// NewMergeHandler creates a new merge handler
func NewMergeHandler(workflowSvc *service.WorkflowService, bankSvc *service.BankService, cleanupSvc *service.CleanupService) *MergeHandler {
	return &MergeHandler{
		workflowSvc: workflowSvc,
		bankSvc:     bankSvc,
		cleanupSvc:  cleanupSvc,
	}
}

// UploadFileRequest is one question-bank file inside an upload request.
// Content is passed through to the normalizer untouched, so both accepted
// payload shapes work here.
type UploadFileRequest struct {
	Name    string          `json:"name"`
	Content json.RawMessage `json:"content"`
}

// UploadRequest is the request body for an upload. SessionID is empty on
// the first upload; the response returns the id to use from then on.
type UploadRequest struct {
	SessionID string              `json:"sessionId,omitempty"`
	Files     []UploadFileRequest `json:"files"`
}

// PreviewRequest is the request body for a merge preview
type PreviewRequest struct {
	SessionID    string              `json:"sessionId"`
	Strategy     model.MergeStrategy `json:"strategy"`
	AutoRenumber bool                `json:"autoRenumber"`
}

// CommitRequest is the request body for a commit
type CommitRequest struct {
	SessionID string                `json:"sessionId"`
	Cleanup   *model.CleanupOptions `json:"cleanup,omitempty"`
}

// SessionRequest is the request body for session-scoped operations
type SessionRequest struct {
	SessionID string `json:"sessionId"`
}

// Upload handles POST /v1/banks/{bankId}/upload
func (h *MergeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	bankID := mux.Vars(r)["bankId"]
	hostID := middleware.GetHostID(r.Context())

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Files) == 0 {
		writeError(w, http.StatusBadRequest, "no files supplied")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		bank, err := h.bankSvc.GetByID(r.Context(), bankID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if bank == nil {
			writeError(w, http.StatusNotFound, "bank not found")
			return
		}
		session, err := h.workflowSvc.StartSession(r.Context(), bankID, hostID, bank.Questions)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		sessionID = session.ID
	}

	files := make([]service.UploadedFile, len(req.Files))
	for i, f := range req.Files {
		files[i] = service.UploadedFile{Name: f.Name, Data: f.Content}
	}

	session, err := h.workflowSvc.UploadFiles(r.Context(), sessionID, files)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessionId":   session.ID,
		"state":       session.State,
		"pending":     len(session.PendingBatch),
		"fileReports": session.FileReports,
		"batchReport": session.BatchReport,
	})
}

// Preview handles POST /v1/banks/{bankId}/preview
func (h *MergeHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	preview, err := h.workflowSvc.Preview(r.Context(), req.SessionID, req.Strategy, req.AutoRenumber)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, preview)
}

// Commit handles POST /v1/banks/{bankId}/commit
func (h *MergeHandler) Commit(w http.ResponseWriter, r *http.Request) {
	bankID := mux.Vars(r)["bankId"]

	var req CommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	final, preview, err := h.workflowSvc.Commit(r.Context(), req.SessionID)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	var cleanupIssues []model.Issue
	if req.Cleanup != nil {
		final, cleanupIssues = h.cleanupSvc.CleanBatch(final, *req.Cleanup)
	}

	bank, err := h.bankSvc.GetByID(r.Context(), bankID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if bank == nil {
		writeError(w, http.StatusNotFound, "bank not found")
		return
	}
	bank.Questions = final
	if err := h.bankSvc.Update(r.Context(), bank); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"finalCount":    len(final),
		"preview":       preview,
		"cleanupIssues": cleanupIssues,
	})
}

// Reset handles POST /v1/banks/{bankId}/reset
func (h *MergeHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.workflowSvc.Reset(r.Context(), req.SessionID)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessionId": session.ID,
		"state":     session.State,
	})
}

// writeWorkflowError maps pipeline errors onto HTTP statuses
func writeWorkflowError(w http.ResponseWriter, err error) {
	var transition *model.InvalidTransitionError
	switch {
	case errors.As(err, &transition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrUnknownStrategy):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrStalePreview):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
