package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"qbank/internal/cache"
	"qbank/internal/model"
)

// Workflow event names broadcast to the editor UI
const (
	EventBatchUploaded  = "batch_uploaded"
	EventPreviewCreated = "preview_ready"
	EventMergeCommitted = "merge_committed"
	EventWorkflowReset  = "workflow_reset"
)

// UploadedFile is one raw file handed to the workflow by the caller
type UploadedFile struct {
	Name string
	Data []byte
}

// WorkflowService sequences the merge pipeline behind the four-state
// workflow: upload, preview, commit, reset. Every operation loads the
// session, checks the transition, runs the pipeline stages and stores the
// session back. Pipeline runs are synchronous and complete within one call.
type WorkflowService struct {
	sessions    cache.WorkflowCache
	normalizer  *NormalizeService
	validator   *ValidateService
	detector    *ConflictService
	renumber    *RenumberService
	merger      *MergeService
	broadcaster Broadcaster
}

// NewWorkflowService creates a new workflow service
func NewWorkflowService(sessions cache.WorkflowCache, normalizer *NormalizeService, validator *ValidateService, detector *ConflictService, renumber *RenumberService, merger *MergeService) *WorkflowService {
	return &WorkflowService{
		sessions:   sessions,
		normalizer: normalizer,
		validator:  validator,
		detector:   detector,
		renumber:   renumber,
		merger:     merger,
	}
}

// SetBroadcaster injects the WebSocket broadcaster
func (s *WorkflowService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// StartSession opens a workflow over a snapshot of the existing corpus
func (s *WorkflowService) StartSession(ctx context.Context, bankID, hostID string, existing []model.Question) (*model.WorkflowSession, error) {
	session := &model.WorkflowSession{
		ID:        uuid.New().String(),
		BankID:    bankID,
		HostID:    hostID,
		State:     model.StateInitial,
		Existing:  existing,
		UpdatedAt: time.Now(),
	}
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession loads a workflow session
func (s *WorkflowService) GetSession(ctx context.Context, sessionID string) (*model.WorkflowSession, error) {
	return s.sessions.Get(ctx, sessionID)
}

// UploadFiles ingests one or more raw payload files into the session's
// pending batch. A schema or parse failure aborts only the failing file;
// sibling files continue. Uploading while a preview exists discards the
// stale preview and returns the workflow to FILES_UPLOADED.
func (s *WorkflowService) UploadFiles(ctx context.Context, sessionID string, files []UploadedFile) (*model.WorkflowSession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Apply(model.EventFilesReceived); err != nil {
		return nil, err
	}

	session.PendingBatch = nil
	session.FileReports = nil
	session.BatchReport = nil
	session.LastPreview = nil
	session.Strategy = ""
	session.AutoRenumber = false
	session.Metadata = map[string]interface{}{}

	batchReport := &model.ValidationReport{Errors: []model.Issue{}, Warnings: []model.Issue{}, IsValid: true}
	for _, file := range files {
		report := model.FileReport{FileName: file.Name}

		payload, err := s.normalizer.ParsePayload(file.Data)
		if err != nil {
			report.Error = err.Error()
			session.FileReports = append(session.FileReports, report)
			log.Printf("Workflow %s: file %s rejected: %v", session.ID, file.Name, err)
			continue
		}

		offset := len(session.PendingBatch)
		questions, ingestIssues := s.normalizer.Normalize(payload)
		session.PendingBatch = append(session.PendingBatch, questions...)
		for k, v := range payload.Metadata {
			session.Metadata[k] = v
		}

		fileReport := s.validator.ValidateBatch(questions)
		reindex(fileReport.Errors, offset)
		reindex(fileReport.Warnings, offset)
		for i := range ingestIssues {
			ingestIssues[i].Index += offset
			fileReport.Warnings = append(fileReport.Warnings, ingestIssues[i])
			fileReport.Counts.Warnings++
		}

		report.Parsed = len(questions)
		report.Issues = append(fileReport.Errors, fileReport.Warnings...)
		session.FileReports = append(session.FileReports, report)
		batchReport.Merge(fileReport)
	}

	session.BatchReport = batchReport
	session.UpdatedAt = time.Now()
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}

	s.notify(session.BankID, EventBatchUploaded, map[string]interface{}{
		"sessionId": session.ID,
		"pending":   len(session.PendingBatch),
		"files":     session.FileReports,
	})
	return session, nil
}

// Preview runs detection and strategy resolution over the pending batch and
// stores the resulting MergePreview on the session. Requesting a preview
// again regenerates it from the current inputs.
func (s *WorkflowService) Preview(ctx context.Context, sessionID string, strategy model.MergeStrategy, autoRenumber bool) (*model.MergePreview, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !model.KnownStrategy(strategy) {
		return nil, model.ErrUnknownStrategy
	}
	if err := session.Apply(model.EventPreviewRequested); err != nil {
		return nil, err
	}

	// A batch renumbered by an earlier preview stays renumbered, so the
	// flag carries forward even though a regenerated preview no longer
	// finds collisions.
	batch := session.PendingBatch
	autoRenumbered := session.AutoRenumber
	if autoRenumber && s.renumber.ShouldRenumber(session.Existing, batch) {
		batch = s.renumber.Renumber(session.Existing, batch)
		autoRenumbered = true
	}

	conflicts := s.detector.Detect(session.Existing, batch)
	preview, err := s.merger.Preview(session.Existing, batch, conflicts, strategy, autoRenumbered)
	if err != nil {
		return nil, err
	}

	session.PendingBatch = batch
	session.Strategy = strategy
	session.AutoRenumber = autoRenumbered
	session.LastPreview = preview
	session.UpdatedAt = time.Now()
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}

	s.notify(session.BankID, EventPreviewCreated, preview)
	return preview, nil
}

// Commit consumes the stored preview and produces the final record set.
// The committed length must match the previewed final count; a mismatch
// means the inputs changed after preview and the commit is refused.
func (s *WorkflowService) Commit(ctx context.Context, sessionID string) ([]model.Question, *model.MergePreview, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if err := session.Apply(model.EventCommitRequested); err != nil {
		return nil, nil, err
	}
	preview := session.LastPreview
	if preview == nil {
		return nil, nil, model.ErrStalePreview
	}

	conflicts := s.detector.Detect(session.Existing, session.PendingBatch)
	final, err := s.merger.Commit(session.Existing, session.PendingBatch, conflicts, session.Strategy)
	if err != nil {
		return nil, nil, err
	}
	if len(final) != preview.FinalCount {
		return nil, nil, model.ErrStalePreview
	}

	session.Existing = final
	session.PendingBatch = nil
	session.UpdatedAt = time.Now()
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, nil, err
	}

	s.notify(session.BankID, EventMergeCommitted, map[string]interface{}{
		"sessionId":  session.ID,
		"finalCount": len(final),
		"strategy":   session.Strategy,
	})
	return final, preview, nil
}

// Reset returns a previewed or completed workflow to INITIAL, discarding
// the pending batch and preview but keeping the corpus snapshot
func (s *WorkflowService) Reset(ctx context.Context, sessionID string) (*model.WorkflowSession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Apply(model.EventReset); err != nil {
		return nil, err
	}

	session.PendingBatch = nil
	session.FileReports = nil
	session.BatchReport = nil
	session.LastPreview = nil
	session.Strategy = ""
	session.AutoRenumber = false
	session.UpdatedAt = time.Now()
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}

	s.notify(session.BankID, EventWorkflowReset, map[string]interface{}{"sessionId": session.ID})
	return session, nil
}

func (s *WorkflowService) notify(bankID, event string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToHost(bankID, event, payload)
	}
}

func reindex(issues []model.Issue, offset int) {
	for i := range issues {
		issues[i].Index += offset
	}
}
