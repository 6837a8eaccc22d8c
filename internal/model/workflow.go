package model

import "time"

// WorkflowState is one of the four stages governing which operations are
// currently legal
type WorkflowState string

const (
	StateInitial        WorkflowState = "INITIAL"
	StateFilesUploaded  WorkflowState = "FILES_UPLOADED"
	StatePreviewReady   WorkflowState = "PREVIEW_READY"
	StateMergeCompleted WorkflowState = "MERGE_COMPLETED"
)

// WorkflowEvent is a caller-supplied event driving the state machine
type WorkflowEvent string

const (
	EventFilesReceived    WorkflowEvent = "files_received"
	EventPreviewRequested WorkflowEvent = "preview_requested"
	EventCommitRequested  WorkflowEvent = "commit_requested"
	EventReset            WorkflowEvent = "reset"
)

// transitions defines every legal state change. Re-uploading files while a
// preview exists discards the stale preview and returns to FILES_UPLOADED.
var transitions = map[WorkflowState]map[WorkflowEvent]WorkflowState{
	StateInitial: {
		EventFilesReceived: StateFilesUploaded,
	},
	StateFilesUploaded: {
		EventFilesReceived:    StateFilesUploaded,
		EventPreviewRequested: StatePreviewReady,
	},
	StatePreviewReady: {
		EventFilesReceived:    StateFilesUploaded,
		EventPreviewRequested: StatePreviewReady,
		EventCommitRequested:  StateMergeCompleted,
		EventReset:            StateInitial,
	},
	StateMergeCompleted: {
		EventReset: StateInitial,
	},
}

// NextState returns the state reached by applying event in from, or an
// InvalidTransitionError if from does not define the event
func NextState(from WorkflowState, event WorkflowEvent) (WorkflowState, error) {
	if next, ok := transitions[from][event]; ok {
		return next, nil
	}
	return from, &InvalidTransitionError{From: from, Event: event}
}

// WorkflowSession is the explicit state owned by one merge workflow: the
// current state plus the minimum data needed to replay or reset the
// pipeline. One session exists per session key; the hosting layer
// serializes access.
type WorkflowSession struct {
	ID           string                 `json:"id"`
	BankID       string                 `json:"bankId"`
	HostID       string                 `json:"hostId"`
	State        WorkflowState          `json:"state"`
	Existing     []Question             `json:"existing"`
	PendingBatch []Question             `json:"pendingBatch"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	FileReports  []FileReport           `json:"fileReports,omitempty"`
	BatchReport  *ValidationReport      `json:"batchReport,omitempty"`
	LastPreview  *MergePreview          `json:"lastPreview,omitempty"`
	Strategy     MergeStrategy          `json:"strategy,omitempty"`
	AutoRenumber bool                   `json:"autoRenumber"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}

// Apply validates and performs a state transition on the session
func (s *WorkflowSession) Apply(event WorkflowEvent) error {
	next, err := NextState(s.State, event)
	if err != nil {
		return err
	}
	s.State = next
	return nil
}
