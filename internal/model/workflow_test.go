package model

import (
	"errors"
	"strings"
	"testing"
)

func TestNextState(t *testing.T) {
	legal := []struct {
		from  WorkflowState
		event WorkflowEvent
		want  WorkflowState
	}{
		{StateInitial, EventFilesReceived, StateFilesUploaded},
		{StateFilesUploaded, EventFilesReceived, StateFilesUploaded},
		{StateFilesUploaded, EventPreviewRequested, StatePreviewReady},
		{StatePreviewReady, EventFilesReceived, StateFilesUploaded},
		{StatePreviewReady, EventPreviewRequested, StatePreviewReady},
		{StatePreviewReady, EventCommitRequested, StateMergeCompleted},
		{StatePreviewReady, EventReset, StateInitial},
		{StateMergeCompleted, EventReset, StateInitial},
	}
	for _, tt := range legal {
		got, err := NextState(tt.from, tt.event)
		if err != nil {
			t.Errorf("NextState(%s, %s): %v", tt.from, tt.event, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NextState(%s, %s) = %s, want %s", tt.from, tt.event, got, tt.want)
		}
	}

	illegal := []struct {
		from  WorkflowState
		event WorkflowEvent
	}{
		{StateInitial, EventPreviewRequested},
		{StateInitial, EventCommitRequested},
		{StateInitial, EventReset},
		{StateFilesUploaded, EventCommitRequested},
		{StateFilesUploaded, EventReset},
		{StateMergeCompleted, EventFilesReceived},
		{StateMergeCompleted, EventPreviewRequested},
		{StateMergeCompleted, EventCommitRequested},
	}
	for _, tt := range illegal {
		got, err := NextState(tt.from, tt.event)
		var transition *InvalidTransitionError
		if !errors.As(err, &transition) {
			t.Errorf("NextState(%s, %s) err = %v, want InvalidTransitionError", tt.from, tt.event, err)
			continue
		}
		if got != tt.from {
			t.Errorf("NextState(%s, %s) moved to %s on error", tt.from, tt.event, got)
		}
		if !strings.Contains(err.Error(), string(tt.from)) {
			t.Errorf("error %q does not name the state", err)
		}
	}
}

func TestSessionApply(t *testing.T) {
	s := &WorkflowSession{State: StateInitial}

	if err := s.Apply(EventCommitRequested); err == nil {
		t.Fatal("commit applied in INITIAL")
	}
	if s.State != StateInitial {
		t.Fatalf("state = %s after refused event, want INITIAL", s.State)
	}

	if err := s.Apply(EventFilesReceived); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s.State != StateFilesUploaded {
		t.Fatalf("state = %s, want FILES_UPLOADED", s.State)
	}
}
