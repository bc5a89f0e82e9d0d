package pilot

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvent(t *testing.T) *FeedbackEvent {
	t.Helper()
	ev, err := NewFeedbackEvent(uuid.New(), uuid.New(), "Medication", SeverityMajor, "MAR chart loses scroll position")
	require.NoError(t, err)
	return ev
}

func TestNewFeedbackEvent(t *testing.T) {
	ev := newEvent(t)
	assert.Equal(t, TriageNew, ev.Status)
	assert.Equal(t, "medication", ev.Module, "module is lowercased")
	assert.True(t, ev.Open())
}

func TestNewFeedbackEvent_Validation(t *testing.T) {
	tenantID, by := uuid.New(), uuid.New()

	_, err := NewFeedbackEvent(tenantID, by, "", SeverityMinor, "msg")
	assert.Error(t, err, "empty module")

	_, err = NewFeedbackEvent(tenantID, by, "payroll", Severity("urgent"), "msg")
	assert.Error(t, err, "unknown severity")

	_, err = NewFeedbackEvent(tenantID, by, "payroll", SeverityMinor, "  ")
	assert.Error(t, err, "empty message")
}

func TestFeedbackEvent_TriageWorkflow(t *testing.T) {
	ev := newEvent(t)
	reviewer := uuid.New()

	// cannot action before review
	assert.Error(t, ev.MarkActioned(reviewer, ""))

	require.NoError(t, ev.MarkReviewed(reviewer, "reproduced on staging"))
	assert.Equal(t, TriageReviewed, ev.Status)
	assert.Error(t, ev.MarkReviewed(reviewer, "twice"))

	require.NoError(t, ev.MarkActioned(reviewer, "fixed in sprint 14"))
	assert.Equal(t, TriageActioned, ev.Status)
	assert.False(t, ev.Open())

	// closed events are terminal
	assert.Error(t, ev.Dismiss(reviewer, "no"))
}

func TestFeedbackEvent_Dismiss(t *testing.T) {
	ev := newEvent(t)
	reviewer := uuid.New()

	assert.Error(t, ev.Dismiss(reviewer, ""), "note required")
	require.NoError(t, ev.Dismiss(reviewer, "duplicate of earlier report"))
	assert.Equal(t, TriageDismissed, ev.Status)
	assert.False(t, ev.Open())
	assert.NotNil(t, ev.TriagedAt)
}
