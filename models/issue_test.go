package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextStatusFollowsFlow(t *testing.T) {
	cases := []struct {
		current IssueStatus
		next    IssueStatus
	}{
		{Pending, InProgress},
		{InProgress, Working},
		{Working, Resolved},
		{Resolved, Closed},
	}

	for _, tc := range cases {
		next, ok := NextStatus(tc.current)
		assert.True(t, ok, "expected a successor for %s", tc.current)
		assert.Equal(t, tc.next, next)
	}
}

func TestTerminalStatusesHaveNoSuccessor(t *testing.T) {
	for _, status := range []IssueStatus{Closed, Rejected} {
		_, ok := NextStatus(status)
		assert.False(t, ok, "%s must not offer a transition", status)
		assert.True(t, IsTerminal(status))
	}

	// Rejected is terminal but never part of the staff flow
	for from := range statusFlow {
		next, _ := NextStatus(from)
		assert.NotEqual(t, Rejected, next)
	}
}

func TestNoSkippingTransitions(t *testing.T) {
	// Pending's only successor is In-progress: Resolved can never be
	// offered directly
	next, ok := NextStatus(Pending)
	assert.True(t, ok)
	assert.NotEqual(t, Resolved, next)
	assert.Equal(t, InProgress, next)
}

func TestCanUpvoteBy(t *testing.T) {
	issue := &Issue{
		IssueBy:   "owner@example.com",
		UpVotedBy: []string{"voted@example.com"},
	}

	assert.ErrorIs(t, issue.CanUpvoteBy("owner@example.com"), ErrSelfUpvote)
	assert.ErrorIs(t, issue.CanUpvoteBy("voted@example.com"), ErrAlreadyUpvoted)
	assert.NoError(t, issue.CanUpvoteBy("fresh@example.com"))
}

func TestCanEditBy(t *testing.T) {
	issue := &Issue{IssueBy: "owner@example.com", Status: Pending}

	assert.NoError(t, issue.CanEditBy("owner@example.com"))
	assert.ErrorIs(t, issue.CanEditBy("other@example.com"), ErrNotIssueOwner)

	issue.Status = InProgress
	assert.ErrorIs(t, issue.CanEditBy("owner@example.com"), ErrIssueNotPending)
}

func TestCanAdvanceBy(t *testing.T) {
	issue := &Issue{
		Status:             InProgress,
		AssignedStaff:      "Assigned Staff",
		AssignedStaffEmail: "assigned@example.com",
	}

	assert.NoError(t, issue.CanAdvanceBy("assigned@example.com"))
	assert.ErrorIs(t, issue.CanAdvanceBy("other-staff@example.com"), ErrNotAssignedStaff)

	// unassigned issues match no staff email
	unassigned := &Issue{Status: Pending}
	assert.ErrorIs(t, unassigned.CanAdvanceBy("assigned@example.com"), ErrNotAssignedStaff)
}

func TestCanBoost(t *testing.T) {
	issue := &Issue{Status: Pending}
	assert.NoError(t, issue.CanBoost())

	issue.IsBoosted = true
	assert.ErrorIs(t, issue.CanBoost(), ErrAlreadyBoosted)
}

func TestCanDeleteBy(t *testing.T) {
	issue := &Issue{IssueBy: "owner@example.com", Status: Closed}

	// owner may delete in any status
	assert.NoError(t, issue.CanDeleteBy("owner@example.com"))
	assert.ErrorIs(t, issue.CanDeleteBy("other@example.com"), ErrNotIssueOwner)
}

func TestValidCategory(t *testing.T) {
	for _, category := range []string{"Electricity", "Water", "Road", "Waste"} {
		assert.True(t, ValidCategory(category))
	}
	assert.False(t, ValidCategory("Sanitation"))
	assert.False(t, ValidCategory(""))
}
