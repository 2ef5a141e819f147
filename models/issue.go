package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueCategory enum
type IssueCategory string

const (
	Electricity IssueCategory = "Electricity"
	Water       IssueCategory = "Water"
	Road        IssueCategory = "Road"
	Waste       IssueCategory = "Waste"
)

// IssueStatus enum
type IssueStatus string

const (
	Pending    IssueStatus = "Pending"
	InProgress IssueStatus = "In-progress"
	Working    IssueStatus = "Working"
	Resolved   IssueStatus = "Resolved"
	Closed     IssueStatus = "Closed"
	Rejected   IssueStatus = "Rejected"
)

// statusFlow is the legal forward path for staff status changes, one step
// at a time. Rejected is reachable only through the admin reject action.
var statusFlow = map[IssueStatus]IssueStatus{
	Pending:    InProgress,
	InProgress: Working,
	Working:    Resolved,
	Resolved:   Closed,
}

var (
	ErrSelfUpvote       = errors.New("cannot upvote your own issue")
	ErrAlreadyUpvoted   = errors.New("already upvoted this issue")
	ErrNotIssueOwner    = errors.New("not the owner of this issue")
	ErrIssueNotPending  = errors.New("issue is no longer pending")
	ErrNotAssignedStaff = errors.New("issue is not assigned to you")
	ErrAlreadyBoosted   = errors.New("issue is already boosted")
)

// Issue represents a civic issue reported by a citizen
type Issue struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title              string             `bson:"title" json:"title"`
	Description        string             `bson:"description" json:"description"`
	Category           IssueCategory      `bson:"category" json:"category"`
	Location           string             `bson:"location" json:"location"`
	Image              string             `bson:"image,omitempty" json:"image,omitempty"`
	IssueBy            string             `bson:"issueBy" json:"issueBy"`
	Status             IssueStatus        `bson:"status" json:"status"`
	IsBoosted          bool               `bson:"isBoosted" json:"isBoosted"`
	AssignedStaff      string             `bson:"assignedStaff" json:"assignedStaff"`
	AssignedStaffEmail string             `bson:"assignedStaffEmail" json:"assignedStaffEmail"`
	UpVotes            int                `bson:"upVotes" json:"upVotes"`
	UpVotedBy          []string           `bson:"upVotedBy" json:"upVotedBy"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NextStatus returns the single legal successor of s, if any
func NextStatus(s IssueStatus) (IssueStatus, bool) {
	next, ok := statusFlow[s]
	return next, ok
}

// IsTerminal reports whether no further staff transition exists for s
func IsTerminal(s IssueStatus) bool {
	_, ok := statusFlow[s]
	return !ok
}

// CanUpvoteBy checks the upvote guards in order: owner first, then the
// already-voted set. Blocked/unauthenticated callers are refused before
// this is reached.
func (i *Issue) CanUpvoteBy(email string) error {
	if i.IssueBy == email {
		return ErrSelfUpvote
	}
	for _, voter := range i.UpVotedBy {
		if voter == email {
			return ErrAlreadyUpvoted
		}
	}
	return nil
}

// CanEditBy allows edits only by the owner and only while the issue is
// still pending
func (i *Issue) CanEditBy(email string) error {
	if i.IssueBy != email {
		return ErrNotIssueOwner
	}
	if i.Status != Pending {
		return ErrIssueNotPending
	}
	return nil
}

// CanAdvanceBy allows status advancement only by the assigned staff member
func (i *Issue) CanAdvanceBy(email string) error {
	if i.AssignedStaffEmail != email {
		return ErrNotAssignedStaff
	}
	return nil
}

// CanBoost refuses boosting an already-boosted issue; the flag is one-way
func (i *Issue) CanBoost() error {
	if i.IsBoosted {
		return ErrAlreadyBoosted
	}
	return nil
}

// CanDeleteBy allows deletion by the owner in any status
func (i *Issue) CanDeleteBy(email string) error {
	if i.IssueBy != email {
		return ErrNotIssueOwner
	}
	return nil
}

// ValidCategory reports whether s is one of the reportable categories
func ValidCategory(s string) bool {
	switch IssueCategory(s) {
	case Electricity, Water, Road, Waste:
		return true
	}
	return false
}
