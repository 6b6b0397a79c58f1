package models

// MatchStatus is the status of a match request
type MatchStatus string

const (
	StatusPending   MatchStatus = "pending"
	StatusAccepted  MatchStatus = "accepted"
	StatusRejected  MatchStatus = "rejected"
	StatusCancelled MatchStatus = "cancelled"
)

// IsTerminal returns true if the status accepts no further transitions
func (s MatchStatus) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusCancelled
}

// CanTransitionTo checks whether actor may move a request from s to next.
// Mentors accept or reject, mentees cancel; only pending requests move.
func (s MatchStatus) CanTransitionTo(next MatchStatus, actor Role) bool {
	if s != StatusPending {
		return false
	}

	switch next {
	case StatusAccepted, StatusRejected:
		return actor == RoleMentor
	case StatusCancelled:
		return actor == RoleMentee
	default:
		return false
	}
}

// MatchRequest is a mentee's proposal to be mentored by a specific mentor
type MatchRequest struct {
	ID       int64       `json:"id" validate:"gt=0"`
	MentorID int64       `json:"mentorId" validate:"gt=0"`
	MenteeID int64       `json:"menteeId" validate:"gt=0"`
	Message  string      `json:"message"`
	Status   MatchStatus `json:"status" validate:"oneof=pending accepted rejected cancelled"`
}

// MatchRequestCreate is the payload of POST /match-requests
type MatchRequestCreate struct {
	MentorID int64  `json:"mentorId" validate:"gt=0"`
	Message  string `json:"message" validate:"required,notblank,max=1000"`
}
