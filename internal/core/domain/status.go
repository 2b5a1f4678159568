package domain

// Status is the single lifecycle state shared by every category.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewing Status = "reviewing"
	StatusPublished Status = "published"
	StatusHandled   Status = "handled"
	StatusRejected  Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReviewing, StatusPublished, StatusHandled, StatusRejected:
		return true
	}
	return false
}

// IsTerminal is true for states with no outgoing transition.
func (s Status) IsTerminal() bool {
	return s == StatusHandled || s == StatusRejected
}
