package entities

// ActionItem is a task extracted from the meeting. Owner, DueDate and
// Priority are nil when the source text does not state them.
type ActionItem struct {
	Description string  `json:"description"`
	Owner       *string `json:"owner"`
	DueDate     *string `json:"due_date"`
	Priority    *string `json:"priority"`
}

// Decision is a decision made during the meeting.
type Decision struct {
	Text  string  `json:"text"`
	Owner *string `json:"owner"`
}

// ActionItemPriority constants
const (
	ActionItemPriorityLow    = "low"
	ActionItemPriorityMedium = "medium"
	ActionItemPriorityHigh   = "high"
	ActionItemPriorityUrgent = "urgent"
)
