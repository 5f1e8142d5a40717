package pipeline

// State is a step of the per-message state machine.
type State int

const (
	Fetched State = iota
	Classified
	Drafted
	AwaitingDecision
	Sending
	// Terminal states.
	MarkedReadSkipped
	MarkedReadSent
	SkippedUnread
	Failed
	Undeliverable
)

var stateNames = [...]string{
	Fetched:           "Fetched",
	Classified:        "Classified",
	Drafted:           "Drafted",
	AwaitingDecision:  "AwaitingDecision",
	Sending:           "Sending",
	MarkedReadSkipped: "MarkedReadSkipped",
	MarkedReadSent:    "MarkedReadSent",
	SkippedUnread:     "SkippedUnread",
	Failed:            "Failed",
	Undeliverable:     "Undeliverable",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// Terminal reports whether s ends a pipeline pass.
func (s State) Terminal() bool {
	return s >= MarkedReadSkipped
}

// MarksRead reports whether reaching s clears the message's unread flag.
func (s State) MarksRead() bool {
	switch s {
	case MarkedReadSkipped, MarkedReadSent, Undeliverable:
		return true
	default:
		return false
	}
}
