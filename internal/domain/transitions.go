package domain

type Action string

const (
	ActionCall     Action = "call"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
	ActionSkip     Action = "skip"
)

var transitionMap = map[Action][]TicketStatus{
	ActionCall:     {StatusWaiting},
	ActionComplete: {StatusServing},
	ActionCancel:   {StatusWaiting, StatusCalled, StatusServing},
	ActionSkip:     {StatusWaiting, StatusCalled},
}

var transitionTarget = map[Action]TicketStatus{
	ActionCall:     StatusServing,
	ActionComplete: StatusCompleted,
	ActionCancel:   StatusCancelled,
	ActionSkip:     StatusNoShow,
}

// CanTransition reports whether action may be applied to a ticket in status from.
func CanTransition(action Action, from TicketStatus) bool {
	allowed, ok := transitionMap[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == from {
			return true
		}
	}
	return false
}

// Target returns the status a ticket ends up in after action.
func Target(action Action) (TicketStatus, bool) {
	s, ok := transitionTarget[action]
	return s, ok
}
