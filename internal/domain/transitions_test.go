package domain

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		action Action
		from   TicketStatus
		valid  bool
	}{
		{ActionCall, StatusWaiting, true},
		{ActionCall, StatusCalled, false},
		{ActionCall, StatusServing, false},
		{ActionComplete, StatusServing, true},
		{ActionComplete, StatusWaiting, false},
		{ActionComplete, StatusCompleted, false},
		{ActionCancel, StatusWaiting, true},
		{ActionCancel, StatusCalled, true},
		{ActionCancel, StatusServing, true},
		{ActionCancel, StatusCompleted, false},
		{ActionCancel, StatusCancelled, false},
		{ActionCancel, StatusNoShow, false},
		{ActionSkip, StatusWaiting, true},
		{ActionSkip, StatusCalled, true},
		{ActionSkip, StatusServing, false},
		{ActionSkip, StatusCompleted, false},
		{"unknown", StatusWaiting, false},
	}

	for _, tt := range cases {
		if got := CanTransition(tt.action, tt.from); got != tt.valid {
			t.Fatalf("CanTransition(%q, %q)=%v, want %v", tt.action, tt.from, got, tt.valid)
		}
	}
}

func TestTargetIsTerminalOrServing(t *testing.T) {
	for action := range transitionMap {
		to, ok := Target(action)
		if !ok {
			t.Fatalf("no target for %q", action)
		}
		if action == ActionCall {
			if to != StatusServing {
				t.Fatalf("call target=%q, want serving", to)
			}
			continue
		}
		if !to.Terminal() {
			t.Fatalf("target of %q is %q, want terminal", action, to)
		}
	}
}

func TestStoreAcceptingTickets(t *testing.T) {
	cases := []struct {
		open, active, want bool
	}{
		{true, true, true},
		{false, true, false},
		{true, false, false},
		{false, false, false},
	}
	for _, tt := range cases {
		s := Store{IsOpen: tt.open, IsActive: tt.active}
		if got := s.AcceptingTickets(); got != tt.want {
			t.Fatalf("open=%v active=%v: got %v, want %v", tt.open, tt.active, got, tt.want)
		}
	}
}
