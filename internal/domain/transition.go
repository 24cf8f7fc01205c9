package domain

import "fmt"

// Action is a lifecycle operation applied to an existing booking
type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionCancel   Action = "cancel"
	ActionCheckIn  Action = "check_in"
	ActionComplete Action = "complete"
)

// AllActions lists every transition action
var AllActions = []Action{
	ActionApprove,
	ActionReject,
	ActionCancel,
	ActionCheckIn,
	ActionComplete,
}

// StaffActions are the actions staff may apply from the admin panel
var StaffActions = []Action{
	ActionApprove,
	ActionReject,
	ActionComplete,
}

type transition struct {
	from []BookingStatus
	to   BookingStatus
}

var transitions = map[Action]transition{
	ActionApprove:  {from: []BookingStatus{StatusPending}, to: StatusApproved},
	ActionReject:   {from: []BookingStatus{StatusPending, StatusApproved}, to: StatusRejected},
	ActionCancel:   {from: []BookingStatus{StatusPending, StatusApproved}, to: StatusCancelled},
	ActionCheckIn:  {from: []BookingStatus{StatusApproved}, to: StatusCheckedIn},
	ActionComplete: {from: []BookingStatus{StatusApproved, StatusCheckedIn}, to: StatusCompleted},
}

// IsValid reports whether a is a known action
func (a Action) IsValid() bool {
	_, ok := transitions[a]
	return ok
}

// IsStaffAction reports whether staff may apply a from the admin panel
func (a Action) IsStaffAction() bool {
	for _, sa := range StaffActions {
		if sa == a {
			return true
		}
	}
	return false
}

// FreesCapacity reports whether a successful action releases a unit of slot capacity
func (a Action) FreesCapacity() bool {
	return !transitions[a].to.IsActive()
}

// NextStatus returns the status reached by applying action to current.
// Any pair not present in the transition table yields ErrInvalidTransition.
func NextStatus(current BookingStatus, action Action) (BookingStatus, error) {
	t, ok := transitions[action]
	if !ok {
		return current, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}
	for _, from := range t.from {
		if from == current {
			return t.to, nil
		}
	}
	return current, fmt.Errorf("%w: cannot %s a booking in status %q", ErrInvalidTransition, action, current)
}
