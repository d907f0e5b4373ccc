// Package supervisor implements OTP-style child supervision from spec
// §4.5: restart strategies (OneForOne, OneForAll, RestForOne), rate-
// limited restarts, and completion polling for the std profile.
// Grounded on original_source's actor/supervision.rs for the restart-
// rate-limiting state machine, corrected per spec §9 to implement real
// RestForOne semantics rather than the original's "OneForOne for now"
// shortcut, and on other_examples' kernel-threads-supervisor.go for the
// panic-recovery completion-polling shape.
package supervisor

import "fmt"

// ErrorKind enumerates the closed set of supervisor errors from spec §7.
type ErrorKind int

const (
	CapacityExceeded ErrorKind = iota
	ChildAlreadyExists
	ChildNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case CapacityExceeded:
		return "capacity_exceeded"
	case ChildAlreadyExists:
		return "child_already_exists"
	case ChildNotFound:
		return "child_not_found"
	default:
		return "unknown"
	}
}

// SupervisorError reports a failed AddChild call (ChildAlreadyExists or
// CapacityExceeded). No Supervisor method returns ChildNotFound;
// RemoveChild reports an unknown id by returning false.
type SupervisorError struct {
	Kind    ErrorKind
	ChildID string
}

func (e *SupervisorError) Error() string {
	return fmt.Sprintf("supervisor: %s: child %q", e.Kind, e.ChildID)
}
