package futex

//
// Hook into the futex wait-queue collaborator. The task layer only needs
// the wake half: after a thread zeroes its clear_child_tid word at exit,
// joiners blocked on that word must be woken.
//

import (
	"taskos/abi"
)

type Waker interface {
	// Wake wakes up to n waiters blocked on the word at va; returns how
	// many were woken.
	Wake(va abi.Tvaddr, n int) int
}

// NullWaker is for configurations without a futex subsystem.
type NullWaker struct{}

func (NullWaker) Wake(va abi.Tvaddr, n int) int { return 0 }
