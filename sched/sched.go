package sched

//
// Scheduler collaborator. The task layer creates and destroys task
// identities through it and otherwise leaves run-queue policy alone.
//

import (
	"taskos/abi"
	"taskos/lerr"
)

type Scheduler interface {
	// Alloc returns a fresh task identity. Identities are never reused.
	// Fails with TErrNomem when the scheduler is out of task slots.
	Alloc() (abi.Ttid, *lerr.Err)
	// Spawn makes tid runnable, starting at stack if nonzero.
	Spawn(tid abi.Ttid, stack abi.Tvaddr)
	// Exit releases the scheduler's resources for tid. The exit status
	// stays with the task layer until the task is reaped.
	Exit(tid abi.Ttid)
	// Yield gives up the processor.
	Yield()
}
