package arch

//
// Per-architecture thread-pointer capability. Shared code never branches
// on the CPU architecture; a configuration either supplies a Provider or
// it doesn't, and without one the dispatcher has no arch_prctl entry.
//

// TPState is one task's thread-pointer register shadow. It is installed
// into the hardware registers when the task is switched in.
type TPState interface {
	SetFsBase(v uint64)
	FsBase() uint64
	SetGsBase(v uint64)
	GsBase() uint64
}

type Provider interface {
	// NewTPState returns a fresh register shadow for a new task.
	NewTPState() TPState
}
