package proc

//
// TaskExt is the extension record this layer attaches to the scheduler's
// opaque task handle: Linux-visible identity, parent/children bookkeeping,
// the clear_child_tid word, descriptor and resource limits, and the
// architecture register shadow.
//

import (
	"fmt"
	"sync"

	"taskos/abi"
	"taskos/arch"
	"taskos/fdtable"
	"taskos/mem"
	"taskos/rlimit"
)

type TaskExt struct {
	mu sync.Mutex

	tid    abi.Ttid
	pid    abi.Tpid
	parent abi.Tpid

	// guarded by mu
	clearChildTid abi.Tvaddr
	exitSignal    int

	// aliased by tasks that share a descriptor table
	fdLimit *fdLimitCell

	// guarded by the Table lock
	children   map[abi.Tpid]bool
	state      Tstate
	exitStatus abi.Texitcode
	childExit  *sync.Cond // broadcast when a child of this task exits

	// handles shared or copied per clone flags
	um   *mem.UserMem
	fdt  fdtable.FdTable
	lim  *rlimit.Set
	sigs *SigActions
	regs arch.TPState // nil without an arch capability
}

// fdLimitCell holds a descriptor table's fd limit; threads sharing the
// table share the cell, a fork gets its own.
type fdLimitCell struct {
	sync.Mutex
	n int
}

func newTaskExt(tid abi.Ttid, pid, parent abi.Tpid) *TaskExt {
	return &TaskExt{
		tid:      tid,
		pid:      pid,
		parent:   parent,
		fdLimit:  &fdLimitCell{n: abi.Conf.Task.FD_LIMIT},
		children: make(map[abi.Tpid]bool),
		state:    StateRunnable,
	}
}

func (t *TaskExt) Tid() abi.Ttid {
	return t.tid
}

func (t *TaskExt) Pid() abi.Tpid {
	return t.pid
}

// IsLeader reports whether this task is its process's initial thread.
func (t *TaskExt) IsLeader() bool {
	return abi.Ttid(t.pid) == t.tid
}

func (t *TaskExt) Parent() abi.Tpid {
	return t.parent
}

func (t *TaskExt) ClearChildTid() abi.Tvaddr {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.clearChildTid
}

// SetClearChildTid is called by the owning thread (set_tid_address) or by
// its parent at clone time, before the thread first runs.
func (t *TaskExt) SetClearChildTid(va abi.Tvaddr) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.clearChildTid = va
}

func (t *TaskExt) FdLimit() int {
	t.fdLimit.Lock()
	defer t.fdLimit.Unlock()

	return t.fdLimit.n
}

func (t *TaskExt) SetFdLimit(n int) {
	t.fdLimit.Lock()
	defer t.fdLimit.Unlock()

	t.fdLimit.n = n
}

// ShareFdLimit aliases from's fd-limit cell, for a clone that shares the
// descriptor table. Called before t first runs.
func (t *TaskExt) ShareFdLimit(from *TaskExt) {
	t.fdLimit = from.fdLimit
}

func (t *TaskExt) ExitSignal() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.exitSignal
}

// SetExitSignal records the CSIGNAL byte the child's parent is signaled
// with at termination; delivery belongs to the signal layer.
func (t *TaskExt) SetExitSignal(sig int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.exitSignal = sig
}

func (t *TaskExt) Mem() *mem.UserMem {
	return t.um
}

func (t *TaskExt) FdTable() fdtable.FdTable {
	return t.fdt
}

func (t *TaskExt) Limits() *rlimit.Set {
	return t.lim
}

func (t *TaskExt) Sigs() *SigActions {
	return t.sigs
}

func (t *TaskExt) Regs() arch.TPState {
	return t.regs
}

func (t *TaskExt) SetRegs(r arch.TPState) {
	t.regs = r
}

func (t *TaskExt) String() string {
	return fmt.Sprintf("&{ tid:%v pid:%v parent:%v state:%v }", t.tid, t.pid, t.parent, t.state)
}
