package proc

import (
	"sync"

	"taskos/abi"
	db "taskos/debug"
	"taskos/fdtable"
	"taskos/mem"
	"taskos/rlimit"
)

//
// Table registers every live or zombie task's extension record. The table
// lock orders lifecycle transitions: a child's move to zombie and the
// broadcast to its waiting parent happen under it, so a waiter that
// re-checks after waking can't miss an exit.
//

type Table struct {
	sync.Mutex
	tasks map[abi.Ttid]*TaskExt
	// group-exit status per pid, set by the first exit_group
	group map[abi.Tpid]abi.Texitcode
}

func NewTable() *Table {
	return &Table{
		tasks: make(map[abi.Ttid]*TaskExt),
		group: make(map[abi.Tpid]abi.Texitcode),
	}
}

// NewTask registers the extension record for a freshly allocated tid.
// The caller installs the resource handles before the task first runs.
func (tt *Table) NewTask(tid abi.Ttid, pid, parent abi.Tpid) *TaskExt {
	tt.Lock()
	defer tt.Unlock()

	if _, ok := tt.tasks[tid]; ok {
		db.DFatalf("NewTask tid %v already registered", tid)
	}
	te := newTaskExt(tid, pid, parent)
	te.childExit = sync.NewCond(&tt.Mutex)
	tt.tasks[tid] = te
	return te
}

func (tt *Table) Lookup(tid abi.Ttid) (*TaskExt, bool) {
	tt.Lock()
	defer tt.Unlock()

	te, ok := tt.tasks[tid]
	return te, ok
}

func (tt *Table) State(t *TaskExt) Tstate {
	tt.Lock()
	defer tt.Unlock()

	return t.state
}

// Abort unregisters a task that failed mid-clone and never ran.
func (tt *Table) Abort(t *TaskExt) {
	tt.Lock()
	defer tt.Unlock()

	if t.state != StateRunnable {
		db.DFatalf("Abort %v in state %v", t, t.state)
	}
	delete(tt.tasks, t.tid)
}

// AddChild records cpid in parent's children before clone returns, so an
// immediately following wait4 can't observe NotExist.
func (tt *Table) AddChild(parent *TaskExt, cpid abi.Tpid) {
	tt.Lock()
	defer tt.Unlock()

	parent.children[cpid] = true
}

func (tt *Table) NChildren(parent *TaskExt) int {
	tt.Lock()
	defer tt.Unlock()

	return len(parent.children)
}

// LiveProcTasks returns the still-runnable tasks of pid other than self.
func (tt *Table) LiveProcTasks(pid abi.Tpid, self *TaskExt) []*TaskExt {
	tt.Lock()
	defer tt.Unlock()

	tes := make([]*TaskExt, 0)
	for _, te := range tt.tasks {
		if te.pid == pid && te != self && te.state == StateRunnable {
			tes = append(tes, te)
		}
	}
	return tes
}

// Claim moves t from runnable to dying and reports whether the caller now
// owns t's termination. The exit protocol (clear-tid zero, futex wake,
// Exit) must only run on the owning path, so a task racing its own exit
// against an exit_group sibling runs it exactly once.
func (tt *Table) Claim(t *TaskExt) bool {
	tt.Lock()
	defer tt.Unlock()

	if t.state != StateRunnable {
		return false
	}
	t.state = StateDying
	return true
}

// SetGroupStatus records the status an exit_group gave pid; the first one
// wins, and it overrides per-task statuses at reap time.
func (tt *Table) SetGroupStatus(pid abi.Tpid, status abi.Texitcode) {
	tt.Lock()
	defer tt.Unlock()

	if _, ok := tt.group[pid]; !ok {
		tt.group[pid] = status
	}
}

// Exit moves a claimed task to zombie and, if t's whole process is now
// zombie, wakes the waiters of every task in the parent process. Any of
// the parent's threads may be the one blocked in wait4.
func (tt *Table) Exit(t *TaskExt, status abi.Texitcode) {
	tt.Lock()
	defer tt.Unlock()

	if t.state != StateDying {
		db.DFatalf("Exit %v in state %v", t, t.state)
	}
	t.state = StateZombie
	t.exitStatus = status
	db.DPrintf(db.EXIT, "Exit %v status %v", t, status)
	if zombie, _ := tt.procStatusL(t.pid); zombie {
		for _, p := range tt.tasks {
			if p.pid == t.parent {
				p.childExit.Broadcast()
			}
		}
	}
}

// WaitChild implements the reap step of wait4: consume one matching zombie
// child, or report Running/NotExist. With nohang unset it sleeps on the
// parent's child-exit event and re-evaluates after each wakeup.
func (tt *Table) WaitChild(parent *TaskExt, pid abi.Tpid, nohang bool) WaitResult {
	tt.Lock()
	defer tt.Unlock()

	for {
		res := tt.reapL(parent, pid)
		switch res.Wait {
		case WaitZombie, WaitNotExist:
			return res
		case WaitRunning:
			if nohang {
				return res
			}
			parent.childExit.Wait()
		default:
			db.DFatalf("WaitChild %v bad wait status %v", parent, res.Wait)
		}
	}
}

// Caller must hold tt lock.
func (tt *Table) reapL(parent *TaskExt, pid abi.Tpid) WaitResult {
	var cands []abi.Tpid
	if pid > 0 {
		if !parent.children[pid] {
			return WaitResult{Wait: WaitNotExist}
		}
		cands = []abi.Tpid{pid}
	} else {
		if len(parent.children) == 0 {
			return WaitResult{Wait: WaitNotExist}
		}
		for cpid := range parent.children {
			cands = append(cands, cpid)
		}
	}
	for _, cpid := range cands {
		if zombie, status := tt.procStatusL(cpid); zombie {
			tt.removeProcL(cpid)
			delete(parent.children, cpid)
			db.DPrintf(db.WAIT, "reap %v status %v parent %v", cpid, status, parent)
			return WaitResult{Pid: cpid, Status: status, Wait: WaitZombie}
		}
	}
	return WaitResult{Wait: WaitRunning}
}

// Caller must hold tt lock. Reports whether every task of pid is a zombie
// and, if so, the process exit status (its initial thread's).
func (tt *Table) procStatusL(pid abi.Tpid) (bool, abi.Texitcode) {
	n := 0
	zombies := 0
	var status abi.Texitcode
	for _, te := range tt.tasks {
		if te.pid != pid {
			continue
		}
		n += 1
		switch te.state {
		case StateZombie:
			zombies += 1
			if te.IsLeader() {
				status = te.exitStatus
			}
		case StateRunnable, StateDying:
		default:
			db.DFatalf("procStatusL %v bad state %v", te, te.state)
		}
	}
	if n == 0 {
		db.DFatalf("procStatusL pid %v has no tasks", pid)
	}
	// an exit_group status overrides the leader's
	if gs, ok := tt.group[pid]; ok {
		status = gs
	}
	return n == zombies, status
}

// Caller must hold tt lock.
func (tt *Table) removeProcL(pid abi.Tpid) {
	for tid, te := range tt.tasks {
		if te.pid == pid {
			te.state = StateReaped
			delete(tt.tasks, tid)
		}
	}
	delete(tt.group, pid)
}

// SetHandles installs the resource handles a task runs with; threads of a
// process alias handles, forks get copies. Must run before the task does.
func (t *TaskExt) SetHandles(um *mem.UserMem, fdt fdtable.FdTable, lim *rlimit.Set, sigs *SigActions) {
	t.um = um
	t.fdt = fdt
	t.lim = lim
	t.sigs = sigs
}
