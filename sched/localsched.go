package sched

import (
	"runtime"
	"sync"

	"taskos/abi"
	db "taskos/debug"
	"taskos/lerr"
)

// LocalSched runs tasks on goroutines within one address space. Task ids
// are monotonic and never reused; the live count is capped by MAX_TASKS.
type LocalSched struct {
	sync.Mutex
	next abi.Ttid
	live map[abi.Ttid]bool
	max  int
}

var _ Scheduler = (*LocalSched)(nil)

func NewLocalSched() *LocalSched {
	return &LocalSched{
		next: 1,
		live: make(map[abi.Ttid]bool),
		max:  abi.Conf.Task.MAX_TASKS,
	}
}

func (ls *LocalSched) Alloc() (abi.Ttid, *lerr.Err) {
	ls.Lock()
	defer ls.Unlock()

	if len(ls.live) >= ls.max {
		return 0, lerr.NewErr(lerr.TErrNomem, len(ls.live))
	}
	tid := ls.next
	ls.next += 1
	ls.live[tid] = true
	return tid, nil
}

func (ls *LocalSched) Spawn(tid abi.Ttid, stack abi.Tvaddr) {
	// The dispatcher owns the child's register state and control path;
	// nothing to install for a goroutine-backed task.
	db.DPrintf(db.SCHED, "Spawn %v stack %v", tid, stack)
}

func (ls *LocalSched) Exit(tid abi.Ttid) {
	ls.Lock()
	defer ls.Unlock()

	if !ls.live[tid] {
		db.DFatalf("Exit unknown task %v", tid)
	}
	delete(ls.live, tid)
	db.DPrintf(db.SCHED, "Exit %v nlive %d", tid, len(ls.live))
}

func (ls *LocalSched) Yield() {
	runtime.Gosched()
}

func (ls *LocalSched) NLive() int {
	ls.Lock()
	defer ls.Unlock()

	return len(ls.live)
}
